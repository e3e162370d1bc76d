package testutil

import (
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/propertyease/propertyease/internal/infrastructure/database"
	"github.com/propertyease/propertyease/internal/infrastructure/database/models"
	"github.com/shopspring/decimal"
)

// TestDB wraps the database for testing
type TestDB struct {
	*database.DB
}

// NewTestDB creates a new test database connection
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	// Use DATABASE_URL_TEST if available (for Docker), otherwise SQLite
	databaseURL := os.Getenv("DATABASE_URL_TEST")
	if databaseURL == "" {
		// A named in-memory database per test keeps rows from leaking between tests
		databaseURL = fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
		t.Logf("Using SQLite in-memory database for testing")
	} else {
		t.Logf("Using PostgreSQL database for testing: %s", databaseURL)
	}

	db, err := database.New(databaseURL)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	// Auto-migrate all models
	if err := db.AutoMigrate(models.GetAllModels()...); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return &TestDB{DB: db}
}

// Cleanup closes the test database
func (db *TestDB) Cleanup(t *testing.T) {
	t.Helper()
	if err := db.Close(); err != nil {
		t.Errorf("Failed to close test database: %v", err)
	}
}

// CreateTestUser creates a test user with the given role
func (db *TestDB) CreateTestUser(t *testing.T, role models.UserRole, createdAt time.Time) *models.User {
	t.Helper()

	user := &models.User{
		Email:     fmt.Sprintf("test-%s@example.com", uuid.NewString()[:8]),
		FirstName: "Test",
		LastName:  "User",
		Role:      role,
		IsActive:  true,
		CreatedAt: createdAt,
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return user
}

// CreateTestProperty creates a test property for owner
func (db *TestDB) CreateTestProperty(t *testing.T, owner *models.User, city string, createdAt time.Time) *models.Property {
	t.Helper()

	property := &models.Property{
		OwnerID:     owner.ID,
		Name:        fmt.Sprintf("Test Property %s", uuid.NewString()[:8]),
		City:        city,
		Province:    "Metro Manila",
		Status:      models.PropertyActive,
		TotalUnits:  1,
		MonthlyRent: decimal.NewFromInt(15000),
		CreatedAt:   createdAt,
	}

	if err := db.Create(property).Error; err != nil {
		t.Fatalf("Failed to create test property: %v", err)
	}

	return property
}

// CreateTestTenancy creates an active tenancy of tenant on property
func (db *TestDB) CreateTestTenancy(t *testing.T, property *models.Property, tenant *models.User, createdAt time.Time) *models.Tenancy {
	t.Helper()

	tenancy := &models.Tenancy{
		PropertyID: property.ID,
		TenantID:   tenant.ID,
		UnitNumber: "1A",
		Status:     models.TenancyActive,
		CreatedAt:  createdAt,
	}

	if err := db.Create(tenancy).Error; err != nil {
		t.Fatalf("Failed to create test tenancy: %v", err)
	}

	return tenancy
}

// CreateTestPayment creates a payment against tenancy
func (db *TestDB) CreateTestPayment(t *testing.T, tenancy *models.Tenancy, amount int64, status models.PaymentStatus, createdAt time.Time) *models.Payment {
	t.Helper()

	payment := &models.Payment{
		TenancyID:  tenancy.ID,
		PropertyID: tenancy.PropertyID,
		Amount:     decimal.NewFromInt(amount),
		Method:     "bank_transfer",
		Type:       "rent",
		Status:     status,
		CreatedAt:  createdAt,
	}

	if err := db.Create(payment).Error; err != nil {
		t.Fatalf("Failed to create test payment: %v", err)
	}

	return payment
}

// CreateTestMaintenanceRequest creates a maintenance ticket on property
func (db *TestDB) CreateTestMaintenanceRequest(t *testing.T, property *models.Property, status models.MaintenanceStatus, createdAt time.Time) *models.MaintenanceRequest {
	t.Helper()

	request := &models.MaintenanceRequest{
		PropertyID:    property.ID,
		Title:         "Leaking faucet",
		Priority:      "medium",
		Status:        status,
		EstimatedCost: decimal.NullDecimal{Decimal: decimal.NewFromInt(500), Valid: true},
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
	}

	if err := db.Create(request).Error; err != nil {
		t.Fatalf("Failed to create test maintenance request: %v", err)
	}

	return request
}
