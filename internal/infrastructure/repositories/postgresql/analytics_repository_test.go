package postgresql

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/propertyease/propertyease/internal/domain/repositories"
	"github.com/propertyease/propertyease/internal/infrastructure/database/models"
	"github.com/propertyease/propertyease/internal/infrastructure/repositories/postgresql/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type portfolio struct {
	owner      *models.User
	otherOwner *models.User
	tenant     *models.User
	stranger   *models.User
	admin      *models.User
	owned      []*models.Property
	other      *models.Property
}

// seedPortfolio creates two owners; only the first one's rows should show up
// in its scope.
func seedPortfolio(t *testing.T, db *testutil.TestDB) portfolio {
	t.Helper()

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	p := portfolio{
		owner:      db.CreateTestUser(t, models.UserRoleOwner, base),
		otherOwner: db.CreateTestUser(t, models.UserRoleOwner, base.Add(time.Hour)),
		tenant:     db.CreateTestUser(t, models.UserRoleTenant, base.Add(2*time.Hour)),
		stranger:   db.CreateTestUser(t, models.UserRoleTenant, base.Add(3*time.Hour)),
		admin:      db.CreateTestUser(t, models.UserRoleAdmin, base.Add(4*time.Hour)),
	}

	p.owned = []*models.Property{
		db.CreateTestProperty(t, p.owner, "Makati", base.Add(5*time.Hour)),
		db.CreateTestProperty(t, p.owner, "Pasig", base.Add(6*time.Hour)),
	}
	p.other = db.CreateTestProperty(t, p.otherOwner, "Cebu", base.Add(7*time.Hour))

	ownedTenancy := db.CreateTestTenancy(t, p.owned[0], p.tenant, base.Add(8*time.Hour))
	otherTenancy := db.CreateTestTenancy(t, p.other, p.stranger, base.Add(9*time.Hour))

	db.CreateTestPayment(t, ownedTenancy, 15000, models.PaymentPaid, base.Add(10*time.Hour))
	db.CreateTestPayment(t, ownedTenancy, 15000, models.PaymentPending, base.Add(11*time.Hour))
	db.CreateTestPayment(t, otherTenancy, 9000, models.PaymentPaid, base.Add(12*time.Hour))

	db.CreateTestMaintenanceRequest(t, p.owned[1], models.MaintenancePending, base.Add(13*time.Hour))
	db.CreateTestMaintenanceRequest(t, p.other, models.MaintenanceCompleted, base.Add(14*time.Hour))

	return p
}

func userIDs(users []models.User) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	return ids
}

func TestAnalyticsRepository_SystemScope(t *testing.T) {
	db := testutil.NewTestDB(t)
	defer db.Cleanup(t)

	p := seedPortfolio(t, db)
	repo := NewAnalyticsRepository(db.DB)
	ctx := context.Background()
	scope := repositories.SystemScope()

	users, err := repo.ListUsers(ctx, scope)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{p.owner.ID, p.otherOwner.ID, p.tenant.ID, p.stranger.ID, p.admin.ID}, userIDs(users))

	properties, err := repo.ListProperties(ctx, scope)
	require.NoError(t, err)
	require.Len(t, properties, 3)
	assert.Equal(t, "Makati", properties[0].City)
	assert.True(t, properties[0].MonthlyRent.Equal(p.owned[0].MonthlyRent))

	tenancies, err := repo.ListTenancies(ctx, scope)
	require.NoError(t, err)
	assert.Len(t, tenancies, 2)

	payments, err := repo.ListPayments(ctx, scope)
	require.NoError(t, err)
	require.Len(t, payments, 3)
	assert.Equal(t, "15000", payments[0].Amount.String())
	assert.Equal(t, models.PaymentPaid, payments[0].Status)

	requests, err := repo.ListMaintenanceRequests(ctx, scope)
	require.NoError(t, err)
	require.Len(t, requests, 2)
	assert.True(t, requests[0].EstimatedCost.Valid)
	assert.False(t, requests[0].ActualCost.Valid)
}

func TestAnalyticsRepository_OwnerScope(t *testing.T) {
	db := testutil.NewTestDB(t)
	defer db.Cleanup(t)

	p := seedPortfolio(t, db)
	repo := NewAnalyticsRepository(db.DB)
	ctx := context.Background()
	scope := repositories.OwnerScope(p.owner.ID)

	users, err := repo.ListUsers(ctx, scope)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{p.owner.ID, p.tenant.ID}, userIDs(users))

	properties, err := repo.ListProperties(ctx, scope)
	require.NoError(t, err)
	require.Len(t, properties, 2)
	for _, property := range properties {
		assert.Equal(t, p.owner.ID, property.OwnerID)
	}

	tenancies, err := repo.ListTenancies(ctx, scope)
	require.NoError(t, err)
	require.Len(t, tenancies, 1)
	assert.Equal(t, p.tenant.ID, tenancies[0].TenantID)

	payments, err := repo.ListPayments(ctx, scope)
	require.NoError(t, err)
	assert.Len(t, payments, 2)

	requests, err := repo.ListMaintenanceRequests(ctx, scope)
	require.NoError(t, err)
	require.Len(t, requests, 1)
	assert.Equal(t, p.owned[1].ID, requests[0].PropertyID)
}

func TestAnalyticsRepository_UnknownOwner(t *testing.T) {
	db := testutil.NewTestDB(t)
	defer db.Cleanup(t)

	seedPortfolio(t, db)
	repo := NewAnalyticsRepository(db.DB)
	ctx := context.Background()
	scope := repositories.OwnerScope(uuid.New())

	users, err := repo.ListUsers(ctx, scope)
	require.NoError(t, err)
	assert.Empty(t, users)

	payments, err := repo.ListPayments(ctx, scope)
	require.NoError(t, err)
	assert.Empty(t, payments)
}
