package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Custom Types
type UserRole string
type PropertyStatus string
type TenancyStatus string
type PaymentStatus string
type MaintenanceStatus string

const (
	// User Roles
	UserRoleOwner  UserRole = "owner"
	UserRoleTenant UserRole = "tenant"
	UserRoleAdmin  UserRole = "admin"

	// Property Status
	PropertyActive      PropertyStatus = "active"
	PropertyMaintenance PropertyStatus = "maintenance"
	PropertyInactive    PropertyStatus = "inactive"

	// Tenancy Status
	TenancyActive     TenancyStatus = "active"
	TenancyPending    TenancyStatus = "pending"
	TenancyTerminated TenancyStatus = "terminated"

	// Payment Status
	PaymentPaid    PaymentStatus = "paid"
	PaymentPending PaymentStatus = "pending"
	PaymentFailed  PaymentStatus = "failed"

	// Maintenance Status
	MaintenancePending    MaintenanceStatus = "pending"
	MaintenanceInProgress MaintenanceStatus = "in_progress"
	MaintenanceCompleted  MaintenanceStatus = "completed"
	MaintenanceCancelled  MaintenanceStatus = "cancelled"
)

func (r UserRole) Valid() bool {
	switch r {
	case UserRoleOwner, UserRoleTenant, UserRoleAdmin:
		return true
	}
	return false
}

func (s PropertyStatus) Valid() bool {
	switch s {
	case PropertyActive, PropertyMaintenance, PropertyInactive:
		return true
	}
	return false
}

func (s TenancyStatus) Valid() bool {
	switch s {
	case TenancyActive, TenancyPending, TenancyTerminated:
		return true
	}
	return false
}

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPaid, PaymentPending, PaymentFailed:
		return true
	}
	return false
}

func (s MaintenanceStatus) Valid() bool {
	switch s {
	case MaintenancePending, MaintenanceInProgress, MaintenanceCompleted, MaintenanceCancelled:
		return true
	}
	return false
}

// Base carries the primary key shared by every table. IDs are generated
// client-side so the same models migrate on PostgreSQL and SQLite.
type Base struct {
	ID uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
}

func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

type User struct {
	Base
	Email     string   `json:"email" gorm:"type:varchar(320);not null;uniqueIndex"`
	FirstName string   `json:"first_name" gorm:"type:varchar(100)"`
	LastName  string   `json:"last_name" gorm:"type:varchar(100)"`
	Phone     string   `json:"phone" gorm:"type:varchar(32)"`
	Role      UserRole `json:"role" gorm:"type:varchar(20);not null;index"`
	IsActive  bool     `json:"is_active" gorm:"not null"`

	CreatedAt time.Time `json:"created_at" gorm:"not null;index"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null"`
}

type Property struct {
	Base
	OwnerID     uuid.UUID       `json:"owner_id" gorm:"type:uuid;not null;index"`
	Name        string          `json:"name" gorm:"type:varchar(255);not null"`
	Address     string          `json:"address" gorm:"type:varchar(500)"`
	City        string          `json:"city" gorm:"type:varchar(120);index"`
	Province    string          `json:"province" gorm:"type:varchar(120)"`
	Status      PropertyStatus  `json:"status" gorm:"type:varchar(20);not null;index"`
	TotalUnits  int             `json:"total_units" gorm:"not null;default:1"`
	MonthlyRent decimal.Decimal `json:"monthly_rent" gorm:"type:numeric(12,2);not null"`

	CreatedAt time.Time `json:"created_at" gorm:"not null;index"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null"`
}

type Tenancy struct {
	Base
	PropertyID uuid.UUID     `json:"property_id" gorm:"type:uuid;not null;index"`
	TenantID   uuid.UUID     `json:"tenant_id" gorm:"type:uuid;not null;index"`
	UnitNumber string        `json:"unit_number" gorm:"type:varchar(50)"`
	Status     TenancyStatus `json:"status" gorm:"type:varchar(20);not null;index"`
	LeaseStart *time.Time    `json:"lease_start"`
	LeaseEnd   *time.Time    `json:"lease_end"`

	CreatedAt time.Time `json:"created_at" gorm:"not null;index"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null"`
}

// Payment rows carry the property they were collected for; the aggregated
// analytics view does not use it for attribution (see geography calculator).
type Payment struct {
	Base
	TenancyID  uuid.UUID       `json:"tenancy_id" gorm:"type:uuid;not null;index"`
	PropertyID uuid.UUID       `json:"property_id" gorm:"type:uuid;not null;index"`
	Amount     decimal.Decimal `json:"amount" gorm:"type:numeric(12,2);not null"`
	Method     string          `json:"method" gorm:"type:varchar(50)"`
	Type       string          `json:"type" gorm:"type:varchar(50)"`
	Status     PaymentStatus   `json:"status" gorm:"type:varchar(20);not null;index"`
	DueDate    *time.Time      `json:"due_date"`
	PaidAt     *time.Time      `json:"paid_at"`

	CreatedAt time.Time `json:"created_at" gorm:"not null;index"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null"`
}

type MaintenanceRequest struct {
	Base
	PropertyID    uuid.UUID           `json:"property_id" gorm:"type:uuid;not null;index"`
	TenantID      *uuid.UUID          `json:"tenant_id" gorm:"type:uuid;index"`
	Title         string              `json:"title" gorm:"type:varchar(255);not null"`
	Priority      string              `json:"priority" gorm:"type:varchar(20)"`
	Status        MaintenanceStatus   `json:"status" gorm:"type:varchar(20);not null;index"`
	EstimatedCost decimal.NullDecimal `json:"estimated_cost" gorm:"type:numeric(12,2)"`
	ActualCost    decimal.NullDecimal `json:"actual_cost" gorm:"type:numeric(12,2)"`

	CreatedAt time.Time `json:"created_at" gorm:"not null;index"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null"`
}

// TableName overrides the pluralised default so both data sources read the
// same table name.
func (MaintenanceRequest) TableName() string {
	return "maintenance_requests"
}

// GetAllModels returns every model for auto-migration
func GetAllModels() []interface{} {
	return []interface{}{
		&User{},
		&Property{},
		&Tenancy{},
		&Payment{},
		&MaintenanceRequest{},
	}
}
