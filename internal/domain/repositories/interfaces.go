package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/propertyease/propertyease/internal/infrastructure/database/models"
)

var ErrNotFound = errors.New("record not found")

// Core repository interfaces for clean architecture

type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// AnalyticsSource reads the raw rows the analytics engine aggregates. Each
// call returns a full, unpaginated collection for the given scope.
type AnalyticsSource interface {
	ListUsers(ctx context.Context, scope Scope) ([]models.User, error)
	ListProperties(ctx context.Context, scope Scope) ([]models.Property, error)
	ListTenancies(ctx context.Context, scope Scope) ([]models.Tenancy, error)
	ListPayments(ctx context.Context, scope Scope) ([]models.Payment, error)
	ListMaintenanceRequests(ctx context.Context, scope Scope) ([]models.MaintenanceRequest, error)
}

// Supporting types for repository operations

// Scope narrows analytics reads. The zero value covers the whole system.
//
// With OwnerID set, reads cover the owner's properties, the tenancies,
// payments and maintenance requests on them, and the owner together with
// the tenants holding those tenancies.
type Scope struct {
	OwnerID *uuid.UUID `json:"owner_id,omitempty"`
}

// SystemScope is the unrestricted admin scope.
func SystemScope() Scope {
	return Scope{}
}

// OwnerScope limits reads to one owner's portfolio.
func OwnerScope(ownerID uuid.UUID) Scope {
	return Scope{OwnerID: &ownerID}
}

// IsSystem reports whether the scope is unrestricted.
func (s Scope) IsSystem() bool {
	return s.OwnerID == nil
}

// Key identifies the scope in cache keys and logs.
func (s Scope) Key() string {
	if s.IsSystem() {
		return "system"
	}
	return "owner:" + s.OwnerID.String()
}
