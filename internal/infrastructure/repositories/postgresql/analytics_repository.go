package postgresql

import (
	"context"
	"fmt"

	"github.com/propertyease/propertyease/internal/domain/repositories"
	"github.com/propertyease/propertyease/internal/infrastructure/database"
	"github.com/propertyease/propertyease/internal/infrastructure/database/models"
	"gorm.io/gorm"
)

// AnalyticsRepository reads analytics snapshots straight from the relational
// store. Rows come back in creation order so aggregation is repeatable.
type AnalyticsRepository struct {
	db *database.DB
}

func NewAnalyticsRepository(db *database.DB) repositories.AnalyticsSource {
	return &AnalyticsRepository{db: db}
}

const creationOrder = "created_at ASC, id ASC"

// ownedProperties is a subquery selecting the IDs of the scope owner's properties.
func (r *AnalyticsRepository) ownedProperties(ctx context.Context, scope repositories.Scope) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Property{}).
		Select("id").
		Where("owner_id = ?", *scope.OwnerID)
}

// onOwnedProperties scopes rows that reference a property through property_id.
func (r *AnalyticsRepository) onOwnedProperties(ctx context.Context, scope repositories.Scope) *gorm.DB {
	query := r.db.WithContext(ctx)
	if scope.IsSystem() {
		return query
	}
	return query.Where("property_id IN (?)", r.ownedProperties(ctx, scope))
}

func (r *AnalyticsRepository) ListUsers(ctx context.Context, scope repositories.Scope) ([]models.User, error) {
	query := r.db.WithContext(ctx)
	if !scope.IsSystem() {
		tenants := r.db.WithContext(ctx).Model(&models.Tenancy{}).
			Select("tenant_id").
			Where("property_id IN (?)", r.ownedProperties(ctx, scope))
		query = query.Where("id = ? OR id IN (?)", *scope.OwnerID, tenants)
	}

	var users []models.User
	if err := query.Order(creationOrder).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (r *AnalyticsRepository) ListProperties(ctx context.Context, scope repositories.Scope) ([]models.Property, error) {
	query := r.db.WithContext(ctx)
	if !scope.IsSystem() {
		query = query.Where("owner_id = ?", *scope.OwnerID)
	}

	var properties []models.Property
	if err := query.Order(creationOrder).Find(&properties).Error; err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	return properties, nil
}

func (r *AnalyticsRepository) ListTenancies(ctx context.Context, scope repositories.Scope) ([]models.Tenancy, error) {
	var tenancies []models.Tenancy
	if err := r.onOwnedProperties(ctx, scope).Order(creationOrder).Find(&tenancies).Error; err != nil {
		return nil, fmt.Errorf("failed to list tenancies: %w", err)
	}
	return tenancies, nil
}

func (r *AnalyticsRepository) ListPayments(ctx context.Context, scope repositories.Scope) ([]models.Payment, error) {
	var payments []models.Payment
	if err := r.onOwnedProperties(ctx, scope).Order(creationOrder).Find(&payments).Error; err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, nil
}

func (r *AnalyticsRepository) ListMaintenanceRequests(ctx context.Context, scope repositories.Scope) ([]models.MaintenanceRequest, error) {
	var requests []models.MaintenanceRequest
	if err := r.onOwnedProperties(ctx, scope).Order(creationOrder).Find(&requests).Error; err != nil {
		return nil, fmt.Errorf("failed to list maintenance requests: %w", err)
	}
	return requests, nil
}
