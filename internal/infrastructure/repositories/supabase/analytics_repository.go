package supabase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	supabase "github.com/nedpals/supabase-go"
	"github.com/propertyease/propertyease/internal/domain/repositories"
	"github.com/propertyease/propertyease/internal/infrastructure/database/models"
)

// AnalyticsRepository reads analytics snapshots through Supabase's PostgREST
// API, for deployments where the service has no direct database access.
type AnalyticsRepository struct {
	client *supabase.Client
}

type Config struct {
	URL    string
	APIKey string
}

func NewAnalyticsRepository(config Config) (*AnalyticsRepository, error) {
	if config.URL == "" || config.APIKey == "" {
		return nil, fmt.Errorf("supabase URL and API key are required")
	}

	client := supabase.CreateClient(config.URL, config.APIKey)
	if client == nil {
		return nil, fmt.Errorf("failed to create Supabase client")
	}

	return &AnalyticsRepository{client: client}, nil
}

type idRow struct {
	ID uuid.UUID `json:"id"`
}

type tenantRow struct {
	TenantID uuid.UUID `json:"tenant_id"`
}

const (
	// pageSize is the number of rows requested per call. Servers may cap it
	// lower with max-rows, so paging stops only on an empty page.
	pageSize uint = 1000

	// idBatchSize bounds in.(...) filters so request URLs stay short.
	idBatchSize = 100
)

// fetchAll reads every row of table, optionally restricted to rows whose
// column is one of values. A restriction with no values matches nothing.
func fetchAll[T any](ctx context.Context, client *supabase.Client, table, columns, column string, values []string) ([]T, error) {
	if column == "" {
		return fetchPages[T](ctx, client, table, columns, "", nil)
	}

	var rows []T
	for start := 0; start < len(values); start += idBatchSize {
		end := min(start+idBatchSize, len(values))
		batch, err := fetchPages[T](ctx, client, table, columns, column, values[start:end])
		if err != nil {
			return nil, err
		}
		rows = append(rows, batch...)
	}
	return rows, nil
}

func fetchPages[T any](ctx context.Context, client *supabase.Client, table, columns, column string, values []string) ([]T, error) {
	var rows []T
	var offset uint
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		query := client.DB.From(table).Select(columns).LimitWithOffset(int(pageSize), int(offset))

		var page []T
		var err error
		if column == "" {
			err = query.Execute(&page)
		} else {
			err = query.In(column, values).Execute(&page)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to query %s: %w", table, err)
		}

		if len(page) == 0 {
			return rows, nil
		}
		if uint(len(page)) > pageSize {
			return nil, fmt.Errorf("failed to query %s: server ignored the requested range", table)
		}

		rows = append(rows, page...)
		offset += uint(len(page))
	}
}

func (r *AnalyticsRepository) ownedPropertyIDs(ctx context.Context, ownerID uuid.UUID) ([]string, error) {
	rows, err := fetchAll[idRow](ctx, r.client, "properties", "id", "owner_id", []string{ownerID.String()})
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID.String())
	}
	return ids, nil
}

// byProperty lists rows of a property-scoped table for the scope.
func byProperty[T any](ctx context.Context, r *AnalyticsRepository, scope repositories.Scope, table string) ([]T, error) {
	if scope.IsSystem() {
		return fetchAll[T](ctx, r.client, table, "*", "", nil)
	}

	propertyIDs, err := r.ownedPropertyIDs(ctx, *scope.OwnerID)
	if err != nil {
		return nil, err
	}
	return fetchAll[T](ctx, r.client, table, "*", "property_id", propertyIDs)
}

func (r *AnalyticsRepository) ListUsers(ctx context.Context, scope repositories.Scope) ([]models.User, error) {
	if scope.IsSystem() {
		users, err := fetchAll[models.User](ctx, r.client, "users", "*", "", nil)
		if err != nil {
			return nil, err
		}
		return inCreationOrder(users, func(u models.User) (time.Time, uuid.UUID) { return u.CreatedAt, u.ID }), nil
	}

	tenants, err := byProperty[tenantRow](ctx, r, scope, "tenancies")
	if err != nil {
		return nil, err
	}

	ids := []string{scope.OwnerID.String()}
	seen := map[uuid.UUID]bool{*scope.OwnerID: true}
	for _, t := range tenants {
		if !seen[t.TenantID] {
			seen[t.TenantID] = true
			ids = append(ids, t.TenantID.String())
		}
	}

	users, err := fetchAll[models.User](ctx, r.client, "users", "*", "id", ids)
	if err != nil {
		return nil, err
	}
	return inCreationOrder(users, func(u models.User) (time.Time, uuid.UUID) { return u.CreatedAt, u.ID }), nil
}

func (r *AnalyticsRepository) ListProperties(ctx context.Context, scope repositories.Scope) ([]models.Property, error) {
	var properties []models.Property
	var err error
	if scope.IsSystem() {
		properties, err = fetchAll[models.Property](ctx, r.client, "properties", "*", "", nil)
	} else {
		properties, err = fetchAll[models.Property](ctx, r.client, "properties", "*", "owner_id", []string{scope.OwnerID.String()})
	}
	if err != nil {
		return nil, err
	}
	return inCreationOrder(properties, func(p models.Property) (time.Time, uuid.UUID) { return p.CreatedAt, p.ID }), nil
}

func (r *AnalyticsRepository) ListTenancies(ctx context.Context, scope repositories.Scope) ([]models.Tenancy, error) {
	tenancies, err := byProperty[models.Tenancy](ctx, r, scope, "tenancies")
	if err != nil {
		return nil, err
	}
	return inCreationOrder(tenancies, func(t models.Tenancy) (time.Time, uuid.UUID) { return t.CreatedAt, t.ID }), nil
}

func (r *AnalyticsRepository) ListPayments(ctx context.Context, scope repositories.Scope) ([]models.Payment, error) {
	payments, err := byProperty[models.Payment](ctx, r, scope, "payments")
	if err != nil {
		return nil, err
	}
	return inCreationOrder(payments, func(p models.Payment) (time.Time, uuid.UUID) { return p.CreatedAt, p.ID }), nil
}

func (r *AnalyticsRepository) ListMaintenanceRequests(ctx context.Context, scope repositories.Scope) ([]models.MaintenanceRequest, error) {
	requests, err := byProperty[models.MaintenanceRequest](ctx, r, scope, models.MaintenanceRequest{}.TableName())
	if err != nil {
		return nil, err
	}
	return inCreationOrder(requests, func(m models.MaintenanceRequest) (time.Time, uuid.UUID) { return m.CreatedAt, m.ID }), nil
}

// inCreationOrder sorts rows the way the SQL source returns them. PostgREST
// gives no ordering guarantee without an explicit order parameter.
func inCreationOrder[T any](rows []T, key func(T) (time.Time, uuid.UUID)) []T {
	sort.SliceStable(rows, func(i, j int) bool {
		ti, idi := key(rows[i])
		tj, idj := key(rows[j])
		if !ti.Equal(tj) {
			return ti.Before(tj)
		}
		return idi.String() < idj.String()
	})
	return rows
}
