package services

import (
	"context"
	"testing"
	"time"

	"github.com/propertyease/propertyease/internal/app/config"
	"github.com/propertyease/propertyease/internal/domain/repositories"
	"github.com/propertyease/propertyease/internal/infrastructure/database/models"
	"github.com/propertyease/propertyease/internal/infrastructure/cache"
	"github.com/propertyease/propertyease/internal/infrastructure/repositories/postgresql/testutil"
	supabaserepo "github.com/propertyease/propertyease/internal/infrastructure/repositories/supabase"
	"github.com/propertyease/propertyease/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(source string) *config.Config {
	return &config.Config{
		Environment: "test",
		Redis:       config.RedisConfig{URL: cache.MemoryURL},
		Supabase: config.SupabaseConfig{
			URL:    "http://localhost:54321",
			APIKey: "anon",
		},
		Analytics: config.AnalyticsConfig{DataSource: source},
	}
}

func TestNewServiceManager_GORMSource(t *testing.T) {
	db := testutil.NewTestDB(t)

	sm, err := NewServiceManager(testConfig(config.DataSourceGORM), db.DB, logger.NewForTesting())
	require.NoError(t, err)

	assert.NotNil(t, sm.AnalyticsService)
	assert.NoError(t, sm.HealthCheck(context.Background()))

	report, err := sm.AnalyticsService.GetSystemAnalytics(context.Background(), "7d")
	require.NoError(t, err)
	assert.Zero(t, report.Users.Total)

	assert.NoError(t, sm.Close())
}

func TestNewServiceManager_SupabaseSource(t *testing.T) {
	source, err := newAnalyticsSource(testConfig(config.DataSourceSupabase), nil)
	require.NoError(t, err)
	assert.IsType(t, &supabaserepo.AnalyticsRepository{}, source)
}

func TestNewServiceManager_RequiresDatabase(t *testing.T) {
	_, err := NewServiceManager(testConfig(config.DataSourceGORM), nil, logger.NewForTesting())
	assert.Error(t, err)
}

func TestServiceManager_ResolveOwner(t *testing.T) {
	db := testutil.NewTestDB(t)

	sm, err := NewServiceManager(testConfig(config.DataSourceGORM), db.DB, logger.NewForTesting())
	require.NoError(t, err)
	ctx := context.Background()

	owner := db.CreateTestUser(t, models.UserRoleOwner, time.Now())
	tenant := db.CreateTestUser(t, models.UserRoleTenant, time.Now())

	id, err := sm.ResolveOwner(ctx, owner.ID.String())
	require.NoError(t, err)
	assert.Equal(t, owner.ID, id)

	id, err = sm.ResolveOwner(ctx, owner.Email)
	require.NoError(t, err)
	assert.Equal(t, owner.ID, id)

	_, err = sm.ResolveOwner(ctx, tenant.Email)
	assert.ErrorContains(t, err, "not an owner")

	_, err = sm.ResolveOwner(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}
