package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/propertyease/propertyease/internal/app/config"
	"github.com/propertyease/propertyease/internal/domain/repositories"
	"github.com/propertyease/propertyease/internal/domain/services"
	supabaseauth "github.com/propertyease/propertyease/internal/infrastructure/auth/supabase"
	"github.com/propertyease/propertyease/internal/infrastructure/cache"
	"github.com/propertyease/propertyease/internal/infrastructure/database"
	"github.com/propertyease/propertyease/internal/infrastructure/database/models"
	"github.com/propertyease/propertyease/internal/infrastructure/repositories/postgresql"
	supabaserepo "github.com/propertyease/propertyease/internal/infrastructure/repositories/supabase"
	"github.com/propertyease/propertyease/pkg/logger"
)

// ServiceManager manages all application services
type ServiceManager struct {
	Config *config.Config

	// Infrastructure
	DB           *database.DB
	Repositories *postgresql.Repositories
	CacheService services.CacheService
	AuthService  services.TokenValidator

	// Domain services
	AnalyticsService *services.AnalyticsService
}

// NewServiceManager creates a new service manager. The database backs user
// lookups and, for the gorm data source, analytics reads.
func NewServiceManager(cfg *config.Config, db *database.DB, log *logger.Logger) (*ServiceManager, error) {
	if db == nil {
		return nil, fmt.Errorf("database is required")
	}

	// Initialize repositories
	repos := postgresql.NewRepositories(db)

	source, err := newAnalyticsSource(cfg, repos)
	if err != nil {
		return nil, err
	}

	// Initialize cache service with Redis
	cacheService, err := cache.CreateCacheService(cfg.Redis.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cache service: %w", err)
	}

	authService, err := supabaseauth.NewAuthService(supabaseauth.Config{
		URL:    cfg.Supabase.URL,
		APIKey: cfg.Supabase.APIKey,
	})
	if err != nil {
		_ = cacheService.Close()
		return nil, fmt.Errorf("failed to initialize auth service: %w", err)
	}

	analyticsService := services.NewAnalyticsService(source, cacheService, log, services.AnalyticsServiceConfig{
		CacheTTL:     cfg.Analytics.CacheTTL,
		FetchTimeout: cfg.Analytics.FetchTimeout,
	}, nil)

	sm := &ServiceManager{
		Config:           cfg,
		DB:               db,
		Repositories:     repos,
		CacheService:     cacheService,
		AuthService:      authService,
		AnalyticsService: analyticsService,
	}

	return sm, nil
}

func newAnalyticsSource(cfg *config.Config, repos *postgresql.Repositories) (repositories.AnalyticsSource, error) {
	switch cfg.Analytics.DataSource {
	case config.DataSourceSupabase:
		source, err := supabaserepo.NewAnalyticsRepository(supabaserepo.Config{
			URL:    cfg.Supabase.URL,
			APIKey: cfg.SupabaseDataKey(),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize supabase analytics source: %w", err)
		}
		return source, nil
	default:
		return repos.AnalyticsRepo, nil
	}
}

// ResolveOwner turns an owner reference (user ID or email) into the ID of an
// existing owner account.
func (sm *ServiceManager) ResolveOwner(ctx context.Context, ref string) (uuid.UUID, error) {
	var user *models.User
	var err error
	if id, parseErr := uuid.Parse(ref); parseErr == nil {
		user, err = sm.Repositories.UserRepo.GetByID(ctx, id)
	} else {
		user, err = sm.Repositories.UserRepo.GetByEmail(ctx, ref)
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to resolve owner %q: %w", ref, err)
	}
	if user.Role != models.UserRoleOwner {
		return uuid.Nil, fmt.Errorf("user %q is a %s, not an owner", ref, user.Role)
	}
	return user.ID, nil
}

// Health check for all services
func (sm *ServiceManager) HealthCheck(ctx context.Context) error {
	// Check database
	if err := sm.Repositories.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}

	// Check Redis cache
	if err := sm.CacheService.Ping(ctx); err != nil {
		return fmt.Errorf("redis health check failed: %w", err)
	}

	return nil
}

// Close gracefully shuts down all services
func (sm *ServiceManager) Close() error {
	// Close cache service
	if err := sm.CacheService.Close(); err != nil {
		return fmt.Errorf("failed to close cache service: %w", err)
	}

	// Close database connection
	if err := sm.DB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	return nil
}
