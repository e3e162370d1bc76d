package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/propertyease/propertyease/internal/app/config"
	"github.com/propertyease/propertyease/internal/domain/repositories"
	"github.com/propertyease/propertyease/internal/domain/services"
	"github.com/propertyease/propertyease/internal/infrastructure/cache"
	"github.com/propertyease/propertyease/internal/infrastructure/database"
	"github.com/propertyease/propertyease/internal/infrastructure/database/models"
	"github.com/propertyease/propertyease/internal/infrastructure/database/seed"
	"github.com/propertyease/propertyease/internal/infrastructure/repositories/postgresql"
	"github.com/propertyease/propertyease/pkg/logger"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		return
	}

	command := os.Args[1]

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger := logger.NewFromString(cfg.LogLevel)

	if cfg.GetDatabaseURL() == "" {
		log.Fatalf("DATABASE_URL is required")
	}

	// Connect to database
	db, err := database.NewWithLogLevel(cfg.GetDatabaseURL(), database.LogLevel(cfg.LogLevel))
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	switch command {
	case "up":
		runMigrations(db, logger)
	case "reset":
		resetDatabase(db, logger)
	case "seed":
		seedDatabase(cfg, db, logger)
	case "status":
		migrationStatus(db, logger)
	default:
		logger.Error("Unknown command", "command", command)
		printUsage()
	}
}

func printUsage() {
	fmt.Println("Usage: go run cmd/migrate/main.go <command>")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  up     - Run all pending migrations")
	fmt.Println("  reset  - Drop all tables and recreate them")
	fmt.Println("  seed   - Seed the database with a demo rental portfolio")
	fmt.Println("  status - Show migration status")
}

func runMigrations(db *database.DB, logger *logger.Logger) bool {
	logger.Info("Running database migrations...")

	// Auto-migrate all models
	if err := db.AutoMigrate(models.GetAllModels()...); err != nil {
		logger.Error("Failed to run migrations", "error", err)
		return false
	}

	// Create indexes for the analytics read path
	if err := createIndexes(db); err != nil {
		logger.Error("Failed to create indexes", "error", err)
		return false
	}

	logger.Info("Database migrations completed successfully")
	return true
}

func resetDatabase(db *database.DB, logger *logger.Logger) {
	logger.Info("Resetting database...")

	// Drop all tables in reverse order to handle foreign key constraints
	tables := models.GetAllModels()
	for i := len(tables) - 1; i >= 0; i-- {
		if err := db.Migrator().DropTable(tables[i]); err != nil {
			logger.Error("Failed to drop table", "error", err)
		}
	}

	// Recreate all tables
	runMigrations(db, logger)

	logger.Info("Database reset completed")
}

func seedDatabase(cfg *config.Config, db *database.DB, logger *logger.Logger) {
	if !runMigrations(db, logger) {
		return
	}

	logger.Info("Seeding database with demo data...")

	opts := seed.DefaultOptions()
	opts.Progress = os.Stderr

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	stats, err := seed.Run(ctx, db, opts)
	if errors.Is(err, seed.ErrAlreadySeeded) {
		logger.Warn("Skipping seed, demo data already present")
		return
	}
	if err != nil {
		logger.Error("Failed to seed database", "error", err)
		return
	}

	logger.Info("Database seeding completed successfully",
		"users", stats.Users,
		"properties", stats.Properties,
		"tenancies", stats.Tenancies,
		"payments", stats.Payments,
		"maintenance_requests", stats.MaintenanceRequests,
	)

	invalidateReports(ctx, cfg, db, logger)
}

// invalidateReports drops cached system reports so dashboards pick up the new rows.
func invalidateReports(ctx context.Context, cfg *config.Config, db *database.DB, logger *logger.Logger) {
	cacheService, err := cache.CreateCacheService(cfg.Redis.URL)
	if err != nil {
		logger.Warn("Cache unavailable, cached reports will expire on their own", "error", err)
		return
	}
	defer cacheService.Close()

	repos := postgresql.NewRepositories(db)
	analyticsService := services.NewAnalyticsService(repos.AnalyticsRepo, cacheService, logger, services.AnalyticsServiceConfig{}, nil)
	if err := analyticsService.InvalidateAnalytics(ctx, repositories.SystemScope()); err != nil {
		logger.Warn("Failed to invalidate cached reports", "error", err)
	}
}

func migrationStatus(db *database.DB, logger *logger.Logger) {
	logger.Info("Checking migration status...")

	tables := map[string]interface{}{
		"users":                &models.User{},
		"properties":           &models.Property{},
		"tenancies":            &models.Tenancy{},
		"payments":             &models.Payment{},
		"maintenance_requests": &models.MaintenanceRequest{},
	}

	for tableName, model := range tables {
		exists := db.Migrator().HasTable(model)
		status := "✓ exists"
		if !exists {
			status = "✗ missing"
		}

		var rows int64
		if exists {
			if err := db.Model(model).Count(&rows).Error; err != nil {
				logger.Error("Failed to count rows", "table", tableName, "error", err)
			}
		}
		logger.Info("Table status", "table", tableName, "status", status, "rows", rows)
	}
}

func createIndexes(db *database.DB) error {
	// Composite indexes backing owner-scoped reads
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_properties_owner_created ON properties(owner_id, created_at)",
		"CREATE INDEX IF NOT EXISTS idx_payments_property_status ON payments(property_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_tenancies_property_status ON tenancies(property_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_maintenance_requests_property_status ON maintenance_requests(property_id, status)",
	}

	for _, indexSQL := range indexes {
		if err := db.Exec(indexSQL).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}
