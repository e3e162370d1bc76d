package main

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"time"

	"github.com/propertyease/propertyease/internal/app/config"
	"github.com/propertyease/propertyease/internal/domain/repositories"
	"github.com/propertyease/propertyease/internal/infrastructure/database"
	"github.com/propertyease/propertyease/internal/infrastructure/database/models"
	"github.com/propertyease/propertyease/internal/infrastructure/repositories/supabase"
)

// Verifies that the analytics read path can reach Supabase, both over the
// direct Postgres connection and over the PostgREST API
func main() {
	fmt.Println("🔍 Verifying Supabase Setup for PropertyEase analytics...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	if cfg.GetDatabaseURL() != "" {
		verifyDatabase(cfg)
	} else {
		fmt.Println("⚠️  DATABASE_URL not set, skipping direct database checks")
	}

	if cfg.Supabase.URL != "" && cfg.SupabaseDataKey() != "" {
		verifyPostgREST(cfg)
	} else {
		fmt.Println("⚠️  SUPABASE_URL / SUPABASE_API_KEY not set, skipping PostgREST checks")
	}

	fmt.Println("\n🎉 Verification finished")
}

func verifyDatabase(cfg *config.Config) {
	fmt.Printf("📡 Connecting to: %s\n", maskDatabaseURL(cfg.GetDatabaseURL()))

	db, err := database.New(cfg.GetDatabaseURL())
	if err != nil {
		log.Fatalf("❌ Failed to connect to Supabase: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("❌ Database ping failed: %v", err)
	}
	fmt.Println("✅ Database ping successful!")

	fmt.Println("\n📋 Checking analytics tables:")
	for _, model := range models.GetAllModels() {
		stmt := db.Model(model).Statement
		if err := stmt.Parse(model); err != nil {
			fmt.Printf("❌ Failed to resolve table for %T: %v\n", model, err)
			continue
		}
		table := stmt.Schema.Table

		if !db.Migrator().HasTable(model) {
			fmt.Printf("❌ %s (missing, run: go run ./cmd/migrate up)\n", table)
			continue
		}

		var rows int64
		if err := db.Model(model).Count(&rows).Error; err != nil {
			fmt.Printf("❌ %s: %v\n", table, err)
			continue
		}
		fmt.Printf("✅ %s (%d rows)\n", table, rows)
	}
}

func verifyPostgREST(cfg *config.Config) {
	fmt.Printf("\n🌐 Querying PostgREST at %s\n", cfg.Supabase.URL)

	source, err := supabase.NewAnalyticsRepository(supabase.Config{
		URL:    cfg.Supabase.URL,
		APIKey: cfg.SupabaseDataKey(),
	})
	if err != nil {
		log.Fatalf("❌ Failed to create Supabase client: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	scope := repositories.SystemScope()

	checks := []struct {
		table string
		count func() (int, error)
	}{
		{"users", func() (int, error) { rows, err := source.ListUsers(ctx, scope); return len(rows), err }},
		{"properties", func() (int, error) { rows, err := source.ListProperties(ctx, scope); return len(rows), err }},
		{"tenancies", func() (int, error) { rows, err := source.ListTenancies(ctx, scope); return len(rows), err }},
		{"payments", func() (int, error) { rows, err := source.ListPayments(ctx, scope); return len(rows), err }},
		{"maintenance_requests", func() (int, error) {
			rows, err := source.ListMaintenanceRequests(ctx, scope)
			return len(rows), err
		}},
	}

	for _, check := range checks {
		n, err := check.count()
		if err != nil {
			fmt.Printf("❌ %s: %v\n", check.table, err)
			continue
		}
		fmt.Printf("✅ %s readable (%d rows)\n", check.table, n)
	}
}

// maskDatabaseURL hides the password in a connection string
func maskDatabaseURL(databaseURL string) string {
	u, err := url.Parse(databaseURL)
	if err != nil || u.User == nil {
		return databaseURL
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "****")
	}
	return u.String()
}
