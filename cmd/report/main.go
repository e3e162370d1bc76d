package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/propertyease/propertyease/internal/app/config"
	appservices "github.com/propertyease/propertyease/internal/app/services"
	"github.com/propertyease/propertyease/internal/domain/services"
	"github.com/propertyease/propertyease/internal/infrastructure/database"
	"github.com/propertyease/propertyease/pkg/logger"
)

func main() {
	rangeToken := flag.String("range", "", "reporting range: 7d, 30d, 90d or 1y (defaults to ANALYTICS_DEFAULT_RANGE)")
	ownerFlag := flag.String("owner", "", "owner user ID or email; omit for the system-wide report")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// The report goes to stdout, logs to stderr
	log := logger.NewWithWriter(os.Stderr, logger.ParseLevel(cfg.LogLevel))

	if *rangeToken == "" {
		*rangeToken = cfg.Analytics.DefaultRange
	}

	if cfg.GetDatabaseURL() == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is required")
		os.Exit(1)
	}

	db, err := database.NewWithLogLevel(cfg.GetDatabaseURL(), database.LogLevel("error"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}

	sm, err := appservices.NewServiceManager(cfg, db, log)
	if err != nil {
		db.Close()
		fmt.Fprintf(os.Stderr, "Failed to initialize services: %v\n", err)
		os.Exit(1)
	}
	defer sm.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	var report *services.Report
	if *ownerFlag != "" {
		ownerID, resolveErr := sm.ResolveOwner(ctx, *ownerFlag)
		if resolveErr != nil {
			fmt.Fprintf(os.Stderr, "Invalid owner: %v\n", resolveErr)
			sm.Close()
			os.Exit(2)
		}
		report, err = sm.AnalyticsService.GetOwnerAnalytics(ctx, ownerID, *rangeToken)
	} else {
		report, err = sm.AnalyticsService.GetSystemAnalytics(ctx, *rangeToken)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build report: %v\n", err)
		sm.Close()
		os.Exit(1)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(report); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write report: %v\n", err)
	}
}
