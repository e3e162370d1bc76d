package database

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type DB struct {
	*gorm.DB
}

// New creates a new database connection
func New(databaseURL string) (*DB, error) {
	return NewWithLogLevel(databaseURL, logger.Warn)
}

// NewWithLogLevel creates a connection whose SQL logging is set to level
func NewWithLogLevel(databaseURL string, level logger.LogLevel) (*DB, error) {
	// Configure GORM
	config := &gorm.Config{
		PrepareStmt: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
		Logger: logger.Default.LogMode(level),
	}

	var db *gorm.DB
	var err error

	if IsSQLite(databaseURL) {
		db, err = gorm.Open(sqlite.Open(databaseURL), config)
	} else {
		db, err = gorm.Open(postgres.Open(databaseURL), config)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Configure connection pool (only for non-SQLite)
	if !IsSQLite(databaseURL) {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
		}

		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	return &DB{DB: db}, nil
}

// IsSQLite reports whether the URL points at a SQLite database
func IsSQLite(databaseURL string) bool {
	return strings.HasPrefix(databaseURL, "file:") || strings.HasSuffix(databaseURL, ".db")
}

// LogLevel maps an application log level onto GORM's logger levels
func LogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return logger.Info
	case "error":
		return logger.Error
	case "silent", "off":
		return logger.Silent
	default:
		return logger.Warn
	}
}

// Close closes the database connection
func (db *DB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks if the database connection is alive
func (db *DB) Ping() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// AutoMigrate runs database migrations
func (db *DB) AutoMigrate(models ...interface{}) error {
	return db.DB.AutoMigrate(models...)
}
