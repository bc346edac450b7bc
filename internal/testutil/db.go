// Package testutil holds the fixtures, assertions and containers shared by
// the package tests and the integration suite.
package testutil

import (
	"path/filepath"
	"testing"
	"time"

	glebarez "github.com/glebarez/sqlite"
	"github.com/localnerve/novelsdb/internal/config"
	"github.com/localnerve/novelsdb/internal/database"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestJWTSecret signs tokens in tests
const TestJWTSecret = "novelsdb-test-secret"

// NewTestConfig returns a configuration for an SQLite file database in dir,
// with rate limiting off and the cheapest bcrypt cost
func NewTestConfig(dir string) *config.Config {
	return &config.Config{
		Port:              "3000",
		CORSOrigin:        "http://localhost:3000",
		BodyLimit:         10 * 1024,
		RateLimitMax:      0,
		RateLimitWindow:   15 * time.Minute,
		JWTSecret:         TestJWTSecret,
		TokenTTL:          time.Hour,
		BcryptCost:        4,
		DBType:            "sqlite-pure",
		DBDatabase:        filepath.Join(dir, "novelsdb.db"),
		DBConnectionLimit: 1,
		DBLogLevel:        "silent",
	}
}

// SetupTestDB creates a migrated SQLite database in a temporary directory.
// Every connection to ":memory:" would get its own empty database, so a file
// is used, and the pool is held to one connection so writers never contend.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "novelsdb.db") + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := database.Open(glebarez.Open(dsn), logger.Silent)
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get test database handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}
