// Package testutil provides shared test doubles and fixtures for seeder tests.
package testutil

import (
	"path/filepath"
	"testing"

	"panchayat/internal/config"
	"panchayat/internal/database"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewSQLiteConfig creates a migrated scratch SQLite database file and returns
// a config pointing at it together with an open handle for assertions.
func NewSQLiteConfig(t *testing.T) (*config.Config, *gorm.DB) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "panchayat.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(database.PersistentModels()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	cfg := &config.Config{
		Env:                     "test",
		DBDriver:                config.DriverSQLite,
		DBPath:                  path,
		DBConnectTimeoutSeconds: 5,
		BcryptCost:              4,
		SeedShowPasswords:       true,
		LogFormat:               "text",
		LogLevel:                "error",
		TracingSamplerRatio:     1,
	}
	return cfg, db
}
