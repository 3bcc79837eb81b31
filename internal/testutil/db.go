// Package testutil holds shared helpers for package tests.
package testutil

import (
	"path/filepath"
	"testing"
	"time"

	"courier-backend/internal/client"
	"courier-backend/internal/config"

	"gorm.io/gorm"
)

// NewDB returns a migrated sqlite database in a temp dir, closed on cleanup.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := client.InitDB(config.Database{
		Driver:          "sqlite",
		URL:             filepath.Join(t.TempDir(), "courier.db"),
		ConnMaxLifetime: time.Hour,
		LogLevel:        "silent",
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := client.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	t.Cleanup(func() {
		_ = client.CloseDB(db)
	})
	return db
}
