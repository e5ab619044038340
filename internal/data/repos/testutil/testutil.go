package testutil

import (
	"path/filepath"
	"testing"

	"gorm.io/gorm"

	"github.com/znznow/agreements-backend/internal/data/db"
	"github.com/znznow/agreements-backend/internal/platform/logger"
)

// Logger builds a dev-mode logger for tests.
func Logger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("dev")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return log
}

// OpenDB opens a fresh SQLite database under the test's temp dir with the
// schema migrated.
func OpenDB(t *testing.T) (*gorm.DB, *logger.Logger) {
	t.Helper()
	log := Logger(t)
	svc, err := db.NewSQLiteService(log, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteService: %v", err)
	}
	if err := svc.AutoMigrateAll(); err != nil {
		t.Fatalf("AutoMigrateAll: %v", err)
	}
	return svc.DB(), log
}
