package db

import (
	"fmt"
	stdlog "log"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/znznow/agreements-backend/internal/domain"
	"github.com/znznow/agreements-backend/internal/platform/logger"
)

// SQLiteService owns the single database file holding agreements and their
// audit log. Concurrent requests rely on SQLite's own file locking; the
// busy timeout keeps writers from failing immediately under contention.
type SQLiteService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSQLiteService(logg *logger.Logger, path string) (*SQLiteService, error) {
	serviceLog := logg.With("service", "SQLiteService")

	if path == "" {
		return nil, fmt.Errorf("database path required")
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database dir: %w", err)
		}
	}

	gormLog := gormLogger.New(
		stdlog.New(os.Stdout, "\r\n", stdlog.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             1 * time.Second,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	dsn := path + "?_busy_timeout=5000"
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormLog,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	serviceLog.Info("SQLite database opened", "path", path)
	return &SQLiteService{db: gdb, log: serviceLog}, nil
}

func (s *SQLiteService) AutoMigrateAll() error {
	return s.db.AutoMigrate(
		&domain.Agreement{},
		&domain.AgreementLog{},
	)
}

func (s *SQLiteService) DB() *gorm.DB { return s.db }
