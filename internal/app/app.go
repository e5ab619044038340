package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/znznow/agreements-backend/internal/data/db"
	apphttp "github.com/znznow/agreements-backend/internal/http"
	"github.com/znznow/agreements-backend/internal/platform/logger"
	"github.com/znznow/agreements-backend/internal/platform/storage"
)

type App struct {
	Cfg      *Config
	Log      *logger.Logger
	DB       *db.SQLiteService
	Files    storage.FileStore
	Repos    *Repos
	Services *Services
	Handlers *Handlers
	Server   *apphttp.Server
}

func New() (*App, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.Mode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	a := &App{Cfg: cfg, Log: log}

	a.DB, err = db.NewSQLiteService(log, cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := a.DB.AutoMigrateAll(); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	a.Files, err = storage.NewFileStore(log, cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("init file store: %w", err)
	}

	a.wireRepos()
	if err := a.wireServices(); err != nil {
		return nil, fmt.Errorf("wire services: %w", err)
	}
	a.wireHandlers()

	router := apphttp.NewRouter(apphttp.RouterConfig{
		Log:          log,
		Mode:         cfg.Mode,
		AllowOrigins: cfg.AllowOrigins,
		Health:       a.Handlers.Health,
		Agreement:    a.Handlers.Agreement,
	})
	a.Server = apphttp.NewServer(log, cfg.Port, router)

	return a, nil
}

// Run starts the HTTP server and blocks until SIGINT/SIGTERM, then shuts
// down with a bounded grace period.
func (a *App) Run() error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- a.Server.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		a.Log.Info("shutdown signal received", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return a.Server.Shutdown(ctx)
}

func (a *App) Close() {
	if a.Log != nil {
		a.Log.Sync()
	}
}
