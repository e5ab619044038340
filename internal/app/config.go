package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/znznow/agreements-backend/internal/platform/envutil"
)

// Config holds the process-level settings. Environment variables set the
// baseline; an optional YAML file named by CONFIG_PATH overrides them.
type Config struct {
	Port         string   `yaml:"port"`
	Mode         string   `yaml:"mode"`
	DataDir      string   `yaml:"data_dir"`
	DatabasePath string   `yaml:"database_path"`
	AllowOrigins []string `yaml:"allow_origins"`
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:         envutil.String("PORT", "8080"),
		Mode:         strings.ToLower(envutil.String("APP_MODE", "dev")),
		DataDir:      envutil.String("DATA_DIR", "data"),
		DatabasePath: envutil.String("DATABASE_PATH", ""),
		AllowOrigins: envutil.List("ALLOW_ORIGINS", nil),
	}

	if path := strings.TrimSpace(os.Getenv("CONFIG_PATH")); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if cfg.Port == "" {
		return nil, fmt.Errorf("port required")
	}
	if cfg.DataDir == "" {
		return nil, fmt.Errorf("data dir required")
	}
	if cfg.DatabasePath == "" {
		cfg.DatabasePath = filepath.Join(cfg.DataDir, "agreements.db")
	}
	return cfg, nil
}
