// Package config loads settings from the environment and an optional TOML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// DefaultJWTSecret is used when JWT_SECRET is unset. Production refuses it.
const DefaultJWTSecret = "default-secret-change-in-production"

// AppDirName is the per-project hidden directory holding the session file
// and the optional config file.
const AppDirName = ".todo-cli"

// Config holds runtime settings. Environment variables win over the file.
type Config struct {
	DatabaseURL string `toml:"database_url"`
	JWTSecret   string `toml:"jwt_secret"`
	Environment string `toml:"environment"`
	SessionDir  string `toml:"session_dir"`
}

// Load reads AppDir()/config.toml if present, then applies DATABASE_URL,
// JWT_SECRET, and APP_ENV from the environment, then validates.
func Load() (*Config, error) {
	cfg := &Config{
		JWTSecret:   DefaultJWTSecret,
		Environment: "development",
	}

	path := filepath.Join(AppDir(), "config.toml")
	if data, err := os.ReadFile(path); err == nil {
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWTSecret = v
	}
	if v := os.Getenv("APP_ENV"); v != "" {
		cfg.Environment = v
	}
	if cfg.SessionDir == "" {
		cfg.SessionDir = AppDir()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate enforces the DSN shape and the production secret rule.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is not set")
	}
	if !strings.HasPrefix(c.DatabaseURL, "postgres://") && !strings.HasPrefix(c.DatabaseURL, "postgresql://") {
		return errors.New("DATABASE_URL must start with postgres://")
	}
	if c.IsProduction() && c.JWTSecret == DefaultJWTSecret {
		return errors.New("JWT_SECRET must be set in production")
	}
	return nil
}

// IsProduction reports whether the environment is production.
func (c *Config) IsProduction() bool { return c.Environment == "production" }

// AppDir returns the per-project hidden directory under the working
// directory.
func AppDir() string {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	return filepath.Join(cwd, AppDirName)
}
