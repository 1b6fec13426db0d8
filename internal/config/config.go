// Package config loads recipebox settings from the environment.
// A .env file in the working directory is read first when present;
// variables are prefixed with RECIPEBOX_.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Prefix is the environment variable prefix, e.g. RECIPEBOX_BASE_URL.
const Prefix = "RECIPEBOX"

// Storage backends.
const (
	StoreSQLite = "sqlite"
	StoreFile   = "file"
	StoreMemory = "memory"
)

// Authentication modes.
const (
	AuthStub  = "stub"
	AuthLocal = "local"
)

// Config holds every tunable of the application.
type Config struct {
	// Remote recipe catalog.
	BaseURL     string        `envconfig:"BASE_URL" default:"https://www.themealdb.com/api/json/v1/1"`
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"30s"`
	HTTPRetries int           `envconfig:"HTTP_RETRIES" default:"0"`
	HTTPDebug   bool          `envconfig:"HTTP_DEBUG" default:"false"`

	// Local persistence.
	DataDir string `envconfig:"DATA_DIR" default:""`
	Store   string `envconfig:"STORE" default:"sqlite"`

	Auth     string `envconfig:"AUTH" default:"stub"`
	FeedSize int    `envconfig:"FEED_SIZE" default:"8"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"normal"`
	LogFile  string `envconfig:"LOG_FILE" default:""`
}

// Load reads .env (if present) and the process environment into a Config,
// then resolves defaults and validates it.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var c Config
	if err := envconfig.Process(Prefix, &c); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := c.ResolveDefaults(); err != nil {
		return nil, err
	}
	return &c, nil
}

// ResolveDefaults fills derived values and rejects unsupported settings.
func (c *Config) ResolveDefaults() error {
	c.Store = strings.ToLower(strings.TrimSpace(c.Store))
	switch c.Store {
	case "", "auto":
		c.Store = StoreSQLite
	case StoreSQLite, StoreFile, StoreMemory:
	default:
		return fmt.Errorf("config: unsupported STORE: %s", c.Store)
	}

	c.Auth = strings.ToLower(strings.TrimSpace(c.Auth))
	switch c.Auth {
	case "":
		c.Auth = AuthStub
	case AuthStub, AuthLocal:
	default:
		return fmt.Errorf("config: unsupported AUTH: %s", c.Auth)
	}

	if c.DataDir == "" {
		c.DataDir = defaultDataDir()
	}
	if c.FeedSize <= 0 {
		c.FeedSize = 8
	}
	if c.HTTPRetries < 0 {
		return fmt.Errorf("config: HTTP_RETRIES must be >= 0")
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("config: HTTP_TIMEOUT must be > 0")
	}
	return nil
}

// SQLitePath is the database file used by the sqlite backend.
func (c *Config) SQLitePath() string {
	return filepath.Join(c.DataDir, "recipebox.db")
}

// KVDir is the directory used by the file backend.
func (c *Config) KVDir() string {
	return filepath.Join(c.DataDir, "kv")
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil && dir != "" {
		return filepath.Join(dir, "recipebox")
	}
	return ".recipebox"
}
