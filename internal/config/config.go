package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.yaml.in/yaml/v3"
)

// Store drivers understood by store.Open.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverYAML     = "yaml"
)

// Drivers lists every accepted store driver.
var Drivers = []string{DriverSQLite, DriverPostgres, DriverYAML}

// MinDebounce is the shortest accepted save window.
const MinDebounce = 200 * time.Millisecond

// Config represents ~/.naming-nosferatu/config.yaml. Every field can be
// overridden from the environment.
type Config struct {
	Store        StoreConfig   `yaml:"store"`
	User         string        `yaml:"user" env:"NOSFERATU_USER"`
	Admin        bool          `yaml:"admin" env:"NOSFERATU_ADMIN"`
	Debounce     time.Duration `yaml:"debounce" env:"NOSFERATU_DEBOUNCE"`
	FetchTimeout time.Duration `yaml:"fetch_timeout" env:"NOSFERATU_FETCH_TIMEOUT"`
	LogLevel     string        `yaml:"log_level" env:"NOSFERATU_LOG_LEVEL"`
}

// StoreConfig selects the backing store. An empty DSN means the driver's
// default location under the data directory.
type StoreConfig struct {
	Driver string `yaml:"driver" env:"NOSFERATU_STORE_DRIVER"`
	DSN    string `yaml:"dsn,omitempty" env:"NOSFERATU_STORE_DSN"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Store:        StoreConfig{Driver: DriverSQLite},
		User:         "guest",
		Debounce:     800 * time.Millisecond,
		FetchTimeout: 10 * time.Second,
		LogLevel:     "warn",
	}
}

// Parse parses config.yaml bytes on top of the defaults.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Marshal serializes a Config to YAML bytes.
func Marshal(cfg Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}

// Validate checks the values a session cannot run without.
func (c Config) Validate() error {
	if !slices.Contains(Drivers, c.Store.Driver) {
		return fmt.Errorf("unknown store driver %q (want one of %s)", c.Store.Driver, strings.Join(Drivers, ", "))
	}
	if c.Store.Driver == DriverPostgres && strings.TrimSpace(c.Store.DSN) == "" {
		return fmt.Errorf("postgres store requires a dsn")
	}
	if strings.TrimSpace(c.User) == "" {
		return fmt.Errorf("user is required")
	}
	if c.Debounce < MinDebounce {
		return fmt.Errorf("debounce %s is below the %s minimum", c.Debounce, MinDebounce)
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("fetch_timeout must be positive")
	}
	return nil
}

// ApplyEnv overrides cfg with any NOSFERATU_* variables that are set.
func ApplyEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load reads the config file at path (defaults if it does not exist), loads
// envFile into the environment without overriding variables already set,
// applies environment overrides and validates the result.
func Load(path, envFile string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if cfg, err = Parse(data); err != nil {
			return Config{}, err
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return Config{}, fmt.Errorf("reading config: %w", err)
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("loading %s: %w", envFile, err)
		}
	}

	if err := ApplyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Save writes cfg to path, creating the parent directory.
func Save(path string, cfg Config) error {
	data, err := Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
