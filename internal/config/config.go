package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// FileName is the config file kept at the root of a cashbook home.
const FileName = "cashbook.yaml"

// Storage backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Config represents the top-level cashbook.yaml configuration.
type Config struct {
	Ledger  LedgerConfig  `yaml:"ledger"`
	Storage StorageConfig `yaml:"storage"`
	Display DisplayConfig `yaml:"display"`
	Git     GitConfig     `yaml:"git"`
	Log     LogConfig     `yaml:"log"`
}

// LedgerConfig identifies whose ledger this is and how money is shown.
type LedgerConfig struct {
	Owner    string `yaml:"owner"`
	Currency string `yaml:"currency"` // ISO 4217 code, display only
}

// StorageConfig selects where the two ledger records live.
type StorageConfig struct {
	Backend string      `yaml:"backend"` // file, sqlite or redis
	Path    string      `yaml:"path"`    // directory (file) or database file (sqlite), relative to the home
	Redis   RedisConfig `yaml:"redis,omitempty"`
}

// RedisConfig is used when Backend is "redis".
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password,omitempty"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

// DisplayConfig controls the date and time stamped on new transactions.
type DisplayConfig struct {
	DateLayout string `yaml:"date_layout"` // Go reference layout
	TimeLayout string `yaml:"time_layout"`
}

// GitConfig controls git integration of the home directory.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// LogConfig sets the default log level (debug, info, warn, error).
type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads a cashbook.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default("")
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new ledger.
func Default(owner string) *Config {
	return &Config{
		Ledger: LedgerConfig{
			Owner:    owner,
			Currency: "INR",
		},
		Storage: StorageConfig{
			Backend: BackendFile,
			Path:    "data",
			Redis: RedisConfig{
				Addr:   "localhost:6379",
				Prefix: "cashbook:",
			},
		},
		Display: DisplayConfig{
			DateLayout: "02/01/2006",
			TimeLayout: "15:04:05",
		},
		Git: GitConfig{
			AutoCommit:  false,
			AuthorName:  "Cashbook",
			AuthorEmail: "cashbook@localhost",
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// Validate checks the fields that have a fixed set of values.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendFile, BackendSQLite:
		if c.Storage.Path == "" {
			return fmt.Errorf("storage.path is required for the %s backend", c.Storage.Backend)
		}
	case BackendRedis:
		if c.Storage.Redis.Addr == "" {
			return fmt.Errorf("storage.redis.addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}

	for name, layout := range map[string]string{"display.date_layout": c.Display.DateLayout, "display.time_layout": c.Display.TimeLayout} {
		if layout == "" || (time.Time{}).Format(layout) == layout {
			return fmt.Errorf("%s %q has no reference time fields", name, layout)
		}
	}
	return nil
}

// StoragePath resolves Storage.Path against home.
func (c *Config) StoragePath(home string) string {
	if filepath.IsAbs(c.Storage.Path) {
		return c.Storage.Path
	}
	return filepath.Join(home, c.Storage.Path)
}
