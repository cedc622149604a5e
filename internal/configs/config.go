package configs

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/google/uuid"
)

// DefaultMaxAssignments is the workload cap given to stylists added without one.
const DefaultMaxAssignments = 10

type Config struct {
	Store      StoreConfig      `toml:"store"`
	Crypto     CryptoConfig     `toml:"crypto"`
	Assignment AssignmentConfig `toml:"assignment"`
}

type StoreConfig struct {
	// DataDir overrides the default data directory when set.
	DataDir string `toml:"data_dir,omitempty"`
}

type CryptoConfig struct {
	MaxConcurrentOps int      `toml:"max_concurrent_ops"`
	QueueTimeout     Duration `toml:"queue_timeout"`
}

type AssignmentConfig struct {
	DefaultMaxAssignments int `toml:"default_max_assignments"`
}

// Duration is a time.Duration written as a string such as "30s".
type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = parsed
	return nil
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Crypto: CryptoConfig{
			MaxConcurrentOps: runtime.NumCPU(),
			QueueTimeout:     Duration{30 * time.Second},
		},
		Assignment: AssignmentConfig{
			DefaultMaxAssignments: DefaultMaxAssignments,
		},
	}
}

// Load reads the config at path. A missing file yields Default(); fields
// absent from the file keep their default values.
func Load(path string) (*Config, error) {
	config := Default()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config, nil
	}

	if err := LoadTOML(path, config); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if config.Crypto.MaxConcurrentOps <= 0 {
		config.Crypto.MaxConcurrentOps = runtime.NumCPU()
	}
	if config.Assignment.DefaultMaxAssignments <= 0 {
		config.Assignment.DefaultMaxAssignments = DefaultMaxAssignments
	}

	return config, nil
}

// Save writes config to path.
func Save(path string, config *Config) error {
	if err := SaveTOML(path, config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

// DataDir returns the configured data directory, falling back to settings.
func (c *Config) DataDir(settings *Settings) string {
	if c.Store.DataDir != "" {
		return c.Store.DataDir
	}
	return settings.DataDir
}

// GenerateDesignID generates a new UUID for a design record.
func GenerateDesignID() string {
	return uuid.New().String()
}

// GenerateUserID generates a new UUID for a user.
func GenerateUserID() string {
	return uuid.New().String()
}
