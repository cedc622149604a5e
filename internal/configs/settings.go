package configs

import (
	"fmt"
	"os"
	"path/filepath"
)

// Settings are the resolved file locations for one run.
type Settings struct {
	ConfigPath string
	DataDir    string
}

// ResolveSettings works out where the config file and data directory live.
// An empty configPath means <user config dir>/stylevault/config.toml; the
// data directory defaults to $XDG_DATA_HOME/stylevault.
func ResolveSettings(configPath string) (*Settings, error) {
	if configPath == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("error getting config directory: %w", err)
		}
		configPath = filepath.Join(configDir, "stylevault", "config.toml")
	}

	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("error getting home directory: %w", err)
		}
		dataDir = filepath.Join(homeDir, ".local", "share")
	}

	return &Settings{
		ConfigPath: configPath,
		DataDir:    filepath.Join(dataDir, "stylevault"),
	}, nil
}

// Paths are the stores under a data directory.
type Paths struct {
	RegistryDir string
	DesignsDir  string
	RosterPath  string
	AuditPath   string
}

// PathsFor lays out the stores under dataDir.
func PathsFor(dataDir string) Paths {
	return Paths{
		RegistryDir: filepath.Join(dataDir, "registry"),
		DesignsDir:  filepath.Join(dataDir, "designs"),
		RosterPath:  filepath.Join(dataDir, "stylists.toml"),
		AuditPath:   filepath.Join(dataDir, "audit.jsonl"),
	}
}
