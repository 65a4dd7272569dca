// ABOUTME: Weigh-in tool configuration: remote gateway credentials and data paths.
// ABOUTME: Handles settings persistence, the offline latch, and the store factory.

package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/harperreed/weighin/internal/localstore"
)

// Config stores weigh-in tool configuration.
type Config struct {
	// RemoteURL is the base URL of the remote gateway. Empty means no
	// remote is configured and the tool works purely locally.
	RemoteURL string `json:"remote_url,omitempty"`

	// RemoteKey is the API key sent with every remote request.
	RemoteKey string `json:"remote_key,omitempty"`

	// AdminPassword gates destructive commands (delete, import). Empty
	// means no gate.
	AdminPassword string `json:"admin_password,omitempty"`

	// DataDir is the root directory for local data storage.
	// Supports ~ expansion for home directory. Defaults to ~/.local/share/weighin.
	DataDir string `json:"data_dir,omitempty"`

	// ForceLocal pins the tool to local-only mode until switched back.
	// Persisted because each CLI invocation is a fresh process.
	ForceLocal bool `json:"force_local,omitempty"`
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return DefaultDataDir()
	}
	return ExpandPath(c.DataDir)
}

// DefaultDataDir returns the XDG data directory for the tool.
func DefaultDataDir() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		homeDir, _ := os.UserHomeDir()
		dataDir = filepath.Join(homeDir, ".local", "share")
	}
	return filepath.Join(dataDir, "weighin")
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// OpenStore opens the local persistent store under the data directory.
func (c *Config) OpenStore() (*localstore.Store, error) {
	return localstore.Open(filepath.Join(c.GetDataDir(), "store"))
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "weighin", "config.json")
}

// Load reads config from disk.
func Load() (*Config, error) {
	path := GetConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	path := GetConfigPath()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
