package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var (
	DefaultDatabaseName = "notes.sqlite"
	DefaultDebounce     = 500 * time.Millisecond
)

// Config holds the resolved application configuration. It is read once
// at startup; the remote/local decision derived from RemoteURL never
// changes for the process lifetime.
type Config struct {
	// RemoteURL is the base URL of the notes service, trimmed of
	// trailing slashes. Empty means local fallback mode.
	RemoteURL string

	// DataDir holds the local sqlite store and is also the default
	// location for anything else the client writes.
	DataDir string

	// Debounce is the quiescence window for coalesced saves.
	Debounce time.Duration
}

// Settings represents the config file structure.
type Settings struct {
	RemoteURL  string `json:"remote_url,omitempty"`
	DataDir    string `json:"data_dir,omitempty"`
	DebounceMS int    `json:"debounce_ms,omitempty"`
}

// Load resolves configuration with priority: env vars > config file >
// defaults. The remote URL is recognized from NOTEKEEP_API_URL first,
// then NOTEKEEP_REMOTE_URL.
func Load() (*Config, error) {
	cfg := &Config{
		Debounce: DefaultDebounce,
	}

	// Config file first for base values
	if path, err := settingsPath(); err == nil {
		if settings, err := loadSettingsFile(path); err == nil {
			if settings.RemoteURL != "" {
				cfg.RemoteURL = settings.RemoteURL
			}
			if settings.DataDir != "" {
				cfg.DataDir = settings.DataDir
			}
			if settings.DebounceMS > 0 {
				cfg.Debounce = time.Duration(settings.DebounceMS) * time.Millisecond
			}
		}
	}

	// Environment variables override the config file
	if url := remoteURLFromEnv(); url != "" {
		cfg.RemoteURL = url
	}
	if dir := strings.TrimSpace(os.Getenv("NOTEKEEP_DATA_DIR")); dir != "" {
		cfg.DataDir = dir
	}

	cfg.RemoteURL = strings.TrimRight(strings.TrimSpace(cfg.RemoteURL), "/")

	if cfg.DataDir == "" {
		dir, err := defaultDataDir()
		if err != nil {
			return nil, err
		}
		cfg.DataDir = dir
	}

	return cfg, nil
}

// Remote reports whether persistence is routed to a remote service.
func (c *Config) Remote() bool {
	return c.RemoteURL != ""
}

// DatabasePath returns the path of the local sqlite store.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, DefaultDatabaseName)
}

// EnsureDataDir creates the data directory if it is missing.
func (c *Config) EnsureDataDir() error {
	return os.MkdirAll(c.DataDir, 0755)
}

func remoteURLFromEnv() string {
	if url := strings.TrimSpace(os.Getenv("NOTEKEEP_API_URL")); url != "" {
		return url
	}
	return strings.TrimSpace(os.Getenv("NOTEKEEP_REMOTE_URL"))
}

func defaultDataDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".notekeep"), nil
}

func settingsPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "notekeep", "config.json"), nil
}

func loadSettingsFile(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var settings Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, err
	}

	return &settings, nil
}
