// ABOUTME: Configuration management for daylock with YAML config loading.
// ABOUTME: Handles journal paths, storage backend, streak options, sync settings, and env overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/2389-research/daylock/internal/mdfile"
	"github.com/2389-research/daylock/internal/streak"
)

// EnvPrefix prefixes every environment override, e.g. DAYLOCK_GRACE_PERIOD.
const EnvPrefix = "DAYLOCK"

// Storage backends.
const (
	BackendMarkdown = "markdown"
	BackendSQLite   = "sqlite"
)

// Config stores daylock configuration loaded from ~/.config/daylock/config.yaml.
type Config struct {
	Journal JournalConfig `yaml:"journal"`
	Storage StorageConfig `yaml:"storage"`
	Streak  StreakConfig  `yaml:"streak"`
	Sync    SyncConfig    `yaml:"sync"`
}

// JournalConfig holds the journal location and the time zone that defines calendar days.
type JournalConfig struct {
	Path     string `yaml:"path,omitempty"`
	Timezone string `yaml:"timezone,omitempty"`
}

// StorageConfig selects the persistence backend.
type StorageConfig struct {
	Backend    string `yaml:"backend,omitempty"`
	SQLitePath string `yaml:"sqlite_path,omitempty"`
}

// StreakConfig holds streak calculation preferences.
type StreakConfig struct {
	GracePeriod  bool `yaml:"grace_period"`
	LookbackDays int  `yaml:"lookback_days,omitempty"`
}

// SyncConfig holds remote journal API settings.
type SyncConfig struct {
	APIKey string `yaml:"api_key,omitempty"`
	TeamID string `yaml:"team_id,omitempty"`
	APIURL string `yaml:"api_url,omitempty"`
}

// envOverrides maps DAYLOCK_* environment variables. Nil fields were not set.
type envOverrides struct {
	GracePeriod    *bool   `envconfig:"GRACE_PERIOD"`
	JournalPath    *string `envconfig:"JOURNAL_PATH"`
	StorageBackend *string `envconfig:"STORAGE_BACKEND"`
	Timezone       *string `envconfig:"TIMEZONE"`
	LookbackDays   *int    `envconfig:"LOOKBACK_DAYS"`
}

// HasRemote returns true if remote sync is configured.
func (c *Config) HasRemote() bool {
	return c.Sync.APIKey != "" && c.Sync.TeamID != "" && c.Sync.APIURL != ""
}

// GetJournalPath returns the markdown journal root, defaulting to $XDG_DATA_HOME/daylock/journal.
func (c *Config) GetJournalPath() (string, error) {
	if c.Journal.Path != "" {
		return ExpandPath(c.Journal.Path)
	}
	dataDir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, "journal"), nil
}

// GetSQLitePath returns the SQLite database path, defaulting to $XDG_DATA_HOME/daylock/journal.db.
func (c *Config) GetSQLitePath() (string, error) {
	if c.Storage.SQLitePath != "" {
		return ExpandPath(c.Storage.SQLitePath)
	}
	dataDir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, "journal.db"), nil
}

// Backend returns the normalized storage backend name.
func (c *Config) Backend() (string, error) {
	switch strings.ToLower(strings.TrimSpace(c.Storage.Backend)) {
	case "", BackendMarkdown, "md":
		return BackendMarkdown, nil
	case BackendSQLite:
		return BackendSQLite, nil
	default:
		return "", fmt.Errorf("unknown storage backend %q (valid: %s, %s)", c.Storage.Backend, BackendMarkdown, BackendSQLite)
	}
}

// Location returns the configured time zone, or the system zone when unset.
func (c *Config) Location() (*time.Location, error) {
	tz := strings.TrimSpace(c.Journal.Timezone)
	if tz == "" || strings.EqualFold(tz, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", tz, err)
	}
	return loc, nil
}

// LookBack returns the streak look-back window. Zero means unlimited.
func (c *Config) LookBack() time.Duration {
	if c.Streak.LookbackDays <= 0 {
		return 0
	}
	return time.Duration(c.Streak.LookbackDays) * 24 * time.Hour
}

// StreakOptions returns the streak engine options for this configuration.
func (c *Config) StreakOptions() streak.Options {
	return streak.Options{
		AllowGracePeriod: c.Streak.GracePeriod,
		LookBack:         c.LookBack(),
	}
}

// Validate checks settings that would otherwise fail later at use.
func (c *Config) Validate() error {
	if _, err := c.Backend(); err != nil {
		return err
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.Streak.LookbackDays < 0 {
		return fmt.Errorf("lookback_days must not be negative, got %d", c.Streak.LookbackDays)
	}
	return nil
}

// DataDir returns the daylock data directory.
func DataDir() (string, error) {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "daylock"), nil
}

// GetConfigPath returns the config file path.
func GetConfigPath() (string, error) {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "daylock", "config.yaml"), nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return home, nil
	}
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return filepath.Join(home, path[2:]), nil
	}
	return path, nil
}

// Load reads config from disk and applies DAYLOCK_* environment overrides.
// Returns default config if the file doesn't exist.
func Load() (*Config, error) {
	cfg, err := LoadFile()
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads config from disk only, without environment overrides.
// Use it when the result will be saved back.
func LoadFile() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &cfg, nil
}

// ApplyEnv overlays DAYLOCK_* environment variables onto c.
func (c *Config) ApplyEnv() error {
	var env envOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return fmt.Errorf("failed to read environment: %w", err)
	}
	if env.GracePeriod != nil {
		c.Streak.GracePeriod = *env.GracePeriod
	}
	if env.JournalPath != nil {
		c.Journal.Path = *env.JournalPath
	}
	if env.StorageBackend != nil {
		c.Storage.Backend = *env.StorageBackend
	}
	if env.Timezone != nil {
		c.Journal.Timezone = *env.Timezone
	}
	if env.LookbackDays != nil {
		c.Streak.LookbackDays = *env.LookbackDays
	}
	return nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}
	return mdfile.WriteYAML(afero.NewOsFs(), path, c)
}
