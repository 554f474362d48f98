package model

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// APIConfig holds the backend connection settings.
type APIConfig struct {
	// BaseURL is prepended to every endpoint path (e.g., https://api.example.com).
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// TimeoutSec bounds a single HTTP round trip.
	TimeoutSec int `mapstructure:"timeout_sec" yaml:"timeout_sec"`
}

// AuthConfig holds credential storage and session settings.
type AuthConfig struct {
	// DevBypass starts the session authenticated as a fixed development
	// user without contacting the backend.
	DevBypass bool `mapstructure:"dev_bypass" yaml:"dev_bypass"`

	// KeyringBackends restricts the keyring backends (e.g., ["file"]).
	KeyringBackends []string `mapstructure:"keyring_backends" yaml:"keyring_backends"`

	// KeyringDir is where the encrypted file backend stores credentials.
	KeyringDir string `mapstructure:"keyring_dir" yaml:"keyring_dir"`
}

// DisplayConfig holds client preferences.
type DisplayConfig struct {
	// Theme is "auto", "light" or "dark".
	Theme string `mapstructure:"theme" yaml:"theme"`

	// RefreshCron is the cron schedule used by watch mode.
	RefreshCron string `mapstructure:"refresh_cron" yaml:"refresh_cron"`
}

// StoreConfig holds local database settings.
type StoreConfig struct {
	// DBPath is the SQLite file keeping calendar preferences.
	DBPath string `mapstructure:"db_path" yaml:"db_path"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	API     APIConfig     `mapstructure:"api" yaml:"api"`
	Auth    AuthConfig    `mapstructure:"auth" yaml:"auth"`
	Display DisplayConfig `mapstructure:"display" yaml:"display"`
	Store   StoreConfig   `mapstructure:"store" yaml:"store"`
}

// Timeout returns the configured HTTP timeout.
func (c APIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSec) * time.Second
}

// configDir returns ~/.config/monthcal, or the working directory when
// the home directory is unknown.
func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "monthcal")
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/monthcal/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(configDir(), "config.yaml")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		API: APIConfig{
			BaseURL:    "http://localhost:8080",
			TimeoutSec: 30,
		},
		Auth: AuthConfig{
			KeyringDir: filepath.Join(configDir(), "credentials"),
		},
		Display: DisplayConfig{
			Theme:       "auto",
			RefreshCron: "*/15 * * * *",
		},
		Store: StoreConfig{
			DBPath: filepath.Join(configDir(), "monthcal.db"),
		},
	}
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// MONTHCAL_API_BASE_URL overrides api.base_url, and so on.
	v.SetEnvPrefix("monthcal")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := defaultAppConfig()
	v.SetDefault("api.base_url", defaults.API.BaseURL)
	v.SetDefault("api.timeout_sec", defaults.API.TimeoutSec)
	v.SetDefault("auth.dev_bypass", false)
	v.SetDefault("auth.keyring_backends", []string{})
	v.SetDefault("auth.keyring_dir", defaults.Auth.KeyringDir)
	v.SetDefault("display.theme", defaults.Display.Theme)
	v.SetDefault("display.refresh_cron", defaults.Display.RefreshCron)
	v.SetDefault("store.db_path", defaults.Store.DBPath)
	return v
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// A missing file yields the defaults, still subject to environment
// overrides.
func LoadConfig(path string) (*AppConfig, error) {
	v := newViper(path)

	if err := v.ReadInConfig(); err != nil {
		_, pathErr := err.(*os.PathError)
		_, notFound := err.(viper.ConfigFileNotFoundError)
		if !pathErr && !notFound {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.API.TimeoutSec <= 0 {
		cfg.API.TimeoutSec = 30
	}
	cfg.API.BaseURL = strings.TrimRight(cfg.API.BaseURL, "/")

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("api", cfg.API)
	v.Set("auth", cfg.Auth)
	v.Set("display", cfg.Display)
	v.Set("store", cfg.Store)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
