package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Version is the client release reported by --version and the User-Agent.
const Version = "1.2.0"

// Config represents the complete nexus configuration
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	TUI     TUIConfig     `mapstructure:"tui"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// APIConfig describes how to reach the lookup service
type APIConfig struct {
	// BaseURL is the scheme and host of the lookup service (default: "http://localhost:8080")
	BaseURL string `mapstructure:"base_url"`
	// SearchPath is the endpoint path queried with ?estado=<UF> (default: "/api/search")
	SearchPath string `mapstructure:"search_path"`
	// Timeout bounds a single lookup. 0 leaves it to the transport (default: 0)
	Timeout time.Duration `mapstructure:"timeout"`
	// UserAgent is sent with every request (default: "nexus/<version>")
	UserAgent string `mapstructure:"user_agent"`
}

// TUIConfig controls the terminal UI behavior
type TUIConfig struct {
	// AltScreen runs the UI in the terminal's alternate screen (default: true)
	AltScreen bool `mapstructure:"alt_screen"`
	// ShowNationalValue adds the national reference value and the update
	// timestamp to the result panel (default: false)
	ShowNationalValue bool `mapstructure:"show_national_value"`
}

// LoggingConfig controls debug logging behavior
type LoggingConfig struct {
	// Enabled controls whether logging is enabled (default: true)
	Enabled bool `mapstructure:"enabled"`
	// Level is the log level: "debug", "info", "warn", "error" (default: "info")
	Level string `mapstructure:"level"`
	// Dir is where nexus.log is written. Empty means <config dir>/logs.
	// Supports ~ for home directory expansion.
	Dir string `mapstructure:"dir"`
	// MaxSizeMB is the maximum log file size in megabytes before rotation (default: 10)
	MaxSizeMB int `mapstructure:"max_size_mb"`
	// MaxBackups is the number of backup log files to keep (default: 3)
	MaxBackups int `mapstructure:"max_backups"`
}

// ResolveDir returns the directory logs are written to.
func (l *LoggingConfig) ResolveDir() string {
	if l.Dir == "" {
		return filepath.Join(ConfigDir(), "logs")
	}

	path := l.Dir
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			path = home
		}
	}
	return path
}

// SearchURL returns the base URL joined with the search path.
func (a *APIConfig) SearchURL() string {
	return strings.TrimRight(a.BaseURL, "/") + a.SearchPath
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:    "http://localhost:8080",
			SearchPath: "/api/search",
			Timeout:    0, // no client-side timeout
			UserAgent:  "nexus/" + Version,
		},
		TUI: TUIConfig{
			AltScreen:         true,
			ShowNationalValue: false,
		},
		Logging: LoggingConfig{
			Enabled:    true,
			Level:      "info",
			Dir:        "",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	// API defaults
	viper.SetDefault("api.base_url", defaults.API.BaseURL)
	viper.SetDefault("api.search_path", defaults.API.SearchPath)
	viper.SetDefault("api.timeout", defaults.API.Timeout)
	viper.SetDefault("api.user_agent", defaults.API.UserAgent)

	// TUI defaults
	viper.SetDefault("tui.alt_screen", defaults.TUI.AltScreen)
	viper.SetDefault("tui.show_national_value", defaults.TUI.ShowNationalValue)

	// Logging defaults
	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.dir", defaults.Logging.Dir)
	viper.SetDefault("logging.max_size_mb", defaults.Logging.MaxSizeMB)
	viper.SetDefault("logging.max_backups", defaults.Logging.MaxBackups)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration, falling back to defaults when the
// loaded configuration is invalid.
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "nexus")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".nexus"
	}
	return filepath.Join(home, ".config", "nexus")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}
