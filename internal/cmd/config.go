package cmd

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/nexus-sus/nexus/internal/config"
	"github.com/nexus-sus/nexus/internal/errors"
	"github.com/nexus-sus/nexus/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify Nexus configuration",
	Long: `View or modify Nexus configuration.

Without arguments, displays the current configuration.
Use subcommands to modify settings or create a config file.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the user's config file.

Keys use dot notation, e.g.:
  nexus config set api.base_url https://nexus.example.com
  nexus config set api.timeout 5s
  nexus config set tui.show_national_value true

Valid keys:
  api.base_url             - Lookup service base URL (http or https)
  api.search_path          - Search endpoint path (default /api/search)
  api.timeout              - Per-lookup timeout, 0 for none (e.g. 5s)
  api.user_agent           - User-Agent header sent with each lookup
  tui.alt_screen           - Use the alternate screen (true/false)
  tui.show_national_value  - Show the national value rows (true/false)
  logging.enabled          - Write a log file (true/false)
  logging.level            - Options: debug, info, warn, error
  logging.dir              - Log directory (default <config dir>/logs)
  logging.max_size_mb      - Rotate the log file at this size
  logging.max_backups      - Rotated log files to keep`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file",
	Long:  `Create a default config file at ~/.config/nexus/config.yaml with all available options.`,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the config file path",
	RunE:  runConfigPath,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(out, "Warning: %v\nShowing defaults.\n\n", err)
		cfg = config.Default()
	}

	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintln(out)

	// Show where config is being read from
	if viper.ConfigFileUsed() != "" {
		fmt.Fprintf(out, "Config file: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Fprintf(out, "Config file: (none - using defaults)\n")
	}
	fmt.Fprintln(out)

	// API settings
	fmt.Fprintln(out, "api:")
	fmt.Fprintf(out, "  base_url: %s\n", cfg.API.BaseURL)
	fmt.Fprintf(out, "  search_path: %s\n", cfg.API.SearchPath)
	fmt.Fprintf(out, "  timeout: %s\n", cfg.API.Timeout)
	fmt.Fprintf(out, "  user_agent: %s\n", cfg.API.UserAgent)
	fmt.Fprintf(out, "  # endpoint: %s\n", cfg.API.SearchURL())

	// TUI settings
	fmt.Fprintln(out, "tui:")
	fmt.Fprintf(out, "  alt_screen: %v\n", cfg.TUI.AltScreen)
	fmt.Fprintf(out, "  show_national_value: %v\n", cfg.TUI.ShowNationalValue)

	// Logging settings
	fmt.Fprintln(out, "logging:")
	fmt.Fprintf(out, "  enabled: %v\n", cfg.Logging.Enabled)
	fmt.Fprintf(out, "  level: %s\n", cfg.Logging.Level)
	fmt.Fprintf(out, "  dir: %s\n", cfg.Logging.ResolveDir())
	fmt.Fprintf(out, "  max_size_mb: %d\n", cfg.Logging.MaxSizeMB)
	fmt.Fprintf(out, "  max_backups: %d\n", cfg.Logging.MaxBackups)

	return nil
}

// configKeys maps each settable key to its value type.
var configKeys = map[string]string{
	"api.base_url":            "url",
	"api.search_path":         "path",
	"api.timeout":             "duration",
	"api.user_agent":          "string",
	"tui.alt_screen":          "bool",
	"tui.show_national_value": "bool",
	"logging.enabled":         "bool",
	"logging.level":           "level",
	"logging.dir":             "string",
	"logging.max_size_mb":     "int",
	"logging.max_backups":     "int",
}

// parseConfigValue validates value for key and converts it to the type
// written to the config file.
func parseConfigValue(key, value string) (any, error) {
	keyType, ok := configKeys[key]
	if !ok {
		return nil, fmt.Errorf("unknown configuration key: %s\nRun 'nexus config set --help' to see valid keys", key)
	}

	switch keyType {
	case "url":
		u, err := url.Parse(value)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return nil, fmt.Errorf("invalid value for %s: expected an absolute http or https URL", key)
		}
		return value, nil
	case "path":
		if !strings.HasPrefix(value, "/") {
			return nil, fmt.Errorf("invalid value for %s: must start with /", key)
		}
		return value, nil
	case "duration":
		d, err := time.ParseDuration(value)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: expected a duration such as 5s", key)
		}
		if d < 0 {
			return nil, fmt.Errorf("invalid value for %s: must be non-negative", key)
		}
		return d.String(), nil
	case "level":
		level := strings.ToLower(value)
		for _, valid := range config.ValidLogLevels() {
			if level == valid {
				return level, nil
			}
		}
		return nil, fmt.Errorf("invalid value for %s: %s\nValid options: %s",
			key, value, strings.Join(config.ValidLogLevels(), ", "))
	case "bool":
		if value != "true" && value != "false" {
			return nil, fmt.Errorf("invalid value for %s: expected true or false", key)
		}
		return value == "true", nil
	case "int":
		intVal, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: expected integer", key)
		}
		if intVal < 0 {
			return nil, fmt.Errorf("invalid value for %s: must be non-negative", key)
		}
		return intVal, nil
	default:
		if strings.TrimSpace(value) == "" && key == "api.user_agent" {
			return nil, fmt.Errorf("invalid value for %s: must not be empty", key)
		}
		return value, nil
	}
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key := args[0]
	typedValue, err := parseConfigValue(key, args[1])
	if err != nil {
		return err
	}

	// Write to the file in use, or create the default one
	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		configFile = config.ConfigFile()
	}
	if err := os.MkdirAll(filepath.Dir(configFile), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := writeConfigValue(configFile, key, typedValue); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Set %s = %v\n", key, typedValue)
	fmt.Fprintf(out, "Config saved to %s\n", configFile)

	return nil
}

// writeConfigValue sets key in the file at path and nothing else. It goes
// through a fresh viper instance so flag, environment and default values
// of the running command never end up in the file.
func writeConfigValue(path, key string, value any) error {
	v := viper.New()
	v.SetConfigFile(path)
	if filepath.Ext(path) == "" {
		v.SetConfigType("yaml")
	}

	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return errors.Wrapf(err, "failed to read %s", path)
		}
	}

	v.Set(key, value)
	if err := v.WriteConfigAs(path); err != nil {
		return errors.Wrap(err, "failed to write config file")
	}
	return nil
}

// defaultConfigContent is written by 'nexus config init'.
const defaultConfigContent = `# Nexus Configuration

# Lookup service
api:
  # Scheme and host of the lookup service
  base_url: http://localhost:8080
  # Endpoint queried with ?estado=<UF>
  search_path: /api/search
  # Per-lookup timeout; 0 waits for the server
  timeout: 0s
  # User-Agent header sent with each lookup
  user_agent: nexus/` + config.Version + `

# TUI (terminal user interface) settings
tui:
  # Run in the terminal's alternate screen
  alt_screen: true
  # Also show the national value and the update timestamp
  show_national_value: false

# Debug logging
logging:
  enabled: true
  # Options: debug, info, warn, error
  level: info
  # Empty means <config dir>/logs
  dir: ""
  # Rotate nexus.log at this size and keep this many old files
  max_size_mb: 10
  max_backups: 3
`

func runConfigInit(cmd *cobra.Command, args []string) error {
	configDir := config.ConfigDir()
	configFile := config.ConfigFile()

	// Check if config file already exists
	if _, err := os.Stat(configFile); err == nil {
		return fmt.Errorf("config file already exists at %s\nUse 'nexus config set' to modify values", configFile)
	}

	// Create config directory
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(configFile, []byte(defaultConfigContent), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created config file at %s\n", configFile)
	fmt.Fprintln(out, "Edit this file to customize Nexus's behavior.")

	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	configFile := config.ConfigFile()

	if viper.ConfigFileUsed() != "" {
		fmt.Fprintf(out, "Active config: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Fprintf(out, "Default path: %s (not created)\n", configFile)
	}

	// Also show config search paths
	fmt.Fprintln(out, "\nSearch paths:")
	fmt.Fprintf(out, "  1. %s\n", configFile)
	fmt.Fprintf(out, "  2. $HOME/.config/nexus/config.yaml\n")
	fmt.Fprintf(out, "  3. ./config.yaml (current directory)\n")
	fmt.Fprintln(out, "\nEnvironment variables: NEXUS_* (e.g., NEXUS_API_BASE_URL)")
	fmt.Fprintf(out, "Log file: %s\n", filepath.Join(config.Get().Logging.ResolveDir(), logging.FileName))

	return nil
}
