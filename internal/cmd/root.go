package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/nexus-sus/nexus/internal/config"
	"github.com/nexus-sus/nexus/internal/errors"
	"github.com/nexus-sus/nexus/internal/logging"
	"github.com/nexus-sus/nexus/internal/search"
	"github.com/nexus-sus/nexus/internal/tui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

var rootCmd = &cobra.Command{
	Use:   "nexus",
	Short: "Look up regional reference values by state code",
	Long: `Nexus queries the lookup service for the reference values of a
Brazilian state (UF). Without a subcommand it opens the interactive search
screen; use 'nexus search <UF>' from scripts.`,
	Version:      config.Version,
	SilenceUsage: true,
	RunE:         runInteractive,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/nexus/config.yaml)")
	rootCmd.PersistentFlags().String("api-url", "", "lookup service base URL (overrides api.base_url)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("api.base_url", rootCmd.PersistentFlags().Lookup("api-url"))
	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.SetVersionTemplate("{{.Version}}\n")
	// Registered up front so flag parsing knows --version takes no value
	// and "nexus --version --config x" keeps its --config.
	rootCmd.InitDefaultVersionFlag()
}

func initConfig() {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath("$HOME/.config/nexus")
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("NEXUS")
	// Replace dots with underscores for nested keys in env vars
	// e.g., NEXUS_API_BASE_URL for api.base_url
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}

func runInteractive(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("the interactive search needs a terminal; use 'nexus search <UF>' instead")
	}

	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "invalid configuration")
	}

	logger := createLogger(cfg)
	defer func() { _ = logger.Close() }()

	client, err := search.NewHTTPClientFromConfig(cfg.API, logger)
	if err != nil {
		return errors.Wrap(err, "failed to create lookup client")
	}
	logger.Info("starting interactive search", "endpoint", client.Endpoint())

	app := tui.New(tui.Options{
		Lookuper:          client,
		Logger:            logger,
		Context:           cmd.Context(),
		ShowNationalValue: cfg.TUI.ShowNationalValue,
		AltScreen:         cfg.TUI.AltScreen,
	})

	watchConfig(logger, func(next *config.Config) {
		client, err := search.NewHTTPClientFromConfig(next.API, logger)
		if err != nil {
			logger.Warn("keeping previous lookup client", "error", err.Error())
			return
		}
		app.Reload(client, next.TUI.ShowNationalValue)
	})

	return app.Run()
}

// watchConfig reloads and validates the config file whenever it changes
// on disk and hands valid results to onChange. Invalid edits are logged
// and ignored. It does nothing when no config file is in use.
func watchConfig(logger *logging.Logger, onChange func(*config.Config)) {
	if viper.ConfigFileUsed() == "" {
		return
	}

	viper.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		logger.Info("config file changed", "file", e.Name, "op", e.Op.String())

		cfg, err := config.Load()
		if err != nil {
			logger.Warn("ignoring invalid config", "error", err.Error())
			return
		}
		onChange(cfg)
	})
	viper.WatchConfig()
}

// createLogger creates a logger if logging is enabled in config.
// Returns a NopLogger if logging is disabled or if creation fails.
func createLogger(cfg *config.Config) *logging.Logger {
	if !cfg.Logging.Enabled {
		return logging.NopLogger()
	}

	rotationConfig := logging.RotationConfig{
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
	}

	logger, err := logging.NewLogger(cfg.Logging.ResolveDir(), cfg.Logging.Level, rotationConfig)
	if err != nil {
		// Log creation failure shouldn't prevent the application from starting
		fmt.Fprintf(os.Stderr, "Warning: failed to create logger: %v\n", err)
		return logging.NopLogger()
	}

	return logger
}
