package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Rorical/CosmicDialog/internal/app"
	"github.com/Rorical/CosmicDialog/internal/config"
	"github.com/Rorical/CosmicDialog/internal/logging"
)

var (
	// Global flags
	configPath string
	latency    string
	verbose    bool

	// Loaded before any command runs
	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "cosmic",
	Short: "A terminal chat that shows an agent planning and calling tools",
	Long: `Cosmic Dialog is a terminal chat that simulates an AI agent.

Each message is planned, routed to simulated tools (web search, calculator,
memory) and answered in markdown, with every tool call visible in the agent
console. Nothing leaves your machine.

Run without arguments to start the interactive chat.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// config init must be able to repair a file that does not validate
		if cmd == initConfigCmd {
			loaded, err := loadConfigForInit()
			if err != nil {
				return err
			}
			cfg = loaded
			logger = initLogger()
			return nil
		}

		loaded, err := loadConfig()
		if err != nil {
			return err
		}
		cfg = loaded

		logger, err = logging.New(cfg.LogPath(), cfg.LogLevel, verbose)
		if err != nil {
			return err
		}
		logger.Debug("Config loaded", zap.String("path", cfg.Path()), zap.String("command", cmd.Name()))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := app.NewApplication(cfg, logger)
		if err != nil {
			return fmt.Errorf("failed to create application: %w", err)
		}
		defer application.Stop()

		if err := application.Start(); err != nil {
			return fmt.Errorf("application error: %w", err)
		}
		return nil
	},
}

// loadConfig reads --config or the default file and applies --latency
func loadConfig() (*config.Config, error) {
	var (
		loaded *config.Config
		err    error
	)
	if configPath != "" {
		loaded, err = config.LoadConfigFrom(configPath)
	} else {
		loaded, err = config.LoadConfig()
	}
	if err != nil {
		return nil, err
	}

	if latency != "" {
		d, err := time.ParseDuration(latency)
		if err != nil {
			return nil, fmt.Errorf("invalid --latency %q: %w", latency, err)
		}
		if d < 0 {
			return nil, fmt.Errorf("--latency must not be negative, got %s", d)
		}
		loaded.Latency = config.Duration{Duration: d}
	}
	return loaded, nil
}

// loadConfigForInit reads the current file as prompt defaults. It skips
// validation and ignores --latency so only answered values get saved.
func loadConfigForInit() (*config.Config, error) {
	path := configPath
	if path == "" {
		var err error
		if path, err = config.GetConfigPath(); err != nil {
			return nil, fmt.Errorf("failed to get config path: %w", err)
		}
	}

	loaded, err := config.ReadConfigFrom(path)
	if err != nil {
		// Unparsable files start over from the defaults
		loaded = config.Default()
		loaded.SetPath(path)
	}
	return loaded, nil
}

// initLogger falls back to the default level when log_level is the broken value
func initLogger() *zap.Logger {
	if l, err := logging.New(cfg.LogPath(), cfg.LogLevel, verbose); err == nil {
		return l
	}
	if l, err := logging.New(cfg.LogPath(), config.DefaultLogLevel, verbose); err == nil {
		return l
	}
	return zap.NewNop()
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $COSMIC_HOME/.cosmic/config.toml)")
	rootCmd.PersistentFlags().StringVar(&latency, "latency", "", `simulated tool latency, e.g. "200ms"; "0" disables it`)
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	// Add subcommands
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(configCmd)
}
