package cmd

import (
	"io"
	"log/slog"
	"os"

	"github.com/chriserin/shallot/internal/config"
	"github.com/spf13/cobra"
)

var (
	cfgFile       string
	logLevelFlag  string
	logFormatFlag string

	cfg    = config.Default()
	logger = slog.New(slog.NewTextHandler(io.Discard, nil))
)

var rootCmd = &cobra.Command{
	Use:           "shallot",
	Short:         "shallot — parse and index Gherkin feature files",
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(cfgFile, ".")
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("log-level") {
			loaded.LogLevel = logLevelFlag
		}
		if cmd.Flags().Changed("log-format") {
			loaded.LogFormat = logFormatFlag
		}
		if err := loaded.Validate(); err != nil {
			return err
		}
		cfg = loaded
		logger = newLogger(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr())
		logger.Debug("configuration loaded", "features_dir", cfg.FeaturesDir, "database", cfg.Database)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to a config file (default: .shallot.yaml if present)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "warn", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormatFlag, "log-format", "text", "Log format: text or json")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
