package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/lcamara/capmetrics/internal/config"
)

// Persistent flags; empty or zero means "use the loaded config".
var (
	configPath string
	cachePath  string
	logLevel   string
)

// cfg is the effective configuration, loaded before any subcommand runs.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "capmetrics",
	Short: "NBA cost-efficiency metrics tool",
	Long: `Scrapes advanced-stat and salary tables, builds a multi-season player
panel, and studies whether past performance predicts contract value.`,
	PersistentPreRunE: loadConfig,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config (default: $CAPMETRICS_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&cachePath, "db", "", "path to the SQLite ingestion cache (default from config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn, or error (default from config)")

	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(seasonsCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(featuresCmd)
	rootCmd.AddCommand(regressCmd)
	rootCmd.AddCommand(sweepCmd)
	rootCmd.AddCommand(playerCmd)
	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(dropCmd)
}

// loadConfig layers defaults, file, env, and finally the command-line flags,
// then points the global logger at the configured level.
func loadConfig(cmd *cobra.Command, args []string) error {
	c, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cachePath != "" {
		c.CachePath = cachePath
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}

	lvl, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return fmt.Errorf("parse log level %q: %w", c.LogLevel, err)
	}
	logrus.SetLevel(lvl)

	cfg = c
	return nil
}

// logFor returns the logger entry for one pipeline component.
func logFor(component string) *logrus.Entry {
	return logrus.WithField("component", component)
}
