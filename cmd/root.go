package cmd

import (
	"fmt"
	"os"

	cfgpkg "github.com/KaramelBytes/radioscope-cli/internal/config"
	"github.com/KaramelBytes/radioscope-cli/internal/logging"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	cfgFile       string
	debug         bool
	flagLogLevel  string
	flagLogFormat string

	// Loaded configuration
	cfg *cfgpkg.Global

	logger = zap.NewNop()
	appFs  = afero.NewOsFs()
)

var rootCmd = &cobra.Command{
	Use:   "radioscope",
	Short: "radioscope: extract and analyze amateur radio-telescope sensor logs",
	Long: `radioscope filters raw radio-telescope captures into clean CSV files and analyzes them:
descriptive statistics, threshold-based signal detection and a windowed frequency
spectrum, rendered as a multi-panel chart plus a text and PDF report.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.radioscope/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging (same as --log-level debug)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: debug|info|warn|error (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "", "log format: text|json (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to defaults so commands like `config set` can repair the file
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = cfgpkg.Default()
	}
	cfg = c

	level, format := cfg.LogLevel, cfg.LogFormat
	if flagLogLevel != "" {
		level = flagLogLevel
	}
	if flagLogFormat != "" {
		format = flagLogFormat
	}
	if debug {
		level = "debug"
	}
	l, err := logging.New(level, format, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "⚠ Warning: %v; logging disabled\n", err)
		logger = zap.NewNop()
		return
	}
	logger = l
}

// currentConfig returns the loaded configuration or the built-in defaults.
func currentConfig() *cfgpkg.Global {
	if cfg == nil {
		return cfgpkg.Default()
	}
	return cfg
}
