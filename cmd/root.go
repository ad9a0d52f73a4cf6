package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/medprep-cli/internal/config"
	"github.com/KaramelBytes/medprep-cli/internal/logging"
	"github.com/KaramelBytes/medprep-cli/internal/utils"
)

var (
	// Global flags
	cfgFile       string
	debug         bool
	flagLogFormat string
	flagResults   string

	// Loaded configuration
	cfg *cfgpkg.Global
	// Logger installed from the configuration
	logger = slog.Default()
)

var rootCmd = &cobra.Command{
	Use:   "medprep",
	Short: "medprep: clean, explore and preprocess medical treatment records",
	Long: `medprep turns a raw physical-medicine treatment spreadsheet into a model-ready dataset.
It cleans embedded numbers and free-text lists, produces an exploratory report and
runs imputation, outlier treatment, feature engineering, encoding, scaling and a
seeded train/test split.`,
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
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.medprep/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "", "log format: text or json (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagResults, "results-dir", "", "directory for run outputs (overrides config)")
}

func loadConfig() {
	cfg = nil
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: commands that need config report it themselves
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		level := "info"
		if debug {
			level = "debug"
		}
		logger = logging.Install(level, flagLogFormat, os.Stderr)
		return
	}
	cfg = c

	// Apply CLI overrides if provided
	f := rootCmd.PersistentFlags()
	if debug {
		cfg.LogLevel = "debug"
	}
	if f.Changed("log-format") && flagLogFormat != "" {
		cfg.LogFormat = flagLogFormat
	}
	if f.Changed("results-dir") && flagResults != "" {
		cfg.ResultsDir = utils.ExpandHome(flagResults)
	}
	logger = logging.Install(cfg.LogLevel, cfg.LogFormat, os.Stderr)
}

// activeConfig returns the loaded configuration after validating it.
func activeConfig() (*cfgpkg.Global, error) {
	if cfg == nil {
		return nil, errors.New("configuration not loaded")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
