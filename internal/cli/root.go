// Package cli implements the foresight command line.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kundanareddy2830/quantum-sight/internal/config"
	"github.com/kundanareddy2830/quantum-sight/internal/logging"
)

var (
	cfgFile        string
	jsonOutput     bool
	jsonlOutput    bool
	nonInteractive bool
	noProgress     bool
	noColor        bool
	logLevel       string
	logFormat      string
	projectDir     string

	appConfig *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "foresight",
	Short: "Guided quantum-assisted fraud analysis walkthrough",
	Long: `Foresight walks through a fraud-analysis pipeline one stage at a time:
transaction history, graph embeddings, dimensionality reduction, the quantum
circuit, VQE optimisation and the final risk forecast.

Stages unlock in order. Auto-play steps through the tour on its own.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig(cmd)
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default $XDG_CONFIG_HOME/foresight/config.yaml)")
	flags.BoolVar(&jsonOutput, "json", false, "output in JSON format")
	flags.BoolVar(&jsonlOutput, "jsonl", false, "output in JSON Lines format")
	flags.BoolVar(&nonInteractive, "non-interactive", false, "never prompt; use defaults")
	flags.BoolVar(&noProgress, "no-progress", false, "suppress progress output")
	flags.BoolVar(&noColor, "no-color", false, "disable colored output")
	flags.StringVar(&logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
	flags.StringVar(&logFormat, "log-format", "", "log format (console, json)")
	flags.StringVar(&projectDir, "project-dir", "", "directory searched for .foresight/catalogs (default: working directory)")
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		printError(err)
		os.Exit(1)
	}
}

// GetConfig returns the configuration loaded for the running command.
func GetConfig() *config.Config {
	return appConfig
}

func initConfig(cmd *cobra.Command) error {
	loader := config.NewLoader()
	if cfgFile != "" {
		loader.SetConfigFile(cfgFile)
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		loader.Set("logging.level", logLevel)
	}
	if flags.Changed("log-format") {
		loader.Set("logging.format", logFormat)
	}
	if flags.Changed("project-dir") {
		loader.Set("project_dir", projectDir)
	}
	if f := flags.Lookup("catalog"); f != nil && f.Changed {
		loader.Set("catalog", f.Value.String())
	}

	cfg, err := loader.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if err := logging.Init(logging.Config{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		NoColor: noColor,
	}); err != nil {
		return err
	}

	appConfig = cfg
	if used := loader.ConfigFileUsed(); used != "" {
		logger := logging.Component("cli")
		logger.Debug().Str("file", used).Msg("loaded config")
	}
	return nil
}

func printError(err error) {
	var preflight *PreflightError
	if errors.As(err, &preflight) {
		fmt.Fprintf(os.Stderr, "Error: %s\n", preflight.Message)
		if preflight.Hint != "" {
			fmt.Fprintf(os.Stderr, "Hint: %s\n", preflight.Hint)
		}
		if preflight.NextStep != "" {
			fmt.Fprintf(os.Stderr, "Next: %s\n", preflight.NextStep)
		}
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
}
