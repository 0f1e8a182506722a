package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kundanareddy2830/quantum-sight/internal/config"
)

var (
	initForce bool

	// configDirFunc is swapped in tests.
	configDirFunc = config.DefaultConfigDir
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configInitCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing config file")
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or create the configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := currentConfig()
		if IsJSONOutput() || IsJSONLOutput() {
			return WriteOutput(cmd.OutOrStdout(), cfg)
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to encode config: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a commented config file",
	Long:  "Write a commented config file to $XDG_CONFIG_HOME/foresight/config.yaml.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		result := createConfigFile()
		if IsJSONOutput() || IsJSONLOutput() {
			return WriteOutput(cmd.OutOrStdout(), result)
		}
		if result.Status == "failed" {
			return fmt.Errorf("%s", result.Message)
		}
		fmt.Fprintln(cmd.OutOrStdout(), result.Message)
		return nil
	},
}

type initResult struct {
	Status  string `json:"status"`
	Path    string `json:"path"`
	Message string `json:"message"`
}

func createConfigFile() initResult {
	path := filepath.Join(configDirFunc(), "config.yaml")
	written, err := config.WriteTemplate(path, initForce)
	switch {
	case err != nil:
		return initResult{Status: "failed", Path: path, Message: err.Error()}
	case !written:
		return initResult{
			Status:  "skipped",
			Path:    path,
			Message: fmt.Sprintf("Config already exists at %s (use --force to overwrite)", path),
		}
	default:
		return initResult{Status: "done", Path: path, Message: "Wrote " + path}
	}
}
