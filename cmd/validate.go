package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raghuporumamila/generic-bigquery/internal/ui"
	"github.com/raghuporumamila/generic-bigquery/internal/workflow"
)

// validateCmd performs the full definition load without touching the
// warehouse: config parsing, statement building, task registration
// and graph checks all run, mirroring what a scheduler import would
// evaluate.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration and all generated statements",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		registry, err := workflow.BuildFromConfig(cfg)
		if err != nil {
			return err
		}

		ui.ShowSuccess(fmt.Sprintf("workflow %q is valid: %d tasks, all statements rendered",
			registry.Name(), registry.Len()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
