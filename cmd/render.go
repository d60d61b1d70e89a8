package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raghuporumamila/generic-bigquery/internal/workflow"
)

// renderCmd builds the workflow definition and prints the CALL
// statements exactly as they would be handed to the scheduler.
var renderCmd = &cobra.Command{
	Use:   "render [task-id]",
	Short: "Render the CALL statements for the configured merge jobs",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		registry, err := workflow.BuildFromConfig(cfg)
		if err != nil {
			return err
		}

		if len(args) == 1 {
			task, err := registry.Get(args[0])
			if err != nil {
				return err
			}
			fmt.Println(task.SQL)
			return nil
		}

		tasks, err := registry.Tasks()
		if err != nil {
			return err
		}
		for i, task := range tasks {
			if i > 0 {
				fmt.Println()
			}
			fmt.Printf("-- task: %s\n%s\n", task.ID, task.SQL)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)
}
