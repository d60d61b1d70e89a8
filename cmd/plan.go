package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/raghuporumamila/generic-bigquery/internal/ui"
	"github.com/raghuporumamila/generic-bigquery/internal/workflow"
	"github.com/raghuporumamila/generic-bigquery/pkg/models"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Validate the workflow definition and show the task graph",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		registry, err := workflow.BuildFromConfig(cfg)
		if err != nil {
			return err
		}

		tasks, err := registry.Tasks()
		if err != nil {
			return err
		}

		fmt.Printf("Workflow: %s\n", registry.Name())
		if cfg.Workflow.Schedule != "" {
			fmt.Printf("Schedule: %s\n", cfg.Workflow.Schedule)
		}
		fmt.Printf("Location: %s  Connection: %s\n\n", cfg.BigQuery.Location, cfg.BigQuery.Connection)

		jobsByID := make(map[string]models.MergeJob, len(cfg.MergeJobs))
		for _, job := range cfg.MergeJobs {
			jobsByID[job.TaskID] = job
		}

		table := ui.NewTaskTable(os.Stdout)
		for _, task := range tasks {
			job := jobsByID[task.ID]
			table.AddRow(
				task.ID,
				job.TargetTable,
				job.SourceTable,
				strings.Join(job.KeyColumns, ", "),
				strings.Join(task.DependsOn, ", "),
			)
		}
		table.Render()

		ui.ShowSuccess(fmt.Sprintf("workflow definition is valid (%d tasks)", registry.Len()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(planCmd)
}
