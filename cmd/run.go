package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	bqsvc "github.com/raghuporumamila/generic-bigquery/internal/bigquery"
	"github.com/raghuporumamila/generic-bigquery/internal/connection"
	"github.com/raghuporumamila/generic-bigquery/internal/ui"
	"github.com/raghuporumamila/generic-bigquery/internal/workflow"
)

var (
	runTask    string
	runTimeout time.Duration
)

// runCmd executes the workflow locally, in dependency order. This is
// what the external scheduler's operator does at execution time; the
// task's stored SQL is submitted verbatim.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute the workflow tasks against BigQuery",
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
		if runTask != "" {
			task, err := registry.Get(runTask)
			if err != nil {
				return err
			}
			tasks = []*workflow.Task{task}
		}

		resolver := connection.NewResolver(cfg.Connections)
		creds, err := resolver.Resolve(cfg.BigQuery.Connection)
		if err != nil {
			return err
		}

		service := bqsvc.NewService(bqsvc.Config{
			ProjectID:       cfg.BigQuery.ProjectID,
			Location:        cfg.BigQuery.Location,
			CredentialsFile: creds.CredentialsFile,
			Timeout:         runTimeout,
		})

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		if err := service.Connect(ctx); err != nil {
			return err
		}
		defer service.Close()

		logrus.WithFields(logrus.Fields{
			"workflow":   registry.Name(),
			"tasks":      len(tasks),
			"connection": creds.Name,
		}).Info("starting workflow run")

		for _, task := range tasks {
			result, err := service.ExecuteTask(ctx, task)
			if err != nil {
				ui.ShowError(err)
				return fmt.Errorf("workflow run aborted at task %q", task.ID)
			}
			ui.ShowSuccess(fmt.Sprintf("%s: job %s finished in %s (%d bytes processed)",
				result.TaskID, result.JobID, result.Elapsed.Round(time.Millisecond), result.BytesProcessed))
		}

		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&runTask, "task", "", "run a single task by id")
	runCmd.Flags().DurationVar(&runTimeout, "timeout", 30*time.Minute, "per-task execution timeout")
	rootCmd.AddCommand(runCmd)
}
