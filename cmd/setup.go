package cmd

import (
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/raghuporumamila/generic-bigquery/internal/config"
	"github.com/raghuporumamila/generic-bigquery/internal/connection"
	"github.com/raghuporumamila/generic-bigquery/internal/ui"
	"github.com/raghuporumamila/generic-bigquery/pkg/models"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactively create the workflow configuration",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	if config.Exists() {
		var overwrite bool
		prompt := &survey.Confirm{
			Message: "Configuration already exists. Do you want to overwrite it?",
			Default: false,
		}
		if err := survey.AskOne(prompt, &overwrite); err != nil {
			return err
		}
		if !overwrite {
			fmt.Println("Setup cancelled.")
			return nil
		}
	}

	cfg := &models.Config{}

	bigqueryQs := []*survey.Question{
		{
			Name:     "projectid",
			Prompt:   &survey.Input{Message: "GCP project ID:"},
			Validate: survey.Required,
		},
		{
			Name: "location",
			Prompt: &survey.Input{
				Message: "BigQuery location (e.g., US, EU, us-central1):",
				Default: "US",
			},
			Validate: survey.Required,
		},
		{
			Name: "connection",
			Prompt: &survey.Input{
				Message: "Connection name:",
				Default: "google_cloud_default",
			},
			Validate: survey.Required,
		},
	}
	if err := survey.Ask(bigqueryQs, &cfg.BigQuery); err != nil {
		return err
	}

	procedureQs := []*survey.Question{
		{
			Name:     "dataset",
			Prompt:   &survey.Input{Message: "Dataset containing the merge procedure:"},
			Validate: survey.Required,
		},
		{
			Name: "name",
			Prompt: &survey.Input{
				Message: "Procedure name:",
				Default: "usp_generic_merge",
			},
			Validate: survey.Required,
		},
	}
	if err := survey.Ask(procedureQs, &cfg.Procedure); err != nil {
		return err
	}

	workflowQs := []*survey.Question{
		{
			Name: "name",
			Prompt: &survey.Input{
				Message: "Workflow name:",
				Default: "bq_call_generic_merge_sp",
			},
			Validate: survey.Required,
		},
		{
			Name:   "schedule",
			Prompt: &survey.Input{Message: "Schedule (cron expression, empty for manual runs):"},
		},
	}
	if err := survey.Ask(workflowQs, &cfg.Workflow); err != nil {
		return err
	}

	job, err := askMergeJob()
	if err != nil {
		return err
	}
	cfg.MergeJobs = []models.MergeJob{job}

	if cfg.BigQuery.Connection != "google_cloud_default" {
		var credentialsFile string
		prompt := &survey.Input{
			Message: "Service account credentials file (empty for application-default):",
		}
		if err := survey.AskOne(prompt, &credentialsFile); err != nil {
			return err
		}

		conn := models.Connection{Name: cfg.BigQuery.Connection}
		if credentialsFile != "" {
			var useKeyring bool
			keyringPrompt := &survey.Confirm{
				Message: "Store the credentials path in the OS keyring?",
				Default: true,
			}
			if err := survey.AskOne(keyringPrompt, &useKeyring); err != nil {
				return err
			}
			if useKeyring {
				if err := connection.Store(conn.Name, credentialsFile); err != nil {
					ui.ShowWarning(fmt.Sprintf("keyring unavailable, keeping path in config: %v", err))
					conn.CredentialsFile = credentialsFile
				} else {
					conn.UseKeyring = true
				}
			} else {
				conn.CredentialsFile = credentialsFile
			}
		}
		cfg.Connections = []models.Connection{conn}
	}

	if err := config.Validate(cfg); err != nil {
		return err
	}
	if err := config.Save(cfg); err != nil {
		return err
	}

	ui.ShowSuccess(fmt.Sprintf("configuration written to %s", config.GetConfigFile()))
	return nil
}

func askMergeJob() (models.MergeJob, error) {
	var job models.MergeJob

	jobQs := []*survey.Question{
		{
			Name: "taskid",
			Prompt: &survey.Input{
				Message: "Task ID for the first merge job:",
				Default: "call_usp_generic_merge",
			},
			Validate: survey.Required,
		},
		{
			Name:     "targettable",
			Prompt:   &survey.Input{Message: "Target table (project.dataset.table):"},
			Validate: survey.Required,
		},
		{
			Name:     "sourcetable",
			Prompt:   &survey.Input{Message: "Source table (project.dataset.table):"},
			Validate: survey.Required,
		},
	}
	if err := survey.Ask(jobQs, &job); err != nil {
		return job, err
	}

	var keyColumns string
	prompt := &survey.Input{Message: "Key columns (comma separated):"}
	if err := survey.AskOne(prompt, &keyColumns, survey.WithValidator(survey.Required)); err != nil {
		return job, err
	}
	for _, column := range strings.Split(keyColumns, ",") {
		if trimmed := strings.TrimSpace(column); trimmed != "" {
			job.KeyColumns = append(job.KeyColumns, trimmed)
		}
	}

	return job, nil
}
