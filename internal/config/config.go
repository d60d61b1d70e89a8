package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/raghuporumamila/generic-bigquery/internal/common"
	"github.com/raghuporumamila/generic-bigquery/pkg/errors"
	"github.com/raghuporumamila/generic-bigquery/pkg/models"
)

func GetConfigPath() string {
	// Check for environment variable first
	if configPath := os.Getenv("BQMERGE_CONFIG"); configPath != "" {
		return filepath.Dir(configPath)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".bqmerge")
}

func GetConfigFile() string {
	if configFile := os.Getenv("BQMERGE_CONFIG"); configFile != "" {
		cleaned, err := common.CleanPath(configFile)
		if err != nil {
			return filepath.Join(GetConfigPath(), "config.yaml")
		}
		return cleaned
	}
	return filepath.Join(GetConfigPath(), "config.yaml")
}

func Load() (*models.Config, error) {
	return LoadFile(GetConfigFile())
}

// LoadFile reads and validates a workflow configuration. A validation
// failure here fails the whole definition load, before any task is
// registered.
func LoadFile(path string) (*models.Config, error) {
	cleaned, err := common.CleanPath(path)
	if err != nil {
		return nil, fmt.Errorf("invalid config file path: %w", err)
	}

	if _, err := os.Stat(cleaned); os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeConfigNotFound,
			fmt.Sprintf("config file %s does not exist", cleaned)).
			WithSuggestions("Run 'bqmerge setup' to create one")
	}

	data, err := os.ReadFile(cleaned) // #nosec G304 - path is validated
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config models.Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid,
			"failed to parse config file")
	}

	if err := Validate(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

func Save(config *models.Config) error {
	configPath := GetConfigPath()
	if err := os.MkdirAll(configPath, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(GetConfigFile(), data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func Exists() bool {
	_, err := os.Stat(GetConfigFile())
	return err == nil
}

// Validate checks the structural requirements the statement builder
// and registrar rely on. Field-level SQL validation happens later in
// the builder; this pass catches a broken file early with a config
// error instead of a build error.
func Validate(config *models.Config) error {
	required := []struct {
		field string
		value string
	}{
		{"bigquery.project_id", config.BigQuery.ProjectID},
		{"bigquery.location", config.BigQuery.Location},
		{"bigquery.connection", config.BigQuery.Connection},
		{"procedure.dataset", config.Procedure.Dataset},
		{"procedure.name", config.Procedure.Name},
		{"workflow.name", config.Workflow.Name},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return errors.ConfigError(fmt.Sprintf("%s is required", r.field), r.field)
		}
	}

	if len(config.MergeJobs) == 0 {
		return errors.ConfigError("at least one merge job is required", "merge_jobs")
	}

	seen := make(map[string]bool, len(config.MergeJobs))
	for i, job := range config.MergeJobs {
		if strings.TrimSpace(job.TaskID) == "" {
			return errors.ConfigError(
				fmt.Sprintf("merge_jobs[%d].task_id is required", i), "task_id")
		}
		if seen[job.TaskID] {
			return errors.ConfigError(
				fmt.Sprintf("merge_jobs contains duplicate task_id %q", job.TaskID), "task_id")
		}
		seen[job.TaskID] = true
	}

	return nil
}
