package workflow

import (
	"github.com/raghuporumamila/generic-bigquery/internal/sqlgen"
	"github.com/raghuporumamila/generic-bigquery/pkg/errors"
	"github.com/raghuporumamila/generic-bigquery/pkg/models"
)

// BuildFromConfig turns a loaded configuration into a validated
// workflow registry. Every CALL statement is rendered before any task
// is registered, so a single bad merge job fails the whole definition
// load and nothing partial reaches the scheduler.
func BuildFromConfig(cfg *models.Config) (*Registry, error) {
	statements := make(map[string]string, len(cfg.MergeJobs))
	for _, job := range cfg.MergeJobs {
		sql, err := sqlgen.BuildCallStatement(sqlgen.NewMergeCall(cfg, job))
		if err != nil {
			return nil, errors.Wrap(err, errors.GetErrorCode(err),
				"failed to build CALL statement for task "+job.TaskID).
				WithContext("task_id", job.TaskID)
		}
		statements[job.TaskID] = sql
	}

	registry := NewRegistry(cfg.Workflow.Name)
	for _, job := range cfg.MergeJobs {
		task := Task{
			ID:           job.TaskID,
			SQL:          statements[job.TaskID],
			UseLegacySQL: false,
			Location:     cfg.BigQuery.Location,
			ConnectionID: cfg.BigQuery.Connection,
			Priority:     job.Priority,
			Labels:       job.Labels,
			DependsOn:    job.DependsOn,
		}
		if _, err := registry.Register(task); err != nil {
			return nil, err
		}
	}

	if err := registry.Validate(); err != nil {
		return nil, err
	}
	return registry, nil
}
