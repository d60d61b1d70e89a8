package bigquery

import (
	"context"
	"fmt"
	"time"

	bq "cloud.google.com/go/bigquery"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"

	"github.com/raghuporumamila/generic-bigquery/internal/workflow"
	"github.com/raghuporumamila/generic-bigquery/pkg/errors"
)

// Config holds BigQuery connection configuration
type Config struct {
	ProjectID       string
	Location        string
	CredentialsFile string // empty means application-default credentials
	Timeout         time.Duration
}

// Service executes registered workflow tasks against BigQuery. It
// plays the role the external scheduler's operator would play in
// production: take the task's SQL verbatim and run it over a managed
// connection.
type Service struct {
	client    *bq.Client
	config    Config
	connected bool
	log       *logrus.Entry
}

// RunResult carries the outcome of one executed task
type RunResult struct {
	TaskID         string
	JobID          string
	Elapsed        time.Duration
	BytesProcessed int64
}

// NewService creates a new BigQuery service
func NewService(config Config) *Service {
	return &Service{
		config: config,
		log:    logrus.WithField("component", "bigquery"),
	}
}

// Connect creates the BigQuery client
func (s *Service) Connect(ctx context.Context) error {
	if s.connected {
		return nil
	}

	var opts []option.ClientOption
	if s.config.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(s.config.CredentialsFile))
	}

	client, err := bq.NewClient(ctx, s.config.ProjectID, opts...)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeCredentialsMissing,
			"failed to create BigQuery client").
			WithContext("project", s.config.ProjectID)
	}

	s.client = client
	s.connected = true
	s.log.WithFields(logrus.Fields{
		"project":  s.config.ProjectID,
		"location": s.config.Location,
	}).Debug("BigQuery client created")
	return nil
}

// Close releases the client
func (s *Service) Close() error {
	if !s.connected {
		return nil
	}
	s.connected = false
	return s.client.Close()
}

// ExecuteTask runs one registered task's SQL statement. The statement
// is submitted exactly as stored on the task; transient API failures
// are retried with backoff.
func (s *Service) ExecuteTask(ctx context.Context, task *workflow.Task) (*RunResult, error) {
	if !s.connected {
		return nil, errors.New(errors.ErrCodeInternal, "service is not connected")
	}

	priority, err := queryPriority(task.Priority)
	if err != nil {
		return nil, err
	}

	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}

	start := time.Now()
	var result *RunResult

	err = errors.RetryWithBackoff(ctx, func(ctx context.Context) error {
		query := s.client.Query(task.SQL)
		query.Location = task.Location
		query.UseLegacySQL = task.UseLegacySQL
		query.Priority = priority
		query.Labels = task.Labels

		s.log.WithFields(logrus.Fields{
			"task":     task.ID,
			"location": task.Location,
		}).Info("submitting query job")

		job, err := query.Run(ctx)
		if err != nil {
			return errors.QueryError("failed to submit query job", task.SQL, err).
				WithContext("task", task.ID)
		}

		status, err := job.Wait(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return errors.Wrap(ctx.Err(), errors.ErrCodeJobTimeout,
					fmt.Sprintf("task %q timed out waiting for job %s", task.ID, job.ID()))
			}
			return errors.QueryError("failed waiting for query job", task.SQL, err).
				WithContext("task", task.ID).
				WithContext("job_id", job.ID())
		}
		if err := status.Err(); err != nil {
			return errors.QueryError("query job failed", task.SQL, err).
				WithContext("task", task.ID).
				WithContext("job_id", job.ID())
		}

		result = &RunResult{
			TaskID:  task.ID,
			JobID:   job.ID(),
			Elapsed: time.Since(start),
		}
		if status.Statistics != nil {
			result.BytesProcessed = status.Statistics.TotalBytesProcessed
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"task":    result.TaskID,
		"job_id":  result.JobID,
		"elapsed": result.Elapsed.String(),
	}).Info("query job completed")
	return result, nil
}

func queryPriority(priority string) (bq.QueryPriority, error) {
	switch priority {
	case "":
		return bq.InteractivePriority, nil
	case "INTERACTIVE":
		return bq.InteractivePriority, nil
	case "BATCH":
		return bq.BatchPriority, nil
	default:
		return "", errors.InvalidArgument("priority",
			fmt.Sprintf("%q is not a valid query priority, use INTERACTIVE or BATCH", priority))
	}
}
