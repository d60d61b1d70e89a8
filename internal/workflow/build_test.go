package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/raghuporumamila/generic-bigquery/pkg/errors"
	"github.com/raghuporumamila/generic-bigquery/pkg/models"
)

func buildConfig() *models.Config {
	return &models.Config{
		BigQuery:  models.BigQuery{ProjectID: "proj", Location: "US", Connection: "google_cloud_default"},
		Procedure: models.Procedure{Dataset: "ds", Name: "usp_generic_merge"},
		Workflow:  models.Workflow{Name: "bq_call_generic_merge_sp"},
		MergeJobs: []models.MergeJob{
			{
				TaskID:      "merge_customers",
				TargetTable: "proj.ds.target_customers",
				SourceTable: "proj.ds.staging_customers",
				KeyColumns:  []string{"customer_id"},
			},
			{
				TaskID:      "merge_orders",
				TargetTable: "proj.ds.target_orders",
				SourceTable: "proj.ds.staging_orders",
				KeyColumns:  []string{"order_id", "region"},
				DependsOn:   []string{"merge_customers"},
			},
		},
	}
}

func TestBuildFromConfig(t *testing.T) {
	registry, err := BuildFromConfig(buildConfig())
	require.NoError(t, err)
	assert.Equal(t, 2, registry.Len())

	task, err := registry.Get("merge_customers")
	require.NoError(t, err)

	want := "CALL `proj.ds.usp_generic_merge`(\n" +
		"    'proj.ds.target_customers',\n" +
		"    'proj.ds.staging_customers',\n" +
		"    ['customer_id'],\n" +
		"    NULL\n" +
		");"
	assert.Equal(t, want, task.SQL)
	assert.Equal(t, "US", task.Location)
	assert.Equal(t, "google_cloud_default", task.ConnectionID)
	assert.False(t, task.UseLegacySQL)

	orders, err := registry.Get("merge_orders")
	require.NoError(t, err)
	assert.Contains(t, orders.SQL, "['order_id', 'region']")
}

func TestBuildFromConfigFailsBeforeRegistration(t *testing.T) {
	cfg := buildConfig()
	cfg.MergeJobs[1].KeyColumns = nil

	registry, err := BuildFromConfig(cfg)
	require.Error(t, err)
	assert.Nil(t, registry)
	assert.Equal(t, apperrors.ErrCodeInvalidArgument, apperrors.GetErrorCode(err))
}

func TestBuildFromConfigRejectsBadGraph(t *testing.T) {
	cfg := buildConfig()
	cfg.MergeJobs[1].DependsOn = []string{"merge_products"}

	_, err := BuildFromConfig(cfg)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeUnknownDependency, apperrors.GetErrorCode(err))
}
