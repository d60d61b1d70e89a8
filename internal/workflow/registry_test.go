package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/raghuporumamila/generic-bigquery/pkg/errors"
)

func validTask(id string) Task {
	return Task{
		ID:           id,
		SQL:          "CALL `proj.ds.usp_generic_merge`(\n    'proj.ds.target',\n    'proj.ds.source',\n    ['id'],\n    NULL\n);",
		Location:     "US",
		ConnectionID: "google_cloud_default",
	}
}

func TestRegisterStoresSQLUnchanged(t *testing.T) {
	registry := NewRegistry("bq_call_generic_merge_sp")
	task := validTask("merge_customers")

	stored, err := registry.Register(task)
	require.NoError(t, err)
	assert.Equal(t, task.SQL, stored.SQL)

	fetched, err := registry.Get("merge_customers")
	require.NoError(t, err)
	assert.Equal(t, task.SQL, fetched.SQL)
	assert.False(t, fetched.UseLegacySQL)
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Task)
		wantCode apperrors.ErrorCode
	}{
		{
			name:     "empty task id",
			mutate:   func(task *Task) { task.ID = "" },
			wantCode: apperrors.ErrCodeInvalidArgument,
		},
		{
			name:     "blank sql",
			mutate:   func(task *Task) { task.SQL = "  " },
			wantCode: apperrors.ErrCodeInvalidArgument,
		},
		{
			name:     "missing location",
			mutate:   func(task *Task) { task.Location = "" },
			wantCode: apperrors.ErrCodeInvalidArgument,
		},
		{
			name:     "missing connection",
			mutate:   func(task *Task) { task.ConnectionID = "" },
			wantCode: apperrors.ErrCodeInvalidArgument,
		},
		{
			name:     "legacy sql requested",
			mutate:   func(task *Task) { task.UseLegacySQL = true },
			wantCode: apperrors.ErrCodeInvalidArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := NewRegistry("wf")
			task := validTask("merge_customers")
			tt.mutate(&task)

			_, err := registry.Register(task)
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, apperrors.GetErrorCode(err))
			assert.Equal(t, 0, registry.Len())
		})
	}
}

func TestRegisterRejectsDuplicateID(t *testing.T) {
	registry := NewRegistry("wf")

	_, err := registry.Register(validTask("merge_customers"))
	require.NoError(t, err)

	_, err = registry.Register(validTask("merge_customers"))
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeDuplicateTask, apperrors.GetErrorCode(err))
	assert.Equal(t, 1, registry.Len())
}

func TestValidateUnknownDependency(t *testing.T) {
	registry := NewRegistry("wf")
	task := validTask("merge_orders")
	task.DependsOn = []string{"merge_customers"}

	_, err := registry.Register(task)
	require.NoError(t, err)

	err = registry.Validate()
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeUnknownDependency, apperrors.GetErrorCode(err))
}

func TestValidateCycle(t *testing.T) {
	registry := NewRegistry("wf")

	a := validTask("a")
	a.DependsOn = []string{"b"}
	b := validTask("b")
	b.DependsOn = []string{"a"}

	_, err := registry.Register(a)
	require.NoError(t, err)
	_, err = registry.Register(b)
	require.NoError(t, err)

	err = registry.Validate()
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeDependencyCycle, apperrors.GetErrorCode(err))
}

func TestOrderRespectsDependencies(t *testing.T) {
	registry := NewRegistry("wf")

	downstream := validTask("merge_orders")
	downstream.DependsOn = []string{"merge_customers"}

	_, err := registry.Register(downstream)
	require.NoError(t, err)
	_, err = registry.Register(validTask("merge_customers"))
	require.NoError(t, err)
	_, err = registry.Register(validTask("merge_products"))
	require.NoError(t, err)

	require.NoError(t, registry.Validate())

	order, err := registry.Order()
	require.NoError(t, err)
	assert.Equal(t, []string{"merge_customers", "merge_products", "merge_orders"}, order)
}

func TestTasksReturnsOrderedHandles(t *testing.T) {
	registry := NewRegistry("wf")

	_, err := registry.Register(validTask("merge_customers"))
	require.NoError(t, err)

	tasks, err := registry.Tasks()
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "merge_customers", tasks[0].ID)
}
