package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
bigquery:
  project_id: proj
  location: US
  connection: google_cloud_default
procedure:
  dataset: ds
  name: usp_generic_merge
workflow:
  name: bq_call_generic_merge_sp
merge_jobs:
  - task_id: merge_customers
    target_table: proj.ds.target
    source_table: proj.ds.source
    key_columns: [id]
`

func writeTestConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func executeCommand(t *testing.T, args ...string) error {
	t.Helper()
	t.Cleanup(func() { cfgFile = "" })

	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func TestValidateCommand(t *testing.T) {
	path := writeTestConfig(t, testConfig)

	err := executeCommand(t, "validate", "--config", path)
	require.NoError(t, err)
}

func TestValidateCommandRejectsBrokenConfig(t *testing.T) {
	broken := `
bigquery:
  project_id: proj
  location: US
  connection: google_cloud_default
procedure:
  dataset: ds
  name: usp_generic_merge
workflow:
  name: wf
merge_jobs:
  - task_id: merge_customers
    target_table: proj.ds.target
    source_table: proj.ds.source
    key_columns: []
`
	path := writeTestConfig(t, broken)

	err := executeCommand(t, "validate", "--config", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "key_columns")
}

func TestRenderCommandUnknownTask(t *testing.T) {
	path := writeTestConfig(t, testConfig)

	err := executeCommand(t, "render", "missing_task", "--config", path)
	require.Error(t, err)
}
