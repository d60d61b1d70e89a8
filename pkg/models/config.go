package models

type Config struct {
	BigQuery    BigQuery     `yaml:"bigquery"`
	Procedure   Procedure    `yaml:"procedure"`
	Workflow    Workflow     `yaml:"workflow"`
	Connections []Connection `yaml:"connections"`
	MergeJobs   []MergeJob   `yaml:"merge_jobs"`
}

type BigQuery struct {
	ProjectID  string `yaml:"project_id"`
	Location   string `yaml:"location"`
	Connection string `yaml:"connection"` // name of the connection used at execution time
}

// Procedure identifies the generic merge stored procedure
type Procedure struct {
	Dataset string `yaml:"dataset"`
	Name    string `yaml:"name"`
}

// Workflow carries scheduler-facing metadata for the task graph
type Workflow struct {
	Name     string   `yaml:"name"`
	Schedule string   `yaml:"schedule"` // cron expression, empty means manual trigger only
	Tags     []string `yaml:"tags"`
}

// Connection maps a connection name to warehouse credentials.
// CredentialsFile empty means application-default credentials.
type Connection struct {
	Name            string `yaml:"name"`
	CredentialsFile string `yaml:"credentials_file"`
	UseKeyring      bool   `yaml:"use_keyring"` // resolve the credentials path from the OS keyring
}

// MergeJob describes one invocation of the merge procedure
type MergeJob struct {
	TaskID      string            `yaml:"task_id"`
	TargetTable string            `yaml:"target_table"`
	SourceTable string            `yaml:"source_table"`
	KeyColumns  []string          `yaml:"key_columns"`
	Options     *MergeOptions     `yaml:"options"`             // nil renders as NULL
	Priority    string            `yaml:"priority,omitempty"`  // INTERACTIVE or BATCH
	Labels      map[string]string `yaml:"labels,omitempty"`
	DependsOn   []string          `yaml:"depends_on,omitempty"`
}

// MergeOptions is the JSON options argument of the merge procedure.
// A non-nil value with no fields renders as PARSE_JSON('{}').
type MergeOptions struct {
	DeleteMissing bool     `yaml:"delete_missing,omitempty" json:"delete_missing,omitempty"`
	UpdateColumns []string `yaml:"update_columns,omitempty" json:"update_columns,omitempty"`
	AuditColumn   string   `yaml:"audit_column,omitempty" json:"audit_column,omitempty"`
	DryRun        bool     `yaml:"dry_run,omitempty" json:"dry_run,omitempty"`
}
