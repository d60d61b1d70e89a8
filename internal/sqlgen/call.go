package sqlgen

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/raghuporumamila/generic-bigquery/pkg/errors"
	"github.com/raghuporumamila/generic-bigquery/pkg/models"
)

// MergeCall holds the parameters of one invocation of the generic
// merge stored procedure. It is built once from static configuration
// and never mutated afterwards.
type MergeCall struct {
	ProjectID   string
	Dataset     string
	Procedure   string
	TargetTable string
	SourceTable string
	KeyColumns  []string
	Options     *models.MergeOptions
}

// NewMergeCall builds a MergeCall for one configured merge job.
func NewMergeCall(cfg *models.Config, job models.MergeJob) MergeCall {
	return MergeCall{
		ProjectID:   cfg.BigQuery.ProjectID,
		Dataset:     cfg.Procedure.Dataset,
		Procedure:   cfg.Procedure.Name,
		TargetTable: job.TargetTable,
		SourceTable: job.SourceTable,
		KeyColumns:  job.KeyColumns,
		Options:     job.Options,
	}
}

// BuildCallStatement renders the CALL statement for the merge
// procedure. The procedure name is backtick-quoted, table references
// are passed as single-quoted string literals, key columns render as
// an ARRAY<STRING> literal preserving input order, and the options
// argument renders as NULL when absent or as a PARSE_JSON literal
// otherwise. Pure and deterministic; all validation happens here, at
// definition-build time, never at execution time.
func BuildCallStatement(call MergeCall) (string, error) {
	if err := call.validate(); err != nil {
		return "", err
	}

	procedure, err := RawIdentifier(call.qualifiedProcedure()).SQL()
	if err != nil {
		return "", err
	}

	target, err := renderLiteral("target_table", call.TargetTable)
	if err != nil {
		return "", err
	}

	source, err := renderLiteral("source_table", call.SourceTable)
	if err != nil {
		return "", err
	}

	keys, err := renderKeyColumns(call.KeyColumns)
	if err != nil {
		return "", err
	}

	options, err := OptionsJSON{Value: call.Options}.SQL()
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("CALL %s(\n    %s,\n    %s,\n    %s,\n    %s\n);",
		procedure, target, source, keys, options), nil
}

func (c MergeCall) qualifiedProcedure() string {
	return strings.TrimSpace(c.ProjectID) + "." +
		strings.TrimSpace(c.Dataset) + "." +
		strings.TrimSpace(c.Procedure)
}

func (c MergeCall) validate() error {
	required := []struct {
		field string
		value string
	}{
		{"project_id", c.ProjectID},
		{"dataset", c.Dataset},
		{"procedure", c.Procedure},
		{"target_table", c.TargetTable},
		{"source_table", c.SourceTable},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return errors.InvalidArgument(r.field, "must not be empty")
		}
	}

	if len(c.KeyColumns) == 0 {
		return errors.InvalidArgument("key_columns", "must contain at least one column")
	}

	for _, table := range []struct {
		field string
		value string
	}{
		{"target_table", c.TargetTable},
		{"source_table", c.SourceTable},
	} {
		if err := validateTableRef(table.field, table.value); err != nil {
			return err
		}
	}

	return nil
}

// validateTableRef checks for a fully qualified project.dataset.table
// reference so a typo fails the definition load instead of surfacing
// as a procedure error inside the warehouse.
func validateTableRef(field, value string) error {
	parts := strings.Split(strings.TrimSpace(value), ".")
	if len(parts) != 3 {
		return errors.InvalidArgument(field,
			"must be a fully qualified project.dataset.table reference")
	}
	for _, part := range parts {
		if !identifierPart.MatchString(part) {
			return errors.UnescapedLiteral(field, value)
		}
	}
	return nil
}

func renderLiteral(field, value string) (string, error) {
	sql, err := Literal(value).SQL()
	if err != nil {
		if errors.GetErrorCode(err) == errors.ErrCodeUnescapedLiteral {
			return "", errors.UnescapedLiteral(field, value)
		}
		return "", errors.InvalidArgument(field, "must not be empty")
	}
	return sql, nil
}

func renderKeyColumns(columns []string) (string, error) {
	sql, err := StringArray(columns).SQL()
	if err != nil {
		if errors.GetErrorCode(err) == errors.ErrCodeUnescapedLiteral {
			return "", errors.Wrap(err, errors.ErrCodeUnescapedLiteral,
				"key_columns contains a value that would break SQL quoting")
		}
		return "", errors.InvalidArgument("key_columns", "must not contain empty values")
	}
	return sql, nil
}

// OptionsJSON renders the options argument of the procedure. A nil
// value renders as the SQL NULL literal; any non-nil value, including
// an empty one, renders as PARSE_JSON over its JSON serialization.
type OptionsJSON struct {
	Value *models.MergeOptions
}

func (o OptionsJSON) SQL() (string, error) {
	if o.Value == nil {
		return "NULL", nil
	}

	data, err := json.Marshal(o.Value)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeInvalidArgument,
			"options could not be serialized to JSON")
	}

	// The serialized form is our own; escape the two characters that
	// matter inside a single-quoted standard SQL literal.
	escaped := strings.ReplaceAll(string(data), `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, "'", `\'`)
	return "PARSE_JSON('" + escaped + "')", nil
}
