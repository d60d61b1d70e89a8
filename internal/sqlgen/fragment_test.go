package sqlgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/raghuporumamila/generic-bigquery/pkg/errors"
)

func TestLiteralSQL(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		want     string
		wantCode apperrors.ErrorCode
	}{
		{name: "plain value", value: "proj.ds.target", want: "'proj.ds.target'"},
		{name: "trims whitespace", value: "  customer_id ", want: "'customer_id'"},
		{name: "empty", value: "", wantCode: apperrors.ErrCodeInvalidArgument},
		{name: "blank", value: "   ", wantCode: apperrors.ErrCodeInvalidArgument},
		{name: "embedded quote", value: "o'brien", wantCode: apperrors.ErrCodeUnescapedLiteral},
		{name: "embedded backslash", value: `a\b`, wantCode: apperrors.ErrCodeUnescapedLiteral},
		{name: "embedded newline", value: "a\nb", wantCode: apperrors.ErrCodeUnescapedLiteral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Literal(tt.value).SQL()
			if tt.wantCode != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, apperrors.GetErrorCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRawIdentifierSQL(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		want     string
		wantCode apperrors.ErrorCode
	}{
		{name: "qualified procedure", value: "proj.ds.usp_generic_merge", want: "`proj.ds.usp_generic_merge`"},
		{name: "project with hyphen", value: "analytics-prod.ops.usp_generic_merge", want: "`analytics-prod.ops.usp_generic_merge`"},
		{name: "empty", value: "", wantCode: apperrors.ErrCodeInvalidArgument},
		{name: "embedded backtick", value: "proj.ds.usp`x", wantCode: apperrors.ErrCodeInvalidIdentifier},
		{name: "leading digit part", value: "proj.1ds.proc", wantCode: apperrors.ErrCodeInvalidIdentifier},
		{name: "empty part", value: "proj..proc", wantCode: apperrors.ErrCodeInvalidIdentifier},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RawIdentifier(tt.value).SQL()
			if tt.wantCode != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, apperrors.GetErrorCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStringArraySQL(t *testing.T) {
	got, err := StringArray{"id"}.SQL()
	require.NoError(t, err)
	assert.Equal(t, "['id']", got)

	got, err = StringArray{"id", "region"}.SQL()
	require.NoError(t, err)
	assert.Equal(t, "['id', 'region']", got)

	_, err = StringArray{}.SQL()
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeInvalidArgument, apperrors.GetErrorCode(err))
}
