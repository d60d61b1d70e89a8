package sqlgen

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/raghuporumamila/generic-bigquery/pkg/errors"
)

// Fragment is one piece of a rendered statement. Each implementation
// carries its own quoting and validation rule, so raw interpolation of
// untrusted strings never reaches the final SQL.
type Fragment interface {
	SQL() (string, error)
}

var identifierPart = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_\-]*$`)

// Literal renders as a single-quoted standard SQL string literal.
// No escaping is performed: values that would break the quoting are
// rejected instead of silently producing malformed SQL.
type Literal string

func (l Literal) SQL() (string, error) {
	v := strings.TrimSpace(string(l))
	if v == "" {
		return "", errors.InvalidArgument("literal", "must not be empty")
	}
	if strings.ContainsAny(v, "'\\`\n") {
		return "", errors.UnescapedLiteral("literal", v)
	}
	return "'" + v + "'", nil
}

// RawIdentifier renders as a backtick-quoted, fully qualified name
// such as `project.dataset.procedure`. Every dot-separated part must
// match the warehouse identifier charset.
type RawIdentifier string

func (r RawIdentifier) SQL() (string, error) {
	v := strings.TrimSpace(string(r))
	if v == "" {
		return "", errors.InvalidArgument("identifier", "must not be empty")
	}
	for _, part := range strings.Split(v, ".") {
		if !identifierPart.MatchString(part) {
			return "", errors.New(errors.ErrCodeInvalidIdentifier,
				fmt.Sprintf("identifier part %q is not a valid BigQuery identifier", part)).
				WithContext("identifier", v)
		}
	}
	return "`" + v + "`", nil
}

// StringArray renders as a bracketed array of single-quoted literals,
// matching the ARRAY<STRING> construction syntax. Element order is
// preserved.
type StringArray []string

func (a StringArray) SQL() (string, error) {
	if len(a) == 0 {
		return "", errors.InvalidArgument("array", "must contain at least one element")
	}
	quoted := make([]string, len(a))
	for i, elem := range a {
		sql, err := Literal(elem).SQL()
		if err != nil {
			return "", err
		}
		quoted[i] = sql
	}
	return "[" + strings.Join(quoted, ", ") + "]", nil
}
