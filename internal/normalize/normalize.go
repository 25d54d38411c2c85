// Package normalize maps source-specific schemas and identifier formats into
// the canonical student-key domain. Every source should map into the
// canonical schema here before any join runs; sinks map from it.
package normalize

import (
	"fmt"
	"strings"

	"cp-etl/internal/domain"
	"cp-etl/internal/table"
)

// KeyPolicy decides what happens to rows whose key does not start with the
// expected district prefix during standardization.
type KeyPolicy int

const (
	// DropNonMatching removes rows for other districts before stripping.
	// This is the behavior the district views need: foreign keys must not
	// leak into a single-district merge.
	DropNonMatching KeyPolicy = iota
	// PassThrough keeps non-matching rows unchanged.
	PassThrough
)

// IdentifierFormatError reports a key value that cannot be parsed per its
// expected shape. Rows carrying one are excluded and counted, never fatal:
// partial student data beats a failed run.
type IdentifierFormatError struct {
	Column string
	Value  string
}

func (e *IdentifierFormatError) Error() string {
	return fmt.Sprintf("column %q: malformed identifier %q", e.Column, e.Value)
}

// Rename relabels columns into the canonical schema. Collisions are an error.
func Rename(t table.Table, mapping map[string]string) (table.Table, error) {
	return t.Rename(mapping)
}

// StandardizeKey converts a source-specific key column into the canonical
// student key. Exactly one leading occurrence of prefix is removed from each
// value; applying it twice is a no-op on the already-stripped keys. The
// column is renamed to the canonical key name.
func StandardizeKey(t table.Table, srcCol, prefix string, policy KeyPolicy) (table.Table, error) {
	if !t.HasCol(srcCol) {
		return table.Table{}, &table.MissingColumnError{Column: srcCol}
	}
	out := t
	if policy == DropNonMatching && prefix != "" {
		out = out.Filter(func(r table.Row) bool {
			v, ok := r[srcCol]
			return ok && strings.HasPrefix(v, prefix)
		})
	}
	if prefix != "" {
		stripped := table.New(out.Cols...)
		for _, r := range out.Rows {
			row := make(table.Row, len(r))
			for k, v := range r {
				row[k] = v
			}
			if v, ok := row[srcCol]; ok {
				row[srcCol] = strings.TrimPrefix(v, prefix)
			}
			stripped.Rows = append(stripped.Rows, row)
		}
		out = stripped
	}
	if srcCol == domain.ColStudentKey {
		return out, nil
	}
	return out.Rename(map[string]string{srcCol: domain.ColStudentKey})
}

// CompositeKey appends destCol built by concatenating the given part columns
// in order (district code + id in the intake workspace). Null parts
// contribute nothing.
func CompositeKey(t table.Table, destCol string, parts ...string) (table.Table, error) {
	for _, p := range parts {
		if !t.HasCol(p) {
			return table.Table{}, &table.MissingColumnError{Column: p}
		}
	}
	out := table.New(append(append([]string(nil), t.Cols...), destCol)...)
	for _, r := range t.Rows {
		row := make(table.Row, len(r)+1)
		for k, v := range r {
			row[k] = v
		}
		var b strings.Builder
		for _, p := range parts {
			b.WriteString(r[p])
		}
		row[destCol] = b.String()
		out.Rows = append(out.Rows, row)
	}
	return out, nil
}

// CleanKeys trims whitespace on the key column and excludes rows whose key is
// empty or contains internal whitespace. Excluded rows come back as format
// errors for the run report; they are tolerated, not fatal.
func CleanKeys(t table.Table, col string) (table.Table, []IdentifierFormatError, error) {
	if !t.HasCol(col) {
		return table.Table{}, nil, &table.MissingColumnError{Column: col}
	}
	var excluded []IdentifierFormatError
	out := table.New(t.Cols...)
	for _, r := range t.Rows {
		row := make(table.Row, len(r))
		for k, v := range r {
			row[k] = v
		}
		v, ok := row[col]
		if ok {
			v = strings.TrimSpace(v)
		}
		if !ok || v == "" || strings.ContainsAny(v, " \t") {
			excluded = append(excluded, IdentifierFormatError{Column: col, Value: v})
			continue
		}
		row[col] = v
		out.Rows = append(out.Rows, row)
	}
	return out, excluded, nil
}
