// Package attendance turns the long-format session log (one row per
// attendance event) into a wide per-student table, one column per lesson
// topic, plus the derived attendance percentage.
package attendance

import (
	"errors"
	"strconv"

	"cp-etl/internal/table"
	"go.uber.org/zap"
)

// PresentMark is the literal cell written when at least one event exists for
// a (student, topic) pair. Absence is a literal empty string, not a null, so
// downstream boolean-style counting sees a value in every topic cell.
const PresentMark = "Y"

// DefaultPresence marks presence when any event row exists for the pair.
func DefaultPresence(markers []string) string {
	if len(markers) > 0 {
		return PresentMark
	}
	return ""
}

// PivotSpec describes one attendance pivot.
type PivotSpec struct {
	// GroupKeys identify a student in this source (workspace number, name,
	// subcategory in the intake export).
	GroupKeys []string
	// TopicColumn holds the lesson/topic label; each distinct value observed
	// in the run's data becomes an output column.
	TopicColumn string
	// MarkerColumn is the column whose values feed the presence rule.
	MarkerColumn string
	// Attributes are joined back after the pivot; each must be uniquely
	// determined per group. Conflicts are resolved to the first value seen
	// and logged.
	Attributes []string
	// Presence overrides DefaultPresence when set.
	Presence func(markers []string) string
}

// Pivot produces the wide attendance table and the sorted list of topic
// columns created in this run. The topic set is data-dependent; callers must
// address it through the returned names, never by position.
func Pivot(events table.Table, spec PivotSpec, log *zap.SugaredLogger) (table.Table, []string, error) {
	presence := spec.Presence
	if presence == nil {
		presence = DefaultPresence
	}
	pivoted, topics, err := events.Pivot(spec.GroupKeys, spec.TopicColumn, spec.MarkerColumn, presence)
	if err != nil {
		return table.Table{}, nil, err
	}
	if len(spec.Attributes) == 0 {
		return pivoted, topics, nil
	}

	attrs, err := uniqueAttributes(events, spec.GroupKeys, spec.Attributes, log)
	if err != nil {
		return table.Table{}, nil, err
	}
	joined, err := joinOnKeys(attrs, pivoted, spec.GroupKeys)
	if err != nil {
		return table.Table{}, nil, err
	}
	return joined, topics, nil
}

// uniqueAttributes projects (group keys, attributes) and dedupes to one row
// per group, keeping the first value for an attribute that conflicts.
func uniqueAttributes(events table.Table, keys, attrs []string, log *zap.SugaredLogger) (table.Table, error) {
	proj, err := events.Select(append(append([]string(nil), keys...), attrs...)...)
	if err != nil {
		return table.Table{}, err
	}
	proj = proj.Distinct()

	seen := map[string]table.Row{}
	var order []string
	for _, r := range proj.Rows {
		sig := groupSig(r, keys)
		if prev, ok := seen[sig]; ok {
			if log != nil {
				log.Warnw("conflicting group attributes, keeping first",
					"group", sig, "kept", rowVals(prev, attrs), "dropped", rowVals(r, attrs))
			}
			continue
		}
		seen[sig] = r
		order = append(order, sig)
	}
	out := table.New(proj.Cols...)
	for _, sig := range order {
		out.Rows = append(out.Rows, seen[sig])
	}
	return out, nil
}

func groupSig(r table.Row, keys []string) string {
	sig := ""
	for _, k := range keys {
		if v, ok := r[k]; ok {
			sig += "1" + v
		} else {
			sig += "0"
		}
		sig += "\x1f"
	}
	return sig
}

func rowVals(r table.Row, cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = r[c]
	}
	return out
}

// joinOnKeys merges two tables sharing the group-key columns, one row per
// key combination on each side.
func joinOnKeys(left, right table.Table, keys []string) (table.Table, error) {
	// Collapse the multi-column key into a scratch column so the generic
	// single-key join applies, then drop it.
	const scratch = "\x00join_key"
	l, err := withSigColumn(left, keys, scratch)
	if err != nil {
		return table.Table{}, err
	}
	r, err := withSigColumn(right, keys, scratch)
	if err != nil {
		return table.Table{}, err
	}
	r = r.Drop(keys...)
	joined, err := l.LeftJoin(r, scratch, scratch)
	if err != nil {
		return table.Table{}, err
	}
	return joined.Drop(scratch), nil
}

func withSigColumn(t table.Table, keys []string, dest string) (table.Table, error) {
	for _, k := range keys {
		if !t.HasCol(k) {
			return table.Table{}, &table.MissingColumnError{Column: k}
		}
	}
	out := table.New(append(append([]string(nil), t.Cols...), dest)...)
	for _, r := range t.Rows {
		row := make(table.Row, len(r)+1)
		for k, v := range r {
			row[k] = v
		}
		row[dest] = groupSig(r, keys)
		out.Rows = append(out.Rows, row)
	}
	return out, nil
}

// AppendPercentage adds the attendance-percentage column computed over the
// named topic columns: present marks divided by window width. The window must
// be non-empty; with zero topic columns the percentage is undefined and the
// caller must not ask for it.
func AppendPercentage(t table.Table, topicCols []string, outCol string) (table.Table, error) {
	if len(topicCols) == 0 {
		return table.Table{}, errors.New("attendance: empty topic window, percentage undefined")
	}
	for _, c := range topicCols {
		if !t.HasCol(c) {
			return table.Table{}, &table.MissingColumnError{Column: c}
		}
	}
	out := table.New(append(append([]string(nil), t.Cols...), outCol)...)
	for _, r := range t.Rows {
		row := make(table.Row, len(r)+1)
		for k, v := range r {
			row[k] = v
		}
		present := 0
		for _, c := range topicCols {
			if r[c] == PresentMark {
				present++
			}
		}
		pct := float64(present) / float64(len(topicCols))
		row[outCol] = strconv.FormatFloat(pct, 'f', -1, 64)
		out.Rows = append(out.Rows, row)
	}
	return out, nil
}
