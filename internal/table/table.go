// Package table holds the in-memory relational table the wrangling stages
// operate on. A cell is opaque text; a missing key in a Row is a null. All
// operations return new tables, inputs are never mutated.
package table

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Row maps column name to cell text. An absent key means the cell is null,
// which is distinct from a present empty string.
type Row map[string]string

func (r Row) clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Table is an ordered-column sequence of rows.
type Table struct {
	Cols []string
	Rows []Row
}

// New returns an empty table with the given column order.
func New(cols ...string) Table {
	return Table{Cols: append([]string(nil), cols...)}
}

func (t Table) Len() int { return len(t.Rows) }

func (t Table) HasCol(col string) bool {
	for _, c := range t.Cols {
		if c == col {
			return true
		}
	}
	return false
}

func (t Table) colSet() map[string]bool {
	set := make(map[string]bool, len(t.Cols))
	for _, c := range t.Cols {
		set[c] = true
	}
	return set
}

// Append adds a row. Keys not in the column list are ignored.
func (t *Table) Append(r Row) {
	row := make(Row, len(r))
	for _, c := range t.Cols {
		if v, ok := r[c]; ok {
			row[c] = v
		}
	}
	t.Rows = append(t.Rows, row)
}

// Select projects the table onto the given columns, preserving row order.
func (t Table) Select(cols ...string) (Table, error) {
	for _, c := range cols {
		if !t.HasCol(c) {
			return Table{}, &MissingColumnError{Column: c}
		}
	}
	out := New(cols...)
	for _, r := range t.Rows {
		out.Append(r)
	}
	return out, nil
}

// Rename relabels columns per mapping. Renaming onto an existing column or
// onto the same target twice is an error: silently collapsing two columns
// would drop data.
func (t Table) Rename(mapping map[string]string) (Table, error) {
	for src := range mapping {
		if !t.HasCol(src) {
			return Table{}, &MissingColumnError{Column: src}
		}
	}
	seen := map[string]bool{}
	cols := make([]string, len(t.Cols))
	for i, c := range t.Cols {
		name := c
		if to, ok := mapping[c]; ok {
			name = to
		}
		if seen[name] {
			return Table{}, fmt.Errorf("rename: duplicate target column %q", name)
		}
		seen[name] = true
		cols[i] = name
	}
	out := New(cols...)
	for _, r := range t.Rows {
		row := make(Row, len(r))
		for k, v := range r {
			name := k
			if to, ok := mapping[k]; ok {
				name = to
			}
			row[name] = v
		}
		out.Rows = append(out.Rows, row)
	}
	return out, nil
}

// Filter keeps rows for which keep returns true.
func (t Table) Filter(keep func(Row) bool) Table {
	out := New(t.Cols...)
	for _, r := range t.Rows {
		if keep(r) {
			out.Rows = append(out.Rows, r.clone())
		}
	}
	return out
}

// NotNull keeps rows where col has a value.
func (t Table) NotNull(col string) Table {
	return t.Filter(func(r Row) bool { _, ok := r[col]; return ok })
}

// IsNull keeps rows where col is null.
func (t Table) IsNull(col string) Table {
	return t.Filter(func(r Row) bool { _, ok := r[col]; return !ok })
}

// WithConstant returns the table with col set to val on every row, appending
// the column if it does not exist yet.
func (t Table) WithConstant(col, val string) Table {
	out := New(t.Cols...)
	if !out.HasCol(col) {
		out.Cols = append(out.Cols, col)
	}
	for _, r := range t.Rows {
		row := r.clone()
		row[col] = val
		out.Rows = append(out.Rows, row)
	}
	return out
}

// Drop removes the given columns.
func (t Table) Drop(cols ...string) Table {
	dropped := make(map[string]bool, len(cols))
	for _, c := range cols {
		dropped[c] = true
	}
	var kept []string
	for _, c := range t.Cols {
		if !dropped[c] {
			kept = append(kept, c)
		}
	}
	out := New(kept...)
	for _, r := range t.Rows {
		out.Append(r)
	}
	return out
}

// Concat appends other's rows below t's. Both tables must carry the same
// column set; callers align schemas explicitly before stacking.
func (t Table) Concat(other Table) (Table, error) {
	if len(t.Cols) != len(other.Cols) {
		return Table{}, fmt.Errorf("concat: column mismatch: %v vs %v", t.Cols, other.Cols)
	}
	set := t.colSet()
	for _, c := range other.Cols {
		if !set[c] {
			return Table{}, fmt.Errorf("concat: column mismatch: %v vs %v", t.Cols, other.Cols)
		}
	}
	out := New(t.Cols...)
	for _, r := range t.Rows {
		out.Rows = append(out.Rows, r.clone())
	}
	for _, r := range other.Rows {
		out.Rows = append(out.Rows, r.clone())
	}
	return out, nil
}

// signature encodes a full row for equality checks. Nulls and empty strings
// encode differently.
func (t Table) signature(r Row) string {
	var b strings.Builder
	for _, c := range t.Cols {
		if v, ok := r[c]; ok {
			b.WriteByte('1')
			b.WriteString(v)
		} else {
			b.WriteByte('0')
		}
		b.WriteByte('\x1f')
	}
	return b.String()
}

// Distinct drops fully duplicate rows, keeping the first occurrence.
func (t Table) Distinct() Table {
	seen := map[string]bool{}
	out := New(t.Cols...)
	for _, r := range t.Rows {
		sig := t.signature(r)
		if seen[sig] {
			continue
		}
		seen[sig] = true
		out.Rows = append(out.Rows, r.clone())
	}
	return out
}

// Duplicates returns every row whose full contents occur more than once,
// all occurrences included.
func (t Table) Duplicates() Table {
	counts := map[string]int{}
	for _, r := range t.Rows {
		counts[t.signature(r)]++
	}
	return t.Filter(func(r Row) bool { return counts[t.signature(r)] > 1 })
}

// ReplaceValue rewrites every cell equal to old with new across all columns.
func (t Table) ReplaceValue(old, new string) Table {
	return t.replaceIn(t.Cols, old, new)
}

// ReplaceValueIn rewrites cells equal to old with new in the given columns only.
func (t Table) ReplaceValueIn(cols []string, old, new string) (Table, error) {
	for _, c := range cols {
		if !t.HasCol(c) {
			return Table{}, &MissingColumnError{Column: c}
		}
	}
	return t.replaceIn(cols, old, new), nil
}

func (t Table) replaceIn(cols []string, old, new string) Table {
	out := New(t.Cols...)
	for _, r := range t.Rows {
		row := r.clone()
		for _, c := range cols {
			if v, ok := row[c]; ok && v == old {
				row[c] = new
			}
		}
		out.Rows = append(out.Rows, row)
	}
	return out
}

// GroupCount groups rows by the given columns and counts rows per group.
// Rows with a null group column are dropped. Groups keep first-seen order.
func (t Table) GroupCount(by []string, countCol string) (Table, error) {
	for _, c := range by {
		if !t.HasCol(c) {
			return Table{}, &MissingColumnError{Column: c}
		}
	}
	type group struct {
		row   Row
		count int
	}
	var order []string
	groups := map[string]*group{}
rows:
	for _, r := range t.Rows {
		key := make(Row, len(by))
		var sig strings.Builder
		for _, c := range by {
			v, ok := r[c]
			if !ok {
				continue rows
			}
			key[c] = v
			sig.WriteString(v)
			sig.WriteByte('\x1f')
		}
		g, ok := groups[sig.String()]
		if !ok {
			g = &group{row: key}
			groups[sig.String()] = g
			order = append(order, sig.String())
		}
		g.count++
	}
	out := New(append(append([]string(nil), by...), countCol)...)
	for _, sig := range order {
		g := groups[sig]
		row := g.row.clone()
		row[countCol] = strconv.Itoa(g.count)
		out.Rows = append(out.Rows, row)
	}
	return out, nil
}

// SortBy orders rows lexically by the given columns (nulls first). Used to
// make published tables stable run to run.
func (t Table) SortBy(cols ...string) Table {
	out := New(t.Cols...)
	for _, r := range t.Rows {
		out.Rows = append(out.Rows, r.clone())
	}
	sort.SliceStable(out.Rows, func(i, j int) bool {
		for _, c := range cols {
			vi, oki := out.Rows[i][c]
			vj, okj := out.Rows[j][c]
			if !oki && !okj {
				continue
			}
			if !oki {
				return true
			}
			if !okj {
				return false
			}
			if vi != vj {
				return vi < vj
			}
		}
		return false
	})
	return out
}
