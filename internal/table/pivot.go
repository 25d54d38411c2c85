package table

import (
	"fmt"
	"sort"
	"strings"
)

// Pivot reshapes long-format rows into one row per distinct index-key
// combination, with one column per distinct pivotCol value. Each cell is
// agg applied to the valueCol values collected for that (group, pivot value)
// pair; agg receives nil for combinations with no rows and decides the fill
// itself ("" for presence pivots, "0" for count pivots).
//
// Pivot columns are data-dependent: the returned slice lists them in sorted
// order so callers can address the dynamic part of the schema by name.
// Rows with a null pivotCol are skipped. Groups keep first-seen order.
func (t Table) Pivot(index []string, pivotCol, valueCol string, agg func(values []string) string) (Table, []string, error) {
	for _, c := range append(append([]string(nil), index...), pivotCol, valueCol) {
		if !t.HasCol(c) {
			return Table{}, nil, &MissingColumnError{Column: c}
		}
	}

	type group struct {
		key    Row
		values map[string][]string
	}
	var order []string
	groups := map[string]*group{}
	pivotSet := map[string]bool{}

	for _, r := range t.Rows {
		pv, ok := r[pivotCol]
		if !ok {
			continue
		}
		var sig strings.Builder
		key := make(Row, len(index))
		for _, c := range index {
			if v, ok := r[c]; ok {
				key[c] = v
				sig.WriteByte('1')
				sig.WriteString(v)
			} else {
				sig.WriteByte('0')
			}
			sig.WriteByte('\x1f')
		}
		g, ok := groups[sig.String()]
		if !ok {
			g = &group{key: key, values: map[string][]string{}}
			groups[sig.String()] = g
			order = append(order, sig.String())
		}
		g.values[pv] = append(g.values[pv], r[valueCol])
		pivotSet[pv] = true
	}

	pivotCols := make([]string, 0, len(pivotSet))
	for pv := range pivotSet {
		pivotCols = append(pivotCols, pv)
	}
	sort.Strings(pivotCols)

	idxSet := map[string]bool{}
	for _, c := range index {
		idxSet[c] = true
	}
	for _, pv := range pivotCols {
		if idxSet[pv] {
			return Table{}, nil, fmt.Errorf("pivot: value %q collides with index column", pv)
		}
	}

	out := New(append(append([]string(nil), index...), pivotCols...)...)
	for _, sig := range order {
		g := groups[sig]
		row := g.key.clone()
		for _, pv := range pivotCols {
			row[pv] = agg(g.values[pv])
		}
		out.Rows = append(out.Rows, row)
	}
	return out, pivotCols, nil
}
