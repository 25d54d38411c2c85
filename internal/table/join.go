package table

import "fmt"

// buildIndex maps key value to row positions. Null keys never index, so they
// never match the other side.
func buildIndex(t Table, key string) map[string][]int {
	idx := map[string][]int{}
	for i, r := range t.Rows {
		if v, ok := r[key]; ok {
			idx[v] = append(idx[v], i)
		}
	}
	return idx
}

// checkOverlap rejects joins whose non-key columns collide; the pipeline
// renames into canonical schemas before joining, so a collision is a bug.
func checkOverlap(left, right Table, exclude map[string]bool) error {
	set := left.colSet()
	for _, c := range right.Cols {
		if exclude[c] {
			continue
		}
		if set[c] {
			return fmt.Errorf("join: column %q exists on both sides", c)
		}
	}
	return nil
}

func merged(cols []string, left, right Row) Row {
	row := make(Row, len(cols))
	for k, v := range left {
		row[k] = v
	}
	for k, v := range right {
		row[k] = v
	}
	return row
}

// LeftJoin keeps every row of t, attaching right's columns where rightKey
// matches leftKey. When the key names differ both columns are retained, like
// a merge on differently named keys. Multiple matches multiply rows.
func (t Table) LeftJoin(right Table, leftKey, rightKey string) (Table, error) {
	if !t.HasCol(leftKey) {
		return Table{}, &MissingColumnError{Column: leftKey}
	}
	if !right.HasCol(rightKey) {
		return Table{}, &MissingColumnError{Column: rightKey}
	}
	exclude := map[string]bool{}
	if leftKey == rightKey {
		exclude[rightKey] = true
	}
	if err := checkOverlap(t, right, exclude); err != nil {
		return Table{}, err
	}
	cols := append([]string(nil), t.Cols...)
	for _, c := range right.Cols {
		if !exclude[c] {
			cols = append(cols, c)
		}
	}
	idx := buildIndex(right, rightKey)
	out := New(cols...)
	for _, lr := range t.Rows {
		v, ok := lr[leftKey]
		if !ok {
			out.Rows = append(out.Rows, lr.clone())
			continue
		}
		matches := idx[v]
		if len(matches) == 0 {
			out.Rows = append(out.Rows, lr.clone())
			continue
		}
		for _, m := range matches {
			row := merged(cols, lr, right.Rows[m])
			if leftKey == rightKey {
				row[leftKey] = v
			}
			out.Rows = append(out.Rows, row)
		}
	}
	return out, nil
}

// RightJoin keeps every row of right, attaching t's columns where key
// matches. Column order stays t's columns first, mirroring how the roster
// leads the merged coursework view.
func (t Table) RightJoin(right Table, key string) (Table, error) {
	if !t.HasCol(key) || !right.HasCol(key) {
		return Table{}, &MissingColumnError{Column: key}
	}
	if err := checkOverlap(t, right, map[string]bool{key: true}); err != nil {
		return Table{}, err
	}
	cols := append([]string(nil), t.Cols...)
	for _, c := range right.Cols {
		if c != key {
			cols = append(cols, c)
		}
	}
	idx := buildIndex(t, key)
	out := New(cols...)
	for _, rr := range right.Rows {
		v, ok := rr[key]
		if !ok {
			out.Rows = append(out.Rows, rr.clone())
			continue
		}
		matches := idx[v]
		if len(matches) == 0 {
			out.Rows = append(out.Rows, rr.clone())
			continue
		}
		for _, m := range matches {
			row := merged(cols, t.Rows[m], rr)
			row[key] = v
			out.Rows = append(out.Rows, row)
		}
	}
	return out, nil
}

// OuterJoin keeps every row from both sides, matching on the shared key name.
// Unmatched rows from either side carry nulls for the other side's columns.
func (t Table) OuterJoin(right Table, key string) (Table, error) {
	if !t.HasCol(key) || !right.HasCol(key) {
		return Table{}, &MissingColumnError{Column: key}
	}
	if err := checkOverlap(t, right, map[string]bool{key: true}); err != nil {
		return Table{}, err
	}
	cols := append([]string(nil), t.Cols...)
	for _, c := range right.Cols {
		if c != key {
			cols = append(cols, c)
		}
	}
	idx := buildIndex(right, key)
	matchedRight := map[int]bool{}
	out := New(cols...)
	for _, lr := range t.Rows {
		v, ok := lr[key]
		if !ok || len(idx[v]) == 0 {
			out.Rows = append(out.Rows, lr.clone())
			continue
		}
		for _, m := range idx[v] {
			matchedRight[m] = true
			row := merged(cols, lr, right.Rows[m])
			row[key] = v
			out.Rows = append(out.Rows, row)
		}
	}
	for i, rr := range right.Rows {
		if !matchedRight[i] {
			out.Rows = append(out.Rows, rr.clone())
		}
	}
	return out, nil
}
