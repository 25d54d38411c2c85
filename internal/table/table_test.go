package table

import (
	"testing"
)

func mkTable(cols []string, rows ...Row) Table {
	t := New(cols...)
	for _, r := range rows {
		t.Rows = append(t.Rows, r)
	}
	return t
}

func TestSelectPreservesOrderAndRejectsUnknown(t *testing.T) {
	tb := mkTable([]string{"a", "b", "c"},
		Row{"a": "1", "b": "2", "c": "3"},
		Row{"a": "4", "c": "6"},
	)

	got, err := tb.Select("c", "a")
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(got.Cols) != 2 || got.Cols[0] != "c" || got.Cols[1] != "a" {
		t.Errorf("cols = %v, want [c a]", got.Cols)
	}
	if got.Rows[1]["c"] != "6" {
		t.Errorf("row 1 c = %q, want 6", got.Rows[1]["c"])
	}
	if _, ok := got.Rows[0]["b"]; ok {
		t.Errorf("projected row still carries dropped column b")
	}

	if _, err := tb.Select("nope"); err == nil {
		t.Errorf("Select(nope) = nil error, want MissingColumnError")
	}
}

func TestRename(t *testing.T) {
	tb := mkTable([]string{"id", "name"}, Row{"id": "1", "name": "x"})

	got, err := tb.Rename(map[string]string{"id": "STUDENT_NUMBER"})
	if err != nil {
		t.Fatalf("Rename: %v", err)
	}
	if got.Cols[0] != "STUDENT_NUMBER" {
		t.Errorf("cols = %v", got.Cols)
	}
	if got.Rows[0]["STUDENT_NUMBER"] != "1" {
		t.Errorf("renamed cell = %q, want 1", got.Rows[0]["STUDENT_NUMBER"])
	}

	if _, err := tb.Rename(map[string]string{"id": "name"}); err == nil {
		t.Errorf("rename onto existing column succeeded, want error")
	}
	if _, err := tb.Rename(map[string]string{"missing": "x"}); err == nil {
		t.Errorf("rename of missing column succeeded, want error")
	}
}

func TestNullVsEmptyString(t *testing.T) {
	tb := mkTable([]string{"k", "v"},
		Row{"k": "1", "v": ""}, // present empty string
		Row{"k": "2"},          // null
	)

	if got := tb.NotNull("v").Len(); got != 1 {
		t.Errorf("NotNull kept %d rows, want 1", got)
	}
	if got := tb.IsNull("v").Len(); got != 1 {
		t.Errorf("IsNull kept %d rows, want 1", got)
	}
	if tb.signature(tb.Rows[0]) == tb.signature(tb.Rows[1]) {
		t.Errorf("empty string and null rows share a signature")
	}
}

func TestConcat(t *testing.T) {
	a := mkTable([]string{"k", "v"}, Row{"k": "1", "v": "x"})
	b := mkTable([]string{"k", "v"}, Row{"k": "1", "v": "x"}, Row{"k": "2", "v": "y"})

	got, err := a.Concat(b)
	if err != nil {
		t.Fatalf("Concat: %v", err)
	}
	// Stacking never dedups; the duplicate of k=1 must survive.
	if got.Len() != 3 {
		t.Errorf("Concat len = %d, want 3", got.Len())
	}

	c := mkTable([]string{"k", "other"})
	if _, err := a.Concat(c); err == nil {
		t.Errorf("Concat with mismatched columns succeeded, want error")
	}
}

func TestDistinctAndDuplicates(t *testing.T) {
	tb := mkTable([]string{"k", "v"},
		Row{"k": "1", "v": "x"},
		Row{"k": "1", "v": "x"},
		Row{"k": "2", "v": "y"},
	)

	if got := tb.Distinct().Len(); got != 2 {
		t.Errorf("Distinct len = %d, want 2", got)
	}
	if got := tb.Duplicates().Len(); got != 2 {
		t.Errorf("Duplicates len = %d, want both occurrences of the dup", got)
	}
	if got := tb.Distinct().Duplicates().Len(); got != 0 {
		t.Errorf("Duplicates after Distinct = %d rows, want 0", got)
	}
}

func TestReplaceValue(t *testing.T) {
	tb := mkTable([]string{"a", "b"},
		Row{"a": "0", "b": "10"},
		Row{"a": "100", "b": "0"},
	)

	all := tb.ReplaceValue("0", "")
	if all.Rows[0]["a"] != "" || all.Rows[1]["b"] != "" {
		t.Errorf("ReplaceValue left zeros behind: %v", all.Rows)
	}
	if all.Rows[1]["a"] != "100" {
		t.Errorf("ReplaceValue touched a non-matching cell: %q", all.Rows[1]["a"])
	}

	scoped, err := tb.ReplaceValueIn([]string{"b"}, "0", "")
	if err != nil {
		t.Fatalf("ReplaceValueIn: %v", err)
	}
	if scoped.Rows[0]["a"] != "0" {
		t.Errorf("scoped replacement touched column a")
	}
	if scoped.Rows[1]["b"] != "" {
		t.Errorf("scoped replacement missed column b")
	}
	if _, err := tb.ReplaceValueIn([]string{"nope"}, "0", ""); err == nil {
		t.Errorf("ReplaceValueIn unknown column succeeded, want error")
	}
}

func TestGroupCount(t *testing.T) {
	tb := mkTable([]string{"id"},
		Row{"id": "a"},
		Row{"id": "b"},
		Row{"id": "a"},
		Row{}, // null id rows never count
	)

	got, err := tb.GroupCount([]string{"id"}, "n")
	if err != nil {
		t.Fatalf("GroupCount: %v", err)
	}
	if got.Len() != 2 {
		t.Fatalf("GroupCount groups = %d, want 2", got.Len())
	}
	if got.Rows[0]["id"] != "a" || got.Rows[0]["n"] != "2" {
		t.Errorf("group 0 = %v, want a/2", got.Rows[0])
	}
	if got.Rows[1]["id"] != "b" || got.Rows[1]["n"] != "1" {
		t.Errorf("group 1 = %v, want b/1", got.Rows[1])
	}
}

func TestSortByNullsFirst(t *testing.T) {
	tb := mkTable([]string{"k"},
		Row{"k": "b"},
		Row{},
		Row{"k": "a"},
	)
	got := tb.SortBy("k")
	if _, ok := got.Rows[0]["k"]; ok {
		t.Errorf("null row not first: %v", got.Rows)
	}
	if got.Rows[1]["k"] != "a" || got.Rows[2]["k"] != "b" {
		t.Errorf("rows out of order: %v", got.Rows)
	}
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	tb := mkTable([]string{"k"}, Row{"k": "1"})
	out := tb.WithConstant("k", "changed")
	if tb.Rows[0]["k"] != "1" {
		t.Errorf("input mutated: %v", tb.Rows[0])
	}
	if out.Rows[0]["k"] != "changed" {
		t.Errorf("output missing constant: %v", out.Rows[0])
	}
}
