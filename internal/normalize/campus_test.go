package normalize

import (
	"testing"

	"cp-etl/internal/table"
)

func TestMergeCampuses(t *testing.T) {
	parts := []CampusExport{
		{School: "North Campus", Table: mkTable([]string{"id"},
			table.Row{"id": "1"},
			table.Row{"id": "2"},
		)},
		{School: "South Campus", Table: mkTable([]string{"id"},
			table.Row{"id": "2"},
		)},
	}

	got, err := MergeCampuses(parts, "school")
	if err != nil {
		t.Fatalf("MergeCampuses: %v", err)
	}
	// id=2 appears on both campuses and both rows survive.
	if got.Len() != 3 {
		t.Fatalf("len = %d, want 3", got.Len())
	}
	if got.Rows[0]["school"] != "North Campus" || got.Rows[2]["school"] != "South Campus" {
		t.Errorf("labels = %v", got.Rows)
	}
}

func TestMergeCampusesMismatchedColumns(t *testing.T) {
	parts := []CampusExport{
		{School: "a", Table: mkTable([]string{"id"})},
		{School: "b", Table: mkTable([]string{"other"})},
	}
	if _, err := MergeCampuses(parts, "school"); err == nil {
		t.Errorf("mismatched exports merged, want error")
	}
}
