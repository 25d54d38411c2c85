package coursework

import (
	"testing"

	"cp-etl/internal/domain"
	"cp-etl/internal/table"
)

func TestDetermine(t *testing.T) {
	d := DefaultDecisionTable()
	testCases := []struct {
		name string
		row  table.Row
		want string
	}{
		{
			name: "single flag",
			row:  table.Row{domain.ColSchoolName: "Hartford Public High School", "STEM": "Yes"},
			want: "STEM",
		},
		{
			name: "two flags",
			row:  table.Row{domain.ColSchoolName: "Hartford Public High School", "STEM": "Yes", "HC": "Yes"},
			want: domain.PathwayDual,
		},
		{
			name: "no flags",
			row:  table.Row{domain.ColSchoolName: "Weaver High School"},
			want: domain.PathwayNone,
		},
		{
			name: "unknown school",
			row:  table.Row{domain.ColSchoolName: "Some Other School", "STEM": "Yes"},
			want: domain.PathwayNone,
		},
		{
			name: "flag from another school ignored",
			row:  table.Row{domain.ColSchoolName: "Weaver High School", "STEM": "Yes"},
			want: domain.PathwayNone,
		},
		{
			name: "blank flag is unset",
			row:  table.Row{domain.ColSchoolName: "Bulkeley High School", "STEM": "", "PS": "Yes"},
			want: "PS",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := d.Determine(tc.row); got != tc.want {
				t.Errorf("Determine = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestAppendPathwayLabel(t *testing.T) {
	in := mkTable([]string{domain.ColStudentKey, domain.ColSchoolName, "STEM"},
		table.Row{domain.ColStudentKey: "1", domain.ColSchoolName: "Pathways Academy of Technology and Design", "STEM": "Yes"},
	)
	got := AppendPathwayLabel(in, DefaultDecisionTable())
	if !got.HasCol(domain.ColPathway) {
		t.Fatalf("cols = %v", got.Cols)
	}
	if got.Rows[0][domain.ColPathway] != "STEM" {
		t.Errorf("pathway = %q", got.Rows[0][domain.ColPathway])
	}
}

func TestPathwayFlagPivot(t *testing.T) {
	records := mkTable([]string{domain.ColStudentKey, domain.ColPathwayCode},
		table.Row{domain.ColStudentKey: "1", domain.ColPathwayCode: "STEM"},
		table.Row{domain.ColStudentKey: "1", domain.ColPathwayCode: "HC"},
		table.Row{domain.ColStudentKey: "2", domain.ColPathwayCode: "STEM"},
	)
	roster := mkTable([]string{domain.ColStudentKey, domain.ColSchoolName},
		table.Row{domain.ColStudentKey: "1", domain.ColSchoolName: "Hartford Public High School"},
		table.Row{domain.ColStudentKey: "2", domain.ColSchoolName: "Hartford Public High School"},
		table.Row{domain.ColStudentKey: "3", domain.ColSchoolName: "Weaver High School"},
	)

	flags, err := PathwayFlagPivot(records, roster)
	if err != nil {
		t.Fatalf("PathwayFlagPivot: %v", err)
	}
	// Every roster student gets a row, with or without course records.
	if flags.Len() != 3 {
		t.Fatalf("len = %d, want 3", flags.Len())
	}

	labeled := AppendPathwayLabel(flags, DefaultDecisionTable())
	wants := map[string]string{
		"1": domain.PathwayDual,
		"2": "STEM",
		"3": domain.PathwayNone,
	}
	for _, r := range labeled.Rows {
		if got := r[domain.ColPathway]; got != wants[r[domain.ColStudentKey]] {
			t.Errorf("student %s pathway = %q, want %q", r[domain.ColStudentKey], got, wants[r[domain.ColStudentKey]])
		}
	}
}
