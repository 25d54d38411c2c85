package coursework

import (
	"testing"

	"cp-etl/internal/domain"
	"cp-etl/internal/table"
)

func mkTable(cols []string, rows ...table.Row) table.Table {
	t := table.New(cols...)
	for _, r := range rows {
		t.Rows = append(t.Rows, r)
	}
	return t
}

func TestLabelEnrolled(t *testing.T) {
	in := mkTable([]string{domain.ColStudentKey, domain.ColCourseNumber, domain.ColTermID},
		table.Row{domain.ColStudentKey: "1", domain.ColCourseNumber: "C100", domain.ColTermID: "3301"},
		table.Row{domain.ColStudentKey: "2", domain.ColCourseNumber: "C200", domain.ColTermID: "3101"},
		table.Row{domain.ColStudentKey: "3", domain.ColCourseNumber: "C300"},
	)

	got := LabelEnrolled(in, "33")
	if got.Len() != 1 {
		t.Fatalf("len = %d, want only the matching term kept", got.Len())
	}
	if got.Rows[0][domain.ColStatus] != domain.StatusEnrolled {
		t.Errorf("status = %q", got.Rows[0][domain.ColStatus])
	}

	all := LabelEnrolled(in, "")
	if all.Len() != 3 {
		t.Errorf("empty prefix filtered rows: %d", all.Len())
	}
}

func TestLabelCompleted(t *testing.T) {
	testCases := []struct {
		credit string
		want   string
	}{
		{"1", domain.StatusPassed},
		{"1.0", domain.StatusPassed},
		{"1.00", domain.StatusPassed},
		{"0", domain.StatusNoCredit},
		{"0.5", domain.StatusNoCredit},
		{"", domain.StatusNoCredit},
	}
	for _, tc := range testCases {
		in := mkTable([]string{domain.ColStudentKey, domain.ColCourseNumber, domain.ColEarnedCredit},
			table.Row{domain.ColStudentKey: "1", domain.ColCourseNumber: "C100", domain.ColEarnedCredit: tc.credit},
		)
		got, err := LabelCompleted(in)
		if err != nil {
			t.Fatalf("LabelCompleted(%q): %v", tc.credit, err)
		}
		if got.Rows[0][domain.ColStatus] != tc.want {
			t.Errorf("credit %q: status = %q, want %q", tc.credit, got.Rows[0][domain.ColStatus], tc.want)
		}
		if got.HasCol(domain.ColEarnedCredit) {
			t.Errorf("credit column survived")
		}
	}
}

func testInputs() Inputs {
	return Inputs{
		Enrolled: mkTable(
			[]string{domain.ColStudentKey, domain.ColCourseNumber, domain.ColTermID},
			table.Row{domain.ColStudentKey: "1", domain.ColCourseNumber: "C100", domain.ColTermID: "3301"},
			table.Row{domain.ColStudentKey: "9", domain.ColCourseNumber: "C100", domain.ColTermID: "3301"},
		),
		Completed: mkTable(
			[]string{domain.ColStudentKey, domain.ColCourseNumber, domain.ColEarnedCredit},
			table.Row{domain.ColStudentKey: "1", domain.ColCourseNumber: "C200", domain.ColEarnedCredit: "1"},
			table.Row{domain.ColStudentKey: "2", domain.ColCourseNumber: "C200", domain.ColEarnedCredit: "0"},
			table.Row{domain.ColStudentKey: "1", domain.ColCourseNumber: "C900", domain.ColEarnedCredit: "1"},
		),
		Codes: mkTable(
			[]string{domain.ColCourseCode, domain.ColCourseName, domain.ColPathwayCode},
			table.Row{domain.ColCourseCode: "C100", domain.ColCourseName: "Biotech I", domain.ColPathwayCode: "STEM"},
			table.Row{domain.ColCourseCode: "C200", domain.ColCourseName: "Biotech II", domain.ColPathwayCode: "STEM"},
		),
		Roster: mkTable(
			[]string{domain.ColStudentKey, domain.ColSchoolName, domain.ColExitDate},
			table.Row{domain.ColStudentKey: "1", domain.ColSchoolName: "Hartford Public High School"},
			table.Row{domain.ColStudentKey: "2", domain.ColSchoolName: "Weaver High School", domain.ColExitDate: "2026-06-15"},
		),
	}
}

func TestBuildCourseRecords(t *testing.T) {
	got, err := BuildCourseRecords(testInputs(), Filters{
		TermPrefix:   "33",
		DropExited:   true,
		DropUnmapped: true,
		DropNoCredit: true,
	})
	if err != nil {
		t.Fatalf("BuildCourseRecords: %v", err)
	}

	// Student 1 keeps both the enrolled C100 and the passed C200. Student 9
	// is off roster, student 2 has an exit date, C900 maps to no pathway.
	if got.Len() != 2 {
		t.Fatalf("len = %d, want 2: %v", got.Len(), got.Rows)
	}
	for _, r := range got.Rows {
		if r[domain.ColStudentKey] != "1" {
			t.Errorf("unexpected student %q", r[domain.ColStudentKey])
		}
		if r[domain.ColPathwayCode] != "STEM" {
			t.Errorf("pathway = %q", r[domain.ColPathwayCode])
		}
	}
	statuses := map[string]bool{}
	for _, r := range got.Rows {
		statuses[r[domain.ColStatus]] = true
	}
	if !statuses[domain.StatusEnrolled] || !statuses[domain.StatusPassed] {
		t.Errorf("statuses = %v, want enrolled and passed", statuses)
	}
}

func TestBuildCourseRecordsKeepsExitedWhenConfigured(t *testing.T) {
	got, err := BuildCourseRecords(testInputs(), Filters{
		TermPrefix:   "33",
		DropExited:   false,
		DropUnmapped: true,
		DropNoCredit: false,
	})
	if err != nil {
		t.Fatalf("BuildCourseRecords: %v", err)
	}
	found := false
	for _, r := range got.Rows {
		if r[domain.ColStudentKey] == "2" {
			found = true
			if r[domain.ColStatus] != domain.StatusNoCredit {
				t.Errorf("student 2 status = %q", r[domain.ColStatus])
			}
		}
	}
	if !found {
		t.Errorf("exited student dropped despite DropExited=false")
	}
}
