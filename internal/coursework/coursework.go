// Package coursework reconciles the currently-enrolled and completed course
// exports into one per-student course-record table, resolves course codes to
// pathways, and derives the per-school pathway label.
package coursework

import (
	"strings"

	"cp-etl/internal/domain"
	"cp-etl/internal/table"
)

// Inputs are the four canonical-schema tables the reconciliation consumes.
type Inputs struct {
	// Enrolled: STUDENT_NUMBER, COURSE_NUMBER, TERMID.
	Enrolled table.Table
	// Completed: STUDENT_NUMBER, COURSE_NUMBER, EARNEDCRHRS.
	Completed table.Table
	// Codes: course_code_l, course_name_l, pathway_code.
	Codes table.Table
	// Roster: STUDENT_NUMBER plus roster attributes (SCHOOL_NAME, EXITDATE, ...).
	Roster table.Table
}

// Filters are the row filters applied after the joins. Observed behavior
// differs across the district's views, so each filter toggles independently.
type Filters struct {
	// TermPrefix keeps only enrolled rows whose term id starts with this
	// cohort marker (e.g. "33"). Empty disables the filter.
	TermPrefix string
	// DropExited removes students carrying an exit date (graduated/withdrawn).
	DropExited bool
	// DropUnmapped removes rows whose course resolved to no pathway code.
	DropUnmapped bool
	// DropNoCredit removes completed rows that earned no credit.
	DropNoCredit bool
}

// LabelEnrolled stamps enrolled rows with status=enrolled, optionally
// filtered to the configured term prefix.
func LabelEnrolled(t table.Table, termPrefix string) table.Table {
	if termPrefix != "" {
		t = t.Filter(func(r table.Row) bool {
			v, ok := r[domain.ColTermID]
			return ok && strings.HasPrefix(v, termPrefix)
		})
	}
	return t.WithConstant(domain.ColStatus, domain.StatusEnrolled)
}

// LabelCompleted derives status from the earned-credit column: exactly one
// credit hour means passed, anything else means no credit earned. The credit
// column is dropped afterwards.
func LabelCompleted(t table.Table) (table.Table, error) {
	if !t.HasCol(domain.ColEarnedCredit) {
		return table.Table{}, &table.MissingColumnError{Column: domain.ColEarnedCredit}
	}
	out := table.New(append(append([]string(nil), t.Cols...), domain.ColStatus)...)
	for _, r := range t.Rows {
		row := make(table.Row, len(r)+1)
		for k, v := range r {
			row[k] = v
		}
		if creditEarned(r[domain.ColEarnedCredit]) {
			row[domain.ColStatus] = domain.StatusPassed
		} else {
			row[domain.ColStatus] = domain.StatusNoCredit
		}
		out.Rows = append(out.Rows, row)
	}
	return out.Drop(domain.ColEarnedCredit), nil
}

// creditEarned matches the export's "equals 1" rule, tolerating the float
// formatting some exports use.
func creditEarned(v string) bool {
	switch strings.TrimSpace(v) {
	case "1", "1.0", "1.00":
		return true
	}
	return false
}

// BuildCourseRecords runs the full reconciliation:
// label both course sources, stack them (no dedup across the two sources: the
// same student/course pair may legitimately appear enrolled and completed),
// resolve pathway codes, restrict to the active roster, then apply filters.
func BuildCourseRecords(in Inputs, f Filters) (table.Table, error) {
	enrolled := LabelEnrolled(in.Enrolled, f.TermPrefix)
	completed, err := LabelCompleted(in.Completed)
	if err != nil {
		return table.Table{}, err
	}

	// Align schemas before stacking: completed rows carry no term id.
	if !completed.HasCol(domain.ColTermID) {
		completed.Cols = append(completed.Cols, domain.ColTermID)
	}
	enrolled, err = enrolled.Select(completed.Cols...)
	if err != nil {
		return table.Table{}, err
	}
	merged, err := enrolled.Concat(completed)
	if err != nil {
		return table.Table{}, err
	}

	merged, err = merged.LeftJoin(in.Codes, domain.ColCourseNumber, domain.ColCourseCode)
	if err != nil {
		return table.Table{}, err
	}
	merged, err = in.Roster.RightJoin(merged, domain.ColStudentKey)
	if err != nil {
		return table.Table{}, err
	}

	// A null school name means the student is not on the active roster.
	merged = merged.NotNull(domain.ColSchoolName)
	if f.DropExited {
		merged = merged.IsNull(domain.ColExitDate)
	}
	merged = merged.Distinct()
	if f.DropUnmapped {
		merged = merged.NotNull(domain.ColPathwayCode)
	}
	if f.DropNoCredit {
		merged = merged.Filter(func(r table.Row) bool {
			return r[domain.ColStatus] != domain.StatusNoCredit
		})
	}
	return merged, nil
}
