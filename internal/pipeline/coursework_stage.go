package pipeline

import (
	"context"
	"fmt"

	"cp-etl/internal/aggregate"
	"cp-etl/internal/coursework"
	"cp-etl/internal/domain"
	"cp-etl/internal/export"
	"cp-etl/internal/table"
)

// rosterInfoCols are the roster attributes carried through the coursework
// views.
var rosterInfoCols = []string{
	domain.ColStudentKey, domain.ColLastName, domain.ColFirstName,
	domain.ColCohortYear, domain.ColGradeLevel, domain.ColSchoolName,
	domain.ColHouse, domain.ColExitDate,
}

// CourseworkResult bundles the coursework stage outputs.
type CourseworkResult struct {
	Records       table.Table
	PathwayCounts table.Table
	PathwayCols   []string
	FlagPivot     table.Table
}

func (c *Context) loadRoster(ctx context.Context) (table.Table, error) {
	roster, err := c.Load(ctx, SrcStudents, rosterInfoCols,
		map[string]table.ColType{domain.ColStudentKey: table.Text})
	if err != nil {
		return table.Table{}, err
	}
	if err := roster.RequireRows(SrcStudents); err != nil {
		return table.Table{}, err
	}
	return roster.Distinct(), nil
}

// RunCoursework reconciles the enrolled and completed course exports against
// the code lookup and the roster, derives pathway participation counts and
// the per-school pathway label, and persists each intermediate.
func (c *Context) RunCoursework(ctx context.Context) (CourseworkResult, error) {
	fail := func(err error) (CourseworkResult, error) {
		return CourseworkResult{}, fmt.Errorf("coursework stage: %w", err)
	}

	roster, err := c.loadRoster(ctx)
	if err != nil {
		return fail(err)
	}
	enrolled, err := c.Load(ctx, SrcCurrentCourses,
		[]string{domain.ColStudentKey, domain.ColCourseNumber, domain.ColTermID},
		map[string]table.ColType{domain.ColStudentKey: table.Text})
	if err != nil {
		return fail(err)
	}
	completed, err := c.Load(ctx, SrcStoredGrades,
		[]string{domain.ColStudentKey, domain.ColCourseNumber, domain.ColEarnedCredit},
		map[string]table.ColType{domain.ColStudentKey: table.Text})
	if err != nil {
		return fail(err)
	}
	codes, err := c.Load(ctx, SrcCourseCodes,
		[]string{domain.ColCourseCode, domain.ColCourseName, domain.ColPathwayCode}, nil)
	if err != nil {
		return fail(err)
	}
	if err := codes.RequireRows(SrcCourseCodes); err != nil {
		return fail(err)
	}

	records, err := coursework.BuildCourseRecords(coursework.Inputs{
		Enrolled:  enrolled,
		Completed: completed,
		Codes:     codes,
		Roster:    roster,
	}, coursework.Filters{
		TermPrefix:   c.Cfg.Filters.TermPrefix,
		DropExited:   c.Cfg.Filters.DropExited,
		DropUnmapped: c.Cfg.Filters.DropUnmapped,
		DropNoCredit: c.Cfg.Filters.DropNoCredit,
	})
	if err != nil {
		return fail(err)
	}
	if _, err := export.SaveInterim(c.Cfg.InterimDir, "final_course.csv", records); err != nil {
		return CourseworkResult{}, err
	}

	counts, pathwayCols, err := aggregate.PathwayCounts(records, rosterInfoCols)
	if err != nil {
		return fail(err)
	}
	if _, err := export.SaveInterim(c.Cfg.InterimDir, "pathway_course_counts.csv", counts); err != nil {
		return CourseworkResult{}, err
	}

	flags, err := coursework.PathwayFlagPivot(records, roster)
	if err != nil {
		return fail(err)
	}
	flags = coursework.AppendPathwayLabel(flags, coursework.DefaultDecisionTable())
	if _, err := export.SaveInterim(c.Cfg.InterimDir, "final_pathway_code_pivot.csv", flags); err != nil {
		return CourseworkResult{}, err
	}

	c.Report.Add(StageStat{
		Stage:   "coursework",
		RowsIn:  enrolled.Len() + completed.Len(),
		RowsOut: records.Len(),
		Note:    fmt.Sprintf("%d pathways", len(pathwayCols)),
	})
	c.Log.Infow("coursework reconciled",
		"enrolled", enrolled.Len(), "completed", completed.Len(),
		"records", records.Len(), "pathways", len(pathwayCols))

	return CourseworkResult{
		Records:       records,
		PathwayCounts: counts,
		PathwayCols:   pathwayCols,
		FlagPivot:     flags,
	}, nil
}
