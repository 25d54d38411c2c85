package pipeline

import (
	"context"
	"fmt"

	"cp-etl/internal/attendance"
	"cp-etl/internal/domain"
	"cp-etl/internal/export"
	"cp-etl/internal/table"
)

// Raw intake column labels as the workspace export ships them.
const (
	ColWorkspace   = "Linked field: Workspace number"
	ColParticipant = "Linked field: Name"
	ColSubcategory = "Linked field: Subcategory"
	ColLinkedID    = "Linked field: gt_id"
	ColLessonTopic = "C3 Lesson Topic"
)

// RunAttendance pivots the session log into the wide per-student attendance
// table with the derived percentage, persists the processed table plus the
// narrow (gt_id, percentage) projection, and returns the wide table.
func (c *Context) RunAttendance(ctx context.Context) (table.Table, error) {
	events, err := c.Load(ctx, SrcAttendance,
		[]string{ColWorkspace, ColParticipant, ColSubcategory, ColLinkedID, ColLessonTopic},
		map[string]table.ColType{ColLinkedID: table.Text},
	)
	if err != nil {
		return table.Table{}, fmt.Errorf("attendance stage: %w", err)
	}
	if err := events.RequireRows(SrcAttendance); err != nil {
		return table.Table{}, fmt.Errorf("attendance stage: %w", err)
	}

	wide, topics, err := attendance.Pivot(events, attendance.PivotSpec{
		GroupKeys:    []string{ColWorkspace, ColParticipant, ColSubcategory},
		TopicColumn:  ColLessonTopic,
		MarkerColumn: ColLinkedID,
		Attributes:   []string{ColLinkedID},
	}, c.Log)
	if err != nil {
		return table.Table{}, fmt.Errorf("attendance stage: %w", err)
	}

	window := c.Cfg.TopicWindow
	if len(window) == 0 {
		window = topics
	}
	wide, err = attendance.AppendPercentage(wide, window, domain.ColAttendancePct)
	if err != nil {
		return table.Table{}, fmt.Errorf("attendance stage: %w", err)
	}

	if _, err := export.SaveInterim(c.Cfg.ProcessedDir, "c3_processed.csv", wide); err != nil {
		return table.Table{}, err
	}
	narrow, err := wide.Select(ColLinkedID, domain.ColAttendancePct)
	if err != nil {
		return table.Table{}, fmt.Errorf("attendance stage: %w", err)
	}
	if _, err := export.SaveInterim(c.Cfg.InterimDir, "c3_percentage.csv", narrow); err != nil {
		return table.Table{}, err
	}

	c.Report.Add(StageStat{
		Stage:   "attendance",
		RowsIn:  events.Len(),
		RowsOut: wide.Len(),
		Note:    fmt.Sprintf("%d topics, window %d", len(topics), len(window)),
	})
	c.Log.Infow("attendance pivoted", "events", events.Len(), "students", wide.Len(), "topics", len(topics))
	return wide, nil
}
