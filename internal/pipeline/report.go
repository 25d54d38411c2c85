package pipeline

import (
	"sync"

	pretty "github.com/jedib0t/go-pretty/v6/table"

	"cp-etl/internal/table"
)

// StageStat is one line of the run report.
type StageStat struct {
	Stage    string
	RowsIn   int
	RowsOut  int
	Excluded int
	Note     string
}

// Report collects per-stage row counts and the post-merge duplicates flagged
// for manual review. Stages may run concurrently.
type Report struct {
	mu         sync.Mutex
	stats      []StageStat
	duplicates table.Table
}

func (r *Report) Add(s StageStat) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stats = append(r.stats, s)
}

func (r *Report) SetDuplicates(t table.Table) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.duplicates = t
}

func (r *Report) Duplicates() table.Table {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.duplicates
}

// Render returns the human-readable run summary.
func (r *Report) Render() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	tw := pretty.NewWriter()
	tw.AppendHeader(pretty.Row{"stage", "rows in", "rows out", "excluded", "note"})
	for _, s := range r.stats {
		tw.AppendRow(pretty.Row{s.Stage, s.RowsIn, s.RowsOut, s.Excluded, s.Note})
	}
	out := tw.Render()

	if r.duplicates.Len() > 0 {
		out += "\n\nduplicate rows for manual review:\n" + RenderTable(r.duplicates)
	}
	return out
}

// RenderTable renders any table for terminal review.
func RenderTable(t table.Table) string {
	tw := pretty.NewWriter()
	header := make(pretty.Row, len(t.Cols))
	for i, c := range t.Cols {
		header[i] = c
	}
	tw.AppendHeader(header)
	for _, r := range t.Rows {
		row := make(pretty.Row, len(t.Cols))
		for i, c := range t.Cols {
			row[i] = r[c]
		}
		tw.AppendRow(row)
	}
	return tw.Render()
}
