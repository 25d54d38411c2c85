// Package sources abstracts where a raw table comes from. The wrangling
// stages only see the Source interface; whether a table is backed by a local
// district export or an intake spreadsheet tab is wiring.
package sources

import (
	"context"
	"path/filepath"

	"cp-etl/internal/sheetsclient"
	"cp-etl/internal/table"
)

type Source interface {
	Name() string
	Read(ctx context.Context, opts table.LoadOptions) (table.Table, error)
}

// File reads a CSV file, typically a SIS export pulled into the raw dir.
type File struct {
	Label string
	Path  string
}

func (f File) Name() string { return f.Label }

func (f File) Read(_ context.Context, opts table.LoadOptions) (table.Table, error) {
	return table.LoadFile(f.Path, opts)
}

// Sheet reads an intake spreadsheet tab.
type Sheet struct {
	Label  string
	Client *sheetsclient.Client
	ID     string
	Range  string
}

func (s Sheet) Name() string { return s.Label }

func (s Sheet) Read(ctx context.Context, opts table.LoadOptions) (table.Table, error) {
	records, err := s.Client.ReadRange(ctx, s.ID, s.Range)
	if err != nil {
		return table.Table{}, &table.SourceUnavailableError{Source: s.Label, Err: err}
	}
	return table.FromRecords(records, s.Label, opts)
}

// FileIn is a convenience for raw-dir CSV sources named after their file.
func FileIn(dir, name string) File {
	return File{Label: name, Path: filepath.Join(dir, name+".csv")}
}
