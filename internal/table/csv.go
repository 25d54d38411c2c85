package table

import (
	"encoding/csv"
	"io"
	"os"
)

// ColType declares how a loaded column is treated. Cells are always kept as
// opaque text in this loader, so Text exists for call-site documentation of
// identifier columns (district IDs look numeric but must never be coerced;
// leading digits carry meaning).
type ColType int

const (
	Text ColType = iota
)

// LoadOptions controls projection and typing for a load.
type LoadOptions struct {
	// Columns restricts the load to these columns. Extra source columns are
	// ignored; a listed column missing from the source is an error. Nil loads
	// everything.
	Columns []string

	// Types documents per-column typing. Every listed column must be part of
	// the projection.
	Types map[string]ColType
}

// Load reads CSV rows into a table, projected per opts. Empty cells load as
// nulls, matching how the upstream exports encode missing values.
func Load(r io.Reader, source string, opts LoadOptions) (Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return Table{}, &SourceUnavailableError{Source: source, Err: err}
	}
	return FromRecords(records, source, opts)
}

// LoadFile reads a CSV file into a table.
func LoadFile(path string, opts LoadOptions) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return Table{}, &SourceUnavailableError{Source: path, Err: err}
	}
	defer f.Close()
	return Load(f, path, opts)
}

// FromRecords builds a table from a header row plus data rows, as handed
// over by spreadsheet reads. Short rows are padded with nulls.
func FromRecords(records [][]string, source string, opts LoadOptions) (Table, error) {
	if len(records) == 0 {
		return Table{}, &EmptySourceError{Source: source}
	}
	header := records[0]
	pos := make(map[string]int, len(header))
	for i, h := range header {
		if _, ok := pos[h]; !ok {
			pos[h] = i
		}
	}

	cols := opts.Columns
	if cols == nil {
		cols = append([]string(nil), header...)
	}
	for _, c := range cols {
		if _, ok := pos[c]; !ok {
			return Table{}, &MissingColumnError{Source: source, Column: c}
		}
	}
	for c := range opts.Types {
		if _, ok := pos[c]; !ok {
			return Table{}, &MissingColumnError{Source: source, Column: c}
		}
	}

	out := New(cols...)
	for _, rec := range records[1:] {
		row := make(Row, len(cols))
		for _, c := range cols {
			i := pos[c]
			if i < len(rec) && rec[i] != "" {
				row[c] = rec[i]
			}
		}
		out.Rows = append(out.Rows, row)
	}
	return out, nil
}

// RequireRows converts an empty table into an EmptySourceError. The loader
// itself never enforces non-empty; callers that need data check explicitly.
func (t Table) RequireRows(source string) error {
	if len(t.Rows) == 0 {
		return &EmptySourceError{Source: source}
	}
	return nil
}

// WriteCSV writes the table with a header row. Nulls become empty cells.
func (t Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Cols); err != nil {
		return err
	}
	rec := make([]string, len(t.Cols))
	for _, r := range t.Rows {
		for i, c := range t.Cols {
			rec[i] = r[c]
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveFile writes the table to a CSV file.
func (t Table) SaveFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := t.WriteCSV(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Records renders the table as a header row plus data rows, the shape the
// spreadsheet sink expects. Nulls become empty cells.
func (t Table) Records() [][]string {
	out := make([][]string, 0, len(t.Rows)+1)
	out = append(out, append([]string(nil), t.Cols...))
	for _, r := range t.Rows {
		rec := make([]string, len(t.Cols))
		for i, c := range t.Cols {
			rec[i] = r[c]
		}
		out = append(out, rec)
	}
	return out
}
