package table

import "fmt"

// SourceUnavailableError means a source could not be opened at all. Callers
// must abort rather than substitute empty data: downstream joins would read
// the gap as "no pathway activity" for every student.
type SourceUnavailableError struct {
	Source string
	Err    error
}

func (e *SourceUnavailableError) Error() string {
	return fmt.Sprintf("source %s unavailable: %v", e.Source, e.Err)
}

func (e *SourceUnavailableError) Unwrap() error { return e.Err }

// MissingColumnError means a required column is absent from a source schema
// or a table operation referenced a column that does not exist.
type MissingColumnError struct {
	Source string
	Column string
}

func (e *MissingColumnError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("missing column %q", e.Column)
	}
	return fmt.Sprintf("source %s: missing column %q", e.Source, e.Column)
}

// EmptySourceError means a source opened fine but yielded zero data rows
// where the caller requires non-empty input.
type EmptySourceError struct {
	Source string
}

func (e *EmptySourceError) Error() string {
	return fmt.Sprintf("source %s: no data rows", e.Source)
}
