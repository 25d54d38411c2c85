// Package pipeline wires the wrangling stages together. A Context carries
// the run's configuration and caches every loaded source so each one is read
// at most once per run, no matter how many stages touch it.
package pipeline

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"cp-etl/internal/config"
	"cp-etl/internal/sheetsclient"
	"cp-etl/internal/sources"
	"cp-etl/internal/table"
)

// Logical source names. File-backed sources resolve to <raw_dir>/<name>.csv.
const (
	SrcStudents       = "students"
	SrcCurrentCourses = "current_courses"
	SrcStoredGrades   = "stored_grades"
	SrcCourseCodes    = "course_codes"
	SrcAttendance     = "c3_attendance"
	SrcAgreement      = "student_agreement"
	SrcWBL            = "jaws_wbl"
	SrcInternships    = "jaws_internships"
	SrcPartner        = "naf_students"
)

type Context struct {
	Cfg config.Config
	Log *zap.SugaredLogger

	Sources map[string]sources.Source
	Report  *Report

	mu    sync.Mutex
	cache map[string]table.Table
}

func NewContext(cfg config.Config, log *zap.SugaredLogger, srcs map[string]sources.Source) *Context {
	return &Context{
		Cfg:     cfg,
		Log:     log,
		Sources: srcs,
		Report:  &Report{},
		cache:   map[string]table.Table{},
	}
}

// DefaultSources maps every logical source to a raw-dir CSV, then rewires
// the intake tables to their spreadsheet tabs when a sheets client and a
// configured tab are available.
func DefaultSources(cfg config.Config, sheetsCli *sheetsclient.Client) map[string]sources.Source {
	srcs := map[string]sources.Source{}
	for _, name := range []string{
		SrcStudents, SrcCurrentCourses, SrcStoredGrades, SrcCourseCodes,
		SrcAttendance, SrcAgreement, SrcWBL, SrcInternships, SrcPartner,
	} {
		srcs[name] = sources.FileIn(cfg.RawDir, name)
	}
	if sheetsCli == nil {
		return srcs
	}
	sheetRefs := map[string]config.SheetRef{
		SrcAttendance:  cfg.Sheets.Attendance,
		SrcAgreement:   cfg.Sheets.Agreement,
		SrcWBL:         cfg.Sheets.WBL,
		SrcInternships: cfg.Sheets.Internship,
		SrcPartner:     cfg.Sheets.Partner,
	}
	for name, ref := range sheetRefs {
		if ref.ID != "" {
			srcs[name] = sources.Sheet{Label: name, Client: sheetsCli, ID: ref.ID, Range: ref.Range}
		}
	}
	return srcs
}

// Load reads a logical source projected onto cols, reading the backing
// source at most once per run. Types documents identifier columns that must
// stay text.
func (c *Context) Load(ctx context.Context, name string, cols []string, types map[string]table.ColType) (table.Table, error) {
	full, err := c.loadFull(ctx, name)
	if err != nil {
		return table.Table{}, err
	}
	for _, col := range cols {
		if !full.HasCol(col) {
			return table.Table{}, &table.MissingColumnError{Source: name, Column: col}
		}
	}
	for col := range types {
		if !full.HasCol(col) {
			return table.Table{}, &table.MissingColumnError{Source: name, Column: col}
		}
	}
	if cols == nil {
		return full, nil
	}
	return full.Select(cols...)
}

func (c *Context) loadFull(ctx context.Context, name string) (table.Table, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t, ok := c.cache[name]; ok {
		return t, nil
	}
	src, ok := c.Sources[name]
	if !ok {
		return table.Table{}, &table.SourceUnavailableError{Source: name, Err: errUnmapped}
	}
	t, err := src.Read(ctx, table.LoadOptions{})
	if err != nil {
		return table.Table{}, err
	}
	c.Log.Infow("source loaded", "source", name, "rows", t.Len())
	c.cache[name] = t
	return t, nil
}

var errUnmapped = errors.New("no source configured")
