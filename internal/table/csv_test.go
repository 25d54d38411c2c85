package table

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestLoadProjectionAndNulls(t *testing.T) {
	csv := "STUDENT_NUMBER,NAME,EXITDATE\n123456,ana,\n234567,ben,2026-06-15\n"

	got, err := Load(strings.NewReader(csv), "students", LoadOptions{
		Columns: []string{"STUDENT_NUMBER", "EXITDATE"},
		Types:   map[string]ColType{"STUDENT_NUMBER": Text},
	})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got.Cols) != 2 {
		t.Errorf("cols = %v", got.Cols)
	}
	if got.Rows[0]["STUDENT_NUMBER"] != "123456" {
		t.Errorf("id = %q", got.Rows[0]["STUDENT_NUMBER"])
	}
	// Empty cells load as nulls, so the exit-date filters can use IsNull.
	if _, ok := got.Rows[0]["EXITDATE"]; ok {
		t.Errorf("empty cell loaded as a value")
	}
	if got.Rows[1]["EXITDATE"] != "2026-06-15" {
		t.Errorf("exit date = %q", got.Rows[1]["EXITDATE"])
	}
}

func TestLoadMissingColumn(t *testing.T) {
	csv := "a,b\n1,2\n"
	_, err := Load(strings.NewReader(csv), "src", LoadOptions{Columns: []string{"a", "zzz"}})
	var mce *MissingColumnError
	if !errors.As(err, &mce) {
		t.Fatalf("err = %v, want MissingColumnError", err)
	}
	if mce.Source != "src" || mce.Column != "zzz" {
		t.Errorf("error fields = %+v", mce)
	}
}

func TestFromRecordsShortRowsPadWithNulls(t *testing.T) {
	got, err := FromRecords([][]string{
		{"a", "b", "c"},
		{"1", "2"},
	}, "tab", LoadOptions{})
	if err != nil {
		t.Fatalf("FromRecords: %v", err)
	}
	if _, ok := got.Rows[0]["c"]; ok {
		t.Errorf("short row's missing cell is not null")
	}
}

func TestFromRecordsEmpty(t *testing.T) {
	_, err := FromRecords(nil, "tab", LoadOptions{})
	var ese *EmptySourceError
	if !errors.As(err, &ese) {
		t.Errorf("err = %v, want EmptySourceError", err)
	}
}

func TestRequireRows(t *testing.T) {
	tb := New("a")
	if err := tb.RequireRows("src"); err == nil {
		t.Errorf("RequireRows on empty table = nil")
	}
	tb.Rows = append(tb.Rows, Row{"a": "1"})
	if err := tb.RequireRows("src"); err != nil {
		t.Errorf("RequireRows on non-empty table = %v", err)
	}
}

func TestWriteCSVRoundsNullsToEmpty(t *testing.T) {
	tb := mkTable([]string{"a", "b"}, Row{"a": "1"})
	var buf bytes.Buffer
	if err := tb.WriteCSV(&buf); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	want := "a,b\n1,\n"
	if buf.String() != want {
		t.Errorf("csv = %q, want %q", buf.String(), want)
	}
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile("/nonexistent/students.csv", LoadOptions{})
	var sue *SourceUnavailableError
	if !errors.As(err, &sue) {
		t.Errorf("err = %v, want SourceUnavailableError", err)
	}
}
