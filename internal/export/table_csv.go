package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/andybalholm/brotli"

	"cp-etl/internal/table"
)

// WriteCSV writes a table as CSV.
func WriteCSV(w io.Writer, t table.Table) error {
	return t.WriteCSV(w)
}

// WriteCSVBrotli writes a table as brotli-compressed CSV, the format the
// archived snapshots use.
func WriteCSVBrotli(w io.Writer, t table.Table) error {
	bw := brotli.NewWriter(w)
	if err := t.WriteCSV(bw); err != nil {
		return err
	}
	return bw.Close()
}

// SaveInterim persists a stage's intermediate table under dir so a run stays
// auditable after the fact.
func SaveInterim(dir, name string, t table.Table) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("export: mkdir %s: %w", dir, err)
	}
	path := filepath.Join(dir, name)
	if err := t.SaveFile(path); err != nil {
		return "", fmt.Errorf("export: write %s: %w", path, err)
	}
	return path, nil
}
