package export

import (
	"fmt"
	"strings"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"

	"cp-etl/internal/table"
)

// WriteParquet writes a table to a snappy-compressed parquet file. Every
// column is UTF8: the pipeline's cells are opaque text and the archive keeps
// them that way. Nulls stay nulls.
func WriteParquet(path string, t table.Table) error {
	md := make([]string, len(t.Cols))
	for i, c := range t.Cols {
		md[i] = fmt.Sprintf("name=%s, type=BYTE_ARRAY, convertedtype=UTF8", parquetName(c))
	}

	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return fmt.Errorf("parquet: create %s: %w", path, err)
	}
	pw, err := writer.NewCSVWriter(md, fw, 2)
	if err != nil {
		fw.Close()
		return fmt.Errorf("parquet: new writer: %w", err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for _, r := range t.Rows {
		rec := make([]*string, len(t.Cols))
		for i, c := range t.Cols {
			if v, ok := r[c]; ok {
				v := v
				rec[i] = &v
			}
		}
		if err := pw.WriteString(rec); err != nil {
			fw.Close()
			return fmt.Errorf("parquet: write row: %w", err)
		}
	}
	if err := pw.WriteStop(); err != nil {
		fw.Close()
		return fmt.Errorf("parquet: finalize: %w", err)
	}
	return fw.Close()
}

// parquetName folds a free-text column label ("Linked field: gt_id") into a
// parquet-safe identifier.
func parquetName(col string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(col) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
