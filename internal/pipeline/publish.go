package pipeline

import (
	"context"
	"fmt"
	"time"

	"cp-etl/internal/s3client"
	"cp-etl/internal/sheetsclient"
	"cp-etl/internal/sinks"
	"cp-etl/internal/table"
)

// Publisher resolves each finished table's destinations from the run
// configuration. Missing credentials or an unset bucket simply skip that
// destination; the local processed CSVs always exist.
type Publisher struct {
	ctx    *Context
	sheets *sheetsclient.Client
	s3     *s3client.Client
	stamp  string
}

func NewPublisher(c *Context, sheets *sheetsclient.Client, s3 *s3client.Client) *Publisher {
	return &Publisher{
		ctx:    c,
		sheets: sheets,
		s3:     s3,
		stamp:  time.Now().Format("2006-01-02"),
	}
}

// PublishAttendance pushes the wide attendance table to its review tab and
// to object storage.
func (p *Publisher) PublishAttendance(ctx context.Context, t table.Table) error {
	var outs []sinks.Sink
	if ref := p.ctx.Cfg.Sheets.AttendanceOut; p.sheets != nil && ref.ID != "" {
		outs = append(outs, sinks.Sheet{
			Label: "attendance sheet", Client: p.sheets,
			ID: ref.ID, Range: ref.Range, Log: p.ctx.Log,
		})
	}
	if p.s3 != nil {
		outs = append(outs, sinks.S3{
			Label:  "attendance s3",
			Client: p.s3,
			Key:    s3client.Key(p.ctx.Cfg.S3.Prefix, "c3_processed.csv"),
		})
	}
	return p.write(ctx, t, outs)
}

// PublishFinalView pushes the merged view to its tab, plus the current CSV,
// a parquet copy for the warehouse, and a dated compressed archive snapshot.
func (p *Publisher) PublishFinalView(ctx context.Context, t table.Table) error {
	var outs []sinks.Sink
	if ref := p.ctx.Cfg.Sheets.FinalOut; p.sheets != nil && ref.ID != "" {
		outs = append(outs, sinks.Sheet{
			Label: "final view sheet", Client: p.sheets,
			ID: ref.ID, Range: ref.Range, Log: p.ctx.Log,
		})
	}
	if p.s3 != nil {
		prefix := p.ctx.Cfg.S3.Prefix
		outs = append(outs,
			sinks.S3{Label: "final view s3 csv", Client: p.s3,
				Key: s3client.Key(prefix, "pathway_identification.csv")},
			sinks.S3{Label: "final view s3 parquet", Client: p.s3,
				Key: s3client.Key(prefix, "pathway_identification.parquet")},
			sinks.S3{Label: "final view s3 archive", Client: p.s3,
				Key: s3client.Key(prefix, fmt.Sprintf("archive/pathway_identification_%s.csv.br", p.stamp))},
		)
	}
	return p.write(ctx, t, outs)
}

func (p *Publisher) write(ctx context.Context, t table.Table, outs []sinks.Sink) error {
	for _, s := range outs {
		if err := s.Write(ctx, t); err != nil {
			return err
		}
		p.ctx.Log.Infow("published", "sink", s.Name(), "rows", t.Len())
	}
	return nil
}
