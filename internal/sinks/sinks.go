// Package sinks delivers finished tables to their destinations.
package sinks

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"cp-etl/internal/s3client"
	"cp-etl/internal/sheetsclient"
	"cp-etl/internal/table"
)

type Sink interface {
	Name() string
	Write(ctx context.Context, t table.Table) error
}

// LocalCSV writes the table to a file path.
type LocalCSV struct {
	Label string
	Path  string
}

func (s LocalCSV) Name() string { return s.Label }

func (s LocalCSV) Write(_ context.Context, t table.Table) error {
	if err := t.SaveFile(s.Path); err != nil {
		return fmt.Errorf("sink %s: %w", s.Label, err)
	}
	return nil
}

// Sheet publishes with clear-then-overwrite semantics.
type Sheet struct {
	Label  string
	Client *sheetsclient.Client
	ID     string
	Range  string
	Log    *zap.SugaredLogger
}

func (s Sheet) Name() string { return s.Label }

func (s Sheet) Write(ctx context.Context, t table.Table) error {
	cells, err := s.Client.ClearAndWrite(ctx, s.ID, s.Range, t.Records())
	if err != nil {
		return fmt.Errorf("sink %s: %w", s.Label, err)
	}
	if s.Log != nil {
		s.Log.Infow("sheet published", "sink", s.Label, "cells", cells)
	}
	return nil
}

// S3 uploads the table to object storage; the key's extension picks the
// encoding.
type S3 struct {
	Label  string
	Client *s3client.Client
	Key    string
}

func (s S3) Name() string { return s.Label }

func (s S3) Write(ctx context.Context, t table.Table) error {
	if err := s.Client.UploadTable(ctx, s.Key, t); err != nil {
		return fmt.Errorf("sink %s: %w", s.Label, err)
	}
	return nil
}
