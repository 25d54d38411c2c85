// Package s3client uploads finished tables to object storage. The format
// follows the destination key: .parquet gets a snappy parquet file, .csv.br
// a brotli-compressed CSV, anything else plain CSV.
package s3client

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"

	"cp-etl/internal/export"
	"cp-etl/internal/table"
)

type Client struct {
	uploader *s3manager.Uploader
	bucket   string
}

func New(region, bucket string) (*Client, error) {
	if bucket == "" {
		return nil, fmt.Errorf("s3: missing env CP_S3_BUCKET")
	}
	sess, err := session.NewSession(&aws.Config{Region: aws.String(region)})
	if err != nil {
		return nil, fmt.Errorf("s3: new session: %w", err)
	}
	return &Client{uploader: s3manager.NewUploader(sess), bucket: bucket}, nil
}

// UploadTable renders t in the format keyed by the destination name and
// uploads it.
func (c *Client) UploadTable(ctx context.Context, key string, t table.Table) error {
	switch {
	case strings.HasSuffix(key, ".parquet"):
		return c.uploadParquet(ctx, key, t)
	case strings.HasSuffix(key, ".csv.br"):
		var buf bytes.Buffer
		if err := export.WriteCSVBrotli(&buf, t); err != nil {
			return fmt.Errorf("s3: encode %s: %w", key, err)
		}
		return c.put(ctx, key, &buf)
	default:
		var buf bytes.Buffer
		if err := export.WriteCSV(&buf, t); err != nil {
			return fmt.Errorf("s3: encode %s: %w", key, err)
		}
		return c.put(ctx, key, &buf)
	}
}

func (c *Client) put(ctx context.Context, key string, body *bytes.Buffer) error {
	_, err := c.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(body.Bytes()),
	})
	if err != nil {
		return fmt.Errorf("s3: upload %s: %w", key, err)
	}
	return nil
}

func (c *Client) uploadParquet(ctx context.Context, key string, t table.Table) error {
	tmp, err := os.CreateTemp("", "cp-etl-*.parquet")
	if err != nil {
		return fmt.Errorf("s3: temp file: %w", err)
	}
	tmpName := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpName)

	if err := export.WriteParquet(tmpName, t); err != nil {
		return fmt.Errorf("s3: encode %s: %w", key, err)
	}
	f, err := os.Open(tmpName)
	if err != nil {
		return fmt.Errorf("s3: open temp file: %w", err)
	}
	defer f.Close()

	_, err = c.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
		Body:   f,
	})
	if err != nil {
		return fmt.Errorf("s3: upload %s: %w", key, err)
	}
	return nil
}

// Key joins the configured prefix and object name.
func Key(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return path.Join(prefix, name)
}
