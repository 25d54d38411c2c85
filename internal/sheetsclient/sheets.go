// Package sheetsclient wraps the Google Sheets values API for the intake
// tabs and the published views.
package sheetsclient

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

type Client struct {
	svc *sheets.Service
}

// New builds a client authenticated with a service-account credentials file.
func New(ctx context.Context, credentialsFile string) (*Client, error) {
	if credentialsFile == "" {
		return nil, fmt.Errorf("sheets: missing env CP_SHEETS_CREDENTIALS_FILE")
	}
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("sheets: new service: %w", err)
	}
	return &Client{svc: svc}, nil
}

// ReadRange fetches a tab range as string records (header row included).
func (c *Client) ReadRange(ctx context.Context, spreadsheetID, rng string) ([][]string, error) {
	resp, err := c.svc.Spreadsheets.Values.Get(spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("sheets: get %s!%s: %w", spreadsheetID, rng, err)
	}
	out := make([][]string, 0, len(resp.Values))
	for _, row := range resp.Values {
		rec := make([]string, len(row))
		for i, cell := range row {
			rec[i] = fmt.Sprint(cell)
		}
		out = append(out, rec)
	}
	return out, nil
}

// ClearAndWrite clears the target range and writes records in its place.
// Full overwrite semantics, never append: stale rows from a longer previous
// publish must not survive. Returns the number of cells written.
func (c *Client) ClearAndWrite(ctx context.Context, spreadsheetID, rng string, records [][]string) (int64, error) {
	_, err := c.svc.Spreadsheets.Values.Clear(spreadsheetID, rng, &sheets.ClearValuesRequest{}).
		Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("sheets: clear %s!%s: %w", spreadsheetID, rng, err)
	}

	values := make([][]interface{}, len(records))
	for i, rec := range records {
		row := make([]interface{}, len(rec))
		for j, cell := range rec {
			row[j] = cell
		}
		values[i] = row
	}
	resp, err := c.svc.Spreadsheets.Values.Update(spreadsheetID, rng, &sheets.ValueRange{Values: values}).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("sheets: update %s!%s: %w", spreadsheetID, rng, err)
	}
	return resp.UpdatedCells, nil
}
