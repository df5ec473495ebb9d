// Package gsheets reads import rows from a Google Spreadsheet that mirrors
// the business workbook's tab layout.
package gsheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"ridelog/internal/source"
)

// Client is a source.Source over a Google Spreadsheet.
type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
}

var _ source.Source = (*Client)(nil)

// NewFromEnv creates a Sheets-backed source using environment variables.
// Required: GOOGLE_SPREADSHEET_ID. Credentials come from
// GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS.
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{svc: svc, spreadsheetID: spreadsheetID}, nil
}

func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		b, err := os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		credentialsJSON = b
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsReadonlyScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return svc, nil
}

// DailyRows implements source.Source.
func (c *Client) DailyRows(ctx context.Context) ([]source.DailyRow, int, error) {
	var (
		out     []source.DailyRow
		skipped int
	)
	err := c.eachSheet(ctx, source.DailySheetPrefix, func(sheet string, rows [][]string) {
		parsed, bad := source.ParseDailySheet(sheet, rows)
		out = append(out, parsed...)
		skipped += bad
	})
	if err != nil {
		return nil, 0, err
	}
	return out, skipped, nil
}

// ExpenseRows implements source.Source.
func (c *Client) ExpenseRows(ctx context.Context) ([]source.ExpenseRow, int, error) {
	var (
		out     []source.ExpenseRow
		skipped int
	)
	err := c.eachSheet(ctx, source.ExpenseSheetPrefix, func(sheet string, rows [][]string) {
		parsed, bad := source.ParseExpenseSheet(sheet, rows)
		out = append(out, parsed...)
		skipped += bad
	})
	if err != nil {
		return nil, 0, err
	}
	return out, skipped, nil
}

func (c *Client) eachSheet(ctx context.Context, prefix string, fn func(sheet string, rows [][]string)) error {
	meta, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("get spreadsheet metadata: %w", err)
	}

	for _, s := range meta.Sheets {
		title := s.Properties.Title
		if !strings.HasPrefix(title, prefix) {
			continue
		}

		resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, title).
			ValueRenderOption("FORMATTED_VALUE").Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("read sheet %s: %w", title, err)
		}

		rows := make([][]string, 0, len(resp.Values))
		for _, row := range resp.Values {
			cells := make([]string, len(row))
			for i, v := range row {
				cells[i] = fmt.Sprint(v)
			}
			rows = append(rows, cells)
		}

		slog.InfoContext(ctx, "Reading sheet", "sheet", title, "rows", len(rows))
		fn(title, rows)
	}
	return nil
}
