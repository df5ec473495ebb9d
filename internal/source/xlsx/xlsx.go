// Package xlsx reads import rows from an Excel workbook.
package xlsx

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	"ridelog/internal/source"
)

// Workbook is a source.Source over a local .xlsx file. Every sheet whose
// name starts with the daily or other-expense prefix is read, so yearly
// tabs ("Daily Record 2025", "Daily Record 2026") need no configuration.
type Workbook struct {
	path string
}

var _ source.Source = (*Workbook)(nil)

func NewWorkbook(path string) (*Workbook, error) {
	if !strings.HasSuffix(path, ".xlsx") {
		return nil, fmt.Errorf("invalid file type %q: only .xlsx files are supported", path)
	}
	return &Workbook{path: path}, nil
}

// DailyRows implements source.Source.
func (w *Workbook) DailyRows(ctx context.Context) ([]source.DailyRow, int, error) {
	var (
		out     []source.DailyRow
		skipped int
	)
	err := w.eachSheet(ctx, source.DailySheetPrefix, func(sheet string, rows [][]string) {
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
func (w *Workbook) ExpenseRows(ctx context.Context) ([]source.ExpenseRow, int, error) {
	var (
		out     []source.ExpenseRow
		skipped int
	)
	err := w.eachSheet(ctx, source.ExpenseSheetPrefix, func(sheet string, rows [][]string) {
		parsed, bad := source.ParseExpenseSheet(sheet, rows)
		out = append(out, parsed...)
		skipped += bad
	})
	if err != nil {
		return nil, 0, err
	}
	return out, skipped, nil
}

func (w *Workbook) eachSheet(ctx context.Context, prefix string, fn func(sheet string, rows [][]string)) error {
	f, err := excelize.OpenFile(w.path)
	if err != nil {
		return fmt.Errorf("open workbook %s: %w", w.path, err)
	}
	defer f.Close()

	for _, sheet := range f.GetSheetList() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !strings.HasPrefix(sheet, prefix) {
			continue
		}

		rows, err := f.GetRows(sheet)
		if err != nil {
			return fmt.Errorf("read sheet %s: %w", sheet, err)
		}

		slog.InfoContext(ctx, "Reading sheet", "sheet", sheet, "rows", len(rows))
		fn(sheet, rows)
	}
	return nil
}
