package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"

	"ridelog/internal/source"
)

// ImportReport counts the effect of one full import pass.
type ImportReport struct {
	RecordsCreated  int
	RecordsUpdated  int
	RecordsSkipped  int
	ExpensesCreated int
	ExpensesUpdated int
	ExpensesSkipped int
}

// ImportService drives a bulk import: every source row goes through the
// same reconcile path as manual entry, so importing the same workbook twice
// leaves the store unchanged.
type ImportService struct {
	records *RecordService
}

func NewImportService(records *RecordService) *ImportService {
	return &ImportService{records: records}
}

// Run imports all daily records and other expenses from the source. The
// two sheet families are fetched concurrently; writes are applied in date
// order.
func (s *ImportService) Run(ctx context.Context, src source.Source) (ImportReport, error) {
	var (
		daily        []source.DailyRow
		dailySkipped int
		exps         []source.ExpenseRow
		expSkipped   int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		daily, dailySkipped, err = src.DailyRows(gctx)
		if err != nil {
			return fmt.Errorf("read daily rows: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		exps, expSkipped, err = src.ExpenseRows(gctx)
		if err != nil {
			return fmt.Errorf("read expense rows: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return ImportReport{}, err
	}

	sort.Slice(daily, func(i, j int) bool { return daily[i].Date.Before(daily[j].Date) })
	sort.Slice(exps, func(i, j int) bool { return exps[i].Date.Before(exps[j].Date) })

	report := ImportReport{RecordsSkipped: dailySkipped, ExpensesSkipped: expSkipped}

	for _, row := range daily {
		outcome, err := s.records.SaveRecord(ctx, row.Date, row.Fields)
		if err != nil {
			return report, fmt.Errorf("import record %s: %w", row.Date, err)
		}
		if outcome == OutcomeCreated {
			report.RecordsCreated++
		} else {
			report.RecordsUpdated++
		}
	}

	for _, row := range exps {
		outcome, err := s.records.SaveOtherExpense(ctx, row.Date, row.Fields)
		if err != nil {
			return report, fmt.Errorf("import other expense %s: %w", row.Date, err)
		}
		if outcome == OutcomeCreated {
			report.ExpensesCreated++
		} else {
			report.ExpensesUpdated++
		}
	}

	slog.InfoContext(ctx, "Import complete",
		"records_created", report.RecordsCreated,
		"records_updated", report.RecordsUpdated,
		"records_skipped", report.RecordsSkipped,
		"expenses_created", report.ExpensesCreated,
		"expenses_updated", report.ExpensesUpdated,
		"expenses_skipped", report.ExpensesSkipped)

	return report, nil
}
