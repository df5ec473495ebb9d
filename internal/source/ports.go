// Package source produces raw import rows for the reconciliation pipeline.
// A Source owns the external format (workbook, spreadsheet); the rows it
// emits are already well-typed, so downstream code never validates them.
package source

import (
	"context"

	"ridelog/internal/core"
)

type (
	// DailyRow is one parsed daily-record row from an external sheet.
	DailyRow struct {
		Date   core.Date
		Fields core.RecordFields
	}

	// ExpenseRow is one parsed other-expense row.
	ExpenseRow struct {
		Date   core.Date
		Fields core.ExpenseFields
	}

	// Source reads the two row kinds from an external spreadsheet. The
	// skipped counts report malformed rows dropped during parsing.
	Source interface {
		DailyRows(ctx context.Context) (rows []DailyRow, skipped int, err error)
		ExpenseRows(ctx context.Context) (rows []ExpenseRow, skipped int, err error)
	}
)

// Sheet name prefixes in the source workbook; tabs carry a year suffix
// ("Daily Record 2025").
const (
	DailySheetPrefix   = "Daily Record"
	ExpenseSheetPrefix = "Other Expenses"
)
