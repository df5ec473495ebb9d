package services

import (
	"context"

	"ridelog/internal/core"
)

// RecordStore is the persistence surface the services operate against.
// *storage.SQLiteRepository satisfies it; tests use an in-memory fake.
type RecordStore interface {
	FindRecordByDate(ctx context.Context, date core.Date) (*core.DailyRecord, error)
	UpsertRecord(ctx context.Context, rec core.DailyRecord) (created bool, err error)
	ListRecords(ctx context.Context) ([]core.DailyRecord, error)

	FindOtherExpenseByDate(ctx context.Context, date core.Date) (*core.OtherExpense, error)
	UpsertOtherExpense(ctx context.Context, exp core.OtherExpense) (created bool, err error)
	ListOtherExpenses(ctx context.Context) ([]core.OtherExpense, error)
}

// Invalidator drops memoized aggregates after a write.
type Invalidator interface {
	Invalidate()
}
