package services

import (
	"context"
	"sort"
	"sync"

	"ridelog/internal/core"
)

// fakeStore is an in-memory RecordStore for service tests.
type fakeStore struct {
	mu       sync.Mutex
	records  map[string]core.DailyRecord
	expenses map[string]core.OtherExpense
	lists    int // ListRecords call count, for cache assertions
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		records:  make(map[string]core.DailyRecord),
		expenses: make(map[string]core.OtherExpense),
	}
}

func (f *fakeStore) FindRecordByDate(ctx context.Context, date core.Date) (*core.DailyRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r, ok := f.records[date.String()]; ok {
		return &r, nil
	}
	return nil, nil
}

func (f *fakeStore) UpsertRecord(ctx context.Context, rec core.DailyRecord) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, exists := f.records[rec.Date.String()]
	f.records[rec.Date.String()] = rec
	return !exists, nil
}

func (f *fakeStore) ListRecords(ctx context.Context) ([]core.DailyRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	out := make([]core.DailyRecord, 0, len(f.records))
	for _, r := range f.records {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (f *fakeStore) FindOtherExpenseByDate(ctx context.Context, date core.Date) (*core.OtherExpense, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if e, ok := f.expenses[date.String()]; ok {
		return &e, nil
	}
	return nil, nil
}

func (f *fakeStore) UpsertOtherExpense(ctx context.Context, exp core.OtherExpense) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, exists := f.expenses[exp.Date.String()]
	f.expenses[exp.Date.String()] = exp
	return !exists, nil
}

func (f *fakeStore) ListOtherExpenses(ctx context.Context) ([]core.OtherExpense, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]core.OtherExpense, 0, len(f.expenses))
	for _, e := range f.expenses {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}
