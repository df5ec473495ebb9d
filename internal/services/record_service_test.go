package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"ridelog/internal/core"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func ndec(s string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: dec(s), Valid: true}
}

func TestSaveRecordCreatedThenUpdated(t *testing.T) {
	store := newFakeStore()
	svc := NewRecordService(store, nil, nil)
	ctx := context.Background()
	date := core.NewDate(2024, 1, 1)
	fields := core.RecordFields{RideCount: 10, Earnings: 1000, CNGExpenses: 200}

	outcome, err := svc.SaveRecord(ctx, date, fields)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if outcome != OutcomeCreated {
		t.Fatalf("first save = %s, want created", outcome)
	}

	// Reconciling the same pair again updates; the store still has one row.
	outcome, err = svc.SaveRecord(ctx, date, fields)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if outcome != OutcomeUpdated {
		t.Fatalf("second save = %s, want updated", outcome)
	}
	if len(store.records) != 1 {
		t.Fatalf("store has %d records, want 1", len(store.records))
	}
}

func TestSaveRecordDerivesNet(t *testing.T) {
	store := newFakeStore()
	svc := NewRecordService(store, nil, nil)
	date := core.NewDate(2024, 1, 1)

	_, err := svc.SaveRecord(context.Background(), date, core.RecordFields{
		Earnings:     1000,
		CNGExpenses:  200,
		DriverPass:   dec("50"),
		InDriveTopup: dec("19.5"),
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	stored := store.records[date.String()]
	if stored.DailyNet != 730 { // 1000-200-50-19.5 = 730.5, banker's rounds to 730
		t.Fatalf("DailyNet = %d, want 730", stored.DailyNet)
	}
}

func TestSaveRecordNormalizesZeroOdometer(t *testing.T) {
	store := newFakeStore()
	svc := NewRecordService(store, nil, nil)
	date := core.NewDate(2024, 1, 1)

	_, err := svc.SaveRecord(context.Background(), date, core.RecordFields{
		Earnings:      500,
		OdometerStart: ndec("0"),
		OdometerEnd:   ndec("120.5"),
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	stored := store.records[date.String()]
	if stored.OdometerStart.Valid {
		t.Fatalf("zero odometer start must be stored as absent")
	}
	if !stored.OdometerEnd.Valid {
		t.Fatalf("non-zero odometer end must be stored")
	}
}

func TestSaveRecordRejectsInvalidInput(t *testing.T) {
	svc := NewRecordService(newFakeStore(), nil, nil)
	ctx := context.Background()

	if _, err := svc.SaveRecord(ctx, core.Date{}, core.RecordFields{}); err == nil {
		t.Fatalf("expected error for zero date")
	}
	if _, err := svc.SaveRecord(ctx, core.NewDate(2024, 1, 1), core.RecordFields{RideCount: -1}); err == nil {
		t.Fatalf("expected error for negative rides")
	}
}

func TestSaveInvalidatesAfterWrite(t *testing.T) {
	store := newFakeStore()
	inv := &spyInvalidator{store: store}
	svc := NewRecordService(store, inv, nil)

	_, err := svc.SaveRecord(context.Background(), core.NewDate(2024, 1, 1),
		core.RecordFields{Earnings: 100})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if inv.calls != 1 {
		t.Fatalf("invalidate calls = %d, want 1", inv.calls)
	}
	// Write-then-invalidate: the store already held the row when the
	// cache was purged.
	if inv.recordsAtCall != 1 {
		t.Fatalf("store had %d records at invalidation, want 1", inv.recordsAtCall)
	}
}

func TestSaveOtherExpense(t *testing.T) {
	store := newFakeStore()
	svc := NewRecordService(store, nil, nil)
	ctx := context.Background()
	date := core.NewDate(2024, 1, 5)
	fields := core.ExpenseFields{CarEMI: dec("15000"), Months: "Jan"}

	outcome, err := svc.SaveOtherExpense(ctx, date, fields)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if outcome != OutcomeCreated {
		t.Fatalf("outcome = %s, want created", outcome)
	}

	fields.PGRent = dec("8000")
	outcome, err = svc.SaveOtherExpense(ctx, date, fields)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if outcome != OutcomeUpdated {
		t.Fatalf("outcome = %s, want updated", outcome)
	}
	if !store.expenses[date.String()].PGRent.Equal(dec("8000")) {
		t.Fatalf("update did not replace fields")
	}
}

type spyInvalidator struct {
	store         *fakeStore
	calls         int
	recordsAtCall int
}

func (s *spyInvalidator) Invalidate() {
	s.calls++
	s.recordsAtCall = len(s.store.records)
}
