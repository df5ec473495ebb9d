package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"ridelog/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "ridelog.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func testRecord(date core.Date) core.DailyRecord {
	fields := core.RecordFields{
		RideCount:    10,
		Earnings:     1000,
		CNGExpenses:  200,
		DriverPass:   dec("50"),
		InDriveTopup: dec("19.5"),
		OdometerStart: decimal.NullDecimal{Decimal: dec("1200.5"), Valid: true},
	}
	return core.DailyRecord{Date: date, RecordFields: fields, DailyNet: fields.Derive().DailyNet}
}

func TestUpsertRecordCreateThenUpdate(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	date := core.NewDate(2024, 1, 1)

	created, err := repo.UpsertRecord(ctx, testRecord(date))
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if !created {
		t.Fatalf("first upsert should create")
	}

	// Second write for the same date replaces, never duplicates.
	rec := testRecord(date)
	rec.Earnings = 2000
	rec.DailyNet = rec.RecordFields.Derive().DailyNet
	created, err = repo.UpsertRecord(ctx, rec)
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if created {
		t.Fatalf("second upsert should update, not create")
	}

	records, err := repo.ListRecords(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].Earnings != 2000 {
		t.Fatalf("update did not replace fields, earnings = %d", records[0].Earnings)
	}
}

func TestUpsertRecordIdempotent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	rec := testRecord(core.NewDate(2024, 3, 15))

	if _, err := repo.UpsertRecord(ctx, rec); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if _, err := repo.UpsertRecord(ctx, rec); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	records, err := repo.ListRecords(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record after repeated upsert, got %d", len(records))
	}
}

func TestRecordRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	rec := testRecord(core.NewDate(2024, 6, 1))

	if _, err := repo.UpsertRecord(ctx, rec); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := repo.FindRecordByDate(ctx, rec.Date)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got == nil {
		t.Fatalf("expected record")
	}
	if got.RideCount != 10 || got.Earnings != 1000 || got.CNGExpenses != 200 {
		t.Errorf("integers mangled: %+v", got)
	}
	if !got.DriverPass.Equal(dec("50")) || !got.InDriveTopup.Equal(dec("19.5")) {
		t.Errorf("decimals mangled: pass=%s topup=%s", got.DriverPass, got.InDriveTopup)
	}
	if !got.OdometerStart.Valid || !got.OdometerStart.Decimal.Equal(dec("1200.5")) {
		t.Errorf("odometer start mangled: %+v", got.OdometerStart)
	}
	// Absent odometer end must come back absent, not zero.
	if got.OdometerEnd.Valid {
		t.Errorf("absent odometer end came back as %s", got.OdometerEnd.Decimal)
	}
	if got.DailyNet != rec.DailyNet {
		t.Errorf("daily net = %d, want %d", got.DailyNet, rec.DailyNet)
	}
}

func TestFindRecordByDateMissing(t *testing.T) {
	repo := newTestRepo(t)
	got, err := repo.FindRecordByDate(context.Background(), core.NewDate(1999, 1, 1))
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for missing date, got %+v", got)
	}
}

func TestListRecordsOrdering(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, day := range []int{20, 5, 12} {
		if _, err := repo.UpsertRecord(ctx, testRecord(core.NewDate(2024, 1, day))); err != nil {
			t.Fatalf("upsert day %d: %v", day, err)
		}
	}

	records, err := repo.ListRecords(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"2024-01-05", "2024-01-12", "2024-01-20"}
	for i, w := range want {
		if records[i].Date.String() != w {
			t.Fatalf("record %d date = %s, want %s", i, records[i].Date, w)
		}
	}
}

func TestUpsertOtherExpense(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	exp := core.OtherExpense{
		Date: core.NewDate(2024, 1, 5),
		ExpenseFields: core.ExpenseFields{
			Misc:   dec("250"),
			Months: "Jan",
			CarEMI: dec("15000"),
			PGRent: dec("8000"),
		},
	}

	created, err := repo.UpsertOtherExpense(ctx, exp)
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if !created {
		t.Fatalf("first upsert should create")
	}

	exp.PGRent = dec("8500")
	created, err = repo.UpsertOtherExpense(ctx, exp)
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if created {
		t.Fatalf("second upsert should update")
	}

	list, err := repo.ListOtherExpenses(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 row, got %d", len(list))
	}
	got := list[0]
	if !got.PGRent.Equal(dec("8500")) || !got.CarEMI.Equal(dec("15000")) || got.Months != "Jan" {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}
