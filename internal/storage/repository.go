// Package storage persists daily records and other expenses in SQLite.
// Dates key both tables uniquely; decimals are stored as text to avoid
// float drift.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"ridelog/internal/core"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Run migrations
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

const recordColumns = `date, ride_count, earnings, cng_expenses, driver_pass,
	indrive_topup, odometer_start, odometer_end, daily_net`

// FindRecordByDate returns the record for a date, or nil when none exists.
func (r *SQLiteRepository) FindRecordByDate(ctx context.Context, date core.Date) (*core.DailyRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+recordColumns+` FROM daily_records WHERE date = ?`, date.String())

	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find record by date: %w", err)
	}
	return rec, nil
}

// UpsertRecord writes the record for its date, replacing all mutable fields
// of an existing row. The insert and the fallback update run inside one
// transaction so a concurrent writer for the same date cannot interleave;
// the unique index on date backstops the invariant either way. Reports
// whether the row was created.
func (r *SQLiteRepository) UpsertRecord(ctx context.Context, rec core.DailyRecord) (created bool, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin upsert: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO daily_records (`+recordColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(date) DO NOTHING`,
		rec.Date.String(), rec.RideCount, rec.Earnings, rec.CNGExpenses,
		rec.DriverPass.String(), rec.InDriveTopup.String(),
		nullDecimalArg(rec.OdometerStart), nullDecimalArg(rec.OdometerEnd),
		rec.DailyNet)
	if err != nil {
		return false, fmt.Errorf("insert record: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert record: %w", err)
	}

	if n == 0 {
		_, err = tx.ExecContext(ctx,
			`UPDATE daily_records SET ride_count = ?, earnings = ?,
			 cng_expenses = ?, driver_pass = ?, indrive_topup = ?,
			 odometer_start = ?, odometer_end = ?, daily_net = ?
			 WHERE date = ?`,
			rec.RideCount, rec.Earnings, rec.CNGExpenses,
			rec.DriverPass.String(), rec.InDriveTopup.String(),
			nullDecimalArg(rec.OdometerStart), nullDecimalArg(rec.OdometerEnd),
			rec.DailyNet, rec.Date.String())
		if err != nil {
			return false, fmt.Errorf("update record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit upsert: %w", err)
	}

	slog.InfoContext(ctx, "Daily record saved",
		"date", rec.Date.String(),
		"created", n > 0,
		"daily_net", rec.DailyNet)

	return n > 0, nil
}

// ListRecords returns all daily records ordered by date ascending.
func (r *SQLiteRepository) ListRecords(ctx context.Context) ([]core.DailyRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+recordColumns+` FROM daily_records ORDER BY date ASC`)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	var records []core.DailyRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	return records, nil
}

// FindOtherExpenseByDate returns the other-expense row for a date, or nil.
func (r *SQLiteRepository) FindOtherExpenseByDate(ctx context.Context, date core.Date) (*core.OtherExpense, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT date, misc, months, car_emi, pg_rent FROM other_expenses WHERE date = ?`,
		date.String())

	exp, err := scanOtherExpense(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find other expense by date: %w", err)
	}
	return exp, nil
}

// UpsertOtherExpense writes the other-expense row for its date with the
// same full-replace semantics as UpsertRecord.
func (r *SQLiteRepository) UpsertOtherExpense(ctx context.Context, exp core.OtherExpense) (created bool, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin upsert: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO other_expenses (date, misc, months, car_emi, pg_rent)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(date) DO NOTHING`,
		exp.Date.String(), exp.Misc.String(), nullString(exp.Months),
		exp.CarEMI.String(), exp.PGRent.String())
	if err != nil {
		return false, fmt.Errorf("insert other expense: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert other expense: %w", err)
	}

	if n == 0 {
		_, err = tx.ExecContext(ctx,
			`UPDATE other_expenses SET misc = ?, months = ?, car_emi = ?, pg_rent = ?
			 WHERE date = ?`,
			exp.Misc.String(), nullString(exp.Months),
			exp.CarEMI.String(), exp.PGRent.String(), exp.Date.String())
		if err != nil {
			return false, fmt.Errorf("update other expense: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit upsert: %w", err)
	}

	slog.InfoContext(ctx, "Other expense saved",
		"date", exp.Date.String(),
		"created", n > 0)

	return n > 0, nil
}

// ListOtherExpenses returns all other-expense rows ordered by date ascending.
func (r *SQLiteRepository) ListOtherExpenses(ctx context.Context) ([]core.OtherExpense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT date, misc, months, car_emi, pg_rent FROM other_expenses ORDER BY date ASC`)
	if err != nil {
		return nil, fmt.Errorf("list other expenses: %w", err)
	}
	defer rows.Close()

	var expenses []core.OtherExpense
	for rows.Next() {
		exp, err := scanOtherExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan other expense: %w", err)
		}
		expenses = append(expenses, *exp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list other expenses: %w", err)
	}
	return expenses, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*core.DailyRecord, error) {
	var (
		rec        core.DailyRecord
		dateStr    string
		pass       string
		topup      string
		odoStart   sql.NullString
		odoEnd     sql.NullString
	)
	err := row.Scan(&dateStr, &rec.RideCount, &rec.Earnings, &rec.CNGExpenses,
		&pass, &topup, &odoStart, &odoEnd, &rec.DailyNet)
	if err != nil {
		return nil, err
	}

	if rec.Date, err = core.ParseDate(dateStr); err != nil {
		return nil, fmt.Errorf("parse stored date %q: %w", dateStr, err)
	}
	if rec.DriverPass, err = decimal.NewFromString(pass); err != nil {
		return nil, fmt.Errorf("parse driver_pass %q: %w", pass, err)
	}
	if rec.InDriveTopup, err = decimal.NewFromString(topup); err != nil {
		return nil, fmt.Errorf("parse indrive_topup %q: %w", topup, err)
	}
	if rec.OdometerStart, err = parseNullDecimal(odoStart); err != nil {
		return nil, fmt.Errorf("parse odometer_start: %w", err)
	}
	if rec.OdometerEnd, err = parseNullDecimal(odoEnd); err != nil {
		return nil, fmt.Errorf("parse odometer_end: %w", err)
	}
	return &rec, nil
}

func scanOtherExpense(row rowScanner) (*core.OtherExpense, error) {
	var (
		exp     core.OtherExpense
		dateStr string
		misc    string
		months  sql.NullString
		emi     string
		rent    string
	)
	if err := row.Scan(&dateStr, &misc, &months, &emi, &rent); err != nil {
		return nil, err
	}

	var err error
	if exp.Date, err = core.ParseDate(dateStr); err != nil {
		return nil, fmt.Errorf("parse stored date %q: %w", dateStr, err)
	}
	if exp.Misc, err = decimal.NewFromString(misc); err != nil {
		return nil, fmt.Errorf("parse misc %q: %w", misc, err)
	}
	if exp.CarEMI, err = decimal.NewFromString(emi); err != nil {
		return nil, fmt.Errorf("parse car_emi %q: %w", emi, err)
	}
	if exp.PGRent, err = decimal.NewFromString(rent); err != nil {
		return nil, fmt.Errorf("parse pg_rent %q: %w", rent, err)
	}
	exp.Months = months.String
	return &exp, nil
}

func nullDecimalArg(d decimal.NullDecimal) any {
	if !d.Valid {
		return nil
	}
	return d.Decimal.String()
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func parseNullDecimal(s sql.NullString) (decimal.NullDecimal, error) {
	if !s.Valid {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(s.String)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}, nil
}
