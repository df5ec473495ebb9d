package source

import (
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"ridelog/internal/core"
)

// External column headers mapped to canonical field keys. The headers are
// whatever the business workbook uses; blank numeric cells mean zero.
var dailyHeaders = map[string]string{
	"Date":                             "date",
	"Ride Count":                       "ride_count",
	"Earnings (₹)":                     "earnings",
	"CNG Expenses (₹)":                 "cng_expenses",
	"Driver Pass (₹)+OLA Subscription": "driver_pass",
	"InDrive Top-up":                   "indrive_topup",
	"Odometer(Km)":                     "odometer_start",
	"EOD Odometer(km)":                 "odometer_end",
	// Stored net in the sheet is ignored; it is recomputed at write time.
	"Daily Net (₹)": "daily_net",
}

var expenseHeaders = map[string]string{
	"Date":        "date",
	"Expenses(₹)": "misc",
	"Months":      "months",
	"Car EMI(₹)":  "car_emi",
	"Pg Rent(₹)":  "pg_rent",
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"01-02-06",
	"1/2/2006",
	"01/02/2006",
	"2-Jan-06",
}

// ParseDailySheet converts raw sheet rows into daily rows. The first row
// must be the header row. Rows with an unparseable date are counted as
// skipped, not fatal.
func ParseDailySheet(sheet string, rows [][]string) ([]DailyRow, int) {
	if len(rows) < 2 {
		return nil, 0
	}

	cols := headerIndex(rows[0], dailyHeaders)
	var (
		out     []DailyRow
		skipped int
	)
	for i, row := range rows[1:] {
		rawDate := cell(row, cols, "date")
		if strings.TrimSpace(rawDate) == "" {
			continue // trailing blank row
		}
		date, err := parseSheetDate(rawDate)
		if err != nil {
			slog.Warn("Skipping row with unparseable date",
				"sheet", sheet, "row", i+2, "value", rawDate)
			skipped++
			continue
		}

		fields := core.RecordFields{
			RideCount:     int(parseInt(cell(row, cols, "ride_count"))),
			Earnings:      parseInt(cell(row, cols, "earnings")),
			CNGExpenses:   parseInt(cell(row, cols, "cng_expenses")),
			DriverPass:    parseDecimal(cell(row, cols, "driver_pass")),
			InDriveTopup:  parseDecimal(cell(row, cols, "indrive_topup")),
			OdometerStart: parseOptionalDecimal(cell(row, cols, "odometer_start")),
			OdometerEnd:   parseOptionalDecimal(cell(row, cols, "odometer_end")),
		}
		out = append(out, DailyRow{Date: date, Fields: fields})
	}
	return out, skipped
}

// ParseExpenseSheet converts raw sheet rows into other-expense rows. Rows
// where every amount is zero are dropped.
func ParseExpenseSheet(sheet string, rows [][]string) ([]ExpenseRow, int) {
	if len(rows) < 2 {
		return nil, 0
	}

	cols := headerIndex(rows[0], expenseHeaders)
	var (
		out     []ExpenseRow
		skipped int
	)
	for i, row := range rows[1:] {
		rawDate := cell(row, cols, "date")
		if strings.TrimSpace(rawDate) == "" {
			continue
		}
		date, err := parseSheetDate(rawDate)
		if err != nil {
			slog.Warn("Skipping row with unparseable date",
				"sheet", sheet, "row", i+2, "value", rawDate)
			skipped++
			continue
		}

		fields := core.ExpenseFields{
			Misc:   parseDecimal(cell(row, cols, "misc")),
			Months: strings.TrimSpace(cell(row, cols, "months")),
			CarEMI: parseDecimal(cell(row, cols, "car_emi")),
			PGRent: parseDecimal(cell(row, cols, "pg_rent")),
		}
		if fields.AllZero() {
			continue
		}
		out = append(out, ExpenseRow{Date: date, Fields: fields})
	}
	return out, skipped
}

func headerIndex(header []string, known map[string]string) map[string]int {
	cols := make(map[string]int, len(known))
	for i, h := range header {
		if key, ok := known[strings.TrimSpace(h)]; ok {
			cols[key] = i
		}
	}
	return cols
}

func cell(row []string, cols map[string]int, key string) string {
	i, ok := cols[key]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

func parseSheetDate(s string) (core.Date, error) {
	s = strings.TrimSpace(s)
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return core.NewDate(t.Year(), t.Month(), t.Day()), nil
		}
		lastErr = err
	}
	return core.Date{}, lastErr
}

func parseInt(s string) int64 {
	s = cleanNumber(s)
	if s == "" {
		return 0
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v
	}
	// Whole-unit columns sometimes carry a fractional rendering ("1000.0").
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int64(f)
	}
	return 0
}

func parseDecimal(s string) decimal.Decimal {
	s = cleanNumber(s)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func parseOptionalDecimal(s string) decimal.NullDecimal {
	s = cleanNumber(s)
	if s == "" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

func cleanNumber(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimPrefix(s, "₹")
	return strings.TrimSpace(s)
}
