package analytics

import (
	"fmt"
	"time"

	"ridelog/internal/core"
)

// Filter restricts aggregation to a date window or a single calendar month.
// The zero Filter matches everything.
type Filter struct {
	From core.Date
	To   core.Date

	// Month mode: when Month is non-zero the range bounds are ignored and
	// only records of (Year, Month) match.
	Year  int
	Month time.Month
}

// Matches reports whether a date falls inside the filter.
func (f Filter) Matches(d core.Date) bool {
	if f.Month != 0 {
		return d.Year() == f.Year && d.Month() == f.Month
	}
	if !f.From.IsZero() && d.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && d.After(f.To) {
		return false
	}
	return true
}

// Key is a stable cache key for the filter shape.
func (f Filter) Key() string {
	if f.Month != 0 {
		return fmt.Sprintf("month:%04d-%02d", f.Year, int(f.Month))
	}
	from, to := "", ""
	if !f.From.IsZero() {
		from = f.From.String()
	}
	if !f.To.IsZero() {
		to = f.To.String()
	}
	return "range:" + from + ".." + to
}

// FilterRecords returns the records matching the filter, preserving order.
func FilterRecords(records []core.DailyRecord, f Filter) []core.DailyRecord {
	out := make([]core.DailyRecord, 0, len(records))
	for _, r := range records {
		if f.Matches(r.Date) {
			out = append(out, r)
		}
	}
	return out
}

// FilterOther returns the other-expense rows matching the filter.
func FilterOther(entries []core.OtherExpense, f Filter) []core.OtherExpense {
	out := make([]core.OtherExpense, 0, len(entries))
	for _, e := range entries {
		if f.Matches(e.Date) {
			out = append(out, e)
		}
	}
	return out
}
