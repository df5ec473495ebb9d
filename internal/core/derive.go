// Package core holds the domain model and the derivation rules applied to
// every record before it is persisted. The same rules back the entry form,
// the bulk import and the display layer, so they live here and nowhere else.
package core

import "github.com/shopspring/decimal"

// Metrics are the values derived from a record's raw fields.
type Metrics struct {
	// DailyNet is earnings minus all expense categories, rounded
	// half-to-even to a whole currency unit.
	DailyNet int64

	// TotalExpenses is the unfiltered sum of the three expense fields.
	TotalExpenses decimal.Decimal

	// Distance is odometer end minus start. Invalid unless both readings
	// are present; a negative span is passed through as-is.
	Distance decimal.NullDecimal
}

// Derive computes the metrics for a set of raw fields.
func (f RecordFields) Derive() Metrics {
	net := decimal.NewFromInt(f.Earnings).
		Sub(decimal.NewFromInt(f.CNGExpenses)).
		Sub(f.DriverPass).
		Sub(f.InDriveTopup)

	m := Metrics{
		DailyNet:      net.RoundBank(0).IntPart(),
		TotalExpenses: decimal.NewFromInt(f.CNGExpenses).Add(f.DriverPass).Add(f.InDriveTopup),
	}
	if f.OdometerStart.Valid && f.OdometerEnd.Valid {
		m.Distance = decimal.NullDecimal{
			Decimal: f.OdometerEnd.Decimal.Sub(f.OdometerStart.Decimal),
			Valid:   true,
		}
	}
	return m
}

// TotalExpenses is the record's combined expense amount.
func (r DailyRecord) TotalExpenses() decimal.Decimal {
	return r.RecordFields.Derive().TotalExpenses
}

// Distance is the distance traveled that day, if both odometer readings
// were recorded.
func (r DailyRecord) Distance() decimal.NullDecimal {
	return r.RecordFields.Derive().Distance
}

// Normalized returns a copy of the fields with odometer readings of exactly
// zero converted to absent. The entry form reports an untouched input as 0,
// which must not be stored as a real reading. Each side is normalized
// independently.
func (f RecordFields) Normalized() RecordFields {
	if f.OdometerStart.Valid && f.OdometerStart.Decimal.IsZero() {
		f.OdometerStart = decimal.NullDecimal{}
	}
	if f.OdometerEnd.Valid && f.OdometerEnd.Decimal.IsZero() {
		f.OdometerEnd = decimal.NullDecimal{}
	}
	return f
}
