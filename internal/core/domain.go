package core

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type (
	// Date is a calendar day at UTC midnight. It is the identity key for
	// both record types.
	Date struct {
		time.Time
	}

	// RecordFields are the mutable inputs of a daily record as supplied by
	// the entry form or an import row. Derived values are not part of it.
	RecordFields struct {
		RideCount     int                 `json:"ride_count"`
		Earnings      int64               `json:"earnings"`
		CNGExpenses   int64               `json:"cng_expenses"`
		DriverPass    decimal.Decimal     `json:"driver_pass_subscription"`
		InDriveTopup  decimal.Decimal     `json:"indrive_topup"`
		OdometerStart decimal.NullDecimal `json:"odometer_start"`
		OdometerEnd   decimal.NullDecimal `json:"odometer_end"`
	}

	// DailyRecord is one day of operations. DailyNet is computed at write
	// time and persisted alongside the raw fields.
	DailyRecord struct {
		Date Date `json:"date"`
		RecordFields
		DailyNet int64 `json:"daily_net"`
	}

	// ExpenseFields are the mutable inputs of an other-expense entry
	// (car EMI, PG rent, miscellaneous costs).
	ExpenseFields struct {
		Misc   decimal.Decimal `json:"expenses"`
		Months string          `json:"months"`
		CarEMI decimal.Decimal `json:"car_emi"`
		PGRent decimal.Decimal `json:"pg_rent"`
	}

	// OtherExpense tracks non-operational costs, one row per date.
	OtherExpense struct {
		Date Date `json:"date"`
		ExpenseFields
	}
)

var (
	ErrZeroDate         = errors.New("date cannot be zero")
	ErrNegativeRides    = errors.New("ride count cannot be negative")
	ErrNegativeEarnings = errors.New("earnings cannot be negative")
	ErrNegativeExpense  = errors.New("expense amount cannot be negative")
)

const dateLayout = "2006-01-02"

// NewDate creates a Date from year, month, day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

// ISOWeek returns the ISO 8601 year and week number for the date.
func (d Date) ISOWeek() (year, week int) {
	return d.Time.ISOWeek()
}

// Before reports whether d falls on an earlier day than other.
func (d Date) Before(other Date) bool {
	return d.Time.Before(other.Time)
}

// After reports whether d falls on a later day than other.
func (d Date) After(other Date) bool {
	return d.Time.After(other.Time)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrZeroDate
	}
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return errors.New("date must be a JSON string")
	}
	parsed, err := ParseDate(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (f RecordFields) Validate() error {
	if f.RideCount < 0 {
		return ErrNegativeRides
	}
	if f.Earnings < 0 {
		return ErrNegativeEarnings
	}
	if f.CNGExpenses < 0 || f.DriverPass.IsNegative() || f.InDriveTopup.IsNegative() {
		return ErrNegativeExpense
	}
	return nil
}

func (f ExpenseFields) Validate() error {
	if f.Misc.IsNegative() || f.CarEMI.IsNegative() || f.PGRent.IsNegative() {
		return ErrNegativeExpense
	}
	return nil
}

// Total returns the combined other-expense amount for the entry.
func (f ExpenseFields) Total() decimal.Decimal {
	return f.Misc.Add(f.CarEMI).Add(f.PGRent)
}

// AllZero reports whether every amount of the entry is zero. Import drops
// such rows entirely.
func (f ExpenseFields) AllZero() bool {
	return f.Misc.IsZero() && f.CarEMI.IsZero() && f.PGRent.IsZero()
}
