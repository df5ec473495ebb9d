// Package analytics turns a raw sequence of daily records into the summary
// statistics and time-series views consumed by the presentation layer.
package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"ridelog/internal/core"
)

// Expense category labels used by the breakdown views.
const (
	CategoryCNG        = "CNG/Fuel"
	CategoryDriverPass = "Driver Pass + OLA"
	CategoryInDrive    = "InDrive Top-up"
	CategoryCarEMI     = "Car EMI"
	CategoryPGRent     = "PG Rent"
	CategoryMisc       = "Misc Expenses"
)

type (
	// Summary holds whole-period totals over a record set.
	Summary struct {
		TotalEarnings int64               `json:"total_earnings"`
		TotalExpenses decimal.Decimal     `json:"total_expenses"`
		NetProfit     int64               `json:"net_profit"`
		TotalRides    int                 `json:"total_rides"`
		AvgPerRide    decimal.NullDecimal `json:"avg_per_ride"`
		AvgMargin     decimal.NullDecimal `json:"avg_margin"`
	}

	// DailyPoint pairs a date with its earnings and net for trend charts.
	DailyPoint struct {
		Date     core.Date `json:"date"`
		Earnings int64     `json:"earnings"`
		DailyNet int64     `json:"daily_net"`
	}

	// CategoryTotal is a per-category expense sum. Zero-valued categories
	// are excluded before this type is ever produced.
	CategoryTotal struct {
		Category string          `json:"category"`
		Amount   decimal.Decimal `json:"amount"`
	}

	// WeeklyBucket sums a single ISO calendar week.
	WeeklyBucket struct {
		ISOYear  int   `json:"iso_year"`
		Week     int   `json:"week"`
		Rides    int   `json:"rides"`
		Earnings int64 `json:"earnings"`
		DailyNet int64 `json:"daily_net"`
	}

	// CumulativePoint is the running profit total up to and including Date.
	CumulativePoint struct {
		Date       core.Date `json:"date"`
		Cumulative int64     `json:"cumulative"`
	}

	// MarginPoint is the per-day profit margin. Margin is absent when the
	// day had no earnings.
	MarginPoint struct {
		Date   core.Date           `json:"date"`
		Margin decimal.NullDecimal `json:"margin"`
	}

	// TimeSeries bundles the date-ordered views, all ascending by date.
	TimeSeries struct {
		Daily            []DailyPoint      `json:"daily"`
		ExpenseBreakdown []CategoryTotal   `json:"expense_breakdown"`
		Weekly           []WeeklyBucket    `json:"weekly"`
		CumulativeNet    []CumulativePoint `json:"cumulative_net"`
		Margins          []MarginPoint     `json:"margins"`
	}
)

var hundred = decimal.NewFromInt(100)

// Aggregate computes the Summary and TimeSeries for a set of records. The
// input need not be pre-sorted; all outputs are ordered by date ascending.
func Aggregate(records []core.DailyRecord) (Summary, TimeSeries) {
	sorted := make([]core.DailyRecord, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	var (
		summary   Summary
		series    TimeSeries
		cng       int64
		pass      = decimal.Zero
		topup     = decimal.Zero
		marginSum = decimal.Zero
		marginN   int64
		running   int64
	)

	for _, r := range sorted {
		summary.TotalEarnings += r.Earnings
		summary.NetProfit += r.DailyNet
		summary.TotalRides += r.RideCount

		cng += r.CNGExpenses
		pass = pass.Add(r.DriverPass)
		topup = topup.Add(r.InDriveTopup)

		series.Daily = append(series.Daily, DailyPoint{Date: r.Date, Earnings: r.Earnings, DailyNet: r.DailyNet})

		running += r.DailyNet
		series.CumulativeNet = append(series.CumulativeNet, CumulativePoint{Date: r.Date, Cumulative: running})

		mp := MarginPoint{Date: r.Date}
		if r.Earnings > 0 {
			m := decimal.NewFromInt(r.DailyNet).Div(decimal.NewFromInt(r.Earnings)).Mul(hundred)
			mp.Margin = decimal.NullDecimal{Decimal: m, Valid: true}
			marginSum = marginSum.Add(m)
			marginN++
		}
		series.Margins = append(series.Margins, mp)

		iy, iw := r.Date.ISOWeek()
		n := len(series.Weekly)
		if n == 0 || series.Weekly[n-1].ISOYear != iy || series.Weekly[n-1].Week != iw {
			series.Weekly = append(series.Weekly, WeeklyBucket{ISOYear: iy, Week: iw})
			n++
		}
		series.Weekly[n-1].Rides += r.RideCount
		series.Weekly[n-1].Earnings += r.Earnings
		series.Weekly[n-1].DailyNet += r.DailyNet
	}

	summary.TotalExpenses = decimal.NewFromInt(cng).Add(pass).Add(topup)

	if summary.TotalRides > 0 {
		summary.AvgPerRide = decimal.NullDecimal{
			Decimal: decimal.NewFromInt(summary.TotalEarnings).Div(decimal.NewFromInt(summary.TotalRides64())),
			Valid:   true,
		}
	}
	if marginN > 0 {
		summary.AvgMargin = decimal.NullDecimal{
			Decimal: marginSum.Div(decimal.NewFromInt(marginN)),
			Valid:   true,
		}
	}

	series.ExpenseBreakdown = nonZeroCategories([]CategoryTotal{
		{Category: CategoryCNG, Amount: decimal.NewFromInt(cng)},
		{Category: CategoryDriverPass, Amount: pass},
		{Category: CategoryInDrive, Amount: topup},
	})

	return summary, series
}

// TotalRides64 is TotalRides widened for decimal arithmetic.
func (s Summary) TotalRides64() int64 {
	return int64(s.TotalRides)
}

func nonZeroCategories(totals []CategoryTotal) []CategoryTotal {
	out := totals[:0]
	for _, t := range totals {
		if !t.Amount.IsZero() {
			out = append(out, t)
		}
	}
	return out
}

// OtherSummary totals the non-operational expenses, with zero categories
// filtered out of the breakdown.
type OtherSummary struct {
	Breakdown  []CategoryTotal `json:"breakdown"`
	GrandTotal decimal.Decimal `json:"grand_total"`
}

// AggregateOther computes the OtherSummary for a set of other-expense rows.
func AggregateOther(entries []core.OtherExpense) OtherSummary {
	emi, rent, misc := decimal.Zero, decimal.Zero, decimal.Zero
	for _, e := range entries {
		emi = emi.Add(e.CarEMI)
		rent = rent.Add(e.PGRent)
		misc = misc.Add(e.Misc)
	}
	return OtherSummary{
		Breakdown: nonZeroCategories([]CategoryTotal{
			{Category: CategoryCarEMI, Amount: emi},
			{Category: CategoryPGRent, Amount: rent},
			{Category: CategoryMisc, Amount: misc},
		}),
		GrandTotal: emi.Add(rent).Add(misc),
	}
}

// MonthSummary sums one calendar month of activity. When other expenses
// exist for the month, NetProfit subtracts them as well; otherwise it equals
// the summed daily net.
type MonthSummary struct {
	Year          int             `json:"year"`
	Month         time.Month      `json:"month"`
	Earnings      int64           `json:"earnings"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	DailyNet      int64           `json:"daily_net"`
	Rides         int             `json:"rides"`
	DaysWorked    int             `json:"days_worked"`
	OtherExpenses decimal.Decimal `json:"other_expenses"`
	NetProfit     decimal.Decimal `json:"net_profit"`
}

type monthKey struct {
	year  int
	month time.Month
}

// MonthlySummaries groups records and other expenses by calendar month,
// ordered ascending. Months with no daily records but with other expenses
// are still reported.
func MonthlySummaries(records []core.DailyRecord, other []core.OtherExpense) []MonthSummary {
	byMonth := make(map[monthKey]*MonthSummary)

	get := func(k monthKey) *MonthSummary {
		if m, ok := byMonth[k]; ok {
			return m
		}
		m := &MonthSummary{
			Year:          k.year,
			Month:         k.month,
			TotalExpenses: decimal.Zero,
			OtherExpenses: decimal.Zero,
		}
		byMonth[k] = m
		return m
	}

	for _, r := range records {
		m := get(monthKey{r.Date.Year(), r.Date.Month()})
		m.Earnings += r.Earnings
		m.TotalExpenses = m.TotalExpenses.Add(r.TotalExpenses())
		m.DailyNet += r.DailyNet
		m.Rides += r.RideCount
		m.DaysWorked++
	}
	for _, e := range other {
		m := get(monthKey{e.Date.Year(), e.Date.Month()})
		m.OtherExpenses = m.OtherExpenses.Add(e.Total())
	}

	out := make([]MonthSummary, 0, len(byMonth))
	for _, m := range byMonth {
		if m.OtherExpenses.IsZero() {
			m.NetProfit = decimal.NewFromInt(m.DailyNet)
		} else {
			m.NetProfit = decimal.NewFromInt(m.Earnings).Sub(m.TotalExpenses).Sub(m.OtherExpenses)
		}
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Month < out[j].Month
	})
	return out
}
