package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"ridelog/internal/analytics"
	"ridelog/internal/core"
	"ridelog/internal/services"
)

const handlerTimeout = 7 * time.Second

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	s.serveReport(w, r, func(rep services.Report) any { return rep })
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	s.serveReport(w, r, func(rep services.Report) any { return rep.Summary })
}

func (s *Server) handleTimeSeries(w http.ResponseWriter, r *http.Request) {
	s.serveReport(w, r, func(rep services.Report) any { return rep.Series })
}

func (s *Server) handleMonths(w http.ResponseWriter, r *http.Request) {
	s.serveReport(w, r, func(rep services.Report) any { return rep.Months })
}

func (s *Server) serveReport(w http.ResponseWriter, r *http.Request, view func(services.Report) any) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	filter, err := parseFilter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	report, err := s.analytics.Report(ctx, filter)
	if err != nil {
		slog.ErrorContext(ctx, "Report failed", "error", err)
		http.Error(w, "report unavailable", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, view(report))
}

// recordPayload is the manual-entry body for a daily record.
type recordPayload struct {
	Date          core.Date           `json:"date"`
	RideCount     int                 `json:"ride_count"`
	Earnings      int64               `json:"earnings"`
	CNGExpenses   int64               `json:"cng_expenses"`
	DriverPass    decimal.Decimal     `json:"driver_pass_subscription"`
	InDriveTopup  decimal.Decimal     `json:"indrive_topup"`
	OdometerStart decimal.NullDecimal `json:"odometer_start"`
	OdometerEnd   decimal.NullDecimal `json:"odometer_end"`
}

func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
		defer cancel()

		records, err := s.store.ListRecords(ctx)
		if err != nil {
			slog.ErrorContext(ctx, "List records failed", "error", err)
			http.Error(w, "records unavailable", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, records)

	case http.MethodPost:
		var payload recordPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			http.Error(w, fmt.Sprintf("invalid body: %v", err), http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
		defer cancel()

		outcome, err := s.records.SaveRecord(ctx, payload.Date, core.RecordFields{
			RideCount:     payload.RideCount,
			Earnings:      payload.Earnings,
			CNGExpenses:   payload.CNGExpenses,
			DriverPass:    payload.DriverPass,
			InDriveTopup:  payload.InDriveTopup,
			OdometerStart: payload.OdometerStart,
			OdometerEnd:   payload.OdometerEnd,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		writeJSON(w, statusFor(outcome), map[string]string{
			"date":   payload.Date.String(),
			"result": string(outcome),
		})

	default:
		methodNotAllowed(w, "GET, POST")
	}
}

// expensePayload is the manual-entry body for an other-expense row.
type expensePayload struct {
	Date   core.Date       `json:"date"`
	Misc   decimal.Decimal `json:"expenses"`
	Months string          `json:"months"`
	CarEMI decimal.Decimal `json:"car_emi"`
	PGRent decimal.Decimal `json:"pg_rent"`
}

func (s *Server) handleOtherExpenses(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
		defer cancel()

		expenses, err := s.store.ListOtherExpenses(ctx)
		if err != nil {
			slog.ErrorContext(ctx, "List other expenses failed", "error", err)
			http.Error(w, "expenses unavailable", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, expenses)

	case http.MethodPost:
		var payload expensePayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			http.Error(w, fmt.Sprintf("invalid body: %v", err), http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
		defer cancel()

		outcome, err := s.records.SaveOtherExpense(ctx, payload.Date, core.ExpenseFields{
			Misc:   payload.Misc,
			Months: payload.Months,
			CarEMI: payload.CarEMI,
			PGRent: payload.PGRent,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		writeJSON(w, statusFor(outcome), map[string]string{
			"date":   payload.Date.String(),
			"result": string(outcome),
		})

	default:
		methodNotAllowed(w, "GET, POST")
	}
}

// parseFilter reads either a from/to date window or a year+month selector
// from the query string.
func parseFilter(r *http.Request) (analytics.Filter, error) {
	q := r.URL.Query()
	var f analytics.Filter

	if yearStr := q.Get("year"); yearStr != "" {
		year, err := strconv.Atoi(yearStr)
		if err != nil {
			return f, fmt.Errorf("invalid year %q", yearStr)
		}
		month, err := strconv.Atoi(q.Get("month"))
		if err != nil || month < 1 || month > 12 {
			return f, fmt.Errorf("invalid month %q", q.Get("month"))
		}
		f.Year = year
		f.Month = time.Month(month)
		return f, nil
	}

	if fromStr := q.Get("from"); fromStr != "" {
		from, err := core.ParseDate(fromStr)
		if err != nil {
			return f, fmt.Errorf("invalid from date %q", fromStr)
		}
		f.From = from
	}
	if toStr := q.Get("to"); toStr != "" {
		to, err := core.ParseDate(toStr)
		if err != nil {
			return f, fmt.Errorf("invalid to date %q", toStr)
		}
		f.To = to
	}
	return f, nil
}

func statusFor(outcome services.Outcome) int {
	if outcome == services.OutcomeCreated {
		return http.StatusCreated
	}
	return http.StatusOK
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func methodNotAllowed(w http.ResponseWriter, allow string) {
	w.Header().Set("Allow", allow)
	w.WriteHeader(http.StatusMethodNotAllowed)
}
