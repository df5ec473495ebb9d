package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"ridelog/internal/analytics"
	"ridelog/internal/cache"
)

// Report bundles everything the presentation layer renders for one filter.
type Report struct {
	Summary analytics.Summary        `json:"summary"`
	Series  analytics.TimeSeries     `json:"series"`
	Months  []analytics.MonthSummary `json:"months"`
	Other   analytics.OtherSummary   `json:"other"`
}

// AnalyticsService memoizes aggregation output per filter shape for a fixed
// freshness window. The cache is advisory: a miss always recomputes from
// the store, and every write purges all entries.
type AnalyticsService struct {
	store   RecordStore
	reports *cache.LRUCache[Report]
}

const reportCacheSize = 16

func NewAnalyticsService(store RecordStore, ttl time.Duration) *AnalyticsService {
	return &AnalyticsService{
		store:   store,
		reports: cache.NewLRUCache[Report](reportCacheSize, ttl),
	}
}

// Report returns the aggregate views for the filter, serving a memoized
// copy while it is fresh.
func (s *AnalyticsService) Report(ctx context.Context, f analytics.Filter) (Report, error) {
	key := f.Key()
	if r, ok := s.reports.Get(key); ok {
		return r, nil
	}

	records, err := s.store.ListRecords(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("list records: %w", err)
	}
	other, err := s.store.ListOtherExpenses(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("list other expenses: %w", err)
	}

	records = analytics.FilterRecords(records, f)
	other = analytics.FilterOther(other, f)

	var r Report
	r.Summary, r.Series = analytics.Aggregate(records)
	r.Months = analytics.MonthlySummaries(records, other)
	r.Other = analytics.AggregateOther(other)

	s.reports.Set(key, r)

	slog.DebugContext(ctx, "Report computed",
		"filter", key,
		"records", len(records))

	return r, nil
}

// Invalidate drops every memoized report. Called by the write path after a
// record is persisted.
func (s *AnalyticsService) Invalidate() {
	if n := s.reports.Purge(); n > 0 {
		slog.Debug("Report cache purged", "entries", n)
	}
}

// CleanExpired evicts expired report entries. It lets the service register
// with a cache.Manager for periodic cleanup.
func (s *AnalyticsService) CleanExpired() int {
	return s.reports.CleanExpired()
}
