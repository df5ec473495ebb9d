package services

import (
	"context"
	"fmt"
	"log/slog"

	"ridelog/internal/amqp"
	"ridelog/internal/core"
)

// Outcome reports whether a reconcile created or replaced a record.
type Outcome string

const (
	OutcomeCreated Outcome = "created"
	OutcomeUpdated Outcome = "updated"
)

// RecordService is the single write path for daily records and other
// expenses. Manual entry and bulk import both go through it, so the
// normalization and derivation rules are applied identically everywhere.
type RecordService struct {
	store     RecordStore
	analytics Invalidator
	events    *amqp.Client // optional, nil disables publishing
}

func NewRecordService(store RecordStore, analytics Invalidator, events *amqp.Client) *RecordService {
	return &RecordService{
		store:     store,
		analytics: analytics,
		events:    events,
	}
}

// SaveRecord reconciles the record for a date: the first write for a date
// creates it, any later write replaces every mutable field. Odometer values
// of exactly zero are stored as absent, and daily net is derived before the
// row is persisted. The aggregate cache is invalidated after the write
// completes, never before, so a stale cached view can never follow a
// finished write.
func (s *RecordService) SaveRecord(ctx context.Context, date core.Date, fields core.RecordFields) (Outcome, error) {
	if err := date.Validate(); err != nil {
		return "", err
	}
	if err := fields.Validate(); err != nil {
		return "", err
	}

	fields = fields.Normalized()
	rec := core.DailyRecord{
		Date:         date,
		RecordFields: fields,
		DailyNet:     fields.Derive().DailyNet,
	}

	created, err := s.store.UpsertRecord(ctx, rec)
	if err != nil {
		return "", fmt.Errorf("upsert record: %w", err)
	}

	outcome := OutcomeUpdated
	if created {
		outcome = OutcomeCreated
	}

	s.invalidate(ctx)
	s.publish(ctx, date, outcome)

	return outcome, nil
}

// SaveOtherExpense reconciles the other-expense row for a date with the
// same upsert and invalidation semantics as SaveRecord.
func (s *RecordService) SaveOtherExpense(ctx context.Context, date core.Date, fields core.ExpenseFields) (Outcome, error) {
	if err := date.Validate(); err != nil {
		return "", err
	}
	if err := fields.Validate(); err != nil {
		return "", err
	}

	exp := core.OtherExpense{Date: date, ExpenseFields: fields}

	created, err := s.store.UpsertOtherExpense(ctx, exp)
	if err != nil {
		return "", fmt.Errorf("upsert other expense: %w", err)
	}

	outcome := OutcomeUpdated
	if created {
		outcome = OutcomeCreated
	}

	s.invalidate(ctx)
	s.publish(ctx, date, outcome)

	return outcome, nil
}

func (s *RecordService) invalidate(ctx context.Context) {
	if s.analytics != nil {
		s.analytics.Invalidate()
	}
}

func (s *RecordService) publish(ctx context.Context, date core.Date, outcome Outcome) {
	if s.events == nil {
		return
	}
	// Notification only; the write already succeeded.
	if err := s.events.PublishRecordChanged(ctx, date.String(), string(outcome)); err != nil {
		slog.ErrorContext(ctx, "Failed to publish record change",
			"date", date.String(), "error", err)
	}
}
