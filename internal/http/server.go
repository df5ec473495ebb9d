// Package http exposes the aggregate views and the manual entry path as a
// small JSON API for the presentation layer.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"ridelog/internal/services"
)

type Server struct {
	http.Server

	records   *services.RecordService
	analytics *services.AnalyticsService
	store     services.RecordStore

	shutdownOnce sync.Once
}

func NewServer(addr string, records *services.RecordService, analytics *services.AnalyticsService, store services.RecordStore) *Server {
	s := &Server{
		records:   records,
		analytics: analytics,
		store:     store,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/api/report", s.handleReport)
	mux.HandleFunc("/api/summary", s.handleSummary)
	mux.HandleFunc("/api/timeseries", s.handleTimeSeries)
	mux.HandleFunc("/api/months", s.handleMonths)
	mux.HandleFunc("/api/records", s.handleRecords)
	mux.HandleFunc("/api/other-expenses", s.handleOtherExpenses)

	s.Server = http.Server{
		Addr:           addr,
		Handler:        mux,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 16, // 64KB
	}

	return s
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
