// Package services holds the business services between the HTTP transport
// and the data pipeline. DashboardService is the single shared pipeline
// orchestration consumed by every presentation adapter.
package services

import (
	"context"
	"log/slog"
	"time"

	"salespulse/internal/dataprocessing"
	"salespulse/pkg/contracts/domain"
)

// SnapshotLoader is the loading contract the service depends on; in
// production it is the TTL-cached sheet loader.
type SnapshotLoader interface {
	Load(ctx context.Context, force bool) domain.Table
}

// DashboardService runs the end-to-end pipeline: load the current snapshot
// (through the cache unless the caller forces a refresh), normalize it,
// apply the filter selection and compute every aggregate. Each call
// recomputes from scratch; no partial state survives between requests.
type DashboardService struct {
	loader SnapshotLoader
	logger *slog.Logger
	now    func() time.Time
}

// NewDashboardService creates the service. A nil clock uses time.Now; tests
// inject a fixed clock to pin the closure buckets.
func NewDashboardService(loader SnapshotLoader, logger *slog.Logger, now func() time.Time) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	if now == nil {
		now = time.Now
	}
	return &DashboardService{
		loader: loader,
		logger: logger.With(slog.String("component", "dashboard_service")),
		now:    now,
	}
}

// Dashboard runs one synchronous pipeline pass for the given selection.
// It cannot fail: an unreachable source surfaces as an empty dashboard.
func (s *DashboardService) Dashboard(ctx context.Context, f domain.Filter, refresh bool) domain.Dashboard {
	start := s.now()
	table := dataprocessing.Normalize(s.loader.Load(ctx, refresh))
	dash := dataprocessing.BuildDashboard(table, f, s.now())
	pipelineRuns.Inc()

	s.logger.InfoContext(ctx, "pipeline run completed",
		slog.Int("source_rows", len(table.Records)),
		slog.Int("filtered_rows", dash.Summary.TotalResponses),
		slog.Bool("refresh", refresh),
		slog.String("duration", s.now().Sub(start).String()))
	return dash
}

// Options returns the observed BDE/Plan values for the filter dropdowns.
func (s *DashboardService) Options(ctx context.Context) domain.Options {
	table := dataprocessing.Normalize(s.loader.Load(ctx, false))
	return dataprocessing.ObservedOptions(table)
}

// FilteredTable returns the normalized, filtered row set for exports.
func (s *DashboardService) FilteredTable(ctx context.Context, f domain.Filter, refresh bool) domain.Table {
	table := dataprocessing.Normalize(s.loader.Load(ctx, refresh))
	return dataprocessing.ApplyFilter(table, f)
}
