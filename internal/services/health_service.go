package services

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"salespulse/internal/sheet"
)

// HealthService reports service liveness and a snapshot of the sheet cache.
type HealthService struct {
	version   string
	sheetURL  string
	cache     *sheet.CachedLoader
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health check response.
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Uptime    string                 `json:"uptime"`
	Runtime   map[string]interface{} `json:"runtime,omitempty"`
	Sheet     map[string]interface{} `json:"sheet,omitempty"`
}

// NewHealthService creates a new health service.
func NewHealthService(version, sheetURL string, cache *sheet.CachedLoader, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		version:   version,
		sheetURL:  sheetURL,
		cache:     cache,
		startTime: time.Now(),
		logger:    logger.With(slog.String("component", "health_service")),
	}
}

// HealthCheck returns the overall service status. The service is healthy as
// long as the process runs; an unreachable sheet only degrades the data.
func (s *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   s.version,
		Uptime:    time.Since(s.startTime).String(),
		Runtime: map[string]interface{}{
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
			"os":         runtime.GOOS,
			"arch":       runtime.GOARCH,
		},
	}

	if s.cache != nil {
		stats := s.cache.Stats()
		status.Sheet = map[string]interface{}{
			"url":            s.sheetURL,
			"cache_hits":     stats.Hits,
			"cache_misses":   stats.Misses,
			"last_loaded_at": stats.LoadedAt,
		}
	}
	return status
}

// LivenessCheck is the minimal probe used by orchestrators.
func (s *HealthService) LivenessCheck(ctx context.Context) map[string]string {
	return map[string]string{"status": "alive"}
}
