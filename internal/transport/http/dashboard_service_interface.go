package http

import (
	"context"

	"salespulse/pkg/contracts/domain"
)

// DashboardServiceInterface defines what the handlers need from the
// dashboard service; tests substitute a stub.
type DashboardServiceInterface interface {
	Dashboard(ctx context.Context, f domain.Filter, refresh bool) domain.Dashboard
	Options(ctx context.Context) domain.Options
	FilteredTable(ctx context.Context, f domain.Filter, refresh bool) domain.Table
}
