package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apierrors "salespulse/internal/errors"
	"salespulse/internal/exporter"
	"salespulse/pkg/contracts/domain"
)

// dateOnly is the accepted layout for the from/to query parameters.
const dateOnly = "2006-01-02"

// DashboardHandler serves the dashboard aggregates, filter options and the
// export downloads.
type DashboardHandler struct {
	service      DashboardServiceInterface
	eod          *exporter.EODWriter
	validate     *validator.Validate
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	now          func() time.Time
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(service DashboardServiceInterface, eod *exporter.EODWriter, logger *slog.Logger, errorHandler *apierrors.ErrorHandler, now func() time.Time) *DashboardHandler {
	if now == nil {
		now = time.Now
	}
	return &DashboardHandler{
		service:      service,
		eod:          eod,
		validate:     validator.New(),
		logger:       logger.With(slog.String("component", "dashboard_handler")),
		errorHandler: errorHandler,
		now:          now,
	}
}

// Routes returns the dashboard routes.
func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/dashboard", h.GetDashboard)
	r.Get("/filters", h.GetFilters)
	r.Get("/export/responses.csv", h.ExportCSV)
	r.Get("/export/eod.xlsx", h.ExportEOD)

	return r
}

// dashboardQuery mirrors the query string of the dashboard endpoints.
type dashboardQuery struct {
	BDE     string `validate:"omitempty,max=200"`
	Plan    string `validate:"omitempty,max=200"`
	From    string `validate:"omitempty,datetime=2006-01-02"`
	To      string `validate:"omitempty,datetime=2006-01-02"`
	Refresh string `validate:"omitempty,oneof=1 true"`
}

// parseQuery validates the selection parameters and builds the filter. An
// empty bde/plan means no constraint, same as the explicit ALL sentinel.
func (h *DashboardHandler) parseQuery(r *http.Request) (domain.Filter, bool, error) {
	q := dashboardQuery{
		BDE:     r.URL.Query().Get("bde"),
		Plan:    r.URL.Query().Get("plan"),
		From:    r.URL.Query().Get("from"),
		To:      r.URL.Query().Get("to"),
		Refresh: r.URL.Query().Get("refresh"),
	}

	if err := h.validate.Struct(q); err != nil {
		if fieldErrs, ok := err.(validator.ValidationErrors); ok && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return domain.Filter{}, false, apierrors.ErrValidation(fe.Field(), fmt.Sprintf("invalid value for %s", fe.Field()))
		}
		return domain.Filter{}, false, apierrors.ErrInvalidRequest
	}

	f := domain.Filter{BDE: q.BDE, Plan: q.Plan}
	if q.From != "" {
		from, _ := time.Parse(dateOnly, q.From)
		f.From = &from
	}
	if q.To != "" {
		to, _ := time.Parse(dateOnly, q.To)
		f.To = &to
	}
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return domain.Filter{}, false, apierrors.ErrValidation("to", "date range end precedes start")
	}

	return f, q.Refresh != "", nil
}

// GetDashboard handles GET /api/dashboard.
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	f, refresh, err := h.parseQuery(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, h.service.Dashboard(r.Context(), f, refresh))
}

// GetFilters handles GET /api/filters.
func (h *DashboardHandler) GetFilters(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.Options(r.Context()))
}

// ExportCSV handles GET /api/export/responses.csv, streaming the filtered
// rows as a CSV download.
func (h *DashboardHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	f, refresh, err := h.parseQuery(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	table := h.service.FilteredTable(r.Context(), f, refresh)

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="responses.csv"`)
	if err := exporter.WriteCSV(w, table, exporter.CSVOptions{BOMPrefix: true}); err != nil {
		// Headers are out; log and cut the stream.
		h.logger.ErrorContext(r.Context(), "csv export failed", slog.String("error", err.Error()))
	}
}

// ExportEOD handles GET /api/export/eod.xlsx. The report covers the given
// date (default today) narrowed by any additional selection.
func (h *DashboardHandler) ExportEOD(w http.ResponseWriter, r *http.Request) {
	f, refresh, err := h.parseQuery(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	date := h.now()
	if f.From == nil && f.To == nil {
		day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
		f.From, f.To = &day, &day
	}

	dash := h.service.Dashboard(r.Context(), f, refresh)

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="eod-%s.xlsx"`, date.Format(dateOnly)))
	if err := h.eod.Write(w, dash, date); err != nil {
		h.logger.ErrorContext(r.Context(), "eod export failed", slog.String("error", err.Error()))
	}
}
