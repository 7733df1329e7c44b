package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apierrors "salespulse/internal/errors"
	"salespulse/internal/exporter"
	"salespulse/internal/shared/testutil"
	"salespulse/pkg/contracts/domain"
)

// stubDashboardService records the last call and returns canned results.
type stubDashboardService struct {
	lastFilter  domain.Filter
	lastRefresh bool
	dashboard   domain.Dashboard
	options     domain.Options
	table       domain.Table
}

func (s *stubDashboardService) Dashboard(_ context.Context, f domain.Filter, refresh bool) domain.Dashboard {
	s.lastFilter = f
	s.lastRefresh = refresh
	return s.dashboard
}

func (s *stubDashboardService) Options(_ context.Context) domain.Options {
	return s.options
}

func (s *stubDashboardService) FilteredTable(_ context.Context, f domain.Filter, refresh bool) domain.Table {
	s.lastFilter = f
	s.lastRefresh = refresh
	return s.table
}

func newHandlerUnderTest(t *testing.T, service *stubDashboardService) *DashboardHandler {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	now := func() time.Time { return time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC) }
	return NewDashboardHandler(service, exporter.NewEODWriter(logger), logger, apierrors.NewErrorHandler(logger), now)
}

func TestGetDashboard(t *testing.T) {
	service := &stubDashboardService{
		dashboard: domain.Dashboard{
			Summary: domain.Summary{TotalResponses: 2, TotalClosedAmount: 1700},
			ByBDE:   []domain.BDEMetric{{BDE: "Asha", Responses: 2, ClosedAmount: 1700}},
		},
	}
	handler := newHandlerUnderTest(t, service)

	req := httptest.NewRequest(http.MethodGet, "/dashboard?bde=Asha&refresh=1", nil)
	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Asha", service.lastFilter.BDE)
	assert.True(t, service.lastRefresh)

	var body domain.Dashboard
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Summary.TotalResponses)
	assert.Equal(t, 1700.0, body.Summary.TotalClosedAmount)
}

func TestGetDashboardParsesDateRange(t *testing.T) {
	service := &stubDashboardService{}
	handler := newHandlerUnderTest(t, service)

	req := httptest.NewRequest(http.MethodGet, "/dashboard?from=2024-03-01&to=2024-03-05", nil)
	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, service.lastFilter.From)
	require.NotNil(t, service.lastFilter.To)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), *service.lastFilter.From)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), *service.lastFilter.To)
}

func TestGetDashboardRejectsMalformedDate(t *testing.T) {
	handler := newHandlerUnderTest(t, &stubDashboardService{})

	req := httptest.NewRequest(http.MethodGet, "/dashboard?from=03-01-2024", nil)
	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var problem map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Equal(t, "/errors/validation", problem["type"])
	assert.Equal(t, float64(http.StatusBadRequest), problem["status"])
}

func TestGetDashboardRejectsInvertedRange(t *testing.T) {
	handler := newHandlerUnderTest(t, &stubDashboardService{})

	req := httptest.NewRequest(http.MethodGet, "/dashboard?from=2024-03-05&to=2024-03-01", nil)
	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetFilters(t *testing.T) {
	service := &stubDashboardService{
		options: domain.Options{BDEs: []string{"Asha", "Ravi"}, Plans: []string{"Gold"}},
	}
	handler := newHandlerUnderTest(t, service)

	req := httptest.NewRequest(http.MethodGet, "/filters", nil)
	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body domain.Options
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []string{"Asha", "Ravi"}, body.BDEs)
	assert.Equal(t, []string{"Gold"}, body.Plans)
}

func TestExportCSV(t *testing.T) {
	service := &stubDashboardService{
		table: domain.Table{
			Columns: []string{"BDE NAME", "PLAN"},
			Records: []domain.Record{
				{Cells: map[string]string{"BDE NAME": "Asha", "PLAN": "Gold"}},
			},
		},
	}
	handler := newHandlerUnderTest(t, service)

	req := httptest.NewRequest(http.MethodGet, "/export/responses.csv?plan=Gold", nil)
	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "responses.csv")
	assert.Equal(t, "Gold", service.lastFilter.Plan)

	body := rec.Body.Bytes()
	require.True(t, bytes.HasPrefix(body, []byte{0xEF, 0xBB, 0xBF}))
	assert.Contains(t, string(body), "BDE NAME,PLAN")
	assert.Contains(t, string(body), "Asha,Gold")
}

func TestExportEOD(t *testing.T) {
	service := &stubDashboardService{
		dashboard: domain.Dashboard{
			Summary: domain.Summary{TotalResponses: 1, TotalClosedAmount: 1200},
			ByBDE:   []domain.BDEMetric{{BDE: "Asha", Responses: 1, ClosedAmount: 1200}},
		},
	}
	handler := newHandlerUnderTest(t, service)

	req := httptest.NewRequest(http.MethodGet, "/export/eod.xlsx", nil)
	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "spreadsheetml")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "eod-2024-03-10.xlsx")

	// With no explicit range the report covers the handler's current day.
	require.NotNil(t, service.lastFilter.From)
	require.NotNil(t, service.lastFilter.To)
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), *service.lastFilter.From)
	assert.Equal(t, *service.lastFilter.From, *service.lastFilter.To)

	workbook, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer workbook.Close()

	title, err := workbook.GetCellValue("EOD Report", "A1")
	require.NoError(t, err)
	assert.Equal(t, "End of Day Report - 2024-03-10", title)
}
