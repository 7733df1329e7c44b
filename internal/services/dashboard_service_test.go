package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salespulse/internal/shared/testutil"
	"salespulse/pkg/contracts/domain"
)

// stubLoader returns a fixed raw table and records the force flags it saw.
type stubLoader struct {
	table  domain.Table
	forced []bool
}

func (l *stubLoader) Load(_ context.Context, force bool) domain.Table {
	l.forced = append(l.forced, force)
	return l.table
}

func stubSnapshot() domain.Table {
	columns := []string{"Timestamp", "BDE NAME", "PLAN", "CLOSED AMOUNT", "Expected Closure Date"}
	row := func(ts, bde, plan, amount, closure string) domain.Record {
		return domain.Record{Cells: map[string]string{
			"Timestamp":             ts,
			"BDE NAME":              bde,
			"PLAN":                  plan,
			"CLOSED AMOUNT":         amount,
			"Expected Closure Date": closure,
		}}
	}
	return domain.Table{
		Columns: columns,
		Records: []domain.Record{
			row("2024-03-01 09:00:00", "Asha", "Gold", "1,200", "2024-03-10"),
			row("2024-03-02 10:00:00", "Ravi", "Silver", "500", ""),
			row("2024-03-02 11:00:00", "Asha", "Silver", "bad", ""),
		},
	}
}

func fixedClock() func() time.Time {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return now }
}

func TestDashboardRunsFullPipeline(t *testing.T) {
	loader := &stubLoader{table: stubSnapshot()}
	logger, handler := testutil.NewTestLogger(t)
	service := NewDashboardService(loader, logger, fixedClock())

	dash := service.Dashboard(context.Background(), domain.Filter{}, false)

	assert.Equal(t, 3, dash.Summary.TotalResponses)
	assert.Equal(t, 1700.0, dash.Summary.TotalClosedAmount)
	require.Len(t, dash.ByBDE, 2)
	assert.Equal(t, "Asha", dash.ByBDE[0].BDE)
	assert.Equal(t, 2, dash.ByBDE[0].Responses)
	require.Len(t, dash.Closures.DueToday, 1)
	assert.Equal(t, []bool{false}, loader.forced)
	assert.True(t, handler.ContainsMessage("pipeline run completed"))
}

func TestDashboardAppliesFilter(t *testing.T) {
	loader := &stubLoader{table: stubSnapshot()}
	logger, _ := testutil.NewTestLogger(t)
	service := NewDashboardService(loader, logger, fixedClock())

	dash := service.Dashboard(context.Background(), domain.Filter{Plan: "Silver"}, false)

	assert.Equal(t, 2, dash.Summary.TotalResponses)
	assert.Equal(t, 500.0, dash.Summary.TotalClosedAmount)
	// Dropdown options still reflect the whole snapshot.
	assert.Equal(t, []string{"Gold", "Silver"}, dash.Options.Plans)
}

func TestDashboardPassesRefreshThrough(t *testing.T) {
	loader := &stubLoader{table: stubSnapshot()}
	logger, _ := testutil.NewTestLogger(t)
	service := NewDashboardService(loader, logger, fixedClock())

	service.Dashboard(context.Background(), domain.Filter{}, true)

	assert.Equal(t, []bool{true}, loader.forced)
}

func TestDashboardEmptySource(t *testing.T) {
	loader := &stubLoader{}
	logger, _ := testutil.NewTestLogger(t)
	service := NewDashboardService(loader, logger, fixedClock())

	dash := service.Dashboard(context.Background(), domain.Filter{BDE: "Asha"}, false)

	assert.Zero(t, dash.Summary.TotalResponses)
	assert.Empty(t, dash.ByBDE)
	assert.Empty(t, dash.Options.BDEs)
}

func TestOptions(t *testing.T) {
	loader := &stubLoader{table: stubSnapshot()}
	logger, _ := testutil.NewTestLogger(t)
	service := NewDashboardService(loader, logger, fixedClock())

	options := service.Options(context.Background())

	assert.Equal(t, []string{"Asha", "Ravi"}, options.BDEs)
	assert.Equal(t, []string{"Gold", "Silver"}, options.Plans)
}

func TestFilteredTable(t *testing.T) {
	loader := &stubLoader{table: stubSnapshot()}
	logger, _ := testutil.NewTestLogger(t)
	service := NewDashboardService(loader, logger, fixedClock())

	filtered := service.FilteredTable(context.Background(), domain.Filter{BDE: "Ravi"}, false)

	require.Len(t, filtered.Records, 1)
	assert.Equal(t, "Ravi", filtered.Records[0].BDE())
	assert.Equal(t, 500.0, filtered.Records[0].ClosedAmount)
}
