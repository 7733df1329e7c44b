package exporter

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"salespulse/pkg/contracts/domain"
)

const eodSheetName = "EOD Report"

// EODWriter renders the end-of-day summary workbook: headline metrics for
// the day, the per-BDE table, and the closure lists.
type EODWriter struct {
	logger *slog.Logger
}

// NewEODWriter creates an EOD report writer.
func NewEODWriter(logger *slog.Logger) *EODWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &EODWriter{logger: logger.With(slog.String("component", "eod_writer"))}
}

// Write renders the workbook for an already-computed dashboard and streams
// the xlsx bytes to w. The dashboard should have been built from a filter
// narrowed to the report date.
func (e *EODWriter) Write(w io.Writer, dash domain.Dashboard, date time.Time) error {
	f, err := e.build(dash, date)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// WriteFile renders the workbook to the given path.
func (e *EODWriter) WriteFile(path string, dash domain.Dashboard, date time.Time) error {
	f, err := e.build(dash, date)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	e.logger.Info("EOD report written",
		slog.String("path", path),
		slog.String("date", date.Format("2006-01-02")))
	return nil
}

func (e *EODWriter) build(dash domain.Dashboard, date time.Time) (*excelize.File, error) {
	f := excelize.NewFile()
	f.SetSheetName(f.GetSheetName(0), eodSheetName)

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create style: %w", err)
	}

	set := func(cell string, value interface{}) {
		f.SetCellValue(eodSheetName, cell, value)
	}

	set("A1", fmt.Sprintf("End of Day Report - %s", date.Format("2006-01-02")))
	f.SetCellStyle(eodSheetName, "A1", "A1", bold)

	set("A3", "Total Responses")
	set("B3", dash.Summary.TotalResponses)
	set("A4", "Total Closed Amount")
	set("B4", dash.Summary.TotalClosedAmount)
	set("A5", "Average Closed Amount")
	set("B5", dash.Summary.AverageClosedAmount)

	// Per-BDE breakdown.
	row := 7
	set(fmt.Sprintf("A%d", row), "BDE")
	set(fmt.Sprintf("B%d", row), "Responses")
	set(fmt.Sprintf("C%d", row), "Closed Amount")
	f.SetCellStyle(eodSheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("C%d", row), bold)
	for _, m := range dash.ByBDE {
		row++
		set(fmt.Sprintf("A%d", row), m.BDE)
		set(fmt.Sprintf("B%d", row), m.Responses)
		set(fmt.Sprintf("C%d", row), m.ClosedAmount)
	}

	// Closures due today and within the next seven days.
	row += 2
	row = e.writeClosures(f, set, bold, row, "Closures Due Today", dash.Closures.DueToday)
	row += 1
	e.writeClosures(f, set, bold, row, "Closures Due Within 7 Days", dash.Closures.DueSoon)

	f.SetColWidth(eodSheetName, "A", "C", 28)
	return f, nil
}

func (e *EODWriter) writeClosures(f *excelize.File, set func(string, interface{}), bold int, row int, title string, records []domain.Record) int {
	set(fmt.Sprintf("A%d", row), title)
	f.SetCellStyle(eodSheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), bold)
	row++
	set(fmt.Sprintf("A%d", row), "BDE")
	set(fmt.Sprintf("B%d", row), "Company")
	set(fmt.Sprintf("C%d", row), "Expected Closure")
	f.SetCellStyle(eodSheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("C%d", row), bold)

	if len(records) == 0 {
		row++
		set(fmt.Sprintf("A%d", row), "none")
		return row + 1
	}
	for _, r := range records {
		row++
		set(fmt.Sprintf("A%d", row), r.BDE())
		set(fmt.Sprintf("B%d", row), r.CompanyName())
		set(fmt.Sprintf("C%d", row), renderTime(r.ExpectedClosureDate, "2006-01-02"))
	}
	return row + 1
}
