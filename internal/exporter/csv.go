// Package exporter renders pipeline output into downloadable artifacts: a
// CSV of the filtered rows and the end-of-day report workbook.
package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"salespulse/pkg/contracts/domain"
)

// dateTimeFormat is how typed timestamp cells are rendered on export.
const dateTimeFormat = "2006-01-02 15:04:05"

// CSVOptions configures CSV export behavior.
type CSVOptions struct {
	// BOMPrefix adds a UTF-8 BOM so Excel recognizes the encoding.
	BOMPrefix bool
}

// WriteCSV streams a table as CSV in the sheet's column order. Typed cells
// are rendered canonically (ISO dates, plain decimals); raw cells pass
// through as-is.
func WriteCSV(w io.Writer, t domain.Table, options CSVOptions) error {
	if options.BOMPrefix {
		if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(w)
	defer writer.Flush()

	if len(t.Columns) > 0 {
		if err := writer.Write(t.Columns); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	for i, r := range t.Records {
		row := make([]string, len(t.Columns))
		for j, col := range t.Columns {
			row[j] = renderCell(r, col)
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func renderCell(r domain.Record, column string) string {
	switch column {
	case domain.ColTimestamp:
		return renderTime(r.Timestamp, dateTimeFormat)
	case domain.ColExpectedClosure:
		return renderTime(r.ExpectedClosureDate, "2006-01-02")
	case domain.ColClosedAmount:
		return strconv.FormatFloat(r.ClosedAmount, 'f', -1, 64)
	default:
		return r.Cell(column)
	}
}

func renderTime(t *time.Time, layout string) string {
	if t == nil {
		return ""
	}
	return t.Format(layout)
}
