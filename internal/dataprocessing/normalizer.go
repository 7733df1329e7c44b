package dataprocessing

import (
	"strconv"
	"strings"
	"time"

	"salespulse/pkg/contracts/domain"
)

// timestampLayouts are tried in order when parsing the Timestamp and
// Expected Closure Date columns. The sheet is a Google Forms export, so the
// US-style form layouts come first.
var timestampLayouts = []string{
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02",
	"1/2/2006",
	"2-Jan-2006",
	"Jan 2, 2006",
}

// Normalize produces a typed copy of a raw snapshot: column names are
// whitespace-trimmed, the timestamp columns become nullable points in time
// and CLOSED AMOUNT becomes a number that is exactly 0 when missing or
// unparsable. Unrecognized columns pass through as text. Normalizing an
// already-normalized table yields the same table, since the typed fields are
// always re-derived from the unchanged raw cells.
func Normalize(raw domain.Table) domain.Table {
	columns := make([]string, 0, len(raw.Columns))
	for _, c := range raw.Columns {
		columns = append(columns, strings.TrimSpace(c))
	}

	hasTimestamp := contains(columns, domain.ColTimestamp)
	hasClosure := contains(columns, domain.ColExpectedClosure)
	hasAmount := contains(columns, domain.ColClosedAmount)

	records := make([]domain.Record, 0, len(raw.Records))
	for _, r := range raw.Records {
		cells := make(map[string]string, len(r.Cells))
		for k, v := range r.Cells {
			cells[strings.TrimSpace(k)] = v
		}

		rec := domain.Record{Cells: cells}
		if hasTimestamp {
			rec.Timestamp = ParseTimestamp(cells[domain.ColTimestamp])
		}
		if hasClosure {
			rec.ExpectedClosureDate = ParseTimestamp(cells[domain.ColExpectedClosure])
		}
		if hasAmount {
			rec.ClosedAmount = ParseAmount(cells[domain.ColClosedAmount])
		}
		records = append(records, rec)
	}

	return domain.Table{Columns: columns, Records: records}
}

// ParseTimestamp parses a free-text date/time cell. It returns nil for empty
// or unparsable values; the row is kept either way.
func ParseTimestamp(value string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return &t
		}
	}
	return nil
}

// ParseAmount parses a monetary cell. Thousands separators and common
// currency prefixes are tolerated. Missing, unparsable or negative values
// become exactly 0 rather than null, so downstream sums are always defined.
func ParseAmount(value string) float64 {
	value = strings.TrimSpace(value)
	for _, prefix := range []string{"₹", "Rs.", "Rs", "$"} {
		value = strings.TrimSpace(strings.TrimPrefix(value, prefix))
	}
	value = strings.ReplaceAll(value, ",", "")
	if value == "" {
		return 0
	}
	amount, err := strconv.ParseFloat(value, 64)
	if err != nil || amount < 0 {
		return 0
	}
	return amount
}

func contains(columns []string, name string) bool {
	for _, c := range columns {
		if c == name {
			return true
		}
	}
	return false
}
