package domain

import (
	"time"
)

// All is the sentinel filter value meaning "no constraint". It is never
// matched against cell contents.
const All = "ALL"

// Recognized sheet columns. Matching is exact on the post-trim column name;
// any subset of these may be absent from a given snapshot.
const (
	ColTimestamp       = "Timestamp"
	ColBDEName         = "BDE NAME"
	ColPlan            = "PLAN"
	ColCompanyName     = "COMPANY NAME"
	ColMobileNo        = "MOBILE NO"
	ColClosedAmount    = "CLOSED AMOUNT"
	ColExpectedClosure = "Expected Closure Date"
)

// Record is a single sales-response row. Cells holds every cell as text,
// keyed by column name; the typed fields are derived from the recognized
// columns during normalization.
type Record struct {
	Cells map[string]string `json:"cells"`

	// Timestamp is the response capture time; nil when missing or unparsable.
	Timestamp *time.Time `json:"timestamp,omitempty"`
	// ClosedAmount is the closed deal amount. Missing, unparsable or negative
	// cells normalize to exactly 0, never nil.
	ClosedAmount float64 `json:"closed_amount"`
	// ExpectedClosureDate is the expected deal-closing date; nil when missing
	// or unparsable.
	ExpectedClosureDate *time.Time `json:"expected_closure_date,omitempty"`
}

// Cell returns the raw text of the named column, or "" when absent.
func (r Record) Cell(column string) string {
	return r.Cells[column]
}

// BDE returns the salesperson name, "" when the column is absent.
func (r Record) BDE() string { return r.Cell(ColBDEName) }

// Plan returns the subscription plan, "" when the column is absent.
func (r Record) Plan() string { return r.Cell(ColPlan) }

// CompanyName returns the display-only company name.
func (r Record) CompanyName() string { return r.Cell(ColCompanyName) }

// MobileNo returns the display-only contact number.
func (r Record) MobileNo() string { return r.Cell(ColMobileNo) }

// Table is one snapshot of the sheet. A fresh Table is built on every
// pipeline run and never mutated afterwards; rows have no identity and
// duplicates are retained.
type Table struct {
	// Columns preserves the sheet's column order for tabular display.
	Columns []string `json:"columns"`
	Records []Record `json:"records"`
}

// HasColumn reports whether the named column is present in this snapshot.
func (t Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Empty reports whether the table carries no rows.
func (t Table) Empty() bool {
	return len(t.Records) == 0
}
