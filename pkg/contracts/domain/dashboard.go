package domain

import (
	"time"
)

// Filter is the selection coming from the UI layer. BDE and Plan are exact
// matches unless set to All; From/To bound the Timestamp date component
// inclusively when non-nil. All active predicates compose with AND.
type Filter struct {
	BDE  string     `json:"bde"`
	Plan string     `json:"plan"`
	From *time.Time `json:"from,omitempty"`
	To   *time.Time `json:"to,omitempty"`
}

// Summary holds the headline metrics for a filtered row set.
type Summary struct {
	TotalResponses      int     `json:"total_responses"`
	TotalClosedAmount   float64 `json:"total_closed_amount"`
	AverageClosedAmount float64 `json:"average_closed_amount"`
	MedianClosedAmount  float64 `json:"median_closed_amount"`
}

// BDEMetric is the per-salesperson aggregate backing the BDE bar chart.
type BDEMetric struct {
	BDE          string  `json:"bde"`
	Responses    int     `json:"responses"`
	ClosedAmount float64 `json:"closed_amount"`
}

// PlanShare is the per-plan aggregate backing the plan distribution pie.
// Share is the proportion of counted rows, in [0,1].
type PlanShare struct {
	Plan      string  `json:"plan"`
	Responses int     `json:"responses"`
	Share     float64 `json:"share"`
}

// DayCount is one point of the responses-over-time series. The series is
// always sorted ascending by date; consumers render it directly.
type DayCount struct {
	Date      time.Time `json:"date"`
	Responses int       `json:"responses"`
}

// Closures partitions rows by expected closure date relative to a reference
// day: DueToday closes on that day, DueSoon within the following seven days
// (lower bound exclusive, upper bound inclusive).
type Closures struct {
	DueToday []Record `json:"due_today"`
	DueSoon  []Record `json:"due_soon"`
}

// Options lists the distinct BDE and Plan values observed in a snapshot,
// sorted ascending. The UI prepends its own All entry.
type Options struct {
	BDEs  []string `json:"bdes"`
	Plans []string `json:"plans"`
}

// Dashboard is the complete per-refresh output handed to the presentation
// layer: headline metrics, the grouped aggregates, closure buckets, the
// filtered rows for tabular display and the observed filter options.
type Dashboard struct {
	Summary     Summary     `json:"summary"`
	ByBDE       []BDEMetric `json:"by_bde"`
	ByPlan      []PlanShare `json:"by_plan"`
	ByDay       []DayCount  `json:"by_day"`
	Closures    Closures    `json:"closures"`
	Columns     []string    `json:"columns"`
	Rows        []Record    `json:"rows"`
	Options     Options     `json:"options"`
	GeneratedAt time.Time   `json:"generated_at"`
}
