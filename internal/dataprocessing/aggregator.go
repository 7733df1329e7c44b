package dataprocessing

import (
	"sort"
	"time"

	"github.com/montanaflynn/stats"

	"salespulse/pkg/contracts/domain"
)

// closureWindow is how far ahead of the reference day a closure still counts
// as "due soon".
const closureWindow = 7 * 24 * time.Hour

// ApplyFilter narrows a normalized table to the rows matching the selection.
// Predicates compose with AND; domain.All disables the BDE or Plan predicate
// entirely. When a date range is active, rows without a parsable timestamp
// never match. The input table is not mutated.
func ApplyFilter(t domain.Table, f domain.Filter) domain.Table {
	filtered := domain.Table{Columns: t.Columns}
	for _, r := range t.Records {
		if matches(r, f) {
			filtered.Records = append(filtered.Records, r)
		}
	}
	return filtered
}

func matches(r domain.Record, f domain.Filter) bool {
	if f.BDE != "" && f.BDE != domain.All && r.BDE() != f.BDE {
		return false
	}
	if f.Plan != "" && f.Plan != domain.All && r.Plan() != f.Plan {
		return false
	}
	if f.From != nil || f.To != nil {
		if r.Timestamp == nil {
			return false
		}
		day := dateOf(*r.Timestamp)
		if f.From != nil && day.Before(dateOf(*f.From)) {
			return false
		}
		if f.To != nil && day.After(dateOf(*f.To)) {
			return false
		}
	}
	return true
}

// Summarize computes the headline metrics for a filtered row set. An empty
// set yields all zeros; a snapshot without the CLOSED AMOUNT column yields a
// zero total because every amount normalized to 0.
func Summarize(t domain.Table) domain.Summary {
	summary := domain.Summary{TotalResponses: len(t.Records)}
	if t.Empty() {
		return summary
	}

	amounts := make([]float64, 0, len(t.Records))
	for _, r := range t.Records {
		summary.TotalClosedAmount += r.ClosedAmount
		amounts = append(amounts, r.ClosedAmount)
	}

	if mean, err := stats.Mean(amounts); err == nil {
		summary.AverageClosedAmount = mean
	}
	if median, err := stats.Median(amounts); err == nil {
		summary.MedianClosedAmount = median
	}
	return summary
}

// ByBDE aggregates response count and closed amount per distinct non-empty
// BDE name, sorted by name for deterministic output.
func ByBDE(t domain.Table) []domain.BDEMetric {
	byName := make(map[string]*domain.BDEMetric)
	for _, r := range t.Records {
		name := r.BDE()
		if name == "" {
			continue
		}
		m, ok := byName[name]
		if !ok {
			m = &domain.BDEMetric{BDE: name}
			byName[name] = m
		}
		m.Responses++
		m.ClosedAmount += r.ClosedAmount
	}

	metrics := make([]domain.BDEMetric, 0, len(byName))
	for _, m := range byName {
		metrics = append(metrics, *m)
	}
	sort.Slice(metrics, func(i, j int) bool { return metrics[i].BDE < metrics[j].BDE })
	return metrics
}

// ByPlan counts rows per distinct non-empty plan and derives each plan's
// share of the counted total, sorted by plan name.
func ByPlan(t domain.Table) []domain.PlanShare {
	counts := make(map[string]int)
	total := 0
	for _, r := range t.Records {
		plan := r.Plan()
		if plan == "" {
			continue
		}
		counts[plan]++
		total++
	}

	shares := make([]domain.PlanShare, 0, len(counts))
	for plan, n := range counts {
		shares = append(shares, domain.PlanShare{
			Plan:      plan,
			Responses: n,
			Share:     float64(n) / float64(total),
		})
	}
	sort.Slice(shares, func(i, j int) bool { return shares[i].Plan < shares[j].Plan })
	return shares
}

// ByDay counts rows per calendar date derived from the timestamp, dropping
// time of day. The result is sorted ascending with no duplicate dates; rows
// without a parsable timestamp are skipped.
func ByDay(t domain.Table) []domain.DayCount {
	counts := make(map[time.Time]int)
	for _, r := range t.Records {
		if r.Timestamp == nil {
			continue
		}
		counts[dateOf(*r.Timestamp)]++
	}

	series := make([]domain.DayCount, 0, len(counts))
	for day, n := range counts {
		series = append(series, domain.DayCount{Date: day, Responses: n})
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Date.Before(series[j].Date) })
	return series
}

// ClosureBuckets partitions rows by expected closure date relative to the
// given reference time: due today (same calendar date) and due within the
// next seven days (today exclusive, the seventh day inclusive). The
// reference time is injected by the caller so two runs on different days can
// legitimately classify the same row differently.
func ClosureBuckets(t domain.Table, now time.Time) domain.Closures {
	today := dateOf(now)
	horizon := today.Add(closureWindow)

	var buckets domain.Closures
	for _, r := range t.Records {
		if r.ExpectedClosureDate == nil {
			continue
		}
		due := dateOf(*r.ExpectedClosureDate)
		switch {
		case due.Equal(today):
			buckets.DueToday = append(buckets.DueToday, r)
		case due.After(today) && !due.After(horizon):
			buckets.DueSoon = append(buckets.DueSoon, r)
		}
	}
	return buckets
}

// ObservedOptions extracts the distinct non-empty BDE and Plan values from a
// snapshot, sorted ascending, for the UI filter dropdowns.
func ObservedOptions(t domain.Table) domain.Options {
	return domain.Options{
		BDEs:  distinct(t, domain.ColBDEName),
		Plans: distinct(t, domain.ColPlan),
	}
}

func distinct(t domain.Table, column string) []string {
	seen := make(map[string]struct{})
	for _, r := range t.Records {
		if v := r.Cell(column); v != "" {
			seen[v] = struct{}{}
		}
	}
	values := make([]string, 0, len(seen))
	for v := range seen {
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}

// BuildDashboard runs the filter and every aggregate over a normalized
// snapshot and assembles the complete per-refresh output. Each aggregate
// degrades independently to its zero value on empty input or a missing
// column; nothing here can fail.
func BuildDashboard(t domain.Table, f domain.Filter, now time.Time) domain.Dashboard {
	filtered := ApplyFilter(t, f)
	return domain.Dashboard{
		Summary:     Summarize(filtered),
		ByBDE:       ByBDE(filtered),
		ByPlan:      ByPlan(filtered),
		ByDay:       ByDay(filtered),
		Closures:    ClosureBuckets(filtered, now),
		Columns:     filtered.Columns,
		Rows:        filtered.Records,
		Options:     ObservedOptions(t),
		GeneratedAt: now,
	}
}

// dateOf truncates a point in time to its calendar date in UTC.
func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
