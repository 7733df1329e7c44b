// Package dataprocessing implements the per-refresh data-reshaping pipeline
// over a sheet snapshot: normalization of a raw table into typed columns,
// filtering by BDE/Plan/date range, and the grouped aggregates consumed by
// the dashboard and the EOD report.
//
// # Architecture
//
// The package has two components:
//
// 1. Normalizer: trims column names and coerces the recognized columns
// (Timestamp, Expected Closure Date, CLOSED AMOUNT) to typed values,
// tolerating malformed cells
// 2. Aggregator: applies the AND-composed filter selection and computes
// summary metrics, by-BDE, by-Plan and by-day aggregates plus closure
// buckets
//
// # Data Flow
//
//	CSV snapshot → Normalize → ApplyFilter → Summarize/ByBDE/ByPlan/ByDay/ClosureBuckets → Dashboard
//
// # Error Handling
//
// Nothing in this package returns an error. Malformed cells degrade at the
// cell level (nil dates, zero amounts, row retained), missing columns
// degrade at the aggregate level (empty or zero output), and an empty input
// table yields an empty dashboard. The input table is never mutated.
//
// # Determinism
//
// The "current date" used by ClosureBuckets is an explicit parameter, and
// every aggregate emits a deterministic order, so the whole pipeline is a
// pure function of its inputs.
package dataprocessing
