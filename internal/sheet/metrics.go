package sheet

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	fetchFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "salespulse_sheet_fetch_failures_total",
		Help: "Number of sheet snapshot fetches that failed and degraded to an empty table.",
	})
	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "salespulse_sheet_cache_hits_total",
		Help: "Number of snapshot loads served from the TTL cache.",
	})
	cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "salespulse_sheet_cache_misses_total",
		Help: "Number of snapshot loads that refetched the sheet.",
	})
)
