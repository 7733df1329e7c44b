package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var pipelineRuns = promauto.NewCounter(prometheus.CounterOpts{
	Name: "salespulse_pipeline_runs_total",
	Help: "Number of end-to-end dashboard pipeline runs.",
})
