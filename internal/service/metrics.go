package service

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	analysesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "urlintel_analyses_total",
			Help: "Total number of URL analyses by outcome",
		},
		[]string{"outcome"},
	)

	degradedStagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "urlintel_degraded_stages_total",
			Help: "Total number of analysis stages that degraded to an empty result",
		},
		[]string{"stage"},
	)

	analysisDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "urlintel_analysis_duration_seconds",
			Help:    "Wall-clock duration of complete URL analyses in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 3, 5, 10, 20, 30},
		},
	)
)

func init() {
	prometheus.MustRegister(analysesTotal, degradedStagesTotal, analysisDuration)
}
