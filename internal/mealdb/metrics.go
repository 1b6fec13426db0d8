package mealdb

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Request outcomes.
const (
	outcomeOK    = "ok"
	outcomeEmpty = "empty"
	outcomeError = "error"
)

type metrics struct {
	requests *prometheus.CounterVec
	retries  *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	f := promauto.With(reg)
	return &metrics{
		requests: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "recipebox",
				Subsystem: "mealdb",
				Name:      "requests_total",
				Help:      "Catalog requests by endpoint and outcome.",
			},
			[]string{"endpoint", "outcome"},
		),
		retries: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "recipebox",
				Subsystem: "mealdb",
				Name:      "retries_total",
				Help:      "Catalog request attempts beyond the first.",
			},
			[]string{"endpoint"},
		),
	}
}

// defaultMetrics is registered once with the default registry; clients that
// need isolation (tests) pass WithRegistry.
var defaultMetrics = newMetrics(prometheus.DefaultRegisterer)
