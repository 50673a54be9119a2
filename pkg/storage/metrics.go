package storage

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var operationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "storage_operations_total",
		Help: "Total number of storage backend operations",
	},
	[]string{"backend", "op", "outcome"},
)

// Observe records the outcome of a backend operation and returns err unchanged.
func Observe(backend Kind, op string, err error) error {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	operationsTotal.WithLabelValues(string(backend), op, outcome).Inc()
	return err
}
