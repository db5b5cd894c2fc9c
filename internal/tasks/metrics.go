package tasks

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	storeOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskboard_store_operations_total",
			Help: "Total number of task store operations by outcome",
		},
		[]string{"op", "result"},
	)

	storedTasks = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "taskboard_tasks_stored",
			Help: "Number of tasks currently held by the store",
		},
	)
)

func observe(op string, err error) {
	storeOperations.WithLabelValues(op, resultLabel(err)).Inc()
}

func resultLabel(err error) string {
	var vErr *ValidationError
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.As(err, &vErr):
		return "invalid"
	default:
		return "error"
	}
}
