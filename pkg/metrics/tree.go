package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var TreeOperationsMetrics = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "rbtree_operations_total",
		Help: "number of tree operations by result",
	}, []string{"tree", "op", "result"})

var TreeOperationDurationMetrics = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "rbtree_operation_duration_seconds",
		Help:    "tree operation latency",
		Buckets: prometheus.ExponentialBuckets(1e-7, 4, 10),
	}, []string{"tree", "op"})

var TreeSizeMetrics = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "rbtree_size",
		Help: "number of keys in the tree",
	}, []string{"tree"})

var TreeHeightMetrics = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "rbtree_height",
		Help: "height of the tree in nodes",
	}, []string{"tree"})

var TreeVerifyMetrics = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "rbtree_verify_ok",
		Help: "1 if the last invariant check passed, 0 otherwise",
	}, []string{"tree"})

// ObserveOperation records one operation with its result label, e.g. "ok" or "not_found".
func ObserveOperation(tree, op, result string, startTime time.Time) {
	TreeOperationsMetrics.With(prometheus.Labels{
		"tree":   tree,
		"op":     op,
		"result": result,
	}).Inc()

	TreeOperationDurationMetrics.With(prometheus.Labels{
		"tree": tree,
		"op":   op,
	}).Observe(time.Since(startTime).Seconds())
}

func UpdateTreeSize(tree string, size int) {
	TreeSizeMetrics.WithLabelValues(tree).Set(float64(size))
}

func UpdateTreeShape(tree string, size, height int) {
	TreeSizeMetrics.WithLabelValues(tree).Set(float64(size))
	TreeHeightMetrics.WithLabelValues(tree).Set(float64(height))
}

func UpdateVerifyResult(tree string, err error) {
	v := 1.0
	if err != nil {
		v = 0.0
	}

	TreeVerifyMetrics.WithLabelValues(tree).Set(v)
}

func init() {
	prometheus.MustRegister(
		TreeOperationsMetrics,
		TreeOperationDurationMetrics,
		TreeSizeMetrics,
		TreeHeightMetrics,
		TreeVerifyMetrics,
	)
}
