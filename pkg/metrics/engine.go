package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "warehouse"

const (
	ResultOK    = "ok"
	ResultError = "error"
)

// EngineMetrics covers the entity pools, commit workflows and persistence flushes.
type EngineMetrics struct {
	poolOps       *prometheus.CounterVec
	poolRecords   *prometheus.GaugeVec
	commits       *prometheus.CounterVec
	commitAdjusts *prometheus.CounterVec
	flushDuration *prometheus.HistogramVec
	flushFailures *prometheus.CounterVec
}

func NewEngineMetrics(reg prometheus.Registerer) *EngineMetrics {
	if reg == nil {
		return &EngineMetrics{}
	}
	m := &EngineMetrics{
		poolOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pool_operations_total",
			Help:      "Entity pool operations by pool, operation and result.",
		}, []string{"pool", "op", "result"}),
		poolRecords: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pool_records",
			Help:      "Records currently held by each entity pool.",
		}, []string{"pool"}),
		commits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commits_total",
			Help:      "Commit workflow executions by aggregate and result.",
		}, []string{"aggregate", "result"}),
		commitAdjusts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commit_adjusted_records_total",
			Help:      "Inventory records adjusted by commit workflows.",
		}, []string{"aggregate"}),
		flushDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "flush_duration_seconds",
			Help:      "Time spent writing a pool to the document store.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"pool"}),
		flushFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flush_failures_total",
			Help:      "Failed pool writes to the document store.",
		}, []string{"pool"}),
	}
	reg.MustRegister(m.poolOps, m.poolRecords, m.commits, m.commitAdjusts, m.flushDuration, m.flushFailures)
	return m
}

// PoolOp counts one pool operation and refreshes the pool size gauge.
func (m *EngineMetrics) PoolOp(pool, op string, size int, err error) {
	if m == nil || m.poolOps == nil {
		return
	}
	pool = normalizeLabel(pool)
	m.poolOps.WithLabelValues(pool, normalizeLabel(op), result(err)).Inc()
	m.poolRecords.WithLabelValues(pool).Set(float64(size))
}

// Commit counts one commit attempt together with the inventory records it touched.
func (m *EngineMetrics) Commit(aggregate string, adjusted int, err error) {
	if m == nil || m.commits == nil {
		return
	}
	aggregate = normalizeLabel(aggregate)
	m.commits.WithLabelValues(aggregate, result(err)).Inc()
	if err == nil && adjusted > 0 {
		m.commitAdjusts.WithLabelValues(aggregate).Add(float64(adjusted))
	}
}

// Flush records one pool write to the document store.
func (m *EngineMetrics) Flush(pool string, duration time.Duration, err error) {
	if m == nil || m.flushDuration == nil {
		return
	}
	pool = normalizeLabel(pool)
	m.flushDuration.WithLabelValues(pool).Observe(duration.Seconds())
	if err != nil {
		m.flushFailures.WithLabelValues(pool).Inc()
	}
}

func result(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultOK
}
