package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/rickgao/pricewatch/internal/model"
)

const namespace = "pricewatch"

// Metrics holds the collectors exported by the process.
type Metrics struct {
	batches         *prometheus.CounterVec
	batchDuration   prometheus.Histogram
	fetches         *prometheus.CounterVec
	fetchDuration   *prometheus.HistogramVec
	trackedArticles prometheus.Gauge
	registryOps     *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		batches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batches_total",
			Help:      "Batch runs by trigger and result.",
		}, []string{"trigger", "result"}),
		batchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_duration_seconds",
			Help:      "Wall time of completed batch runs.",
			Buckets:   prometheus.ExponentialBuckets(0.5, 2, 10),
		}),
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetches_total",
			Help:      "Per-item price fetches by source and outcome class.",
		}, []string{"source", "result"}),
		fetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Wall time of per-item fetches including the log append.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"source"}),
		trackedArticles: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "tracked_articles",
			Help:      "Articles listed at the start of the last batch.",
		}),
		registryOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registry_operations_total",
			Help:      "Registry add/remove calls by operation and result.",
		}, []string{"op", "result"}),
	}

	reg.MustRegister(
		m.batches,
		m.batchDuration,
		m.fetches,
		m.fetchDuration,
		m.trackedArticles,
		m.registryOps,
	)
	return m
}

// ObserveBatch records a finished batch. res may be nil when err is not.
func (m *Metrics) ObserveBatch(trigger string, res *model.BatchResult, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.batches.WithLabelValues(trigger, model.Kind(err)).Inc()
		return
	}
	result := "ok"
	if len(res.Failed()) > 0 {
		result = "partial"
	}
	m.batches.WithLabelValues(trigger, result).Inc()
	m.batchDuration.Observe(res.Duration.Seconds())
}

// ObserveFetch records one per-item outcome.
func (m *Metrics) ObserveFetch(o model.FetchOutcome) {
	if m == nil {
		return
	}
	m.fetches.WithLabelValues(o.Source, model.Kind(o.Err)).Inc()
	m.fetchDuration.WithLabelValues(o.Source).Observe(o.Duration.Seconds())
}

// SetTrackedArticles records the size of the tracked set.
func (m *Metrics) SetTrackedArticles(n int) {
	if m == nil {
		return
	}
	m.trackedArticles.Set(float64(n))
}

// ObserveRegistryOp records an add or remove. changed is whether the registry was modified.
func (m *Metrics) ObserveRegistryOp(op string, changed bool, err error) {
	if m == nil {
		return
	}
	result := "unchanged"
	switch {
	case err != nil:
		result = model.Kind(err)
	case changed:
		result = "changed"
	}
	m.registryOps.WithLabelValues(op, result).Inc()
}
