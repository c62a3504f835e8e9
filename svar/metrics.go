package svar

import (
	"time"

	"code.hybscloud.com/atomix"
	"github.com/prometheus/client_golang/prometheus"
)

// Scheduler metrics are opt-in: when disabled every recording helper is
// a no-op, cheap enough for worker hot paths. Metrics are global (no
// per-SVar label cardinality) and registered eagerly; if no Prometheus
// endpoint is exposed the registration is harmless.

var metricsEnabled atomix.Bool

// EnableMetrics turns on scheduler metrics recording.
func EnableMetrics() {
	metricsEnabled.Store(true)
}

var (
	svarsActive = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "streamly_svars_active",
		Help: "Number of SVars currently open",
	})
	workersActive = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "streamly_workers_active",
		Help: "Number of live workers across all SVars",
	})
	dispatchesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "streamly_dispatches_total",
		Help: "Total worker dispatches",
	})
	yieldsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "streamly_yields_total",
		Help: "Total values delivered to output buffers",
	})
	bufferFullTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "streamly_buffer_full_total",
		Help: "Total do-not-continue signals observed by workers",
	})
	failuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "streamly_failures_total",
		Help: "Total producer failures recorded",
	})
	workerLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "streamly_worker_latency_seconds",
		Help:    "Measured wall-clock per yield",
		Buckets: prometheus.ExponentialBuckets(1e-6, 4, 12),
	})
)

func init() {
	prometheus.MustRegister(svarsActive, workersActive, dispatchesTotal,
		yieldsTotal, bufferFullTotal, failuresTotal, workerLatency)
}

func metricSVarOpen() {
	if metricsEnabled.Load() {
		svarsActive.Inc()
	}
}

func metricSVarClose() {
	if metricsEnabled.Load() {
		svarsActive.Dec()
	}
}

func metricDispatch() {
	if metricsEnabled.Load() {
		workersActive.Inc()
		dispatchesTotal.Inc()
	}
}

func metricWorkerExit() {
	if metricsEnabled.Load() {
		workersActive.Dec()
	}
}

func metricYield() {
	if metricsEnabled.Load() {
		yieldsTotal.Inc()
	}
}

func metricBufferFull() {
	if metricsEnabled.Load() {
		bufferFullTotal.Inc()
	}
}

func metricFailure() {
	if metricsEnabled.Load() {
		failuresTotal.Inc()
	}
}

func metricLatency(per time.Duration) {
	if metricsEnabled.Load() {
		workerLatency.Observe(per.Seconds())
	}
}
