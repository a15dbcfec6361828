package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// DomainMetrics counts the marketplace lifecycle events the API emits.
type DomainMetrics struct {
	supplierCreated *prometheus.CounterVec
	supplierDeleted prometheus.Counter
	welcomeSent     *prometheus.CounterVec
}

// NewDomainMetrics registers the domain counters on the provided registerer.
func NewDomainMetrics(reg prometheus.Registerer) *DomainMetrics {
	if reg == nil {
		return &DomainMetrics{}
	}
	supplierCreated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "supplier_created_total",
		Help: "Suppliers created, partitioned by commission source.",
	}, []string{"commission_source"})
	supplierDeleted := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "supplier_deleted_total",
		Help: "Suppliers soft-deleted.",
	})
	welcomeSent := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "supplier_welcome_total",
		Help: "Welcome notification outcomes.",
	}, []string{"outcome"})
	reg.MustRegister(supplierCreated, supplierDeleted, welcomeSent)
	return &DomainMetrics{
		supplierCreated: supplierCreated,
		supplierDeleted: supplierDeleted,
		welcomeSent:     welcomeSent,
	}
}

// IncSupplierCreated records a created supplier and whether its commission
// came from explicit overrides, the marketplace defaults, or a mix of both.
func (d *DomainMetrics) IncSupplierCreated(commissionSource string) {
	if d == nil || d.supplierCreated == nil {
		return
	}
	d.supplierCreated.WithLabelValues(normalizeLabel(commissionSource)).Inc()
}

// IncSupplierDeleted records a soft-deleted supplier.
func (d *DomainMetrics) IncSupplierDeleted() {
	if d == nil || d.supplierDeleted == nil {
		return
	}
	d.supplierDeleted.Inc()
}

// IncWelcome records a welcome notification outcome (sent, skipped, failed).
func (d *DomainMetrics) IncWelcome(outcome string) {
	if d == nil || d.welcomeSent == nil {
		return
	}
	d.welcomeSent.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// WorkerMetrics records metadata for background publish loops.
type WorkerMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
}

// NewWorkerMetrics registers the worker metrics on the provided registerer.
func NewWorkerMetrics(reg prometheus.Registerer) *WorkerMetrics {
	if reg == nil {
		return &WorkerMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "worker_batch_duration_seconds",
		Help:    "Duration of worker batches in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"worker"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "worker_batch_success",
		Help: "Successful worker batch executions.",
	}, []string{"worker"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "worker_batch_failure",
		Help: "Failed worker batch executions.",
	}, []string{"worker"})
	reg.MustRegister(duration, success, failure)
	return &WorkerMetrics{
		duration: duration,
		success:  success,
		failure:  failure,
	}
}

// ObserveDuration records the duration for the named worker batch.
func (w *WorkerMetrics) ObserveDuration(worker string, duration time.Duration) {
	if w == nil || w.duration == nil {
		return
	}
	w.duration.WithLabelValues(normalizeLabel(worker)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter for the named worker.
func (w *WorkerMetrics) IncSuccess(worker string) {
	if w == nil || w.success == nil {
		return
	}
	w.success.WithLabelValues(normalizeLabel(worker)).Inc()
}

// IncFailure increments the failure counter for the named worker.
func (w *WorkerMetrics) IncFailure(worker string) {
	if w == nil || w.failure == nil {
		return
	}
	w.failure.WithLabelValues(normalizeLabel(worker)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
