package metrics

import (
	"time"

	"fleetrent-backend/internal/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the reservation engine collectors. A nil *Metrics records
// nothing.
type Metrics struct {
	ReservationsCreated   prometheus.Counter
	ReservationsRejected  *prometheus.CounterVec
	ConfirmationFailures  prometheus.Counter
	StatusTransitions     *prometheus.CounterVec
	ReconcileRuns         prometheus.Counter
	ReconcileErrors       prometheus.Counter
	ReconcileDuration     prometheus.Histogram
	ReconcileTransitioned prometheus.Histogram
}

// NewMetrics registers the collectors with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		ReservationsCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "reservations_created_total",
			Help: "Total number of reservations persisted",
		}),
		ReservationsRejected: f.NewCounterVec(prometheus.CounterOpts{
			Name: "reservations_rejected_total",
			Help: "Reservation requests refused, by error kind",
		}, []string{"kind"}),
		ConfirmationFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "reservation_confirmation_failures_total",
			Help: "Reservations left in CREATED because confirmation failed",
		}),
		StatusTransitions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "reservation_status_transitions_total",
			Help: "Contract status transitions applied, by target status and source",
		}, []string{"to", "source"}),
		ReconcileRuns: f.NewCounter(prometheus.CounterOpts{
			Name: "status_reconcile_runs_total",
			Help: "Total number of status reconciler ticks",
		}),
		ReconcileErrors: f.NewCounter(prometheus.CounterOpts{
			Name: "status_reconcile_errors_total",
			Help: "Reservations the reconciler failed to transition",
		}),
		ReconcileDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "status_reconcile_duration_seconds",
			Help:    "Status reconciler tick duration in seconds",
			Buckets: []float64{.01, .05, .1, .5, 1, 5, 10, 30},
		}),
		ReconcileTransitioned: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "status_reconcile_transitions",
			Help:    "Transitions applied per reconciler tick",
			Buckets: []float64{0, 1, 5, 10, 50, 100, 500},
		}),
	}
}

// RecordCreated records a persisted reservation
func (m *Metrics) RecordCreated() {
	if m == nil {
		return
	}
	m.ReservationsCreated.Inc()
}

// RecordRejected records a refused request under the kind of err
func (m *Metrics) RecordRejected(err error) {
	if m == nil {
		return
	}
	m.ReservationsRejected.WithLabelValues(domain.KindOf(err).String()).Inc()
}

// RecordConfirmationFailure records a reservation stuck in CREATED
func (m *Metrics) RecordConfirmationFailure() {
	if m == nil {
		return
	}
	m.ConfirmationFailures.Inc()
}

// RecordTransition records an applied status change
func (m *Metrics) RecordTransition(to domain.ContractStatus, source string) {
	if m == nil {
		return
	}
	m.StatusTransitions.WithLabelValues(string(to), source).Inc()
}

// RecordReconcile records one reconciler tick
func (m *Metrics) RecordReconcile(duration time.Duration, transitioned, failed int) {
	if m == nil {
		return
	}
	m.ReconcileRuns.Inc()
	m.ReconcileDuration.Observe(duration.Seconds())
	m.ReconcileTransitioned.Observe(float64(transitioned))
	m.ReconcileErrors.Add(float64(failed))
}
