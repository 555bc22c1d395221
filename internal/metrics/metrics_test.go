package metrics

import (
	"testing"
	"time"

	"fleetrent-backend/internal/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Record(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordCreated()
	m.RecordRejected(domain.ErrCustomerOverlap)
	m.RecordRejected(domain.ErrVehicleUnavailable)
	m.RecordTransition(domain.ContractStatusActive, "reconciler")
	m.RecordReconcile(20*time.Millisecond, 3, 1)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ReservationsCreated))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ReservationsRejected.WithLabelValues("conflict")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StatusTransitions.WithLabelValues("ACTIVE", "reconciler")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ReconcileRuns))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ReconcileErrors))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordCreated()
		m.RecordRejected(domain.ErrMinorCustomer)
		m.RecordConfirmationFailure()
		m.RecordTransition(domain.ContractStatusCancelled, "api")
		m.RecordReconcile(time.Second, 0, 0)
	})
}
