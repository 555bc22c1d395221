package jobs

import (
	"context"
	"errors"
	"time"

	"fleetrent-backend/internal/domain"
	"fleetrent-backend/internal/logger"
	"fleetrent-backend/internal/service"
)

const reconcileJobName = "ReconcileReservationStatuses"

// RunReconcile is the scheduled entry point for ReconcileReservationStatuses
func (jr *JobRunner) RunReconcile(ctx context.Context) {
	jr.runWithRecovery(reconcileJobName, func() {
		jr.ReconcileReservationStatuses(ctx)
	})
}

// ReconcileReservationStatuses starts confirmed reservations whose start date
// has come and completes active ones whose end date has passed. A reservation
// may take both steps in one run. Each transition is stored on its own and a
// failing record does not stop the run. It returns the number of transitions
// applied.
func (jr *JobRunner) ReconcileReservationStatuses(ctx context.Context) int {
	started := time.Now()
	today := jr.clock.Today()

	reservations, err := jr.store.Repos().Reservations.FindAll(ctx)
	if err != nil {
		logger.Error("Failed to load reservations for reconciliation", "error", err)
		jr.metrics.RecordReconcile(time.Since(started), 0, 1)
		return 0
	}

	transitioned, failed := 0, 0
	for i := range reservations {
		if ctx.Err() != nil {
			logger.Warn("Reconciliation interrupted", "error", ctx.Err(), "remaining", len(reservations)-i)
			break
		}
		res := &reservations[i]

		if res.Status == domain.ContractStatusConfirmed && !today.Before(res.Interval.Start()) {
			updated, ok := jr.step(ctx, res, domain.ContractStatusActive, &failed)
			if !ok {
				continue
			}
			transitioned++
			res = updated
		}

		if res.Status == domain.ContractStatusActive && today.After(res.Interval.End()) {
			if _, ok := jr.step(ctx, res, domain.ContractStatusCompleted, &failed); ok {
				transitioned++
			}
		}
	}

	jr.metrics.RecordReconcile(time.Since(started), transitioned, failed)
	logger.JobFinished(reconcileJobName, started, "today", today.Format(domain.DateLayout),
		"scanned", len(reservations), "transitioned", transitioned, "failed", failed)
	return transitioned
}

// step applies one transition. A status moved by another writer is skipped
// without counting as a failure.
func (jr *JobRunner) step(ctx context.Context, res *domain.Reservation, to domain.ContractStatus, failed *int) (*domain.Reservation, bool) {
	updated, err := jr.contracts.Transition(ctx, res, service.TransitionRequest{To: to, Source: service.SourceReconciler})
	if err == nil {
		return updated, true
	}
	if errors.Is(err, service.ErrStatusChanged) {
		logger.Debug("Reservation changed during reconciliation, skipping", "reservation_id", res.ID, "to", to)
		return nil, false
	}
	*failed++
	logger.Error("Failed to reconcile reservation", "reservation_id", res.ID, "number", res.Number, "from", res.Status, "to", to, "error", err)
	return nil, false
}
