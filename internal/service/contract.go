package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fleetrent-backend/internal/availability"
	"fleetrent-backend/internal/clock"
	"fleetrent-backend/internal/domain"
	"fleetrent-backend/internal/logger"
	"fleetrent-backend/internal/metrics"
	"fleetrent-backend/internal/repository"
)

// ErrStatusChanged is returned when the stored status no longer matches the
// one a transition was computed from.
var ErrStatusChanged = fmt.Errorf("%w: reservation status changed concurrently", domain.ErrIllegalStateTransition)

// Transition sources, used for logs and metrics.
const (
	SourceAPI        = "api"
	SourceReconciler = "reconciler"
)

// TransitionRequest describes one contract status change.
type TransitionRequest struct {
	To     domain.ContractStatus
	Source string
	// EndMileage, when set, is recorded on the vehicle in the same transaction.
	EndMileage *int32
}

// ContractManager applies contract transitions together with their vehicle
// side effects. It is shared by the reservation service and the reconciler.
type ContractManager struct {
	store   repository.Store
	clock   clock.Clock
	metrics *metrics.Metrics
}

func NewContractManager(store repository.Store, clk clock.Clock, m *metrics.Metrics) *ContractManager {
	return &ContractManager{store: store, clock: clk, metrics: m}
}

// Transition moves res to req.To. The status write is compare-and-set on
// res.Status; ErrStatusChanged is returned if another writer got there first.
// Nothing is written when any step fails.
func (m *ContractManager) Transition(ctx context.Context, res *domain.Reservation, req TransitionRequest) (*domain.Reservation, error) {
	effect, err := domain.Transition(res.Status, req.To)
	if err != nil {
		return nil, err
	}

	today := m.clock.Today()
	err = m.store.WithinTransaction(ctx, func(repos repository.Repositories) error {
		ok, err := repos.Reservations.UpdateStatus(ctx, res.ID, res.Status, req.To)
		if err != nil {
			return fmt.Errorf("failed to update reservation status: %w", err)
		}
		if !ok {
			return ErrStatusChanged
		}
		return m.applyVehicleEffect(ctx, repos, res, req, effect, today)
	})
	if err != nil {
		return nil, err
	}

	logger.StatusTransition(res.ID, res.Status.String(), req.To.String(), "source", req.Source)
	m.metrics.RecordTransition(req.To, req.Source)

	updated := *res
	updated.Status = req.To
	return &updated, nil
}

func (m *ContractManager) applyVehicleEffect(ctx context.Context, repos repository.Repositories, res *domain.Reservation, req TransitionRequest, effect domain.VehicleEffect, today time.Time) error {
	vehicle, err := repos.Vehicles.GetByID(ctx, res.VehicleID)
	if err != nil {
		return fmt.Errorf("failed to load vehicle %d: %w", res.VehicleID, err)
	}
	state := vehicle.State
	mileage := vehicle.Mileage

	switch effect {
	case domain.VehicleEffectMarkRented:
		if vehicle.State == domain.VehicleStateMaintenance {
			return fmt.Errorf("%w: vehicle %d is in maintenance", domain.ErrVehicleUnavailable, vehicle.ID)
		}
		vehicle.State = domain.VehicleStateRented
	case domain.VehicleEffectNone:
		// The vehicle of a running rental must read as rented.
		if req.To == domain.ContractStatusActive && vehicle.State == domain.VehicleStateAvailable {
			vehicle.State = domain.VehicleStateRented
		}
	case domain.VehicleEffectRelease:
		if vehicle.State == domain.VehicleStateRented {
			others, err := repos.Reservations.FindByVehicle(ctx, vehicle.ID)
			if err != nil {
				return fmt.Errorf("failed to load reservations for vehicle %d: %w", vehicle.ID, err)
			}
			if !availability.OccupiedOn(others, today, res.ID) {
				vehicle.State = domain.VehicleStateAvailable
			}
		}
	}

	if req.EndMileage != nil {
		if *req.EndMileage < vehicle.Mileage {
			return fmt.Errorf("%w: end mileage %d is below the recorded %d", domain.ErrValidation, *req.EndMileage, vehicle.Mileage)
		}
		vehicle.Mileage = *req.EndMileage
	}

	if vehicle.State == state && vehicle.Mileage == mileage {
		return nil
	}
	ok, err := repos.Vehicles.UpdateStateAndMileage(ctx, vehicle)
	if err != nil {
		return fmt.Errorf("failed to update vehicle %d: %w", vehicle.ID, err)
	}
	if !ok {
		return fmt.Errorf("vehicle %d: %w", vehicle.ID, domain.ErrNotFound)
	}
	return nil
}

// isStatusChanged reports whether err came from a lost compare-and-set.
func isStatusChanged(err error) bool {
	return errors.Is(err, ErrStatusChanged)
}
