package http

import (
	"context"

	"fleetrent-backend/internal/domain"
	"fleetrent-backend/internal/service"

	"github.com/stretchr/testify/mock"
)

// MockReservationService
type MockReservationService struct {
	mock.Mock
}

func (m *MockReservationService) CreateReservation(ctx context.Context, req service.CreateReservationRequest) (*domain.Reservation, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationService) ConfirmReservation(ctx context.Context, id int32) (*domain.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationService) CancelReservation(ctx context.Context, id int32) (*domain.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationService) CompleteReservation(ctx context.Context, id int32, endMileage int32) (*domain.Reservation, error) {
	args := m.Called(ctx, id, endMileage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationService) UpdateAddOns(ctx context.Context, id int32, addOnIDs []int32) (*domain.Reservation, error) {
	args := m.Called(ctx, id, addOnIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationService) GetReservation(ctx context.Context, id int32) (*domain.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationService) ListCustomerReservations(ctx context.Context, customerID int32) ([]domain.Reservation, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Reservation), args.Error(1)
}

func (m *MockReservationService) PreviewPrice(ctx context.Context, vehicleID int32, startDate, endDate string, addOnIDs []int32) (*service.PriceQuote, error) {
	args := m.Called(ctx, vehicleID, startDate, endDate, addOnIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PriceQuote), args.Error(1)
}

func (m *MockReservationService) ListAvailableVehicles(ctx context.Context, startDate, endDate string) ([]domain.Vehicle, error) {
	args := m.Called(ctx, startDate, endDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Vehicle), args.Error(1)
}

func (m *MockReservationService) ListVehicles(ctx context.Context) ([]domain.Vehicle, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Vehicle), args.Error(1)
}

func (m *MockReservationService) ListAddOns(ctx context.Context) ([]domain.AddOn, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AddOn), args.Error(1)
}

// MockAuthService
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*domain.Account, string, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*domain.Account), args.String(1), args.Error(2)
}

func (m *MockAuthService) ChangePassword(ctx context.Context, account domain.Account, oldPassword, newPassword string) error {
	args := m.Called(ctx, account, oldPassword, newPassword)
	return args.Error(0)
}

// MockReconciler
type MockReconciler struct {
	mock.Mock
}

func (m *MockReconciler) ReconcileReservationStatuses(ctx context.Context) int {
	args := m.Called(ctx)
	return args.Int(0)
}
