package service

import (
	"context"

	"fleetrent-backend/internal/domain"
	"fleetrent-backend/internal/repository"
	"fleetrent-backend/internal/repository/memory"
	"fleetrent-backend/internal/security"

	"github.com/stretchr/testify/mock"
)

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendReservationConfirmation(ctx context.Context, customer *domain.Customer, res *domain.Reservation, vehicle *domain.Vehicle) error {
	args := m.Called(ctx, customer, res, vehicle)
	return args.Error(0)
}

func (m *MockEmailService) SendReservationCancellation(ctx context.Context, customer *domain.Customer, res *domain.Reservation) error {
	args := m.Called(ctx, customer, res)
	return args.Error(0)
}

// MockTokenManager
type MockTokenManager struct {
	mock.Mock
}

func (m *MockTokenManager) GenerateAccessToken(account domain.Account) (string, error) {
	args := m.Called(account)
	return args.String(0), args.Error(1)
}

func (m *MockTokenManager) ValidateToken(tokenString string) (*security.AccountClaims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*security.AccountClaims), args.Error(1)
}

// faultyStore fails every vehicle write made inside a transaction.
type faultyStore struct {
	*memory.Store
	vehicleErr error
}

func (s *faultyStore) WithinTransaction(ctx context.Context, fn func(repos repository.Repositories) error) error {
	return s.Store.WithinTransaction(ctx, func(repos repository.Repositories) error {
		repos.Vehicles = &faultyVehicles{VehicleRepository: repos.Vehicles, err: s.vehicleErr}
		return fn(repos)
	})
}

type faultyVehicles struct {
	repository.VehicleRepository
	err error
}

func (f *faultyVehicles) UpdateStateAndMileage(ctx context.Context, v *domain.Vehicle) (bool, error) {
	return false, f.err
}
