package memory

import (
	"context"
	"errors"
	"testing"

	"fleetrent-backend/internal/domain"
	"fleetrent-backend/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedReservation(t *testing.T, s *Store, number string) domain.Reservation {
	t.Helper()
	i, err := domain.ParseInterval("2024-05-01", "2024-05-03")
	require.NoError(t, err)
	res := &domain.Reservation{
		Number:     number,
		Interval:   i,
		Status:     domain.ContractStatusCreated,
		TotalPrice: decimal.NewFromInt(100),
		CustomerID: 1,
		VehicleID:  2,
	}
	require.NoError(t, s.Repos().Reservations.Create(context.Background(), res))
	return *res
}

func TestReservationRepository_Create(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	res := seedReservation(t, s, "RES-1")
	assert.NotZero(t, res.ID)

	dup := res
	dup.ID = 0
	err := s.Repos().Reservations.Create(ctx, &dup)
	assert.ErrorIs(t, err, domain.ErrDuplicateNumber)

	found, err := s.Repos().Reservations.FindByVehicle(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, found, 1)
}

func TestReservationRepository_UpdateStatusCompareAndSet(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	res := seedReservation(t, s, "RES-1")
	repo := s.Repos().Reservations

	ok, err := repo.UpdateStatus(ctx, res.ID, domain.ContractStatusCreated, domain.ContractStatusConfirmed)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.UpdateStatus(ctx, res.ID, domain.ContractStatusCreated, domain.ContractStatusCancelled)
	require.NoError(t, err)
	assert.False(t, ok, "stale from status must not apply")

	got, err := repo.GetByID(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ContractStatusConfirmed, got.Status)

	_, err = repo.GetByID(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_WithinTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("Commit publishes all writes", func(t *testing.T) {
		s := NewStore()
		v := s.AddVehicle(domain.Vehicle{Plate: "P-1", State: domain.VehicleStateAvailable})
		res := seedReservation(t, s, "RES-1")

		err := s.WithinTransaction(ctx, func(repos repository.Repositories) error {
			if _, err := repos.Reservations.UpdateStatus(ctx, res.ID, domain.ContractStatusCreated, domain.ContractStatusConfirmed); err != nil {
				return err
			}
			v.State = domain.VehicleStateRented
			_, err := repos.Vehicles.UpdateStateAndMileage(ctx, &v)
			return err
		})
		require.NoError(t, err)

		got, _ := s.Repos().Vehicles.GetByID(ctx, v.ID)
		assert.Equal(t, domain.VehicleStateRented, got.State)
		gotRes, _ := s.Repos().Reservations.GetByID(ctx, res.ID)
		assert.Equal(t, domain.ContractStatusConfirmed, gotRes.Status)
	})

	t.Run("Error discards all writes", func(t *testing.T) {
		s := NewStore()
		res := seedReservation(t, s, "RES-1")
		boom := errors.New("boom")

		err := s.WithinTransaction(ctx, func(repos repository.Repositories) error {
			if _, err := repos.Reservations.UpdateStatus(ctx, res.ID, domain.ContractStatusCreated, domain.ContractStatusConfirmed); err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)

		got, _ := s.Repos().Reservations.GetByID(ctx, res.ID)
		assert.Equal(t, domain.ContractStatusCreated, got.Status)
	})

	t.Run("Cancelled context", func(t *testing.T) {
		s := NewStore()
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		called := false
		err := s.WithinTransaction(cctx, func(repository.Repositories) error {
			called = true
			return nil
		})
		assert.ErrorIs(t, err, context.Canceled)
		assert.False(t, called)
	})
}

func TestAddOnRepository_GetByIDs(t *testing.T) {
	s := NewStore()
	gps := s.AddAddOn(domain.AddOn{Name: "GPS", DailySurcharge: decimal.NewFromInt(5)})
	seat := s.AddAddOn(domain.AddOn{Name: "Child seat", DailySurcharge: decimal.NewFromInt(3)})
	repo := s.Repos().AddOns

	got, err := repo.GetByIDs(context.Background(), []int32{seat.ID, gps.ID, seat.ID})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, seat.ID, got[0].ID)

	_, err = repo.GetByIDs(context.Background(), []int32{404})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAccounts_LookupIsCaseInsensitive(t *testing.T) {
	s := NewStore()
	c := s.AddCustomer(domain.Customer{Email: "Ana@Example.com"})
	e := s.AddEmployee(domain.Employee{Email: "desk@example.com"})

	got, err := s.Repos().Customers.GetByEmail(context.Background(), "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)

	require.NoError(t, s.Repos().Employees.UpdatePasswordHash(context.Background(), e.ID, "h2"))
	emp, _ := s.Repos().Employees.GetByID(context.Background(), e.ID)
	assert.Equal(t, "h2", emp.PasswordHash)
}
