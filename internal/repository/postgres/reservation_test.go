package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"fleetrent-backend/internal/domain"
	"fleetrent-backend/internal/repository"
	"fleetrent-backend/internal/repository/postgres"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var reservationCols = []string{"id", "number", "start_date", "end_date", "status", "total_price", "customer_id", "vehicle_id", "add_on_ids", "created_on", "updated_on"}

func day(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func newReservation(t *testing.T) *domain.Reservation {
	i, err := domain.ParseInterval("2024-05-01", "2024-05-06")
	require.NoError(t, err)
	return &domain.Reservation{
		Number:     "RES-20240501-ABCDEF12",
		Interval:   i,
		Status:     domain.ContractStatusCreated,
		TotalPrice: decimal.RequireFromString("250.00"),
		CustomerID: 3,
		VehicleID:  2,
	}
}

func TestReservationRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewReservationRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		res := newReservation(t)

		mock.ExpectQuery("INSERT INTO reservations").
			WithArgs(res.Number, day("2024-05-01"), day("2024-05-06"), domain.ContractStatusCreated, sqlmock.AnyArg(), int32(3), int32(2), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

		err := repo.Create(ctx, res)
		assert.NoError(t, err)
		assert.Equal(t, int32(1), res.ID)
		assert.False(t, res.CreatedOn.IsZero())
	})

	t.Run("Duplicate number", func(t *testing.T) {
		res := newReservation(t)

		mock.ExpectQuery("INSERT INTO reservations").
			WillReturnError(&pq.Error{Code: "23505", Constraint: "reservations_number_key"})

		err := repo.Create(ctx, res)
		assert.ErrorIs(t, err, domain.ErrDuplicateNumber)
	})

	t.Run("Other failure", func(t *testing.T) {
		res := newReservation(t)

		mock.ExpectQuery("INSERT INTO reservations").
			WillReturnError(errors.New("connection refused"))

		err := repo.Create(ctx, res)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrDuplicateNumber)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewReservationRepository(db)
	ctx := context.Background()

	t.Run("Success with add-ons", func(t *testing.T) {
		rows := sqlmock.NewRows(reservationCols).
			AddRow(1, "RES-1", day("2024-05-01"), day("2024-05-11"), "CONFIRMED", "522.50", 3, 2, "{7}", time.Now(), time.Now())
		mock.ExpectQuery("SELECT (.+) FROM reservations WHERE id = \\$1").
			WithArgs(int32(1)).
			WillReturnRows(rows)
		mock.ExpectQuery("SELECT id, name, daily_surcharge FROM add_ons WHERE id = ANY").
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "daily_surcharge"}).AddRow(7, "GPS", "5.00"))

		res, err := repo.GetByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, domain.ContractStatusConfirmed, res.Status)
		assert.Equal(t, 10, res.Interval.DurationDays())
		assert.True(t, res.TotalPrice.Equal(decimal.RequireFromString("522.50")))
		require.Len(t, res.AddOns, 1)
		assert.Equal(t, "GPS", res.AddOns[0].Name)
	})

	t.Run("Not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM reservations WHERE id = \\$1").
			WithArgs(int32(99)).
			WillReturnRows(sqlmock.NewRows(reservationCols))

		_, err := repo.GetByID(ctx, 99)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationRepository_FindByVehicle(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewReservationRepository(db)

	rows := sqlmock.NewRows(reservationCols).
		AddRow(1, "RES-1", day("2024-05-01"), day("2024-05-03"), "CANCELLED", "100", 3, 2, nil, time.Now(), time.Now()).
		AddRow(2, "RES-2", day("2024-05-10"), day("2024-05-12"), "CREATED", "100", 4, 2, "{}", time.Now(), time.Now())
	mock.ExpectQuery("SELECT (.+) FROM reservations WHERE vehicle_id = \\$1").
		WithArgs(int32(2)).
		WillReturnRows(rows)

	list, err := repo.FindByVehicle(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, domain.ContractStatusCancelled, list[0].Status)
	assert.Empty(t, list[1].AddOns)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationRepository_UpdateStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewReservationRepository(db)
	ctx := context.Background()

	t.Run("Applied", func(t *testing.T) {
		mock.ExpectExec("UPDATE reservations SET status").
			WithArgs(domain.ContractStatusActive, sqlmock.AnyArg(), int32(1), domain.ContractStatusConfirmed).
			WillReturnResult(sqlmock.NewResult(0, 1))

		ok, err := repo.UpdateStatus(ctx, 1, domain.ContractStatusConfirmed, domain.ContractStatusActive)
		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("Status already moved", func(t *testing.T) {
		mock.ExpectExec("UPDATE reservations SET status").
			WithArgs(domain.ContractStatusActive, sqlmock.AnyArg(), int32(1), domain.ContractStatusConfirmed).
			WillReturnResult(sqlmock.NewResult(0, 0))

		ok, err := repo.UpdateStatus(ctx, 1, domain.ContractStatusConfirmed, domain.ContractStatusActive)
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_WithinTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	store := postgres.NewStore(db)
	ctx := context.Background()

	t.Run("Commit", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE reservations SET status").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("UPDATE vehicles SET state").
			WithArgs(domain.VehicleStateRented, int32(1000), int32(2)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := store.WithinTransaction(ctx, func(repos repository.Repositories) error {
			if _, err := repos.Reservations.UpdateStatus(ctx, 1, domain.ContractStatusCreated, domain.ContractStatusConfirmed); err != nil {
				return err
			}
			_, err := repos.Vehicles.UpdateStateAndMileage(ctx, &domain.Vehicle{ID: 2, State: domain.VehicleStateRented, Mileage: 1000})
			return err
		})
		assert.NoError(t, err)
	})

	t.Run("Rollback on error", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE reservations SET status").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("UPDATE vehicles SET state").WillReturnError(errors.New("deadlock detected"))
		mock.ExpectRollback()

		err := store.WithinTransaction(ctx, func(repos repository.Repositories) error {
			if _, err := repos.Reservations.UpdateStatus(ctx, 1, domain.ContractStatusCreated, domain.ContractStatusConfirmed); err != nil {
				return err
			}
			_, err := repos.Vehicles.UpdateStateAndMileage(ctx, &domain.Vehicle{ID: 2, State: domain.VehicleStateRented})
			return err
		})
		assert.EqualError(t, err, "deadlock detected")
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
