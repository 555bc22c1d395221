package postgres

import (
	"context"
	"fmt"
	"time"

	"fleetrent-backend/internal/domain"
	"fleetrent-backend/internal/logger"
	"fleetrent-backend/internal/repository"

	"github.com/lib/pq"
)

const reservationColumns = `id, number, start_date, end_date, status, total_price, customer_id, vehicle_id, add_on_ids, created_on, updated_on`

type reservationRepository struct {
	db DBTX
}

func NewReservationRepository(db DBTX) repository.ReservationRepository {
	return &reservationRepository{db: db}
}

func (r *reservationRepository) Create(ctx context.Context, res *domain.Reservation) error {
	query := `INSERT INTO reservations (number, start_date, end_date, status, total_price, customer_id, vehicle_id, add_on_ids, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`
	now := time.Now()
	logger.DatabaseCall("INSERT", "reservations", "number", res.Number)
	err := r.db.QueryRowContext(ctx, query,
		res.Number, res.Interval.Start(), res.Interval.End(), res.Status, res.TotalPrice,
		res.CustomerID, res.VehicleID, pq.Array(res.AddOnIDs()), now, now,
	).Scan(&res.ID)
	if err != nil {
		logger.DatabaseResult("INSERT", 0, err, "number", res.Number)
		if isUniqueViolation(err) {
			return fmt.Errorf("%s: %w", res.Number, domain.ErrDuplicateNumber)
		}
		return err
	}
	res.CreatedOn = now
	res.UpdatedOn = now
	logger.DatabaseResult("INSERT", 1, nil, "id", res.ID)
	return nil
}

func (r *reservationRepository) GetByID(ctx context.Context, id int32) (*domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`
	res, ids, err := scanReservation(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err, "reservation", id)
	}
	list := []domain.Reservation{res}
	if err := r.attachAddOns(ctx, list, [][]int32{ids}); err != nil {
		return nil, err
	}
	return &list[0], nil
}

func (r *reservationRepository) FindAll(ctx context.Context) ([]domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations ORDER BY id`
	return r.list(ctx, "FindAll", query)
}

func (r *reservationRepository) FindByVehicle(ctx context.Context, vehicleID int32) ([]domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE vehicle_id = $1 ORDER BY start_date`
	return r.list(ctx, "FindByVehicle", query, vehicleID)
}

func (r *reservationRepository) FindByCustomer(ctx context.Context, customerID int32) ([]domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE customer_id = $1 ORDER BY start_date`
	return r.list(ctx, "FindByCustomer", query, customerID)
}

func (r *reservationRepository) UpdateStatus(ctx context.Context, id int32, from, to domain.ContractStatus) (bool, error) {
	query := `UPDATE reservations SET status = $1, updated_on = $2 WHERE id = $3 AND status = $4`
	logger.DatabaseCall("UPDATE", "reservations.status", "id", id, "from", from, "to", to)
	result, err := r.db.ExecContext(ctx, query, to, time.Now(), id, from)
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err, "id", id)
		return false, err
	}
	return affected(result)
}

func (r *reservationRepository) Update(ctx context.Context, res *domain.Reservation) (bool, error) {
	query := `UPDATE reservations SET total_price = $1, add_on_ids = $2, updated_on = $3 WHERE id = $4 AND status = $5`
	now := time.Now()
	result, err := r.db.ExecContext(ctx, query, res.TotalPrice, pq.Array(res.AddOnIDs()), now, res.ID, res.Status)
	if err != nil {
		return false, err
	}
	ok, err := affected(result)
	if ok {
		res.UpdatedOn = now
	}
	return ok, err
}

func (r *reservationRepository) list(ctx context.Context, op, query string, args ...any) ([]domain.Reservation, error) {
	logger.DatabaseCall("SELECT", "reservations", "op", op)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.DatabaseResult("SELECT", 0, err, "op", op)
		return nil, err
	}
	defer rows.Close()

	var reservations []domain.Reservation
	var addOnIDs [][]int32
	for rows.Next() {
		res, ids, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		reservations = append(reservations, res)
		addOnIDs = append(addOnIDs, ids)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// Close before hydrating: a transaction allows one open result set.
	rows.Close()

	if err := r.attachAddOns(ctx, reservations, addOnIDs); err != nil {
		return nil, err
	}
	logger.DatabaseResult("SELECT", int64(len(reservations)), nil, "op", op)
	return reservations, nil
}

// attachAddOns loads every add-on referenced by reservations in one query.
func (r *reservationRepository) attachAddOns(ctx context.Context, reservations []domain.Reservation, ids [][]int32) error {
	seen := map[int32]bool{}
	var all []int32
	for _, set := range ids {
		for _, id := range set {
			if !seen[id] {
				seen[id] = true
				all = append(all, id)
			}
		}
	}
	if len(all) == 0 {
		return nil
	}

	byID, err := loadAddOns(ctx, r.db, all)
	if err != nil {
		return err
	}
	for i := range reservations {
		for _, id := range ids[i] {
			if a, ok := byID[id]; ok {
				reservations[i].AddOns = append(reservations[i].AddOns, a)
			}
		}
	}
	return nil
}

func scanReservation(row rowScanner) (domain.Reservation, []int32, error) {
	var res domain.Reservation
	var start, end time.Time
	var addOnIDs []int32
	err := row.Scan(&res.ID, &res.Number, &start, &end, &res.Status, &res.TotalPrice,
		&res.CustomerID, &res.VehicleID, pq.Array(&addOnIDs), &res.CreatedOn, &res.UpdatedOn)
	if err != nil {
		return res, nil, err
	}
	res.Interval, err = domain.NewInterval(start, end)
	if err != nil {
		return res, nil, fmt.Errorf("reservation %d: %w", res.ID, err)
	}
	return res, addOnIDs, nil
}
