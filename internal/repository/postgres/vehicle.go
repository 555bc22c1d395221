package postgres

import (
	"context"
	"time"

	"fleetrent-backend/internal/domain"
	"fleetrent-backend/internal/logger"
	"fleetrent-backend/internal/repository"
)

const vehicleSelect = `SELECT v.id, v.plate, v.make, v.model, v.year, v.category_id, c.name, c.daily_rate, v.state, v.mileage, v.created_on
	FROM vehicles v JOIN categories c ON c.id = v.category_id`

type vehicleRepository struct {
	db DBTX
}

func NewVehicleRepository(db DBTX) repository.VehicleRepository {
	return &vehicleRepository{db: db}
}

func (r *vehicleRepository) FindAll(ctx context.Context) ([]domain.Vehicle, error) {
	logger.DatabaseCall("SELECT", "vehicles")
	rows, err := r.db.QueryContext(ctx, vehicleSelect+` ORDER BY v.id`)
	if err != nil {
		logger.DatabaseResult("SELECT", 0, err)
		return nil, err
	}
	defer rows.Close()

	var vehicles []domain.Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		vehicles = append(vehicles, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	logger.DatabaseResult("SELECT", int64(len(vehicles)), nil)
	return vehicles, nil
}

func (r *vehicleRepository) GetByID(ctx context.Context, id int32) (*domain.Vehicle, error) {
	v, err := scanVehicle(r.db.QueryRowContext(ctx, vehicleSelect+` WHERE v.id = $1`, id))
	if err != nil {
		return nil, notFound(err, "vehicle", id)
	}
	return v, nil
}

func (r *vehicleRepository) GetByPlate(ctx context.Context, plate string) (*domain.Vehicle, error) {
	v, err := scanVehicle(r.db.QueryRowContext(ctx, vehicleSelect+` WHERE UPPER(v.plate) = UPPER($1)`, plate))
	if err != nil {
		return nil, notFound(err, "vehicle", plate)
	}
	return v, nil
}

func (r *vehicleRepository) UpdateStateAndMileage(ctx context.Context, v *domain.Vehicle) (bool, error) {
	query := `UPDATE vehicles SET state = $1, mileage = $2 WHERE id = $3`
	logger.DatabaseCall("UPDATE", "vehicles", "id", v.ID, "state", v.State)
	result, err := r.db.ExecContext(ctx, query, v.State, v.Mileage, v.ID)
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err, "id", v.ID)
		return false, err
	}
	return affected(result)
}

func scanVehicle(row rowScanner) (*domain.Vehicle, error) {
	v := &domain.Vehicle{Category: &domain.Category{}}
	var createdOn time.Time
	err := row.Scan(&v.ID, &v.Plate, &v.Make, &v.Model, &v.Year, &v.CategoryID,
		&v.Category.Name, &v.Category.DailyRate, &v.State, &v.Mileage, &createdOn)
	if err != nil {
		return nil, err
	}
	v.Category.ID = v.CategoryID
	v.CreatedOn = createdOn
	return v, nil
}
