package repository

import (
	"context"

	"fleetrent-backend/internal/domain"
)

type ReservationRepository interface {
	// Create persists r and fills in its ID and timestamps. A clash on the
	// reservation number returns domain.ErrDuplicateNumber.
	Create(ctx context.Context, r *domain.Reservation) error
	GetByID(ctx context.Context, id int32) (*domain.Reservation, error)
	FindAll(ctx context.Context) ([]domain.Reservation, error)
	FindByVehicle(ctx context.Context, vehicleID int32) ([]domain.Reservation, error)
	FindByCustomer(ctx context.Context, customerID int32) ([]domain.Reservation, error)

	// UpdateStatus moves reservation id from one status to another only if
	// it is still in from. It reports false when the status had already
	// changed.
	UpdateStatus(ctx context.Context, id int32, from, to domain.ContractStatus) (bool, error)

	// Update rewrites the price and add-ons of a reservation still in r.Status.
	Update(ctx context.Context, r *domain.Reservation) (bool, error)
}

type VehicleRepository interface {
	FindAll(ctx context.Context) ([]domain.Vehicle, error)
	GetByID(ctx context.Context, id int32) (*domain.Vehicle, error)
	GetByPlate(ctx context.Context, plate string) (*domain.Vehicle, error)

	// UpdateStateAndMileage writes v.State and v.Mileage. It reports false
	// when the vehicle no longer exists.
	UpdateStateAndMileage(ctx context.Context, v *domain.Vehicle) (bool, error)
}

type CustomerRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.Customer, error)
	GetByEmail(ctx context.Context, email string) (*domain.Customer, error)
	UpdatePasswordHash(ctx context.Context, id int32, hash string) error
}

type EmployeeRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.Employee, error)
	GetByEmail(ctx context.Context, email string) (*domain.Employee, error)
	UpdatePasswordHash(ctx context.Context, id int32, hash string) error
}

type AddOnRepository interface {
	List(ctx context.Context) ([]domain.AddOn, error)
	// GetByIDs returns the add-ons in the order of ids. Unknown ids return
	// domain.ErrNotFound.
	GetByIDs(ctx context.Context, ids []int32) ([]domain.AddOn, error)
}

// Repositories bundles the repositories bound to one connection or
// transaction.
type Repositories struct {
	Reservations ReservationRepository
	Vehicles     VehicleRepository
	Customers    CustomerRepository
	Employees    EmployeeRepository
	AddOns       AddOnRepository
}

// Transactor runs fn against repositories bound to a single transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(repos Repositories) error) error
}

// Store is what the services and jobs are built on.
type Store interface {
	Transactor
	Repos() Repositories
}
