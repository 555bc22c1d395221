package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"fleetrent-backend/internal/domain"
)

type reservationRepository struct{ v view }

func (r *reservationRepository) Create(ctx context.Context, res *domain.Reservation) error {
	return r.v.do(func(d *dataset) error {
		for _, existing := range d.reservations {
			if existing.Number == res.Number {
				return fmt.Errorf("%s: %w", res.Number, domain.ErrDuplicateNumber)
			}
		}
		now := time.Now()
		res.ID = d.nextID()
		res.CreatedOn = now
		res.UpdatedOn = now
		stored := *res
		stored.AddOns = slices.Clone(res.AddOns)
		d.reservations[res.ID] = stored
		return nil
	})
}

func (r *reservationRepository) GetByID(ctx context.Context, id int32) (*domain.Reservation, error) {
	var out *domain.Reservation
	err := r.v.do(func(d *dataset) error {
		res, ok := d.reservations[id]
		if !ok {
			return fmt.Errorf("reservation %d: %w", id, domain.ErrNotFound)
		}
		res.AddOns = slices.Clone(res.AddOns)
		out = &res
		return nil
	})
	return out, err
}

func (r *reservationRepository) FindAll(ctx context.Context) ([]domain.Reservation, error) {
	return r.filter(func(domain.Reservation) bool { return true })
}

func (r *reservationRepository) FindByVehicle(ctx context.Context, vehicleID int32) ([]domain.Reservation, error) {
	return r.filter(func(res domain.Reservation) bool { return res.VehicleID == vehicleID })
}

func (r *reservationRepository) FindByCustomer(ctx context.Context, customerID int32) ([]domain.Reservation, error) {
	return r.filter(func(res domain.Reservation) bool { return res.CustomerID == customerID })
}

func (r *reservationRepository) filter(keep func(domain.Reservation) bool) ([]domain.Reservation, error) {
	var out []domain.Reservation
	err := r.v.do(func(d *dataset) error {
		for _, res := range d.reservations {
			if keep(res) {
				res.AddOns = slices.Clone(res.AddOns)
				out = append(out, res)
			}
		}
		return nil
	})
	slices.SortFunc(out, func(a, b domain.Reservation) int { return cmp.Compare(a.ID, b.ID) })
	return out, err
}

func (r *reservationRepository) UpdateStatus(ctx context.Context, id int32, from, to domain.ContractStatus) (bool, error) {
	var ok bool
	err := r.v.do(func(d *dataset) error {
		res, found := d.reservations[id]
		if !found || res.Status != from {
			return nil
		}
		res.Status = to
		res.UpdatedOn = time.Now()
		d.reservations[id] = res
		ok = true
		return nil
	})
	return ok, err
}

func (r *reservationRepository) Update(ctx context.Context, res *domain.Reservation) (bool, error) {
	var ok bool
	err := r.v.do(func(d *dataset) error {
		stored, found := d.reservations[res.ID]
		if !found || stored.Status != res.Status {
			return nil
		}
		stored.TotalPrice = res.TotalPrice
		stored.AddOns = slices.Clone(res.AddOns)
		stored.UpdatedOn = time.Now()
		d.reservations[res.ID] = stored
		res.UpdatedOn = stored.UpdatedOn
		ok = true
		return nil
	})
	return ok, err
}

type vehicleRepository struct{ v view }

func (r *vehicleRepository) FindAll(ctx context.Context) ([]domain.Vehicle, error) {
	var out []domain.Vehicle
	err := r.v.do(func(d *dataset) error {
		for _, v := range d.vehicles {
			out = append(out, copyVehicle(v))
		}
		return nil
	})
	slices.SortFunc(out, func(a, b domain.Vehicle) int { return cmp.Compare(a.ID, b.ID) })
	return out, err
}

func (r *vehicleRepository) GetByID(ctx context.Context, id int32) (*domain.Vehicle, error) {
	var out *domain.Vehicle
	err := r.v.do(func(d *dataset) error {
		v, ok := d.vehicles[id]
		if !ok {
			return fmt.Errorf("vehicle %d: %w", id, domain.ErrNotFound)
		}
		v = copyVehicle(v)
		out = &v
		return nil
	})
	return out, err
}

func (r *vehicleRepository) GetByPlate(ctx context.Context, plate string) (*domain.Vehicle, error) {
	var out *domain.Vehicle
	err := r.v.do(func(d *dataset) error {
		for _, v := range d.vehicles {
			if strings.EqualFold(v.Plate, plate) {
				v = copyVehicle(v)
				out = &v
				return nil
			}
		}
		return fmt.Errorf("vehicle %s: %w", plate, domain.ErrNotFound)
	})
	return out, err
}

func (r *vehicleRepository) UpdateStateAndMileage(ctx context.Context, v *domain.Vehicle) (bool, error) {
	var ok bool
	err := r.v.do(func(d *dataset) error {
		stored, found := d.vehicles[v.ID]
		if !found {
			return nil
		}
		stored.State = v.State
		stored.Mileage = v.Mileage
		d.vehicles[v.ID] = stored
		ok = true
		return nil
	})
	return ok, err
}

func copyVehicle(v domain.Vehicle) domain.Vehicle {
	if v.Category != nil {
		c := *v.Category
		v.Category = &c
	}
	return v
}

type customerRepository struct{ v view }

func (r *customerRepository) GetByID(ctx context.Context, id int32) (*domain.Customer, error) {
	var out *domain.Customer
	err := r.v.do(func(d *dataset) error {
		c, ok := d.customers[id]
		if !ok {
			return fmt.Errorf("customer %d: %w", id, domain.ErrNotFound)
		}
		out = &c
		return nil
	})
	return out, err
}

func (r *customerRepository) GetByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	var out *domain.Customer
	err := r.v.do(func(d *dataset) error {
		for _, c := range d.customers {
			if strings.EqualFold(c.Email, email) {
				out = &c
				return nil
			}
		}
		return fmt.Errorf("customer %s: %w", email, domain.ErrNotFound)
	})
	return out, err
}

func (r *customerRepository) UpdatePasswordHash(ctx context.Context, id int32, hash string) error {
	return r.v.do(func(d *dataset) error {
		c, ok := d.customers[id]
		if !ok {
			return fmt.Errorf("customer %d: %w", id, domain.ErrNotFound)
		}
		c.PasswordHash = hash
		d.customers[id] = c
		return nil
	})
}

type employeeRepository struct{ v view }

func (r *employeeRepository) GetByID(ctx context.Context, id int32) (*domain.Employee, error) {
	var out *domain.Employee
	err := r.v.do(func(d *dataset) error {
		e, ok := d.employees[id]
		if !ok {
			return fmt.Errorf("employee %d: %w", id, domain.ErrNotFound)
		}
		out = &e
		return nil
	})
	return out, err
}

func (r *employeeRepository) GetByEmail(ctx context.Context, email string) (*domain.Employee, error) {
	var out *domain.Employee
	err := r.v.do(func(d *dataset) error {
		for _, e := range d.employees {
			if strings.EqualFold(e.Email, email) {
				out = &e
				return nil
			}
		}
		return fmt.Errorf("employee %s: %w", email, domain.ErrNotFound)
	})
	return out, err
}

func (r *employeeRepository) UpdatePasswordHash(ctx context.Context, id int32, hash string) error {
	return r.v.do(func(d *dataset) error {
		e, ok := d.employees[id]
		if !ok {
			return fmt.Errorf("employee %d: %w", id, domain.ErrNotFound)
		}
		e.PasswordHash = hash
		d.employees[id] = e
		return nil
	})
}

type addOnRepository struct{ v view }

func (r *addOnRepository) List(ctx context.Context) ([]domain.AddOn, error) {
	var out []domain.AddOn
	err := r.v.do(func(d *dataset) error {
		for _, a := range d.addOns {
			out = append(out, a)
		}
		return nil
	})
	slices.SortFunc(out, func(a, b domain.AddOn) int { return cmp.Compare(a.ID, b.ID) })
	return out, err
}

func (r *addOnRepository) GetByIDs(ctx context.Context, ids []int32) ([]domain.AddOn, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var out []domain.AddOn
	err := r.v.do(func(d *dataset) error {
		seen := map[int32]bool{}
		for _, id := range ids {
			if seen[id] {
				continue
			}
			seen[id] = true
			a, ok := d.addOns[id]
			if !ok {
				return fmt.Errorf("add-on %d: %w", id, domain.ErrNotFound)
			}
			out = append(out, a)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
