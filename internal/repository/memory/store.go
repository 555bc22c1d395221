// Package memory is an in-process repository.Store used for local runs
// and tests. Transactions work on a copy of the data that replaces the live
// copy on commit.
package memory

import (
	"context"
	"maps"
	"sync"

	"fleetrent-backend/internal/domain"
	"fleetrent-backend/internal/repository"
)

type dataset struct {
	reservations map[int32]domain.Reservation
	vehicles     map[int32]domain.Vehicle
	customers    map[int32]domain.Customer
	employees    map[int32]domain.Employee
	addOns       map[int32]domain.AddOn
	lastID       int32
}

func newDataset() *dataset {
	return &dataset{
		reservations: map[int32]domain.Reservation{},
		vehicles:     map[int32]domain.Vehicle{},
		customers:    map[int32]domain.Customer{},
		employees:    map[int32]domain.Employee{},
		addOns:       map[int32]domain.AddOn{},
	}
}

func (d *dataset) clone() *dataset {
	return &dataset{
		reservations: maps.Clone(d.reservations),
		vehicles:     maps.Clone(d.vehicles),
		customers:    maps.Clone(d.customers),
		employees:    maps.Clone(d.employees),
		addOns:       maps.Clone(d.addOns),
		lastID:       d.lastID,
	}
}

func (d *dataset) nextID() int32 {
	d.lastID++
	return d.lastID
}

// claim returns id, or a fresh one when id is zero, keeping later fresh
// IDs clear of it.
func (d *dataset) claim(id int32) int32 {
	if id == 0 {
		return d.nextID()
	}
	if id > d.lastID {
		d.lastID = id
	}
	return id
}

type Store struct {
	mu   sync.Mutex
	data *dataset
}

func NewStore() *Store {
	return &Store{data: newDataset()}
}

func (s *Store) Repos() repository.Repositories {
	return newRepositories(view{store: s})
}

func (s *Store) WithinTransaction(ctx context.Context, fn func(repos repository.Repositories) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	working := s.data.clone()
	if err := fn(newRepositories(view{tx: working})); err != nil {
		return err
	}
	s.data = working
	return nil
}

func newRepositories(v view) repository.Repositories {
	return repository.Repositories{
		Reservations: &reservationRepository{v},
		Vehicles:     &vehicleRepository{v},
		Customers:    &customerRepository{v},
		Employees:    &employeeRepository{v},
		AddOns:       &addOnRepository{v},
	}
}

// view resolves the dataset a repository works on: the transaction copy
// when one is open, otherwise the store's live data under its lock.
type view struct {
	store *Store
	tx    *dataset
}

func (v view) do(fn func(d *dataset) error) error {
	if v.tx != nil {
		return fn(v.tx)
	}
	v.store.mu.Lock()
	defer v.store.mu.Unlock()
	return fn(v.store.data)
}

// AddVehicle seeds a vehicle, assigning an ID when none is set.
func (s *Store) AddVehicle(v domain.Vehicle) domain.Vehicle {
	s.mu.Lock()
	defer s.mu.Unlock()
	v.ID = s.data.claim(v.ID)
	if v.Category != nil {
		c := *v.Category
		v.Category = &c
		v.CategoryID = c.ID
	}
	s.data.vehicles[v.ID] = v
	return v
}

func (s *Store) AddCustomer(c domain.Customer) domain.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = s.data.claim(c.ID)
	s.data.customers[c.ID] = c
	return c
}

func (s *Store) AddEmployee(e domain.Employee) domain.Employee {
	s.mu.Lock()
	defer s.mu.Unlock()
	e.ID = s.data.claim(e.ID)
	s.data.employees[e.ID] = e
	return e
}

func (s *Store) AddAddOn(a domain.AddOn) domain.AddOn {
	s.mu.Lock()
	defer s.mu.Unlock()
	a.ID = s.data.claim(a.ID)
	s.data.addOns[a.ID] = a
	return a
}

// AddReservation stores r as is, bypassing the number uniqueness check.
func (s *Store) AddReservation(r domain.Reservation) domain.Reservation {
	s.mu.Lock()
	defer s.mu.Unlock()
	r.ID = s.data.claim(r.ID)
	s.data.reservations[r.ID] = r
	return r
}
