package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"fleetrent-backend/internal/domain"
	"fleetrent-backend/internal/repository"
)

type customerRepository struct {
	db DBTX
}

func NewCustomerRepository(db DBTX) repository.CustomerRepository {
	return &customerRepository{db: db}
}

const customerSelect = `SELECT id, name, email, password_hash, birth_date, COALESCE(license_number, ''), is_active, created_on FROM customers`

func (r *customerRepository) GetByID(ctx context.Context, id int32) (*domain.Customer, error) {
	c, err := scanCustomer(r.db.QueryRowContext(ctx, customerSelect+` WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err, "customer", id)
	}
	return c, nil
}

func (r *customerRepository) GetByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	c, err := scanCustomer(r.db.QueryRowContext(ctx, customerSelect+` WHERE LOWER(email) = LOWER($1)`, email))
	if err != nil {
		return nil, notFound(err, "customer", email)
	}
	return c, nil
}

func (r *customerRepository) UpdatePasswordHash(ctx context.Context, id int32, hash string) error {
	return updatePasswordHash(ctx, r.db, "customers", id, hash)
}

func scanCustomer(row rowScanner) (*domain.Customer, error) {
	c := &domain.Customer{}
	var birthDate sql.NullTime
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.PasswordHash, &birthDate, &c.LicenseNumber, &c.IsActive, &c.CreatedOn)
	if err != nil {
		return nil, err
	}
	if birthDate.Valid {
		c.BirthDate = birthDate.Time
	}
	return c, nil
}

type employeeRepository struct {
	db DBTX
}

func NewEmployeeRepository(db DBTX) repository.EmployeeRepository {
	return &employeeRepository{db: db}
}

const employeeSelect = `SELECT id, name, email, password_hash, COALESCE(position, ''), created_on FROM employees`

func (r *employeeRepository) GetByID(ctx context.Context, id int32) (*domain.Employee, error) {
	e := &domain.Employee{}
	err := r.db.QueryRowContext(ctx, employeeSelect+` WHERE id = $1`, id).
		Scan(&e.ID, &e.Name, &e.Email, &e.PasswordHash, &e.Position, &e.CreatedOn)
	if err != nil {
		return nil, notFound(err, "employee", id)
	}
	return e, nil
}

func (r *employeeRepository) GetByEmail(ctx context.Context, email string) (*domain.Employee, error) {
	e := &domain.Employee{}
	err := r.db.QueryRowContext(ctx, employeeSelect+` WHERE LOWER(email) = LOWER($1)`, email).
		Scan(&e.ID, &e.Name, &e.Email, &e.PasswordHash, &e.Position, &e.CreatedOn)
	if err != nil {
		return nil, notFound(err, "employee", email)
	}
	return e, nil
}

func (r *employeeRepository) UpdatePasswordHash(ctx context.Context, id int32, hash string) error {
	return updatePasswordHash(ctx, r.db, "employees", id, hash)
}

// table is one of the fixed account table names, never user input.
func updatePasswordHash(ctx context.Context, db DBTX, table string, id int32, hash string) error {
	result, err := db.ExecContext(ctx, `UPDATE `+table+` SET password_hash = $1 WHERE id = $2`, hash, id)
	if err != nil {
		return err
	}
	ok, err := affected(result)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s %d: %w", table, id, domain.ErrNotFound)
	}
	return nil
}
