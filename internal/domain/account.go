package domain

import "time"

// LegalAge is the minimum customer age used when none is configured.
const LegalAge = 18

type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleEmployee Role = "EMPLOYEE"
)

func (r Role) IsValid() bool {
	return r == RoleCustomer || r == RoleEmployee
}

type Customer struct {
	ID            int32     `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"-"`
	BirthDate     time.Time `json:"birth_date"`
	LicenseNumber string    `json:"license_number"`
	IsActive      bool      `json:"is_active"`
	CreatedOn     time.Time `json:"created_on"`
}

// IsOfLegalAge reports whether the customer has turned minAge on or before today.
func (c *Customer) IsOfLegalAge(today time.Time, minAge int) bool {
	if c.BirthDate.IsZero() {
		return false
	}
	birthday := DateOf(c.BirthDate).AddDate(minAge, 0, 0)
	return !birthday.After(DateOf(today))
}

type Employee struct {
	ID           int32     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Position     string    `json:"position"`
	CreatedOn    time.Time `json:"created_on"`
}

// Account is the role-tagged view shared by customers and employees for
// authentication.
type Account struct {
	Role         Role
	ID           int32
	Email        string
	Name         string
	PasswordHash string
}

func (c *Customer) Account() Account {
	return Account{Role: RoleCustomer, ID: c.ID, Email: c.Email, Name: c.Name, PasswordHash: c.PasswordHash}
}

func (e *Employee) Account() Account {
	return Account{Role: RoleEmployee, ID: e.ID, Email: e.Email, Name: e.Name, PasswordHash: e.PasswordHash}
}
