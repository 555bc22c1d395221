package memory

import (
	"fmt"
	"os"
	"time"

	"fleetrent-backend/internal/domain"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Fixture is the YAML seed format for a memory store.
type Fixture struct {
	Categories []struct {
		ID        int32  `yaml:"id"`
		Name      string `yaml:"name"`
		DailyRate string `yaml:"daily_rate"`
	} `yaml:"categories"`
	Vehicles []struct {
		ID       int32  `yaml:"id"`
		Plate    string `yaml:"plate"`
		Make     string `yaml:"make"`
		Model    string `yaml:"model"`
		Year     int32  `yaml:"year"`
		Category int32  `yaml:"category"`
		State    string `yaml:"state"`
		Mileage  int32  `yaml:"mileage"`
	} `yaml:"vehicles"`
	AddOns []struct {
		ID             int32  `yaml:"id"`
		Name           string `yaml:"name"`
		DailySurcharge string `yaml:"daily_surcharge"`
	} `yaml:"add_ons"`
	Customers []struct {
		ID            int32  `yaml:"id"`
		Name          string `yaml:"name"`
		Email         string `yaml:"email"`
		PasswordHash  string `yaml:"password_hash"`
		BirthDate     string `yaml:"birth_date"`
		LicenseNumber string `yaml:"license_number"`
		Inactive      bool   `yaml:"inactive"`
	} `yaml:"customers"`
	Employees []struct {
		ID           int32  `yaml:"id"`
		Name         string `yaml:"name"`
		Email        string `yaml:"email"`
		PasswordHash string `yaml:"password_hash"`
		Position     string `yaml:"position"`
	} `yaml:"employees"`
}

// LoadFixture reads a YAML seed file into a new store.
func LoadFixture(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture file: %w", err)
	}
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse fixture file: %w", err)
	}
	s := NewStore()
	if err := s.Seed(f); err != nil {
		return nil, err
	}
	return s, nil
}

// Seed adds every record of f to the store.
func (s *Store) Seed(f Fixture) error {
	categories := map[int32]*domain.Category{}
	for _, c := range f.Categories {
		rate, err := decimal.NewFromString(c.DailyRate)
		if err != nil {
			return fmt.Errorf("category %q: invalid daily rate: %w", c.Name, err)
		}
		categories[c.ID] = &domain.Category{ID: c.ID, Name: c.Name, DailyRate: rate}
	}

	for _, v := range f.Vehicles {
		category, ok := categories[v.Category]
		if !ok {
			return fmt.Errorf("vehicle %s: unknown category %d", v.Plate, v.Category)
		}
		state := domain.VehicleState(v.State)
		if v.State == "" {
			state = domain.VehicleStateAvailable
		}
		if !state.IsValid() {
			return fmt.Errorf("vehicle %s: invalid state %q", v.Plate, v.State)
		}
		s.AddVehicle(domain.Vehicle{
			ID: v.ID, Plate: v.Plate, Make: v.Make, Model: v.Model, Year: v.Year,
			Category: category, State: state, Mileage: v.Mileage, CreatedOn: time.Now(),
		})
	}

	for _, a := range f.AddOns {
		surcharge, err := decimal.NewFromString(a.DailySurcharge)
		if err != nil {
			return fmt.Errorf("add-on %q: invalid surcharge: %w", a.Name, err)
		}
		s.AddAddOn(domain.AddOn{ID: a.ID, Name: a.Name, DailySurcharge: surcharge})
	}

	for _, c := range f.Customers {
		var birth time.Time
		if c.BirthDate != "" {
			var err error
			if birth, err = time.Parse(domain.DateLayout, c.BirthDate); err != nil {
				return fmt.Errorf("customer %s: invalid birth date: %w", c.Email, err)
			}
		}
		s.AddCustomer(domain.Customer{
			ID: c.ID, Name: c.Name, Email: c.Email, PasswordHash: c.PasswordHash,
			BirthDate: birth, LicenseNumber: c.LicenseNumber, IsActive: !c.Inactive, CreatedOn: time.Now(),
		})
	}

	for _, e := range f.Employees {
		s.AddEmployee(domain.Employee{
			ID: e.ID, Name: e.Name, Email: e.Email, PasswordHash: e.PasswordHash,
			Position: e.Position, CreatedOn: time.Now(),
		})
	}
	return nil
}
