package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type VehicleState string

const (
	VehicleStateAvailable   VehicleState = "AVAILABLE"
	VehicleStateRented      VehicleState = "RENTED"
	VehicleStateMaintenance VehicleState = "MAINTENANCE"
)

func (s VehicleState) IsValid() bool {
	switch s {
	case VehicleStateAvailable, VehicleStateRented, VehicleStateMaintenance:
		return true
	}
	return false
}

// Category groups vehicles sharing a daily base rate.
type Category struct {
	ID        int32           `json:"id"`
	Name      string          `json:"name"`
	DailyRate decimal.Decimal `json:"daily_rate"`
}

type Vehicle struct {
	ID         int32        `json:"id"`
	Plate      string       `json:"plate"`
	Make       string       `json:"make"`
	Model      string       `json:"model"`
	Year       int32        `json:"year"`
	CategoryID int32        `json:"category_id"`
	Category   *Category    `json:"category,omitempty"` // Populated when fetching vehicle details
	State      VehicleState `json:"state"`
	Mileage    int32        `json:"mileage"`
	CreatedOn  time.Time    `json:"created_on"`
}

// DailyRate returns the category rate, or zero when the category was not loaded.
func (v *Vehicle) DailyRate() decimal.Decimal {
	if v.Category == nil {
		return decimal.Zero
	}
	return v.Category.DailyRate
}
