package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ErrAddOnsLocked is returned when the add-ons of a reservation that is no
// longer a draft are changed.
var ErrAddOnsLocked = fmt.Errorf("%w: add-ons can only change before confirmation", ErrIllegalStateTransition)

type AddOn struct {
	ID             int32           `json:"id"`
	Name           string          `json:"name"`
	DailySurcharge decimal.Decimal `json:"daily_surcharge"`
}

type Reservation struct {
	ID         int32           `json:"id"`
	Number     string          `json:"number"`
	Interval   Interval        `json:"interval"`
	Status     ContractStatus  `json:"status"`
	TotalPrice decimal.Decimal `json:"total_price"`
	CustomerID int32           `json:"customer_id"`
	VehicleID  int32           `json:"vehicle_id"`
	AddOns     []AddOn         `json:"add_ons"`
	CreatedOn  time.Time       `json:"created_on"`
	UpdatedOn  time.Time       `json:"updated_on"`
}

// IsActive reports whether the reservation still holds its vehicle.
func (r *Reservation) IsActive() bool {
	return r.Status.IsActive()
}

// AddOnIDs lists the ids of the selected add-ons in order.
func (r *Reservation) AddOnIDs() []int32 {
	ids := make([]int32, 0, len(r.AddOns))
	for _, a := range r.AddOns {
		ids = append(ids, a.ID)
	}
	return ids
}

// WithAddOns returns a copy of a draft reservation carrying a new add-on
// selection and the price computed for it. Only CREATED contracts may be
// re-priced.
func (r Reservation) WithAddOns(addOns []AddOn, price decimal.Decimal) (Reservation, error) {
	if r.Status != ContractStatusCreated {
		return Reservation{}, fmt.Errorf("%w: reservation %s is %s", ErrAddOnsLocked, r.Number, r.Status)
	}
	r.AddOns = append([]AddOn(nil), addOns...)
	r.TotalPrice = price
	return r, nil
}
