package http

import (
	"time"

	"fleetrent-backend/internal/domain"
	"fleetrent-backend/internal/service"
)

type addOnResponse struct {
	ID             int32  `json:"id"`
	Name           string `json:"name"`
	DailySurcharge string `json:"daily_surcharge"`
}

type reservationResponse struct {
	ID           int32           `json:"id"`
	Number       string          `json:"number"`
	StartDate    string          `json:"start_date"`
	EndDate      string          `json:"end_date"`
	DurationDays int             `json:"duration_days"`
	Status       string          `json:"status"`
	TotalPrice   string          `json:"total_price"`
	CustomerID   int32           `json:"customer_id"`
	VehicleID    int32           `json:"vehicle_id"`
	AddOns       []addOnResponse `json:"add_ons"`
	CreatedOn    time.Time       `json:"created_on"`
	UpdatedOn    time.Time       `json:"updated_on"`
}

type vehicleResponse struct {
	ID        int32  `json:"id"`
	Plate     string `json:"plate"`
	Make      string `json:"make"`
	Model     string `json:"model"`
	Year      int32  `json:"year"`
	Category  string `json:"category,omitempty"`
	DailyRate string `json:"daily_rate"`
	State     string `json:"state"`
	Mileage   int32  `json:"mileage"`
}

type quoteResponse struct {
	VehicleID    int32           `json:"vehicle_id"`
	StartDate    string          `json:"start_date"`
	EndDate      string          `json:"end_date"`
	Days         int             `json:"days"`
	DailyRate    string          `json:"daily_rate"`
	BaseCost     string          `json:"base_cost"`
	AddOnCost    string          `json:"add_on_cost"`
	Subtotal     string          `json:"subtotal"`
	DiscountRate string          `json:"discount_rate"`
	Discount     string          `json:"discount"`
	Total        string          `json:"total"`
	AddOns       []addOnResponse `json:"add_ons"`
}

type accountResponse struct {
	ID    int32  `json:"id"`
	Role  string `json:"role"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func toAddOnResponses(addOns []domain.AddOn) []addOnResponse {
	out := make([]addOnResponse, 0, len(addOns))
	for _, a := range addOns {
		out = append(out, addOnResponse{ID: a.ID, Name: a.Name, DailySurcharge: a.DailySurcharge.StringFixed(2)})
	}
	return out
}

func toReservationResponse(r *domain.Reservation) *reservationResponse {
	return &reservationResponse{
		ID:           r.ID,
		Number:       r.Number,
		StartDate:    r.Interval.Start().Format(domain.DateLayout),
		EndDate:      r.Interval.End().Format(domain.DateLayout),
		DurationDays: r.Interval.DurationDays(),
		Status:       r.Status.String(),
		TotalPrice:   r.TotalPrice.StringFixed(2),
		CustomerID:   r.CustomerID,
		VehicleID:    r.VehicleID,
		AddOns:       toAddOnResponses(r.AddOns),
		CreatedOn:    r.CreatedOn,
		UpdatedOn:    r.UpdatedOn,
	}
}

func toReservationResponses(rs []domain.Reservation) []*reservationResponse {
	out := make([]*reservationResponse, 0, len(rs))
	for i := range rs {
		out = append(out, toReservationResponse(&rs[i]))
	}
	return out
}

func toVehicleResponses(vs []domain.Vehicle) []vehicleResponse {
	out := make([]vehicleResponse, 0, len(vs))
	for i := range vs {
		v := &vs[i]
		resp := vehicleResponse{
			ID:        v.ID,
			Plate:     v.Plate,
			Make:      v.Make,
			Model:     v.Model,
			Year:      v.Year,
			DailyRate: v.DailyRate().StringFixed(2),
			State:     string(v.State),
			Mileage:   v.Mileage,
		}
		if v.Category != nil {
			resp.Category = v.Category.Name
		}
		out = append(out, resp)
	}
	return out
}

func toQuoteResponse(q *service.PriceQuote) quoteResponse {
	b := q.Breakdown
	return quoteResponse{
		VehicleID:    q.VehicleID,
		StartDate:    q.Interval.Start().Format(domain.DateLayout),
		EndDate:      q.Interval.End().Format(domain.DateLayout),
		Days:         b.Days,
		DailyRate:    b.DailyRate.StringFixed(2),
		BaseCost:     b.BaseCost.StringFixed(2),
		AddOnCost:    b.AddOnCost.StringFixed(2),
		Subtotal:     b.Subtotal.StringFixed(2),
		DiscountRate: b.DiscountRate.StringFixed(2),
		Discount:     b.Discount.StringFixed(2),
		Total:        b.Total.StringFixed(2),
		AddOns:       toAddOnResponses(q.AddOns),
	}
}
