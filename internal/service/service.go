package service

import (
	"context"

	"fleetrent-backend/internal/domain"
	"fleetrent-backend/internal/utils"
)

// CreateReservationRequest carries the raw booking input. Dates use the
// YYYY-MM-DD layout.
type CreateReservationRequest struct {
	CustomerID int32   `json:"customer_id"`
	VehicleID  int32   `json:"vehicle_id"`
	StartDate  string  `json:"start_date"`
	EndDate    string  `json:"end_date"`
	AddOnIDs   []int32 `json:"add_on_ids"`
}

// PriceQuote is a read-only price calculation for a vehicle and date range.
type PriceQuote struct {
	VehicleID int32               `json:"vehicle_id"`
	Interval  domain.Interval     `json:"interval"`
	AddOns    []domain.AddOn      `json:"add_ons"`
	Breakdown utils.PriceBreakdown `json:"breakdown"`
}

type ReservationService interface {
	// CreateReservation validates, prices, persists and confirms a booking.
	// When confirmation fails the stored CREATED reservation is returned
	// together with an error wrapping domain.ErrConfirmationFailed.
	CreateReservation(ctx context.Context, req CreateReservationRequest) (*domain.Reservation, error)
	ConfirmReservation(ctx context.Context, id int32) (*domain.Reservation, error)
	CancelReservation(ctx context.Context, id int32) (*domain.Reservation, error)
	CompleteReservation(ctx context.Context, id int32, endMileage int32) (*domain.Reservation, error)
	UpdateAddOns(ctx context.Context, id int32, addOnIDs []int32) (*domain.Reservation, error)
	GetReservation(ctx context.Context, id int32) (*domain.Reservation, error)
	ListCustomerReservations(ctx context.Context, customerID int32) ([]domain.Reservation, error)
	PreviewPrice(ctx context.Context, vehicleID int32, startDate, endDate string, addOnIDs []int32) (*PriceQuote, error)
	ListAvailableVehicles(ctx context.Context, startDate, endDate string) ([]domain.Vehicle, error)
	ListVehicles(ctx context.Context) ([]domain.Vehicle, error)
	ListAddOns(ctx context.Context) ([]domain.AddOn, error)
}

type AuthService interface {
	// Login checks customers first, then employees, and returns the account
	// together with a signed access token.
	Login(ctx context.Context, email, password string) (*domain.Account, string, error)
	ChangePassword(ctx context.Context, account domain.Account, oldPassword, newPassword string) error
}

type EmailService interface {
	SendReservationConfirmation(ctx context.Context, customer *domain.Customer, res *domain.Reservation, vehicle *domain.Vehicle) error
	SendReservationCancellation(ctx context.Context, customer *domain.Customer, res *domain.Reservation) error
}
