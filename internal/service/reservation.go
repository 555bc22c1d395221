package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fleetrent-backend/internal/availability"
	"fleetrent-backend/internal/clock"
	"fleetrent-backend/internal/config"
	"fleetrent-backend/internal/domain"
	"fleetrent-backend/internal/logger"
	"fleetrent-backend/internal/metrics"
	"fleetrent-backend/internal/repository"
	"fleetrent-backend/internal/utils"

	"github.com/google/uuid"
)

const maxNumberAttempts = 5

type reservationService struct {
	store     repository.Store
	contracts *ContractManager
	clock     clock.Clock
	rules     config.RentalConfig
	emailSvc  EmailService
	metrics   *metrics.Metrics
	newNumber func(day time.Time) string
}

func NewReservationService(
	store repository.Store,
	contracts *ContractManager,
	clk clock.Clock,
	rules config.RentalConfig,
	emailSvc EmailService,
	m *metrics.Metrics,
) ReservationService {
	if rules.MaxDurationDays <= 0 {
		rules.MaxDurationDays = 90
	}
	if rules.LegalAge <= 0 {
		rules.LegalAge = domain.LegalAge
	}
	if rules.NumberPrefix == "" {
		rules.NumberPrefix = "RES"
	}
	if emailSvc == nil {
		emailSvc = NewNoopEmailService()
	}
	s := &reservationService{
		store:     store,
		contracts: contracts,
		clock:     clk,
		rules:     rules,
		emailSvc:  emailSvc,
		metrics:   m,
	}
	s.newNumber = s.generateNumber
	return s
}

// generateNumber builds PREFIX-YYYYMMDD-XXXXXXXX from the booking day and a
// random suffix.
func (s *reservationService) generateNumber(day time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:8]
	return fmt.Sprintf("%s-%s-%s", s.rules.NumberPrefix, day.Format("20060102"), suffix)
}

func (s *reservationService) CreateReservation(ctx context.Context, req CreateReservationRequest) (*domain.Reservation, error) {
	method := "reservationService.CreateReservation"
	logger.EnterMethod(method, "customerID", req.CustomerID, "vehicleID", req.VehicleID, "start", req.StartDate, "end", req.EndDate)

	res, err := s.createReservation(ctx, req)
	if err != nil {
		s.reportFailure(method, err, "customerID", req.CustomerID, "vehicleID", req.VehicleID)
		return res, err
	}

	logger.ExitMethod(method, "reservationID", res.ID, "number", res.Number, "total", res.TotalPrice.StringFixed(2))
	return res, nil
}

func (s *reservationService) createReservation(ctx context.Context, req CreateReservationRequest) (*domain.Reservation, error) {
	repos := s.store.Repos()
	today := s.clock.Today()

	if req.CustomerID <= 0 || req.VehicleID <= 0 || req.StartDate == "" || req.EndDate == "" {
		return nil, fmt.Errorf("%w: customer_id, vehicle_id, start_date and end_date are required", domain.ErrValidation)
	}
	start, err := utils.ParseDate(req.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := utils.ParseDate(req.EndDate)
	if err != nil {
		return nil, err
	}
	if start.Before(today) {
		return nil, fmt.Errorf("%w: %s is before %s", domain.ErrPastStartDate, req.StartDate, today.Format(domain.DateLayout))
	}
	interval, err := domain.NewInterval(start, end)
	if err != nil {
		return nil, err
	}
	if interval.DurationDays() > s.rules.MaxDurationDays {
		return nil, fmt.Errorf("%w: %d days requested, at most %d allowed", domain.ErrMaxDurationExceeded, interval.DurationDays(), s.rules.MaxDurationDays)
	}

	customer, err := repos.Customers.GetByID(ctx, req.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("customer %d: %w", req.CustomerID, err)
	}
	if !customer.IsActive {
		return nil, domain.ErrInactiveCustomer
	}
	if !customer.IsOfLegalAge(today, s.rules.LegalAge) {
		return nil, domain.ErrMinorCustomer
	}
	if strings.TrimSpace(customer.LicenseNumber) == "" {
		return nil, domain.ErrMissingLicense
	}

	vehicle, err := repos.Vehicles.GetByID(ctx, req.VehicleID)
	if err != nil {
		return nil, fmt.Errorf("vehicle %d: %w", req.VehicleID, err)
	}
	vehicleReservations, err := repos.Reservations.FindByVehicle(ctx, vehicle.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load reservations for vehicle %d: %w", vehicle.ID, err)
	}
	if !availability.IsAvailable(vehicle, interval, vehicleReservations) {
		return nil, domain.ErrVehicleUnavailable
	}

	customerReservations, err := repos.Reservations.FindByCustomer(ctx, customer.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load reservations for customer %d: %w", customer.ID, err)
	}
	if availability.HasCustomerOverlap(interval, customerReservations) {
		return nil, domain.ErrCustomerOverlap
	}

	addOns, err := repos.AddOns.GetByIDs(ctx, req.AddOnIDs)
	if err != nil {
		return nil, fmt.Errorf("add-ons: %w", err)
	}
	total, err := utils.CalculateRentalPrice(vehicle.DailyRate(), interval.DurationDays(), addOns)
	if err != nil {
		return nil, err
	}

	res := &domain.Reservation{
		Interval:   interval,
		Status:     domain.ContractStatusCreated,
		TotalPrice: total,
		CustomerID: customer.ID,
		VehicleID:  vehicle.ID,
		AddOns:     addOns,
	}
	if err := s.persist(ctx, repos, res, today); err != nil {
		return nil, err
	}
	s.metrics.RecordCreated()

	confirmed, err := s.contracts.Transition(ctx, res, TransitionRequest{To: domain.ContractStatusConfirmed, Source: SourceAPI})
	if err != nil {
		s.metrics.RecordConfirmationFailure()
		return res, fmt.Errorf("%w: reservation %s: %w", domain.ErrConfirmationFailed, res.Number, err)
	}

	s.notifyConfirmed(ctx, customer, confirmed, vehicle)
	return confirmed, nil
}

// persist stores res as CREATED, drawing a fresh number when one clashes.
func (s *reservationService) persist(ctx context.Context, repos repository.Repositories, res *domain.Reservation, today time.Time) error {
	var err error
	for attempt := 1; attempt <= maxNumberAttempts; attempt++ {
		res.Number = s.newNumber(today)
		logger.DatabaseCall("INSERT", "reservations", "number", res.Number, "attempt", attempt)
		err = repos.Reservations.Create(ctx, res)
		if !errors.Is(err, domain.ErrDuplicateNumber) {
			break
		}
		logger.Warn("Reservation number collision, retrying", "number", res.Number, "attempt", attempt)
	}
	if err != nil {
		return fmt.Errorf("failed to persist reservation: %w", err)
	}
	return nil
}

func (s *reservationService) ConfirmReservation(ctx context.Context, id int32) (*domain.Reservation, error) {
	method := "reservationService.ConfirmReservation"
	logger.EnterMethod(method, "reservationID", id)

	repos := s.store.Repos()
	res, err := repos.Reservations.GetByID(ctx, id)
	if err != nil {
		logger.ExitMethodWithError(method, err, "reservationID", id)
		return nil, err
	}
	if res.Status != domain.ContractStatusCreated {
		err := &domain.TransitionError{From: res.Status, To: domain.ContractStatusConfirmed, Reason: "only created reservations can be confirmed"}
		s.reportFailure(method, err, "reservationID", id)
		return nil, err
	}
	if today := s.clock.Today(); res.Interval.Start().Before(today) {
		err := fmt.Errorf("%w: reservation %s starts %s, before %s", domain.ErrPastStartDate, res.Number,
			res.Interval.Start().Format(domain.DateLayout), today.Format(domain.DateLayout))
		s.reportFailure(method, err, "reservationID", id)
		return nil, err
	}

	vehicle, err := repos.Vehicles.GetByID(ctx, res.VehicleID)
	if err != nil {
		logger.ExitMethodWithError(method, err, "reservationID", id)
		return nil, err
	}
	others, err := repos.Reservations.FindByVehicle(ctx, vehicle.ID)
	if err != nil {
		logger.ExitMethodWithError(method, err, "reservationID", id)
		return nil, err
	}
	if vehicle.State == domain.VehicleStateMaintenance || len(availability.Conflicts(res.Interval, others, res.ID)) > 0 {
		s.reportFailure(method, domain.ErrVehicleUnavailable, "reservationID", id)
		return nil, domain.ErrVehicleUnavailable
	}

	confirmed, err := s.contracts.Transition(ctx, res, TransitionRequest{To: domain.ContractStatusConfirmed, Source: SourceAPI})
	if err != nil {
		s.reportFailure(method, err, "reservationID", id)
		return nil, err
	}

	if customer, err := repos.Customers.GetByID(ctx, res.CustomerID); err == nil {
		s.notifyConfirmed(ctx, customer, confirmed, vehicle)
	}
	logger.ExitMethod(method, "reservationID", id)
	return confirmed, nil
}

func (s *reservationService) CancelReservation(ctx context.Context, id int32) (*domain.Reservation, error) {
	method := "reservationService.CancelReservation"
	logger.EnterMethod(method, "reservationID", id)

	cancelled, err := s.transitionLatest(ctx, id, TransitionRequest{To: domain.ContractStatusCancelled, Source: SourceAPI})
	if err != nil {
		s.reportFailure(method, err, "reservationID", id)
		return nil, err
	}

	if customer, err := s.store.Repos().Customers.GetByID(ctx, cancelled.CustomerID); err == nil {
		logger.ExternalServiceCall("email", "SendReservationCancellation", "reservationID", id)
		err := s.emailSvc.SendReservationCancellation(ctx, customer, cancelled)
		logger.ExternalServiceResult("email", "SendReservationCancellation", err, "reservationID", id)
	}
	logger.ExitMethod(method, "reservationID", id)
	return cancelled, nil
}

func (s *reservationService) CompleteReservation(ctx context.Context, id int32, endMileage int32) (*domain.Reservation, error) {
	method := "reservationService.CompleteReservation"
	logger.EnterMethod(method, "reservationID", id, "endMileage", endMileage)

	if endMileage < 0 {
		err := fmt.Errorf("%w: end mileage must not be negative", domain.ErrValidation)
		s.reportFailure(method, err, "reservationID", id)
		return nil, err
	}

	completed, err := s.transitionLatest(ctx, id, TransitionRequest{
		To:         domain.ContractStatusCompleted,
		Source:     SourceAPI,
		EndMileage: &endMileage,
	})
	if err != nil {
		s.reportFailure(method, err, "reservationID", id)
		return nil, err
	}
	logger.ExitMethod(method, "reservationID", id)
	return completed, nil
}

// transitionLatest loads the reservation and applies req, reloading once if
// the reconciler moved it in between.
func (s *reservationService) transitionLatest(ctx context.Context, id int32, req TransitionRequest) (*domain.Reservation, error) {
	var err error
	for attempt := 0; attempt < 2; attempt++ {
		var res *domain.Reservation
		res, err = s.store.Repos().Reservations.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		var updated *domain.Reservation
		updated, err = s.contracts.Transition(ctx, res, req)
		if err == nil {
			return updated, nil
		}
		if !isStatusChanged(err) {
			return nil, err
		}
	}
	return nil, err
}

func (s *reservationService) UpdateAddOns(ctx context.Context, id int32, addOnIDs []int32) (*domain.Reservation, error) {
	method := "reservationService.UpdateAddOns"
	logger.EnterMethod(method, "reservationID", id, "addOnIDs", addOnIDs)

	repos := s.store.Repos()
	res, err := repos.Reservations.GetByID(ctx, id)
	if err != nil {
		logger.ExitMethodWithError(method, err, "reservationID", id)
		return nil, err
	}
	if res.Status != domain.ContractStatusCreated {
		err := fmt.Errorf("%w: reservation %s is %s", domain.ErrAddOnsLocked, res.Number, res.Status)
		s.reportFailure(method, err, "reservationID", id)
		return nil, err
	}
	addOns, err := repos.AddOns.GetByIDs(ctx, addOnIDs)
	if err != nil {
		s.reportFailure(method, err, "reservationID", id)
		return nil, fmt.Errorf("add-ons: %w", err)
	}
	vehicle, err := repos.Vehicles.GetByID(ctx, res.VehicleID)
	if err != nil {
		logger.ExitMethodWithError(method, err, "reservationID", id)
		return nil, err
	}
	total, err := utils.CalculateRentalPrice(vehicle.DailyRate(), res.Interval.DurationDays(), addOns)
	if err != nil {
		return nil, err
	}

	draft, err := res.WithAddOns(addOns, total)
	if err != nil {
		s.reportFailure(method, err, "reservationID", id)
		return nil, err
	}
	ok, err := repos.Reservations.Update(ctx, &draft)
	if err != nil {
		logger.ExitMethodWithError(method, err, "reservationID", id)
		return nil, err
	}
	if !ok {
		s.reportFailure(method, ErrStatusChanged, "reservationID", id)
		return nil, ErrStatusChanged
	}

	logger.ExitMethod(method, "reservationID", id, "total", draft.TotalPrice.StringFixed(2))
	return &draft, nil
}

func (s *reservationService) GetReservation(ctx context.Context, id int32) (*domain.Reservation, error) {
	return s.store.Repos().Reservations.GetByID(ctx, id)
}

func (s *reservationService) ListCustomerReservations(ctx context.Context, customerID int32) ([]domain.Reservation, error) {
	repos := s.store.Repos()
	if _, err := repos.Customers.GetByID(ctx, customerID); err != nil {
		return nil, err
	}
	return repos.Reservations.FindByCustomer(ctx, customerID)
}

func (s *reservationService) PreviewPrice(ctx context.Context, vehicleID int32, startDate, endDate string, addOnIDs []int32) (*PriceQuote, error) {
	interval, err := domain.ParseInterval(startDate, endDate)
	if err != nil {
		return nil, err
	}
	repos := s.store.Repos()
	vehicle, err := repos.Vehicles.GetByID(ctx, vehicleID)
	if err != nil {
		return nil, fmt.Errorf("vehicle %d: %w", vehicleID, err)
	}
	addOns, err := repos.AddOns.GetByIDs(ctx, addOnIDs)
	if err != nil {
		return nil, fmt.Errorf("add-ons: %w", err)
	}
	breakdown, err := utils.CalculateRentalPriceWithBreakdown(vehicle.DailyRate(), interval.DurationDays(), addOns)
	if err != nil {
		return nil, err
	}
	return &PriceQuote{VehicleID: vehicle.ID, Interval: interval, AddOns: addOns, Breakdown: breakdown}, nil
}

func (s *reservationService) ListAvailableVehicles(ctx context.Context, startDate, endDate string) ([]domain.Vehicle, error) {
	interval, err := domain.ParseInterval(startDate, endDate)
	if err != nil {
		return nil, err
	}
	repos := s.store.Repos()
	vehicles, err := repos.Vehicles.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	all, err := repos.Reservations.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	byVehicle := make(map[int32][]domain.Reservation)
	for _, r := range all {
		byVehicle[r.VehicleID] = append(byVehicle[r.VehicleID], r)
	}

	available := make([]domain.Vehicle, 0, len(vehicles))
	for i := range vehicles {
		if availability.IsAvailable(&vehicles[i], interval, byVehicle[vehicles[i].ID]) {
			available = append(available, vehicles[i])
		}
	}
	return available, nil
}

func (s *reservationService) ListVehicles(ctx context.Context) ([]domain.Vehicle, error) {
	return s.store.Repos().Vehicles.FindAll(ctx)
}

func (s *reservationService) ListAddOns(ctx context.Context) ([]domain.AddOn, error) {
	return s.store.Repos().AddOns.List(ctx)
}

func (s *reservationService) notifyConfirmed(ctx context.Context, customer *domain.Customer, res *domain.Reservation, vehicle *domain.Vehicle) {
	logger.ExternalServiceCall("email", "SendReservationConfirmation", "reservationID", res.ID)
	err := s.emailSvc.SendReservationConfirmation(ctx, customer, res, vehicle)
	logger.ExternalServiceResult("email", "SendReservationConfirmation", err, "reservationID", res.ID)
}

// reportFailure logs business rule rejections at info level and everything
// else as a method error.
func (s *reservationService) reportFailure(method string, err error, args ...any) {
	switch domain.KindOf(err) {
	case domain.KindValidation, domain.KindEligibility, domain.KindConflict, domain.KindNotFound:
		logger.Rejected(method, err, args...)
		s.metrics.RecordRejected(err)
	default:
		logger.ExitMethodWithError(method, err, args...)
	}
}
