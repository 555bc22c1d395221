package http

import (
	"context"
	"errors"
	"net/http"

	"fleetrent-backend/internal/api/http/middleware"
	"fleetrent-backend/internal/domain"
	"fleetrent-backend/internal/service"
)

// Reconciler runs one status reconciliation pass on demand
type Reconciler interface {
	ReconcileReservationStatuses(ctx context.Context) int
}

type ReservationHandler struct {
	reservationSvc service.ReservationService
	reconciler     Reconciler
}

func NewReservationHandler(reservationSvc service.ReservationService, reconciler Reconciler) *ReservationHandler {
	return &ReservationHandler{reservationSvc: reservationSvc, reconciler: reconciler}
}

type createReservationRequest struct {
	CustomerID int32   `json:"customer_id"`
	VehicleID  int32   `json:"vehicle_id"`
	StartDate  string  `json:"start_date"`
	EndDate    string  `json:"end_date"`
	AddOnIDs   []int32 `json:"add_on_ids"`
}

type updateAddOnsRequest struct {
	AddOnIDs []int32 `json:"add_on_ids"`
}

type completeReservationRequest struct {
	EndMileage *int32 `json:"end_mileage"`
}

// CreateReservation books a vehicle. Customers always book for themselves;
// employees book on behalf of the customer named in the body.
func (h *ReservationHandler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.ClaimsFromContext(r.Context())

	var req createReservationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if !claims.IsEmployee() {
		req.CustomerID = claims.AccountID
	}

	res, err := h.reservationSvc.CreateReservation(r.Context(), service.CreateReservationRequest{
		CustomerID: req.CustomerID,
		VehicleID:  req.VehicleID,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		AddOnIDs:   req.AddOnIDs,
	})
	if err != nil {
		if errors.Is(err, domain.ErrConfirmationFailed) && res != nil {
			writeErrorWithReservation(w, err, res)
			return
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toReservationResponse(res))
}

func (h *ReservationHandler) GetReservation(w http.ResponseWriter, r *http.Request) {
	res, err := h.loadOwned(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toReservationResponse(res))
}

func (h *ReservationHandler) ListMyReservations(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.ClaimsFromContext(r.Context())
	if claims.IsEmployee() {
		writeError(w, &requestError{msg: "employees have no reservations of their own"})
		return
	}
	list, err := h.reservationSvc.ListCustomerReservations(r.Context(), claims.AccountID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toReservationResponses(list))
}

func (h *ReservationHandler) ListCustomerReservations(w http.ResponseWriter, r *http.Request) {
	customerID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	list, err := h.reservationSvc.ListCustomerReservations(r.Context(), customerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toReservationResponses(list))
}

func (h *ReservationHandler) CancelReservation(w http.ResponseWriter, r *http.Request) {
	res, err := h.loadOwned(r)
	if err != nil {
		writeError(w, err)
		return
	}
	cancelled, err := h.reservationSvc.CancelReservation(r.Context(), res.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toReservationResponse(cancelled))
}

func (h *ReservationHandler) ConfirmReservation(w http.ResponseWriter, r *http.Request) {
	res, err := h.loadOwned(r)
	if err != nil {
		writeError(w, err)
		return
	}
	confirmed, err := h.reservationSvc.ConfirmReservation(r.Context(), res.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toReservationResponse(confirmed))
}

func (h *ReservationHandler) UpdateAddOns(w http.ResponseWriter, r *http.Request) {
	res, err := h.loadOwned(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req updateAddOnsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	updated, err := h.reservationSvc.UpdateAddOns(r.Context(), res.ID, req.AddOnIDs)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toReservationResponse(updated))
}

func (h *ReservationHandler) CompleteReservation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req completeReservationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.EndMileage == nil {
		writeError(w, &requestError{msg: "end_mileage is required"})
		return
	}
	completed, err := h.reservationSvc.CompleteReservation(r.Context(), id, *req.EndMileage)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toReservationResponse(completed))
}

func (h *ReservationHandler) ReconcileStatuses(w http.ResponseWriter, r *http.Request) {
	n := h.reconciler.ReconcileReservationStatuses(r.Context())
	writeJSON(w, http.StatusOK, map[string]int{"transitioned": n})
}

// loadOwned fetches the reservation named in the path, refusing customers
// who do not own it.
func (h *ReservationHandler) loadOwned(r *http.Request) (*domain.Reservation, error) {
	id, err := pathID(r, "id")
	if err != nil {
		return nil, err
	}
	res, err := h.reservationSvc.GetReservation(r.Context(), id)
	if err != nil {
		return nil, err
	}
	claims, _ := middleware.ClaimsFromContext(r.Context())
	if !claims.IsEmployee() && res.CustomerID != claims.AccountID {
		return nil, errForbidden
	}
	return res, nil
}
