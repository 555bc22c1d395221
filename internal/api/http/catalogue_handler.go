package http

import (
	"net/http"

	"fleetrent-backend/internal/service"
)

type CatalogueHandler struct {
	reservationSvc service.ReservationService
}

func NewCatalogueHandler(reservationSvc service.ReservationService) *CatalogueHandler {
	return &CatalogueHandler{reservationSvc: reservationSvc}
}

type previewPriceRequest struct {
	VehicleID int32   `json:"vehicle_id"`
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
	AddOnIDs  []int32 `json:"add_on_ids"`
}

func (h *CatalogueHandler) ListVehicles(w http.ResponseWriter, r *http.Request) {
	vehicles, err := h.reservationSvc.ListVehicles(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toVehicleResponses(vehicles))
}

// ListAvailableVehicles expects start_date and end_date query parameters
func (h *CatalogueHandler) ListAvailableVehicles(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	vehicles, err := h.reservationSvc.ListAvailableVehicles(r.Context(), q.Get("start_date"), q.Get("end_date"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toVehicleResponses(vehicles))
}

func (h *CatalogueHandler) ListAddOns(w http.ResponseWriter, r *http.Request) {
	addOns, err := h.reservationSvc.ListAddOns(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAddOnResponses(addOns))
}

func (h *CatalogueHandler) PreviewPrice(w http.ResponseWriter, r *http.Request) {
	var req previewPriceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	quote, err := h.reservationSvc.PreviewPrice(r.Context(), req.VehicleID, req.StartDate, req.EndDate, req.AddOnIDs)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toQuoteResponse(quote))
}
