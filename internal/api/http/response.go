package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"fleetrent-backend/internal/domain"
	"fleetrent-backend/internal/logger"

	"github.com/gorilla/mux"
)

// errForbidden is returned when a customer touches another customer's data.
var errForbidden = errors.New("reservation belongs to another customer")

type errorResponse struct {
	Error       string               `json:"error"`
	Kind        string               `json:"kind"`
	Reservation *reservationResponse `json:"reservation,omitempty"`
}

// StatusForError maps an error kind to the HTTP status returned to clients
func StatusForError(err error) int {
	if errors.Is(err, errForbidden) {
		return http.StatusForbidden
	}
	switch domain.KindOf(err) {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindEligibility:
		return http.StatusUnprocessableEntity
	case domain.KindConflict, domain.KindState:
		return http.StatusConflict
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Warn("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeErrorWithReservation(w, err, nil)
}

// writeErrorWithReservation reports err and, when res is set, the record the
// failed operation left behind.
func writeErrorWithReservation(w http.ResponseWriter, err error, res *domain.Reservation) {
	status := StatusForError(err)
	kind := domain.KindOf(err).String()
	if errors.Is(err, errForbidden) {
		kind = "forbidden"
	}

	msg := err.Error()
	if status == http.StatusInternalServerError && res == nil {
		logger.Error("Request failed", "error", err)
		msg = "internal error"
	}

	body := errorResponse{Error: msg, Kind: kind}
	if res != nil {
		body.Reservation = toReservationResponse(res)
	}
	writeJSON(w, status, body)
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return &requestError{msg: "invalid request body: " + err.Error()}
	}
	return nil
}

func pathID(r *http.Request, name string) (int32, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		return 0, &requestError{msg: "invalid " + name + ": " + raw}
	}
	return int32(id), nil
}

// requestError is a malformed request, reported as a validation failure.
type requestError struct {
	msg string
}

func (e *requestError) Error() string { return e.msg }

func (e *requestError) Unwrap() error { return domain.ErrValidation }
