package http

import (
	"net/http"

	"fleetrent-backend/internal/api/http/middleware"
	"fleetrent-backend/internal/security"
	"fleetrent-backend/internal/service"

	"github.com/gorilla/mux"
)

// Services holds the dependencies the HTTP handlers call into
type Services struct {
	Reservations service.ReservationService
	Auth         service.AuthService
	Reconciler   Reconciler
}

// NewRouter registers the /api/v1 routes. Route names are the keys of
// config.EndpointSecurityConfig. metricsHandler may be nil.
func NewRouter(svcs Services, tokenManager security.TokenManager, metricsHandler http.Handler, metricsPath string) *mux.Router {
	router := mux.NewRouter()
	router.Use(middleware.Logging)
	router.Use(middleware.NewAuthMiddleware(tokenManager).Handler)

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet).Name("Health")
	if metricsHandler != nil {
		if metricsPath == "" {
			metricsPath = "/metrics"
		}
		router.Handle(metricsPath, metricsHandler).Methods(http.MethodGet).Name("Metrics")
	}

	api := router.PathPrefix("/api/v1").Subrouter()

	auth := NewAuthHandler(svcs.Auth)
	api.HandleFunc("/auth/login", auth.Login).Methods(http.MethodPost).Name("Login")
	api.HandleFunc("/auth/password", auth.ChangePassword).Methods(http.MethodPost).Name("ChangePassword")

	catalogue := NewCatalogueHandler(svcs.Reservations)
	api.HandleFunc("/vehicles", catalogue.ListVehicles).Methods(http.MethodGet).Name("ListVehicles")
	api.HandleFunc("/vehicles/available", catalogue.ListAvailableVehicles).Methods(http.MethodGet).Name("ListAvailableVehicles")
	api.HandleFunc("/add-ons", catalogue.ListAddOns).Methods(http.MethodGet).Name("ListAddOns")
	api.HandleFunc("/quotes", catalogue.PreviewPrice).Methods(http.MethodPost).Name("PreviewPrice")

	reservations := NewReservationHandler(svcs.Reservations, svcs.Reconciler)
	api.HandleFunc("/reservations", reservations.CreateReservation).Methods(http.MethodPost).Name("CreateReservation")
	api.HandleFunc("/reservations", reservations.ListMyReservations).Methods(http.MethodGet).Name("ListMyReservations")
	api.HandleFunc("/reservations/{id:[0-9]+}", reservations.GetReservation).Methods(http.MethodGet).Name("GetReservation")
	api.HandleFunc("/reservations/{id:[0-9]+}/cancel", reservations.CancelReservation).Methods(http.MethodPost).Name("CancelReservation")
	api.HandleFunc("/reservations/{id:[0-9]+}/confirm", reservations.ConfirmReservation).Methods(http.MethodPost).Name("ConfirmReservation")
	api.HandleFunc("/reservations/{id:[0-9]+}/add-ons", reservations.UpdateAddOns).Methods(http.MethodPut).Name("UpdateAddOns")
	api.HandleFunc("/reservations/{id:[0-9]+}/complete", reservations.CompleteReservation).Methods(http.MethodPost).Name("CompleteReservation")
	api.HandleFunc("/customers/{id:[0-9]+}/reservations", reservations.ListCustomerReservations).Methods(http.MethodGet).Name("ListCustomerReservations")
	api.HandleFunc("/admin/reconcile", reservations.ReconcileStatuses).Methods(http.MethodPost).Name("ReconcileStatuses")

	return router
}
