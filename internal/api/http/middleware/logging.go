package middleware

import (
	"net/http"
	"time"

	"fleetrent-backend/internal/logger"

	"github.com/gorilla/mux"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Logging records one line per request with the matched route and outcome
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := ""
		if current := mux.CurrentRoute(r); current != nil {
			route = current.GetName()
		}
		args := []any{"method", r.Method, "path", r.URL.Path, "route", route, "status", rec.status, "duration", time.Since(started)}
		if rec.status >= http.StatusInternalServerError {
			logger.Error("HTTP request failed", args...)
			return
		}
		logger.Info("HTTP request", args...)
	})
}
