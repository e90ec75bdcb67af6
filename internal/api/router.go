// Package api exposes the synthetic sensor generator over HTTP.
package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/luki/machinewise/internal/sensor"
)

// Route paths.
const (
	SensorDataPath = "/api/sensor-data"
	HealthPath     = "/api/health"
)

// NewRouter wires the API routes, the JSON 404/405 handlers, panic
// recovery, access logging and any-origin CORS.
func NewRouter(source sensor.Source, log *slog.Logger) http.Handler {
	h := NewHandlers(source, log)

	r := mux.NewRouter()
	r.HandleFunc(SensorDataPath, h.SensorData).Methods(http.MethodGet)
	r.HandleFunc(HealthPath, h.Health).Methods(http.MethodGet)
	r.NotFoundHandler = http.HandlerFunc(h.notFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(h.methodNotAllowed)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})

	return c.Handler(logRequests(log, recoverPanics(log, r)))
}
