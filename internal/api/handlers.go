package api

import (
	"log/slog"
	"net/http"

	"github.com/luki/machinewise/internal/sensor"
)

const healthMessage = "MachineWise Backend is running"

// Handlers serves the sensor endpoints.
type Handlers struct {
	source sensor.Source
	log    *slog.Logger
}

// NewHandlers creates handlers that draw snapshots from source.
func NewHandlers(source sensor.Source, log *slog.Logger) *Handlers {
	return &Handlers{source: source, log: log}
}

// SensorData writes one freshly generated snapshot. A generator error
// yields a 500 with a generic body and no partial snapshot.
func (h *Handlers) SensorData(w http.ResponseWriter, r *http.Request) {
	snap, err := h.source.Generate()
	if err != nil {
		h.log.Error("generate_snapshot_failed", slog.Any("err", err))
		respondError(w, h.log, http.StatusInternalServerError, msgInternal)
		return
	}

	h.log.Info("sensor_data_requested",
		slog.Float64("temperature", snap.Temperature),
		slog.Float64("vibration", snap.Vibration),
		slog.Float64("current", snap.Current),
		slog.Float64("voltage", snap.Voltage),
		slog.Time("timestamp", snap.Timestamp),
	)
	respondJSON(w, h.log, http.StatusOK, snap)
}

// Health is the static liveness probe.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, h.log, http.StatusOK, HealthBody{Status: "OK", Message: healthMessage})
}

func (h *Handlers) notFound(w http.ResponseWriter, r *http.Request) {
	respondError(w, h.log, http.StatusNotFound, msgNotFound)
}

func (h *Handlers) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	respondError(w, h.log, http.StatusMethodNotAllowed, msgMethodNotAllowed)
}
