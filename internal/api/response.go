package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Error messages returned in the {"error": ...} body.
const (
	msgInternal         = "Internal server error"
	msgNotFound         = "Not found"
	msgMethodNotAllowed = "Method not allowed"
)

// ErrorBody is the JSON payload of every non-2xx response.
type ErrorBody struct {
	Error string `json:"error"`
}

// HealthBody is the JSON payload of GET /api/health.
type HealthBody struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// respondJSON encodes payload before writing the header so an encoding
// failure can still become a 500.
func respondJSON(w http.ResponseWriter, log *slog.Logger, code int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		log.Error("encode_response_failed", slog.Any("err", err))
		code = http.StatusInternalServerError
		body, _ = json.Marshal(ErrorBody{Error: msgInternal})
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if _, err := w.Write(append(body, '\n')); err != nil {
		log.Warn("write_response_failed", slog.Any("err", err))
	}
}

func respondError(w http.ResponseWriter, log *slog.Logger, code int, msg string) {
	respondJSON(w, log, code, ErrorBody{Error: msg})
}
