package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

// HealthResponse is the payload of per-module health endpoints.
type HealthResponse struct {
	Module    string    `json:"module"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// HealthHandler returns a handler reporting the module as healthy.
// Health endpoints are excluded from request logging to keep probes out
// of the logs.
func HealthHandler(moduleName string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := HealthResponse{
			Module:    moduleName,
			Status:    "healthy",
			Timestamp: time.Now().UTC(),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(response); err != nil {
			slog.Error("Failed to encode health response", "module", moduleName, "error", err)
		}
	}
}
