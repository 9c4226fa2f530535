package handler

import (
	"net/http"
)

// ServiceName and ServiceVersion are reported by the status endpoint.
const (
	ServiceName    = "FitTrack AI - ML Service"
	ServiceVersion = "1.0.0"
)

// HealthCheckHandler is a simple handler that returns HTTP 200 OK.
// It can be used for health checks by Docker or other services.
func HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

type statusResponse struct {
	Message     string      `json:"message"`
	Version     string      `json:"version"`
	Status      string      `json:"status"`
	ModelLoaded bool        `json:"model_loaded"`
	ModelInfo   interface{} `json:"model_info"`
}

// StatusHandler reports whether a model is being served.
func StatusHandler(models ModelSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := statusResponse{
			Message:   ServiceName,
			Version:   ServiceVersion,
			Status:    "running",
			ModelInfo: "No model trained yet",
		}
		if snap := models.Current(); snap != nil {
			resp.ModelLoaded = true
			resp.ModelInfo = snap.Bundle.Metadata
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
