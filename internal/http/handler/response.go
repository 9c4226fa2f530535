package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Shayanthavi/FitTrack-AI/internal/dataset"
	"github.com/Shayanthavi/FitTrack-AI/internal/healthlog"
	"github.com/Shayanthavi/FitTrack-AI/internal/inference"
	"github.com/Shayanthavi/FitTrack-AI/internal/learning"
	"github.com/Shayanthavi/FitTrack-AI/internal/modelstore"
)

// errorResponse is the body of every failed request.
type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// ヘッダ送信後のエラーはクライアントに返せない
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Success: false, Error: msg})
}

// StatusFor maps a domain error to its HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, inference.ErrInvalidInput),
		errors.Is(err, healthlog.ErrInvalidLog),
		errors.Is(err, errUpload):
		return http.StatusBadRequest
	case errors.Is(err, inference.ErrModelNotLoaded),
		errors.Is(err, modelstore.ErrNoModel):
		return http.StatusBadRequest
	case errors.Is(err, healthlog.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, dataset.ErrMissingColumns),
		errors.Is(err, dataset.ErrEmptyDataset),
		errors.Is(err, learning.ErrTraining):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeErr(w http.ResponseWriter, err error) {
	writeError(w, StatusFor(err), err.Error())
}
