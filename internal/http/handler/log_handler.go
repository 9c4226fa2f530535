package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Shayanthavi/FitTrack-AI/internal/healthlog"
	"github.com/Shayanthavi/FitTrack-AI/internal/inference"
)

// DefaultStatsDays is the stats window used when ?days is absent.
const DefaultStatsDays = 7

// LogHandler serves the per-user daily health logs.
type LogHandler struct {
	repo      healthlog.Repository
	predictor Predictor
	now       func() time.Time
	logger    *zap.Logger
}

// NewLogHandler creates a LogHandler. now defaults to time.Now.
func NewLogHandler(repo healthlog.Repository, predictor Predictor, now func() time.Time, logger *zap.Logger) *LogHandler {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogHandler{repo: repo, predictor: predictor, now: now, logger: logger}
}

// RegisterRoutes はchiルーターにログ関連のルートを登録します。
func (h *LogHandler) RegisterRoutes(r chi.Router) {
	r.Route("/users/{userID}", func(r chi.Router) {
		r.Post("/logs", h.AddLog)
		r.Get("/logs", h.ListLogs)
		r.Get("/logs/latest", h.LatestLog)
		r.Get("/stats", h.Stats)
		r.Get("/suggestion", h.Suggestion)
	})
}

type logResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message,omitempty"`
	Log     *healthlog.Log `json:"log"`
}

// AddLog stores today's log, replacing an earlier log of the same day.
func (h *LogHandler) AddLog(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxPredictBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}
	req, err := inference.ParseRequest(body)
	if err != nil {
		writeErr(w, err)
		return
	}
	l, created, err := h.repo.Upsert(r.Context(), chi.URLParam(r, "userID"), req.Observation, h.now())
	if err != nil {
		h.logger.Error("Failed to store health log", zap.Error(err))
		writeErr(w, err)
		return
	}
	if created {
		writeJSON(w, http.StatusCreated, logResponse{Success: true, Message: "Health log added successfully", Log: l})
		return
	}
	writeJSON(w, http.StatusOK, logResponse{Success: true, Message: "Health log updated successfully", Log: l})
}

type listResponse struct {
	Success bool            `json:"success"`
	Count   int             `json:"count"`
	Logs    []healthlog.Log `json:"logs"`
}

// ListLogs returns the most recent logs, oldest first.
func (h *LogHandler) ListLogs(w http.ResponseWriter, r *http.Request) {
	limit, err := positiveQuery(r, "limit", healthlog.DefaultListLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	logs, err := h.repo.List(r.Context(), chi.URLParam(r, "userID"), limit)
	if err != nil {
		writeErr(w, err)
		return
	}
	if logs == nil {
		logs = []healthlog.Log{}
	}
	writeJSON(w, http.StatusOK, listResponse{Success: true, Count: len(logs), Logs: logs})
}

// LatestLog returns the most recent log, or a null log when there is none.
func (h *LogHandler) LatestLog(w http.ResponseWriter, r *http.Request) {
	l, err := h.repo.Latest(r.Context(), chi.URLParam(r, "userID"))
	if errors.Is(err, healthlog.ErrNotFound) {
		writeJSON(w, http.StatusOK, logResponse{Success: true, Message: "No logs found"})
		return
	}
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, logResponse{Success: true, Log: l})
}

type statsResponse struct {
	Success bool             `json:"success"`
	Stats   *healthlog.Stats `json:"stats"`
}

// Stats aggregates the logs of the last ?days days.
func (h *LogHandler) Stats(w http.ResponseWriter, r *http.Request) {
	days, err := positiveQuery(r, "days", DefaultStatsDays)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	stats, err := h.repo.Stats(r.Context(), chi.URLParam(r, "userID"), days, h.now())
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statsResponse{Success: true, Stats: stats})
}

// Suggestion scores the user's latest log.
func (h *LogHandler) Suggestion(w http.ResponseWriter, r *http.Request) {
	l, err := h.repo.Latest(r.Context(), chi.URLParam(r, "userID"))
	if errors.Is(err, healthlog.ErrNotFound) {
		writeError(w, http.StatusNotFound, "No health log found")
		return
	}
	if err != nil {
		writeErr(w, err)
		return
	}
	resp, err := suggest(h.predictor, l.Observation(), l.LogDate.Format(healthlog.DateLayout))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func positiveQuery(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return 0, errors.New(name + " must be a positive integer")
	}
	return v, nil
}
