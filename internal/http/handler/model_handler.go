package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Shayanthavi/FitTrack-AI/internal/advice"
	"github.com/Shayanthavi/FitTrack-AI/internal/inference"
	"github.com/Shayanthavi/FitTrack-AI/internal/learning"
	"github.com/Shayanthavi/FitTrack-AI/internal/wellness"
)

// errUpload marks a rejected upload.
var errUpload = errors.New("invalid upload")

const maxPredictBody = 1 << 20

// Trainer runs a training pipeline over a CSV file.
type Trainer interface {
	TrainFromCSV(ctx context.Context, path string) (*learning.TrainResult, error)
}

// Predictor scores a single observation.
type Predictor interface {
	Predict(obs wellness.Observation) (*inference.Prediction, error)
}

// ModelSource exposes the model being served.
type ModelSource interface {
	Current() *inference.Snapshot
}

// ModelHandler はモデルの学習・推論・情報取得のHTTPリクエストを処理します。
type ModelHandler struct {
	trainer   Trainer
	predictor Predictor
	models    ModelSource
	uploadDir string
	maxUpload int64
	logger    *zap.Logger
}

// NewModelHandler は新しいModelHandlerを作成します。maxUpload is in bytes.
func NewModelHandler(trainer Trainer, predictor Predictor, models ModelSource, uploadDir string, maxUpload int64, logger *zap.Logger) *ModelHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ModelHandler{
		trainer:   trainer,
		predictor: predictor,
		models:    models,
		uploadDir: uploadDir,
		maxUpload: maxUpload,
		logger:    logger,
	}
}

// RegisterRoutes はchiルーターにモデル関連のルートを登録します。
func (h *ModelHandler) RegisterRoutes(r chi.Router) {
	r.Post("/train", h.Train)
	r.Post("/predict", h.Predict)
	r.Get("/model/info", h.Info)
}

type trainResponse struct {
	Success   bool                                 `json:"success"`
	BestModel string                               `json:"best_model"`
	Results   map[string]learning.CandidateMetrics `json:"results"`
	Version   string                               `json:"version"`
	Rows      int                                  `json:"rows"`
}

// Train accepts a multipart upload in the "file" field and trains on it.
func (h *ModelHandler) Train(w http.ResponseWriter, r *http.Request) {
	path, err := h.saveUpload(w, r)
	if err != nil {
		writeErr(w, err)
		return
	}
	defer func() {
		if err := os.Remove(path); err != nil {
			h.logger.Warn("Failed to remove upload", zap.String("path", path), zap.Error(err))
		}
	}()

	res, err := h.trainer.TrainFromCSV(r.Context(), path)
	if err != nil {
		writeErr(w, err)
		return
	}
	meta := res.Bundle.Metadata
	writeJSON(w, http.StatusOK, trainResponse{
		Success:   true,
		BestModel: meta.SelectedModel,
		Results:   meta.Metrics,
		Version:   meta.Version,
		Rows:      meta.Rows,
	})
}

// saveUpload stores the uploaded CSV under a random name and returns its path.
func (h *ModelHandler) saveUpload(w http.ResponseWriter, r *http.Request) (string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return "", fmt.Errorf("%w: file exceeds %d bytes", errUpload, tooLarge.Limit)
		}
		if errors.Is(err, http.ErrNotMultipart) {
			return "", fmt.Errorf("%w: No file provided", errUpload)
		}
		return "", fmt.Errorf("%w: %v", errUpload, err)
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return "", fmt.Errorf("%w: No file provided", errUpload)
	}
	defer file.Close()

	if header.Filename == "" {
		return "", fmt.Errorf("%w: No file selected", errUpload)
	}
	if !strings.EqualFold(filepath.Ext(header.Filename), ".csv") {
		return "", fmt.Errorf("%w: Only CSV files are allowed", errUpload)
	}

	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}
	path := filepath.Join(h.uploadDir, uuid.NewString()+".csv")
	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to store upload: %w", err)
	}
	if _, err := io.Copy(out, file); err != nil {
		out.Close()
		os.Remove(path)
		return "", fmt.Errorf("failed to store upload: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to store upload: %w", err)
	}
	h.logger.Info("File saved", zap.String("name", header.Filename), zap.String("path", path), zap.Int64("size", header.Size))
	return path, nil
}

type basedOn struct {
	Steps      int     `json:"steps"`
	SleepHours float64 `json:"sleep_hours"`
	Calories   int     `json:"calories"`
	Date       string  `json:"date"`
}

type predictResponse struct {
	Success     bool                `json:"success"`
	Suggestions []advice.Suggestion `json:"suggestions"`
	BasedOn     basedOn             `json:"based_on"`
	ModelUsed   string              `json:"model_used"`
}

// suggest predicts a score for obs and turns it into suggestions.
func suggest(p Predictor, obs wellness.Observation, date string) (*predictResponse, error) {
	pred, err := p.Predict(obs)
	if err != nil {
		return nil, err
	}
	return &predictResponse{
		Success:     true,
		Suggestions: advice.Suggest(obs.Steps, obs.SleepHours, obs.Calories, pred.Score),
		BasedOn: basedOn{
			Steps:      obs.Steps,
			SleepHours: obs.SleepHours,
			Calories:   obs.Calories,
			Date:       date,
		},
		ModelUsed: pred.Model,
	}, nil
}

// Predict scores the posted observation and returns suggestions.
func (h *ModelHandler) Predict(w http.ResponseWriter, r *http.Request) {
	if h.models.Current() == nil {
		writeErr(w, inference.ErrModelNotLoaded)
		return
	}
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
	resp, err := suggest(h.predictor, req.Observation, req.Date)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

type infoResponse struct {
	Success     bool              `json:"success"`
	ModelInfo   learning.Metadata `json:"model_info"`
	ModelLoaded bool              `json:"model_loaded"`
}

// Info returns the metadata of the served model.
func (h *ModelHandler) Info(w http.ResponseWriter, r *http.Request) {
	snap := h.models.Current()
	if snap == nil {
		writeError(w, http.StatusBadRequest, "No model loaded")
		return
	}
	writeJSON(w, http.StatusOK, infoResponse{Success: true, ModelInfo: snap.Bundle.Metadata, ModelLoaded: true})
}
