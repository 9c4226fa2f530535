package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shayanthavi/FitTrack-AI/internal/dataset"
	"github.com/Shayanthavi/FitTrack-AI/internal/healthlog"
	"github.com/Shayanthavi/FitTrack-AI/internal/inference"
	"github.com/Shayanthavi/FitTrack-AI/internal/learning"
	"github.com/Shayanthavi/FitTrack-AI/internal/metrics"
	"github.com/Shayanthavi/FitTrack-AI/internal/modelstore"
	"github.com/Shayanthavi/FitTrack-AI/internal/wellness"
)

type stubPredictor struct {
	score float64
	err   error
	got   []wellness.Observation
}

func (p *stubPredictor) Predict(obs wellness.Observation) (*inference.Prediction, error) {
	p.got = append(p.got, obs)
	if p.err != nil {
		return nil, p.err
	}
	return &inference.Prediction{Score: p.score, Model: "Random Forest", Version: "v1"}, nil
}

type stubSource struct {
	snap *inference.Snapshot
}

func (s stubSource) Current() *inference.Snapshot { return s.snap }

func loadedSource() stubSource {
	return stubSource{snap: &inference.Snapshot{Bundle: &learning.Bundle{Metadata: learning.Metadata{
		Version:       "v1",
		SelectedModel: "Random Forest",
		ModelKind:     learning.KindRandomForest,
		FeatureOrder:  wellness.CanonicalOrder(),
	}}}}
}

type unusedTrainer struct{}

func (unusedTrainer) TrainFromCSV(context.Context, string) (*learning.TrainResult, error) {
	return nil, errors.New("training not expected")
}

var testDay = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

func newTestRouter(t *testing.T, trainer Trainer, predictor Predictor, source ModelSource, repo healthlog.Repository) http.Handler {
	t.Helper()
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	return NewRouter(RouterDeps{
		Models:   NewModelHandler(trainer, predictor, source, t.TempDir(), 1<<20, nil),
		Logs:     NewLogHandler(repo, predictor, func() time.Time { return testDay }, nil),
		Source:   source,
		Metrics:  m,
		Gatherer: reg,
	})
}

func do(t *testing.T, h http.Handler, method, target, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var decoded map[string]interface{}
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded), rec.Body.String())
	}
	return rec, decoded
}

func multipartBody(t *testing.T, field, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func upload(h http.Handler, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/train", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{&inference.InvalidInputError{Field: "steps", Reason: "must be numeric"}, http.StatusBadRequest},
		{fmt.Errorf("%w: bad", healthlog.ErrInvalidLog), http.StatusBadRequest},
		{fmt.Errorf("%w: No file provided", errUpload), http.StatusBadRequest},
		{inference.ErrModelNotLoaded, http.StatusBadRequest},
		{modelstore.ErrNoModel, http.StatusBadRequest},
		{healthlog.ErrNotFound, http.StatusNotFound},
		{&dataset.MissingColumnsError{Missing: []string{"steps"}}, http.StatusUnprocessableEntity},
		{dataset.ErrEmptyDataset, http.StatusUnprocessableEntity},
		{&learning.TrainingError{Rows: 3, MinRows: 25}, http.StatusUnprocessableEntity},
		{fmt.Errorf("failed to save model: %w", errors.New("disk full")), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusFor(tt.err), tt.err.Error())
	}
}

func TestStatus(t *testing.T) {
	h := newTestRouter(t, unusedTrainer{}, &stubPredictor{}, stubSource{}, healthlog.NewInMemRepository())
	rec, body := do(t, h, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, ServiceName, body["message"])
	assert.Equal(t, "running", body["status"])
	assert.Equal(t, false, body["model_loaded"])
	assert.Equal(t, "No model trained yet", body["model_info"])

	h = newTestRouter(t, unusedTrainer{}, &stubPredictor{}, loadedSource(), healthlog.NewInMemRepository())
	_, body = do(t, h, http.MethodGet, "/", "")
	assert.Equal(t, true, body["model_loaded"])
	info, ok := body["model_info"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Random Forest", info["model_name"])
}

func TestHealthz(t *testing.T) {
	h := newTestRouter(t, unusedTrainer{}, &stubPredictor{}, stubSource{}, healthlog.NewInMemRepository())
	rec, _ := do(t, h, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestPredict_NoModel(t *testing.T) {
	h := newTestRouter(t, unusedTrainer{}, &stubPredictor{}, stubSource{}, healthlog.NewInMemRepository())
	rec, body := do(t, h, http.MethodPost, "/predict", `{"steps":1,"sleep_hours":1,"calories":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, inference.ErrModelNotLoaded.Error(), body["error"])

	rec, body = do(t, h, http.MethodGet, "/model/info", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "No model loaded", body["error"])
}

func TestPredict(t *testing.T) {
	p := &stubPredictor{score: 72.4}
	h := newTestRouter(t, unusedTrainer{}, p, loadedSource(), healthlog.NewInMemRepository())

	rec, body := do(t, h, http.MethodPost, "/predict", `{"steps":"8000","sleep_hours":7.5,"calories":2100}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Random Forest", body["model_used"])
	assert.Len(t, body["suggestions"], 4)
	assert.Equal(t, map[string]interface{}{
		"steps": 8000.0, "sleep_hours": 7.5, "calories": 2100.0, "date": "today",
	}, body["based_on"])
	require.Len(t, p.got, 1)
	assert.Equal(t, wellness.Observation{Steps: 8000, SleepHours: 7.5, Calories: 2100}, p.got[0])
}

func TestPredict_InvalidInput(t *testing.T) {
	h := newTestRouter(t, unusedTrainer{}, &stubPredictor{score: 50}, loadedSource(), healthlog.NewInMemRepository())
	for _, body := range []string{
		`{"steps":8000,"calories":2100}`,
		`{"steps":"lots","sleep_hours":7,"calories":2100}`,
		`{"steps":-1,"sleep_hours":7,"calories":2100}`,
		`not json`,
	} {
		rec, decoded := do(t, h, http.MethodPost, "/predict", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.NotEmpty(t, decoded["error"], body)
	}
}

func TestModelInfo(t *testing.T) {
	h := newTestRouter(t, unusedTrainer{}, &stubPredictor{}, loadedSource(), healthlog.NewInMemRepository())
	rec, body := do(t, h, http.MethodGet, "/model/info", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["model_loaded"])
	info := body["model_info"].(map[string]interface{})
	assert.Equal(t, "v1", info["version"])
	assert.Equal(t, []interface{}{"steps", "sleep_hours", "calories"}, info["features"])
}

func TestTrain_RejectsUploads(t *testing.T) {
	h := newTestRouter(t, unusedTrainer{}, &stubPredictor{}, stubSource{}, healthlog.NewInMemRepository())

	rec, body := do(t, h, http.MethodPost, "/train", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, body["error"], "No file provided")

	buf, ct := multipartBody(t, "other", "data.csv", "a,b\n")
	rec = upload(h, buf, ct)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "No file provided")

	buf, ct = multipartBody(t, "file", "data.xlsx", "a,b\n")
	rec = upload(h, buf, ct)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Only CSV files are allowed")

	buf, ct = multipartBody(t, "file", "big.csv", strings.Repeat("1,2,3\n", 300000))
	rec = upload(h, buf, ct)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func trainingCSV(n int) string {
	var b strings.Builder
	b.WriteString("TotalSteps,Calories,Sleep\n")
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "%d,%d,%.1f\n", 3000+(i*739)%9000, 1300+(i*131)%1400, 5+float64((i*7)%50)/10)
	}
	return b.String()
}

// TestTrainThenPredict runs the real pipeline behind the routes.
func TestTrainThenPredict(t *testing.T) {
	store, err := modelstore.NewFileStore(t.TempDir(), nil)
	require.NoError(t, err)
	registry := inference.NewRegistry()
	engine := inference.NewEngine(registry, nil)

	cfg := learning.DefaultSelectorConfig()
	cfg.Params.ForestEstimators = 10
	trainer, err := learning.NewTrainer(learning.TrainerDeps{
		Preparer:  dataset.NewPreparer(dataset.DefaultOptions(), nil),
		Selector:  learning.NewSelector(cfg, nil),
		Store:     store,
		Activator: registry,
	})
	require.NoError(t, err)

	uploadDir := t.TempDir()
	h := NewRouter(RouterDeps{
		Models: NewModelHandler(trainer, engine, registry, uploadDir, 1<<20, nil),
		Source: registry,
	})

	buf, ct := multipartBody(t, "file", "activity.CSV", "steps,calories\n1,2\n")
	rec := upload(h, buf, ct)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, "missing sleep is synthesized but 1 row is too few")

	buf, ct = multipartBody(t, "file", "activity.csv", trainingCSV(60))
	rec = upload(h, buf, ct)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var trained struct {
		Success   bool                                 `json:"success"`
		BestModel string                               `json:"best_model"`
		Results   map[string]learning.CandidateMetrics `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &trained))
	assert.True(t, trained.Success)
	assert.Len(t, trained.Results, 3)
	assert.Contains(t, trained.Results, trained.BestModel)

	entries, err := os.ReadDir(uploadDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "uploads are removed after training")

	rec, body := do(t, h, http.MethodPost, "/predict", `{"steps":9000,"sleep_hours":8,"calories":2000,"date":"2024-05-10"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, trained.BestModel, body["model_used"])
	assert.Equal(t, "2024-05-10", body["based_on"].(map[string]interface{})["date"])
}

func TestLogs(t *testing.T) {
	p := &stubPredictor{score: 81}
	h := newTestRouter(t, unusedTrainer{}, p, loadedSource(), healthlog.NewInMemRepository())

	rec, body := do(t, h, http.MethodPost, "/users/u1/logs", `{"steps":6000,"sleep_hours":6.5,"calories":1800}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "Health log added successfully", body["message"])
	assert.Equal(t, "2024-05-10", body["log"].(map[string]interface{})["log_date"])

	rec, body = do(t, h, http.MethodPost, "/users/u1/logs", `{"steps":7500,"sleep_hours":7,"calories":2000}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Health log updated successfully", body["message"])

	rec, _ = do(t, h, http.MethodPost, "/users/u1/logs", `{"steps":-5,"sleep_hours":7,"calories":2000}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, body = do(t, h, http.MethodGet, "/users/u1/logs?limit=10", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1.0, body["count"])

	rec, _ = do(t, h, http.MethodGet, "/users/u1/logs?limit=zero", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	_, body = do(t, h, http.MethodGet, "/users/u1/logs/latest", "")
	assert.Equal(t, 7500.0, body["log"].(map[string]interface{})["steps"])

	rec, body = do(t, h, http.MethodGet, "/users/nobody/logs/latest", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, body["log"])
	assert.Equal(t, "No logs found", body["message"])

	_, body = do(t, h, http.MethodGet, "/users/nobody/logs", "")
	assert.Equal(t, []interface{}{}, body["logs"])

	rec, body = do(t, h, http.MethodGet, "/users/u1/stats?days=7", "")
	require.Equal(t, http.StatusOK, rec.Code)
	stats := body["stats"].(map[string]interface{})
	assert.Equal(t, "7500", stats["avg_steps"])
	assert.Equal(t, 1.0, stats["total_logs"])
}

func TestSuggestion(t *testing.T) {
	p := &stubPredictor{score: 81}
	h := newTestRouter(t, unusedTrainer{}, p, loadedSource(), healthlog.NewInMemRepository())

	rec, body := do(t, h, http.MethodGet, "/users/u1/suggestion", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "No health log found", body["error"])

	do(t, h, http.MethodPost, "/users/u1/logs", `{"steps":12000,"sleep_hours":8,"calories":2000}`)
	rec, body = do(t, h, http.MethodGet, "/users/u1/suggestion", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Len(t, body["suggestions"], 4)
	assert.Equal(t, "2024-05-10", body["based_on"].(map[string]interface{})["date"])
	require.Len(t, p.got, 1)
	assert.Equal(t, 12000, p.got[0].Steps)

	p.err = inference.ErrModelNotLoaded
	rec, _ = do(t, h, http.MethodGet, "/users/u1/suggestion", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestRouter(t, unusedTrainer{}, &stubPredictor{}, stubSource{}, healthlog.NewInMemRepository())
	do(t, h, http.MethodGet, "/healthz", "")

	rec, _ := do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `fittrack_http_requests_total{method="GET",route="/healthz",status_code="200"} 1`)
}
