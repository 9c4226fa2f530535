package inference

import (
	"errors"
	"fmt"
	"math"

	"github.com/Shayanthavi/FitTrack-AI/internal/learning"
	"github.com/Shayanthavi/FitTrack-AI/internal/metrics"
	"github.com/Shayanthavi/FitTrack-AI/internal/wellness"
)

// ErrModelNotLoaded is returned when no snapshot is published.
var ErrModelNotLoaded = errors.New("model not trained yet, please train the model first")

// Prediction is a clamped score and the model that produced it.
type Prediction struct {
	Score   float64
	Model   string
	Version string
}

// Engine scores observations against the registry's current snapshot.
type Engine struct {
	registry *Registry
	metrics  *metrics.Metrics
}

// NewEngine creates an Engine. m may be nil.
func NewEngine(registry *Registry, m *metrics.Metrics) *Engine {
	return &Engine{registry: registry, metrics: m}
}

// Predict builds the feature vector in the order recorded with the model,
// scales it, runs the model and clamps the result to [0,100].
func (e *Engine) Predict(obs wellness.Observation) (*Prediction, error) {
	snap := e.registry.Current()
	if snap == nil {
		e.metrics.ObservePrediction(metrics.OutcomeFailure, 0)
		return nil, ErrModelNotLoaded
	}
	p, err := predict(snap.Bundle, obs)
	if err != nil {
		e.metrics.ObservePrediction(metrics.OutcomeFailure, 0)
		return nil, err
	}
	e.metrics.ObservePrediction(metrics.OutcomeSuccess, p.Score)
	return p, nil
}

func predict(b *learning.Bundle, obs wellness.Observation) (*Prediction, error) {
	if err := obs.Validate(); err != nil {
		return nil, &InvalidInputError{Reason: err.Error()}
	}
	vec, err := obs.Vector(b.Metadata.FeatureOrder)
	if err != nil {
		return nil, fmt.Errorf("model feature order: %w", err)
	}
	scaled, err := b.Scaler.TransformRow(vec)
	if err != nil {
		return nil, err
	}
	out, err := b.Model.Predict([][]float64{scaled})
	if err != nil {
		return nil, fmt.Errorf("model prediction failed: %w", err)
	}
	return &Prediction{
		Score:   Clamp(out[0]),
		Model:   b.Metadata.SelectedModel,
		Version: b.Metadata.Version,
	}, nil
}

// Clamp bounds a raw model output to the score range. NaN maps to the minimum.
func Clamp(v float64) float64 {
	if math.IsNaN(v) {
		return wellness.MinScore
	}
	return math.Max(wellness.MinScore, math.Min(wellness.MaxScore, v))
}
