// Package modelstore persists the (model, scaler, metadata) triple as one
// atomic unit. Only the latest triple is kept.
package modelstore

import (
	"context"
	"errors"

	"github.com/Shayanthavi/FitTrack-AI/internal/learning"
)

// ErrNoModel is returned by Load before any successful save.
var ErrNoModel = errors.New("no model trained yet")

// Artifact file names, shared by every store.
const (
	ModelFile  = "health_model.json"
	ScalerFile = "scaler.json"
	InfoFile   = "model_info.json"
)

// Store saves and loads the current bundle.
type Store interface {
	// Save replaces the current bundle. A failed save leaves the previous
	// bundle readable.
	Save(ctx context.Context, b *learning.Bundle) error
	// Load returns the most recently saved bundle or ErrNoModel.
	Load(ctx context.Context) (*learning.Bundle, error)
}
