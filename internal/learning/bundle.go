package learning

import (
	"fmt"
	"time"

	"github.com/Shayanthavi/FitTrack-AI/internal/wellness"
)

// Metadata describes the model of one training run. It is replaced wholesale
// by every successful run.
type Metadata struct {
	Version         string                      `json:"version"`
	SelectedModel   string                      `json:"model_name"`
	ModelKind       Kind                        `json:"model_kind"`
	FeatureOrder    []string                    `json:"features"`
	Candidates      []string                    `json:"candidates"`
	Metrics         map[string]CandidateMetrics `json:"results"`
	Rows            int                         `json:"rows"`
	SyntheticSleep  bool                        `json:"synthetic_sleep"`
	SyntheticLabels bool                        `json:"synthetic_labels"`
	TrainedAt       time.Time                   `json:"trained_at"`
}

// Bundle は学習済みモデル・スケーラー・メタデータの三つ組です。
// 三つは常に一緒に保存・読み込み・公開され、個別に差し替えてはいけません。
type Bundle struct {
	Model    Regressor
	Scaler   *Scaler
	Metadata Metadata
}

// Validate checks that the three parts fit together.
func (b *Bundle) Validate() error {
	if b == nil || b.Model == nil || b.Scaler == nil {
		return fmt.Errorf("incomplete model bundle")
	}
	if b.Model.Kind() != b.Metadata.ModelKind {
		return fmt.Errorf("model kind %q does not match metadata kind %q", b.Model.Kind(), b.Metadata.ModelKind)
	}
	if _, err := (wellness.Observation{}).Vector(b.Metadata.FeatureOrder); err != nil {
		return fmt.Errorf("invalid feature order: %w", err)
	}
	if b.Scaler.Width() != len(b.Metadata.FeatureOrder) {
		return fmt.Errorf("scaler has %d features, metadata lists %d", b.Scaler.Width(), len(b.Metadata.FeatureOrder))
	}
	return nil
}
