// Package wellness holds the domain types shared by the training and serving paths.
package wellness

import "fmt"

// Canonical feature names.
const (
	FeatureSteps      = "steps"
	FeatureSleepHours = "sleep_hours"
	FeatureCalories   = "calories"
	// LabelHealthScore is the optional target column.
	LabelHealthScore = "health_score"
)

// Score range of both synthetic labels and clamped predictions.
const (
	MinScore = 0.0
	MaxScore = 100.0
)

// FeatureOrder は学習・推論の双方で使われる特徴量の並び順です。
// スケーラーとモデルはこの順序で学習されるため、変更してはいけません。
var FeatureOrder = []string{FeatureSteps, FeatureSleepHours, FeatureCalories}

// CanonicalOrder returns a copy of FeatureOrder.
func CanonicalOrder() []string {
	out := make([]string, len(FeatureOrder))
	copy(out, FeatureOrder)
	return out
}

// Observation は1日分の活動データです。
type Observation struct {
	Steps      int     `json:"steps"`
	SleepHours float64 `json:"sleep_hours"`
	Calories   int     `json:"calories"`
}

// Value returns the raw value of a named feature.
func (o Observation) Value(feature string) (float64, error) {
	switch feature {
	case FeatureSteps:
		return float64(o.Steps), nil
	case FeatureSleepHours:
		return o.SleepHours, nil
	case FeatureCalories:
		return float64(o.Calories), nil
	}
	return 0, fmt.Errorf("unknown feature %q", feature)
}

// Vector は指定された順序で特徴量ベクトルを組み立てます。
// モデル入力を作る唯一の経路なので、順序の不一致はここで検出されます。
func (o Observation) Vector(order []string) ([]float64, error) {
	if len(order) != len(FeatureOrder) {
		return nil, fmt.Errorf("feature order has %d entries, want %d", len(order), len(FeatureOrder))
	}
	seen := make(map[string]struct{}, len(order))
	vec := make([]float64, len(order))
	for i, name := range order {
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("feature %q appears twice in feature order", name)
		}
		seen[name] = struct{}{}
		v, err := o.Value(name)
		if err != nil {
			return nil, err
		}
		vec[i] = v
	}
	return vec, nil
}

// Validate checks the non-negativity invariant.
func (o Observation) Validate() error {
	if o.Steps < 0 || o.SleepHours < 0 || o.Calories < 0 {
		return fmt.Errorf("values cannot be negative: steps=%d sleep_hours=%v calories=%d", o.Steps, o.SleepHours, o.Calories)
	}
	return nil
}
