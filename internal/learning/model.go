package learning

import "fmt"

// Kind は回帰モデルの種別を表すタグです。保存形式にもこの値が書き込まれます。
type Kind string

const (
	KindDecisionTree Kind = "decision_tree"
	KindRandomForest Kind = "random_forest"
	KindKNN          Kind = "knn"
)

// DisplayName returns the name reported to clients and stored in metadata.
func (k Kind) DisplayName() string {
	switch k {
	case KindDecisionTree:
		return "Decision Tree"
	case KindRandomForest:
		return "Random Forest"
	case KindKNN:
		return "K-Nearest Neighbors"
	default:
		return string(k)
	}
}

// ParseKind resolves a stored kind tag.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindDecisionTree, KindRandomForest, KindKNN:
		return k, nil
	default:
		return "", fmt.Errorf("unknown model kind %q", s)
	}
}

// Regressorは学習済み回帰モデルのインターフェースです。
// 入力は標準化済みの特徴量行列を想定しています。
type Regressor interface {
	// Kind はモデル種別を返します。
	Kind() Kind
	// Fit はモデルを訓練します。既存の学習結果は破棄されます。
	Fit(X [][]float64, y []float64) error
	// Predict は各行の予測値を返します。
	Predict(X [][]float64) ([]float64, error)
}

// Hyperparameters fixes every model family's settings. They are never tuned.
type Hyperparameters struct {
	Seed int64

	TreeMaxDepth        int
	TreeMinSamplesSplit int

	ForestEstimators int
	ForestMaxDepth   int

	Neighbors int
}

// DefaultHyperparameters returns the settings used by the original service.
func DefaultHyperparameters() Hyperparameters {
	return Hyperparameters{
		Seed:                42,
		TreeMaxDepth:        10,
		TreeMinSamplesSplit: 2,
		ForestEstimators:    100,
		ForestMaxDepth:      10,
		Neighbors:           5,
	}
}

// NewRegressor creates an untrained regressor of the given kind.
func NewRegressor(kind Kind, hp Hyperparameters) (Regressor, error) {
	switch kind {
	case KindDecisionTree:
		return NewDecisionTree(hp.TreeMaxDepth, hp.TreeMinSamplesSplit), nil
	case KindRandomForest:
		return NewRandomForest(hp.ForestEstimators, hp.ForestMaxDepth, hp.TreeMinSamplesSplit, hp.Seed), nil
	case KindKNN:
		return NewKNN(hp.Neighbors), nil
	default:
		return nil, fmt.Errorf("unknown model kind %q", kind)
	}
}

func checkShape(X [][]float64, y []float64) (int, error) {
	if len(X) == 0 {
		return 0, fmt.Errorf("no training samples")
	}
	if len(X) != len(y) {
		return 0, fmt.Errorf("feature rows (%d) and targets (%d) differ", len(X), len(y))
	}
	width := len(X[0])
	for i, row := range X {
		if len(row) != width {
			return 0, fmt.Errorf("row %d has %d features, want %d", i, len(row), width)
		}
	}
	return width, nil
}
