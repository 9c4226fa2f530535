package learning

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// KNN predicts the unweighted mean target of the K nearest training rows by
// Euclidean distance. Equal distances are broken by training order.
type KNN struct {
	K int         `json:"n_neighbors"`
	X [][]float64 `json:"x"`
	Y []float64   `json:"y"`
}

func NewKNN(k int) *KNN {
	if k < 1 {
		k = 1
	}
	return &KNN{K: k}
}

func (m *KNN) Kind() Kind { return KindKNN }

// Fit memorizes a copy of the training data.
func (m *KNN) Fit(X [][]float64, y []float64) error {
	if _, err := checkShape(X, y); err != nil {
		return err
	}
	m.X = make([][]float64, len(X))
	for i, row := range X {
		m.X[i] = append([]float64(nil), row...)
	}
	m.Y = append([]float64(nil), y...)
	return nil
}

func (m *KNN) Predict(X [][]float64) ([]float64, error) {
	if len(m.X) == 0 {
		return nil, fmt.Errorf("knn is not fitted")
	}
	k := min(m.K, len(m.X))
	width := len(m.X[0])
	dist := make([]float64, len(m.X))
	order := make([]int, len(m.X))
	out := make([]float64, len(X))
	for i, q := range X {
		if len(q) != width {
			return nil, fmt.Errorf("row %d has %d features, want %d", i, len(q), width)
		}
		for j, x := range m.X {
			dist[j] = floats.Distance(q, x, 2)
			order[j] = j
		}
		sort.SliceStable(order, func(a, b int) bool { return dist[order[a]] < dist[order[b]] })
		var sum float64
		for _, j := range order[:k] {
			sum += m.Y[j]
		}
		out[i] = sum / float64(k)
	}
	return out, nil
}
