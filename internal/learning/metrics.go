package learning

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// CandidateMetrics holds one candidate's held-out and cross-validated scores.
type CandidateMetrics struct {
	RMSE    float64 `json:"rmse"`
	MAE     float64 `json:"mae"`
	R2      float64 `json:"r2"`
	CVScore float64 `json:"cv_score"`
}

func RMSE(truth, pred []float64) float64 {
	var ss float64
	for i := range truth {
		d := truth[i] - pred[i]
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(truth)))
}

func MAE(truth, pred []float64) float64 {
	var s float64
	for i := range truth {
		s += math.Abs(truth[i] - pred[i])
	}
	return s / float64(len(truth))
}

// R2 is the coefficient of determination. For a constant truth it is 1 when
// the prediction is exact and 0 otherwise.
func R2(truth, pred []float64) float64 {
	mean := stat.Mean(truth, nil)
	var ssRes, ssTot float64
	for i := range truth {
		r := truth[i] - pred[i]
		d := truth[i] - mean
		ssRes += r * r
		ssTot += d * d
	}
	if ssTot == 0 {
		if ssRes == 0 {
			return 1
		}
		return 0
	}
	return 1 - ssRes/ssTot
}
