package learning

import (
	"fmt"
	"sort"
)

const leaf = -1

// treeNode is one node of a flattened tree. Leaves have Left == Right == -1.
type treeNode struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Value     float64 `json:"value"`
}

// DecisionTree は MSE 基準で分割する CART 回帰木です。
// 閾値は隣接する異なる値の中点で、x <= 閾値 なら左へ進みます。
// 分割候補が同点の場合は特徴量順・閾値の昇順で先に見つかったものを採用します。
type DecisionTree struct {
	MaxDepth        int        `json:"max_depth"`
	MinSamplesSplit int        `json:"min_samples_split"`
	Width           int        `json:"width"`
	Nodes           []treeNode `json:"nodes"`
}

// NewDecisionTree creates an untrained tree. maxDepth <= 0 means unlimited.
func NewDecisionTree(maxDepth, minSamplesSplit int) *DecisionTree {
	if minSamplesSplit < 2 {
		minSamplesSplit = 2
	}
	return &DecisionTree{MaxDepth: maxDepth, MinSamplesSplit: minSamplesSplit}
}

func (t *DecisionTree) Kind() Kind { return KindDecisionTree }

func (t *DecisionTree) Fit(X [][]float64, y []float64) error {
	width, err := checkShape(X, y)
	if err != nil {
		return err
	}
	idx := make([]int, len(X))
	for i := range idx {
		idx[i] = i
	}
	t.Width = width
	t.Nodes = t.Nodes[:0]
	t.build(X, y, idx, 0)
	return nil
}

func (t *DecisionTree) build(X [][]float64, y []float64, idx []int, depth int) int {
	var sum, sumSq float64
	for _, i := range idx {
		sum += y[i]
		sumSq += y[i] * y[i]
	}
	n := float64(len(idx))
	node := len(t.Nodes)
	t.Nodes = append(t.Nodes, treeNode{Feature: leaf, Left: leaf, Right: leaf, Value: sum / n})

	if len(idx) < t.MinSamplesSplit || (t.MaxDepth > 0 && depth >= t.MaxDepth) {
		return node
	}
	if sumSq-sum*sum/n <= 1e-12*n {
		return node
	}

	feature, threshold, ok := t.bestSplit(X, y, idx)
	if !ok {
		return node
	}

	var left, right []int
	for _, i := range idx {
		if X[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	l := t.build(X, y, left, depth+1)
	r := t.build(X, y, right, depth+1)
	t.Nodes[node].Feature = feature
	t.Nodes[node].Threshold = threshold
	t.Nodes[node].Left = l
	t.Nodes[node].Right = r
	return node
}

// bestSplit maximizes sumL²/nL + sumR²/nR, which minimizes the summed squared
// error of the two children.
func (t *DecisionTree) bestSplit(X [][]float64, y []float64, idx []int) (int, float64, bool) {
	var total float64
	for _, i := range idx {
		total += y[i]
	}
	n := len(idx)
	order := make([]int, n)

	bestScore := 0.0
	bestFeature, bestThreshold, found := 0, 0.0, false
	for f := 0; f < t.Width; f++ {
		copy(order, idx)
		sort.SliceStable(order, func(a, b int) bool { return X[order[a]][f] < X[order[b]][f] })

		var leftSum float64
		for k := 0; k < n-1; k++ {
			leftSum += y[order[k]]
			lo, hi := X[order[k]][f], X[order[k+1]][f]
			if lo == hi {
				continue
			}
			nl, nr := float64(k+1), float64(n-k-1)
			rightSum := total - leftSum
			score := leftSum*leftSum/nl + rightSum*rightSum/nr
			if !found || score > bestScore {
				bestScore = score
				bestFeature = f
				bestThreshold = lo + (hi-lo)/2
				found = true
			}
		}
	}
	return bestFeature, bestThreshold, found
}

func (t *DecisionTree) Predict(X [][]float64) ([]float64, error) {
	if len(t.Nodes) == 0 {
		return nil, fmt.Errorf("decision tree is not fitted")
	}
	out := make([]float64, len(X))
	for i, row := range X {
		if len(row) != t.Width {
			return nil, fmt.Errorf("row %d has %d features, want %d", i, len(row), t.Width)
		}
		out[i] = t.predictRow(row)
	}
	return out, nil
}

func (t *DecisionTree) predictRow(row []float64) float64 {
	n := 0
	for t.Nodes[n].Left != leaf {
		if row[t.Nodes[n].Feature] <= t.Nodes[n].Threshold {
			n = t.Nodes[n].Left
		} else {
			n = t.Nodes[n].Right
		}
	}
	return t.Nodes[n].Value
}
