package learning

import (
	"fmt"
	"math/rand"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// RandomForest averages bootstrap-bagged CART trees. Every tree sees all
// features. Bootstrap samples are drawn sequentially from Seed before the trees
// are fitted in parallel, so results do not depend on scheduling.
type RandomForest struct {
	Estimators      int             `json:"n_estimators"`
	MaxDepth        int             `json:"max_depth"`
	MinSamplesSplit int             `json:"min_samples_split"`
	Seed            int64           `json:"seed"`
	Trees           []*DecisionTree `json:"trees"`
}

func NewRandomForest(estimators, maxDepth, minSamplesSplit int, seed int64) *RandomForest {
	if estimators < 1 {
		estimators = 1
	}
	return &RandomForest{
		Estimators:      estimators,
		MaxDepth:        maxDepth,
		MinSamplesSplit: minSamplesSplit,
		Seed:            seed,
	}
}

func (f *RandomForest) Kind() Kind { return KindRandomForest }

func (f *RandomForest) Fit(X [][]float64, y []float64) error {
	if _, err := checkShape(X, y); err != nil {
		return err
	}
	rng := rand.New(rand.NewSource(f.Seed))
	samples := make([][]int, f.Estimators)
	for t := range samples {
		s := make([]int, len(X))
		for i := range s {
			s[i] = rng.Intn(len(X))
		}
		samples[t] = s
	}

	trees := make([]*DecisionTree, f.Estimators)
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for t := range trees {
		g.Go(func() error {
			bx := make([][]float64, len(samples[t]))
			by := make([]float64, len(samples[t]))
			for i, j := range samples[t] {
				bx[i] = X[j]
				by[i] = y[j]
			}
			tree := NewDecisionTree(f.MaxDepth, f.MinSamplesSplit)
			if err := tree.Fit(bx, by); err != nil {
				return fmt.Errorf("tree %d: %w", t, err)
			}
			trees[t] = tree
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	f.Trees = trees
	return nil
}

func (f *RandomForest) Predict(X [][]float64) ([]float64, error) {
	if len(f.Trees) == 0 {
		return nil, fmt.Errorf("random forest is not fitted")
	}
	out := make([]float64, len(X))
	for _, tree := range f.Trees {
		pred, err := tree.Predict(X)
		if err != nil {
			return nil, err
		}
		for i, v := range pred {
			out[i] += v
		}
	}
	for i := range out {
		out[i] /= float64(len(f.Trees))
	}
	return out, nil
}
