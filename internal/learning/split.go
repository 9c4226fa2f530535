package learning

import (
	"fmt"
	"math"
	"math/rand"
)

// TrainTestSplit partitions row indices 0..n-1 with a seeded permutation. The
// first ceil(n*testRatio) permuted indices form the held-out set.
func TrainTestSplit(n int, testRatio float64, seed int64) (train, test []int, err error) {
	if testRatio <= 0 || testRatio >= 1 {
		return nil, nil, fmt.Errorf("test ratio must be in (0,1), got %v", testRatio)
	}
	nTest := int(math.Ceil(float64(n) * testRatio))
	if nTest < 1 || n-nTest < 1 {
		return nil, nil, fmt.Errorf("cannot split %d rows with test ratio %v", n, testRatio)
	}
	perm := rand.New(rand.NewSource(seed)).Perm(n)
	return perm[nTest:], perm[:nTest], nil
}

// Fold is one train/validation partition of a k-fold split.
type Fold struct {
	Train []int
	Test  []int
}

// KFold splits 0..n-1 into k contiguous, unshuffled folds. The first n%k
// folds hold one extra row.
func KFold(n, k int) ([]Fold, error) {
	if k < 2 || n < k {
		return nil, fmt.Errorf("cannot make %d folds from %d rows", k, n)
	}
	folds := make([]Fold, 0, k)
	start := 0
	for f := 0; f < k; f++ {
		size := n / k
		if f < n%k {
			size++
		}
		fold := Fold{Train: make([]int, 0, n-size), Test: make([]int, 0, size)}
		for i := 0; i < n; i++ {
			if i >= start && i < start+size {
				fold.Test = append(fold.Test, i)
			} else {
				fold.Train = append(fold.Train, i)
			}
		}
		folds = append(folds, fold)
		start += size
	}
	return folds, nil
}

func takeRows(X [][]float64, idx []int) [][]float64 {
	out := make([][]float64, len(idx))
	for i, j := range idx {
		out[i] = X[j]
	}
	return out
}

func takeValues(y []float64, idx []int) []float64 {
	out := make([]float64, len(idx))
	for i, j := range idx {
		out[i] = y[j]
	}
	return out
}
