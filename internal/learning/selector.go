package learning

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"
)

// SelectorConfig controls the split, cross-validation and the candidate models.
type SelectorConfig struct {
	TestRatio float64
	Folds     int
	MinRows   int
	Params    Hyperparameters
}

func DefaultSelectorConfig() SelectorConfig {
	return SelectorConfig{
		TestRatio: 0.2,
		Folds:     5,
		MinRows:   25,
		Params:    DefaultHyperparameters(),
	}
}

// Candidates is the fixed declaration order. Ties in held-out R² go to the
// earlier entry.
var Candidates = []Kind{KindDecisionTree, KindRandomForest, KindKNN}

// Selection is the outcome of a selection run. Model and Scaler were fitted on
// the same training subset and must be used together.
type Selection struct {
	Name       string
	Kind       Kind
	Model      Regressor
	Scaler     *Scaler
	Metrics    map[string]CandidateMetrics
	Candidates []string
	TrainRows  int
	TestRows   int
}

// Selector は候補モデルを訓練・評価し、検証用 R² が最も高いものを選びます。
type Selector struct {
	cfg    SelectorConfig
	logger *zap.Logger
}

func NewSelector(cfg SelectorConfig, logger *zap.Logger) *Selector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Selector{cfg: cfg, logger: logger}
}

// minRows is the configured floor raised to what the split and the folds need.
func (s *Selector) minRows() int {
	n := max(s.cfg.MinRows, s.cfg.Folds+1)
	for n-int(math.Ceil(float64(n)*s.cfg.TestRatio)) < s.cfg.Folds {
		n++
	}
	return n
}

// Select trains every candidate on X, y and picks the best one.
func (s *Selector) Select(ctx context.Context, X [][]float64, y []float64) (*Selection, error) {
	if s.cfg.TestRatio <= 0 || s.cfg.TestRatio >= 1 || s.cfg.Folds < 2 {
		return nil, &TrainingError{Rows: len(X), Reason: fmt.Sprintf("invalid split settings: test ratio %v, %d folds", s.cfg.TestRatio, s.cfg.Folds)}
	}
	if need := s.minRows(); len(X) < need {
		return nil, &TrainingError{Rows: len(X), MinRows: need}
	}
	if _, err := checkShape(X, y); err != nil {
		return nil, &TrainingError{Rows: len(X), Reason: err.Error()}
	}

	trainIdx, testIdx, err := TrainTestSplit(len(X), s.cfg.TestRatio, s.cfg.Params.Seed)
	if err != nil {
		return nil, &TrainingError{Rows: len(X), Reason: err.Error()}
	}
	if len(trainIdx) < s.cfg.Folds {
		return nil, &TrainingError{Rows: len(X), Reason: fmt.Sprintf("%d training rows cannot make %d folds", len(trainIdx), s.cfg.Folds)}
	}

	scaler, err := FitScaler(takeRows(X, trainIdx))
	if err != nil {
		return nil, err
	}
	xTrain, err := scaler.Transform(takeRows(X, trainIdx))
	if err != nil {
		return nil, err
	}
	xTest, err := scaler.Transform(takeRows(X, testIdx))
	if err != nil {
		return nil, err
	}
	yTrain := takeValues(y, trainIdx)
	yTest := takeValues(y, testIdx)

	sel := &Selection{
		Scaler:    scaler,
		Metrics:   make(map[string]CandidateMetrics, len(Candidates)),
		TrainRows: len(trainIdx),
		TestRows:  len(testIdx),
	}
	best := -1
	bestR2 := 0.0
	for i, kind := range Candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := kind.DisplayName()
		s.logger.Info("Training candidate", zap.String("model", name))

		model, m, err := s.evaluate(kind, xTrain, yTrain, xTest, yTest)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		sel.Metrics[name] = m
		sel.Candidates = append(sel.Candidates, name)
		s.logger.Info("Candidate evaluated",
			zap.String("model", name),
			zap.Float64("rmse", m.RMSE),
			zap.Float64("mae", m.MAE),
			zap.Float64("r2", m.R2),
			zap.Float64("cv_score", m.CVScore))

		if best < 0 || m.R2 > bestR2 {
			best, bestR2 = i, m.R2
			sel.Name, sel.Kind, sel.Model = name, kind, model
		}
	}

	s.logger.Info("Best model selected", zap.String("model", sel.Name), zap.Float64("r2", bestR2))
	return sel, nil
}

func (s *Selector) evaluate(kind Kind, xTrain [][]float64, yTrain []float64, xTest [][]float64, yTest []float64) (Regressor, CandidateMetrics, error) {
	model, err := NewRegressor(kind, s.cfg.Params)
	if err != nil {
		return nil, CandidateMetrics{}, err
	}
	if err := model.Fit(xTrain, yTrain); err != nil {
		return nil, CandidateMetrics{}, fmt.Errorf("fit: %w", err)
	}
	pred, err := model.Predict(xTest)
	if err != nil {
		return nil, CandidateMetrics{}, fmt.Errorf("predict: %w", err)
	}
	cv, err := CrossValidate(kind, s.cfg.Params, xTrain, yTrain, s.cfg.Folds)
	if err != nil {
		return nil, CandidateMetrics{}, fmt.Errorf("cross-validate: %w", err)
	}
	return model, CandidateMetrics{
		RMSE:    RMSE(yTest, pred),
		MAE:     MAE(yTest, pred),
		R2:      R2(yTest, pred),
		CVScore: cv,
	}, nil
}

// CrossValidate returns the mean R² over unshuffled k folds. Each fold fits a
// fresh regressor.
func CrossValidate(kind Kind, hp Hyperparameters, X [][]float64, y []float64, k int) (float64, error) {
	folds, err := KFold(len(X), k)
	if err != nil {
		return 0, err
	}
	var total float64
	for _, fold := range folds {
		model, err := NewRegressor(kind, hp)
		if err != nil {
			return 0, err
		}
		if err := model.Fit(takeRows(X, fold.Train), takeValues(y, fold.Train)); err != nil {
			return 0, err
		}
		pred, err := model.Predict(takeRows(X, fold.Test))
		if err != nil {
			return 0, err
		}
		total += R2(takeValues(y, fold.Test), pred)
	}
	return total / float64(len(folds)), nil
}
