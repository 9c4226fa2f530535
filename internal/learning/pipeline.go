package learning

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Shayanthavi/FitTrack-AI/internal/dataset"
	"github.com/Shayanthavi/FitTrack-AI/internal/metrics"
)

// TrainerDeps wires a Trainer. Activator, Events and Metrics are optional.
type TrainerDeps struct {
	Preparer  *dataset.Preparer
	Selector  *Selector
	Store     Store
	Activator Activator
	Events    EventPublisher
	Metrics   *metrics.Metrics
	Logger    *zap.Logger
}

// TrainResult is the outcome of a successful training run.
type TrainResult struct {
	RunID    string
	Bundle   *Bundle
	Prepared *dataset.Prepared
	Duration time.Duration
}

// Trainerは学習パイプライン(読込→前処理→モデル選択→保存→公開)を実行します。
// 学習は同時に1つだけ実行されます。途中で失敗した場合、保存済みのモデルと
// 公開中のモデルはそのまま残ります。
type Trainer struct {
	mu        sync.Mutex
	preparer  *dataset.Preparer
	selector  *Selector
	store     Store
	activator Activator
	events    EventPublisher
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

// NewTrainerは新しいTrainerを生成します。
func NewTrainer(deps TrainerDeps) (*Trainer, error) {
	if deps.Preparer == nil || deps.Selector == nil || deps.Store == nil {
		return nil, errors.New("trainer needs a preparer, a selector and a store")
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Trainer{
		preparer:  deps.Preparer,
		selector:  deps.Selector,
		store:     deps.Store,
		activator: deps.Activator,
		events:    deps.Events,
		metrics:   deps.Metrics,
		logger:    logger,
	}, nil
}

// TrainFromCSV trains on the CSV file at path.
func (t *Trainer) TrainFromCSV(ctx context.Context, path string) (*TrainResult, error) {
	return t.run(ctx, path)
}

func (t *Trainer) run(ctx context.Context, source string) (res *TrainResult, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	runID := uuid.NewString()
	start := time.Now()
	logger := t.logger.With(zap.String("run_id", runID))
	rows := 0

	defer func() {
		if err == nil {
			return
		}
		logger.Error("Training failed", zap.String("source", source), zap.Error(err))
		t.metrics.ObserveTraining(metrics.OutcomeFailure, time.Since(start), rows)
		t.emit(context.WithoutCancel(ctx), &Event{Type: EventFailed, RunID: runID, Error: err.Error()})
	}()

	logger.Info("Training started", zap.String("source", source))
	t.emit(ctx, &Event{Type: EventStarted, RunID: runID, Message: source})

	table, err := dataset.LoadCSV(source)
	if err != nil {
		return nil, err
	}
	prepared, err := t.preparer.Prepare(table)
	if err != nil {
		return nil, err
	}
	rows = prepared.Rows
	t.emit(ctx, &Event{Type: EventPrepared, RunID: runID, Rows: prepared.Rows})

	sel, err := t.selector.Select(ctx, prepared.Features, prepared.Targets)
	if err != nil {
		return nil, err
	}
	for _, name := range sel.Candidates {
		m := sel.Metrics[name]
		t.metrics.SetCandidateR2(name, m.R2)
		t.emit(ctx, &Event{Type: EventCandidate, RunID: runID, Model: name, Metrics: &m})
	}
	t.emit(ctx, &Event{Type: EventSelected, RunID: runID, Model: sel.Name})

	bundle := &Bundle{
		Model:  sel.Model,
		Scaler: sel.Scaler,
		Metadata: Metadata{
			Version:         runID,
			SelectedModel:   sel.Name,
			ModelKind:       sel.Kind,
			FeatureOrder:    prepared.FeatureOrder,
			Candidates:      sel.Candidates,
			Metrics:         sel.Metrics,
			Rows:            prepared.Rows,
			SyntheticSleep:  prepared.SyntheticSleep,
			SyntheticLabels: prepared.SyntheticLabels,
			TrainedAt:       time.Now().UTC(),
		},
	}
	if err := t.store.Save(ctx, bundle); err != nil {
		return nil, fmt.Errorf("failed to save model: %w", err)
	}
	t.emit(ctx, &Event{Type: EventSaved, RunID: runID, Model: sel.Name})

	if t.activator != nil {
		if err := t.activator.Activate(bundle); err != nil {
			return nil, fmt.Errorf("failed to activate model: %w", err)
		}
	}

	d := time.Since(start)
	t.metrics.ObserveTraining(metrics.OutcomeSuccess, d, prepared.Rows)
	logger.Info("Training complete",
		zap.String("model", sel.Name),
		zap.Int("rows", prepared.Rows),
		zap.Duration("duration", d))
	return &TrainResult{RunID: runID, Bundle: bundle, Prepared: prepared, Duration: d}, nil
}

func (t *Trainer) emit(ctx context.Context, ev *Event) {
	if t.events == nil {
		return
	}
	ev.Time = time.Now().UTC()
	if err := t.events.Publish(ctx, ev); err != nil {
		t.logger.Debug("Dropped training event", zap.String("type", string(ev.Type)), zap.Error(err))
	}
}
