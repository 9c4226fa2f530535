// Package app wires configuration into the training and serving components
// shared by cmd/server and cmd/fittrackctl.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/Shayanthavi/FitTrack-AI/internal/config"
	"github.com/Shayanthavi/FitTrack-AI/internal/dataset"
	"github.com/Shayanthavi/FitTrack-AI/internal/dbmigrate"
	"github.com/Shayanthavi/FitTrack-AI/internal/healthlog"
	"github.com/Shayanthavi/FitTrack-AI/internal/inference"
	"github.com/Shayanthavi/FitTrack-AI/internal/learning"
	"github.com/Shayanthavi/FitTrack-AI/internal/metrics"
	"github.com/Shayanthavi/FitTrack-AI/internal/modelstore"
)

// EventBufferSize is the per-subscriber buffer of the training event stream.
const EventBufferSize = 64

// App holds the wired components.
type App struct {
	Config   *config.Config
	Pool     *pgxpool.Pool
	Store    modelstore.Store
	Registry *inference.Registry
	Engine   *inference.Engine
	Trainer  *learning.Trainer
	Events   *learning.EventStream
	Logs     healthlog.Repository
	Metrics  *metrics.Metrics
	Preparer *dataset.Preparer
	logger   *zap.Logger
}

// PrepareOptions maps the training config onto data preparation options.
func PrepareOptions(t config.TrainingConfig) dataset.Options {
	return dataset.Options{
		SynthesizeSleep: bool(t.SynthesizeSleep),
		SleepMin:        t.SyntheticSleepMin,
		SleepMax:        t.SyntheticSleepMax,
		ZThreshold:      t.OutlierZThreshold,
		Seed:            t.Seed,
	}
}

// SelectorConfig maps the training config onto model selection settings.
func SelectorConfig(t config.TrainingConfig) learning.SelectorConfig {
	return learning.SelectorConfig{
		TestRatio: t.TestRatio,
		Folds:     t.CVFolds,
		MinRows:   t.MinRows,
		Params: learning.Hyperparameters{
			Seed:                t.Seed,
			TreeMaxDepth:        t.DecisionTree.MaxDepth,
			TreeMinSamplesSplit: t.DecisionTree.MinSamplesSplit,
			ForestEstimators:    t.RandomForest.Estimators,
			ForestMaxDepth:      t.RandomForest.MaxDepth,
			Neighbors:           t.KNN.Neighbors,
		},
	}
}

// New wires every component. When the database is enabled it connects,
// applies migrations and uses Postgres for health logs and, if configured,
// for the model store. reg may be nil to skip metrics.
func New(ctx context.Context, cfg *config.Config, reg prometheus.Registerer, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &App{Config: cfg, logger: logger}
	if reg != nil {
		a.Metrics = metrics.New(reg)
	}

	if cfg.Database.Enabled {
		if _, err := dbmigrate.Up(cfg.Database.URL(), logger); err != nil {
			return nil, err
		}
		pool, err := pgxpool.New(ctx, cfg.Database.URL())
		if err != nil {
			return nil, fmt.Errorf("failed to create connection pool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		a.Pool = pool
		a.Logs = healthlog.NewPgRepository(pool, logger)
		logger.Info("Connected to database", zap.String("host", cfg.Database.Host), zap.String("name", cfg.Database.Name))
	} else {
		a.Logs = healthlog.NewInMemRepository()
		logger.Warn("Database disabled; health logs are kept in memory")
	}

	switch cfg.ModelStore {
	case "postgres":
		a.Store = modelstore.NewPostgresStore(a.Pool, logger)
	default:
		fileStore, err := modelstore.NewFileStore(cfg.ModelDir, logger)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.Store = fileStore
	}

	a.Registry = inference.NewRegistry()
	a.Engine = inference.NewEngine(a.Registry, a.Metrics)
	a.Events = learning.NewEventStream(EventBufferSize)
	a.Preparer = dataset.NewPreparer(PrepareOptions(cfg.Training), logger.Named("dataset"))

	trainer, err := learning.NewTrainer(learning.TrainerDeps{
		Preparer:  a.Preparer,
		Selector:  learning.NewSelector(SelectorConfig(cfg.Training), logger.Named("selector")),
		Store:     a.Store,
		Activator: a.Registry,
		Events:    a.Events,
		Metrics:   a.Metrics,
		Logger:    logger.Named("trainer"),
	})
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Trainer = trainer
	return a, nil
}

// LoadModel publishes the stored model, if any. A missing model is not an
// error: the service starts and waits for a training upload.
func (a *App) LoadModel(ctx context.Context) error {
	err := a.Registry.LoadFrom(ctx, a.Store)
	if errors.Is(err, modelstore.ErrNoModel) {
		a.logger.Warn("No trained model found; train one via POST /train")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load model: %w", err)
	}
	meta := a.Registry.Current().Bundle.Metadata
	a.logger.Info("Model loaded",
		zap.String("model", meta.SelectedModel),
		zap.String("version", meta.Version),
		zap.Time("trained_at", meta.TrainedAt))
	return nil
}

// Close releases the database pool.
func (a *App) Close() {
	if a.Pool != nil {
		a.Pool.Close()
	}
}
