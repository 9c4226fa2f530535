package modelstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/Shayanthavi/FitTrack-AI/internal/learning"
)

// Pool is an interface that abstracts the pgxpool.Pool for testability.
type Pool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

const (
	insertArtifactsSQL = `INSERT INTO model_artifacts (version, model_name, model, scaler, info, trained_at) VALUES ($1, $2, $3, $4, $5, $6)`
	deleteOthersSQL    = `DELETE FROM model_artifacts WHERE version <> $1`
	selectCurrentSQL   = `SELECT model, scaler, info FROM model_artifacts ORDER BY trained_at DESC LIMIT 1`
)

// PostgresStore keeps the bundle in the model_artifacts table. A save inserts
// the new row and deletes the others in one transaction.
type PostgresStore struct {
	pool   Pool
	logger *zap.Logger
}

func NewPostgresStore(pool Pool, logger *zap.Logger) *PostgresStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostgresStore{pool: pool, logger: logger}
}

func (s *PostgresStore) Save(ctx context.Context, b *learning.Bundle) error {
	arts, err := learning.EncodeBundle(b)
	if err != nil {
		return err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	meta := b.Metadata
	if _, err := tx.Exec(ctx, insertArtifactsSQL,
		meta.Version, meta.SelectedModel, arts.Model, arts.Scaler, arts.Info, meta.TrainedAt); err != nil {
		_ = tx.Rollback(ctx)
		return fmt.Errorf("failed to insert model artifacts: %w", err)
	}
	if _, err := tx.Exec(ctx, deleteOthersSQL, meta.Version); err != nil {
		_ = tx.Rollback(ctx)
		return fmt.Errorf("failed to delete previous model artifacts: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit model artifacts: %w", err)
	}

	s.logger.Info("Model saved to database",
		zap.String("version", meta.Version),
		zap.String("model", meta.SelectedModel))
	return nil
}

func (s *PostgresStore) Load(ctx context.Context) (*learning.Bundle, error) {
	var arts learning.Artifacts
	err := s.pool.QueryRow(ctx, selectCurrentSQL).Scan(&arts.Model, &arts.Scaler, &arts.Info)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoModel
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query model artifacts: %w", err)
	}
	return learning.DecodeBundle(&arts)
}
