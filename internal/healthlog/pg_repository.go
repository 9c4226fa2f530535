package healthlog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Shayanthavi/FitTrack-AI/internal/wellness"
)

// Pool is an interface that abstracts the pgxpool.Pool for testability.
type Pool interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

const (
	upsertLogSQL = `
        INSERT INTO health_logs (user_id, steps, sleep_hours, calories, log_date)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (user_id, log_date) DO UPDATE
        SET steps = EXCLUDED.steps, sleep_hours = EXCLUDED.sleep_hours, calories = EXCLUDED.calories, updated_at = now()
        RETURNING id, (xmax = 0) AS inserted;
    `
	listLogsSQL = `
        SELECT id, user_id, steps, sleep_hours, calories, log_date
        FROM health_logs
        WHERE user_id = $1
        ORDER BY log_date DESC
        LIMIT $2;
    `
	statsSQL = `
        SELECT
            COALESCE(ROUND(AVG(steps)::numeric, 2), 0)::text,
            COALESCE(ROUND(AVG(sleep_hours)::numeric, 2), 0)::text,
            COALESCE(ROUND(AVG(calories)::numeric, 2), 0)::text,
            COALESCE(MAX(steps), 0)::bigint,
            COALESCE(MIN(steps), 0)::bigint,
            COUNT(*)
        FROM health_logs
        WHERE user_id = $1 AND log_date >= $2;
    `
)

// PgRepository stores logs in the health_logs table.
type PgRepository struct {
	pool   Pool
	logger *zap.Logger
}

func NewPgRepository(pool Pool, logger *zap.Logger) *PgRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PgRepository{pool: pool, logger: logger}
}

func (r *PgRepository) Upsert(ctx context.Context, userID string, entry wellness.Observation, day time.Time) (*Log, bool, error) {
	if err := validate(userID, entry); err != nil {
		return nil, false, err
	}
	day = Day(day)
	var (
		id       int64
		inserted bool
	)
	err := r.pool.QueryRow(ctx, upsertLogSQL, userID, entry.Steps, entry.SleepHours, entry.Calories, day).Scan(&id, &inserted)
	if err != nil {
		return nil, false, fmt.Errorf("failed to upsert health log: %w", err)
	}
	r.logger.Debug("Health log stored", zap.String("user_id", userID), zap.Int64("id", id), zap.Bool("created", inserted))
	return &Log{
		ID:         id,
		UserID:     userID,
		Steps:      entry.Steps,
		SleepHours: entry.SleepHours,
		Calories:   entry.Calories,
		LogDate:    day,
	}, inserted, nil
}

func (r *PgRepository) List(ctx context.Context, userID string, limit int) ([]Log, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	rows, err := r.pool.Query(ctx, listLogsSQL, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query health logs: %w", err)
	}
	defer rows.Close()

	var logs []Log
	for rows.Next() {
		l, err := scanLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read health logs: %w", err)
	}
	// oldest first for charts
	for i, j := 0, len(logs)-1; i < j; i, j = i+1, j-1 {
		logs[i], logs[j] = logs[j], logs[i]
	}
	return logs, nil
}

func (r *PgRepository) Latest(ctx context.Context, userID string) (*Log, error) {
	rows, err := r.pool.Query(ctx, listLogsSQL, userID, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest health log: %w", err)
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("failed to read latest health log: %w", err)
		}
		return nil, ErrNotFound
	}
	return scanLog(rows)
}

func (r *PgRepository) Stats(ctx context.Context, userID string, days int, today time.Time) (*Stats, error) {
	var (
		avgSteps, avgSleep, avgCalories string
		maxSteps, minSteps, count       int64
	)
	err := r.pool.QueryRow(ctx, statsSQL, userID, windowStart(days, today)).
		Scan(&avgSteps, &avgSleep, &avgCalories, &maxSteps, &minSteps, &count)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to query health stats: %w", err)
	}
	stats := &Stats{MaxSteps: int(maxSteps), MinSteps: int(minSteps), TotalLogs: int(count)}
	for _, f := range []struct {
		src string
		dst *decimal.Decimal
	}{
		{avgSteps, &stats.AvgSteps},
		{avgSleep, &stats.AvgSleep},
		{avgCalories, &stats.AvgCalories},
	} {
		if f.src == "" {
			continue
		}
		d, err := decimal.NewFromString(f.src)
		if err != nil {
			return nil, fmt.Errorf("failed to parse average %q: %w", f.src, err)
		}
		*f.dst = d
	}
	return stats, nil
}

func scanLog(rows pgx.Rows) (*Log, error) {
	var l Log
	var steps, calories int64
	if err := rows.Scan(&l.ID, &l.UserID, &steps, &l.SleepHours, &calories, &l.LogDate); err != nil {
		return nil, fmt.Errorf("failed to scan health log: %w", err)
	}
	l.Steps = int(steps)
	l.Calories = int(calories)
	l.LogDate = Day(l.LogDate)
	return &l, nil
}
