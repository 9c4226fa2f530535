// Package healthlog stores one activity log per user per day.
package healthlog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Shayanthavi/FitTrack-AI/internal/wellness"
)

var (
	// ErrNotFound is returned when a user has no logs.
	ErrNotFound = errors.New("no logs found")
	// ErrInvalidLog is returned for a missing user or negative values.
	ErrInvalidLog = errors.New("invalid health log")
)

// DateLayout is the wire format of log dates.
const DateLayout = "2006-01-02"

// DefaultListLimit is used when List is called with a non-positive limit.
const DefaultListLimit = 30

// Log is one day of activity for one user.
type Log struct {
	ID         int64     `json:"id"`
	UserID     string    `json:"user_id"`
	Steps      int       `json:"steps"`
	SleepHours float64   `json:"sleep_hours"`
	Calories   int       `json:"calories"`
	LogDate    time.Time `json:"log_date"`
}

// MarshalJSON writes LogDate as YYYY-MM-DD.
func (l Log) MarshalJSON() ([]byte, error) {
	type alias Log
	return json.Marshal(struct {
		alias
		LogDate string `json:"log_date"`
	}{alias: alias(l), LogDate: l.LogDate.Format(DateLayout)})
}

// Observation returns the log's inputs.
func (l Log) Observation() wellness.Observation {
	return wellness.Observation{Steps: l.Steps, SleepHours: l.SleepHours, Calories: l.Calories}
}

// Stats は指定期間のログ集計です。平均値は小数第2位で丸めます。
type Stats struct {
	AvgSteps    decimal.Decimal `json:"avg_steps"`
	AvgSleep    decimal.Decimal `json:"avg_sleep"`
	AvgCalories decimal.Decimal `json:"avg_calories"`
	MaxSteps    int             `json:"max_steps"`
	MinSteps    int             `json:"min_steps"`
	TotalLogs   int             `json:"total_logs"`
}

// Repository は日次ログの永続化を担当します。
type Repository interface {
	// Upsert stores the entry for day, replacing an existing log of that day.
	// created reports whether a new log was inserted.
	Upsert(ctx context.Context, userID string, entry wellness.Observation, day time.Time) (log *Log, created bool, err error)
	// List returns up to limit most recent logs, oldest first.
	List(ctx context.Context, userID string, limit int) ([]Log, error)
	// Latest returns the most recent log or ErrNotFound.
	Latest(ctx context.Context, userID string) (*Log, error)
	// Stats aggregates the logs dated within the last days days up to today.
	Stats(ctx context.Context, userID string, days int, today time.Time) (*Stats, error)
}

// Day truncates t to its calendar date in UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func validate(userID string, entry wellness.Observation) error {
	if userID == "" {
		return fmt.Errorf("%w: user id is required", ErrInvalidLog)
	}
	if err := entry.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidLog, err)
	}
	return nil
}

// windowStart is the first date included in a days-long window ending today.
func windowStart(days int, today time.Time) time.Time {
	if days < 1 {
		days = 1
	}
	return Day(today).AddDate(0, 0, -days)
}
