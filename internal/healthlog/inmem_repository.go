package healthlog

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Shayanthavi/FitTrack-AI/internal/wellness"
)

// InMemRepository はデータベースを使わずにログを保持します。
// データベース未設定時とテストで使われます。
type InMemRepository struct {
	mu     sync.RWMutex
	nextID int64
	logs   map[string]map[time.Time]*Log
}

func NewInMemRepository() *InMemRepository {
	return &InMemRepository{logs: make(map[string]map[time.Time]*Log)}
}

func (r *InMemRepository) Upsert(ctx context.Context, userID string, entry wellness.Observation, day time.Time) (*Log, bool, error) {
	if err := validate(userID, entry); err != nil {
		return nil, false, err
	}
	day = Day(day)

	r.mu.Lock()
	defer r.mu.Unlock()

	byDay, ok := r.logs[userID]
	if !ok {
		byDay = make(map[time.Time]*Log)
		r.logs[userID] = byDay
	}
	if existing, ok := byDay[day]; ok {
		existing.Steps = entry.Steps
		existing.SleepHours = entry.SleepHours
		existing.Calories = entry.Calories
		out := *existing
		return &out, false, nil
	}
	r.nextID++
	l := &Log{
		ID:         r.nextID,
		UserID:     userID,
		Steps:      entry.Steps,
		SleepHours: entry.SleepHours,
		Calories:   entry.Calories,
		LogDate:    day,
	}
	byDay[day] = l
	out := *l
	return &out, true, nil
}

// sorted returns a user's logs newest first.
func (r *InMemRepository) sorted(userID string) []Log {
	byDay := r.logs[userID]
	out := make([]Log, 0, len(byDay))
	for _, l := range byDay {
		out = append(out, *l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LogDate.After(out[j].LogDate) })
	return out
}

func (r *InMemRepository) List(ctx context.Context, userID string, limit int) ([]Log, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	r.mu.RLock()
	logs := r.sorted(userID)
	r.mu.RUnlock()

	if len(logs) > limit {
		logs = logs[:limit]
	}
	for i, j := 0, len(logs)-1; i < j; i, j = i+1, j-1 {
		logs[i], logs[j] = logs[j], logs[i]
	}
	if len(logs) == 0 {
		return nil, nil
	}
	return logs, nil
}

func (r *InMemRepository) Latest(ctx context.Context, userID string) (*Log, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	logs := r.sorted(userID)
	if len(logs) == 0 {
		return nil, ErrNotFound
	}
	return &logs[0], nil
}

func (r *InMemRepository) Stats(ctx context.Context, userID string, days int, today time.Time) (*Stats, error) {
	from := windowStart(days, today)

	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := &Stats{}
	var steps, sleep, calories decimal.Decimal
	for _, l := range r.logs[userID] {
		if l.LogDate.Before(from) {
			continue
		}
		if stats.TotalLogs == 0 || l.Steps > stats.MaxSteps {
			stats.MaxSteps = l.Steps
		}
		if stats.TotalLogs == 0 || l.Steps < stats.MinSteps {
			stats.MinSteps = l.Steps
		}
		stats.TotalLogs++
		steps = steps.Add(decimal.NewFromInt(int64(l.Steps)))
		sleep = sleep.Add(decimal.NewFromFloat(l.SleepHours))
		calories = calories.Add(decimal.NewFromInt(int64(l.Calories)))
	}
	if stats.TotalLogs == 0 {
		return stats, nil
	}
	n := decimal.NewFromInt(int64(stats.TotalLogs))
	stats.AvgSteps = steps.DivRound(n, 2)
	stats.AvgSleep = sleep.DivRound(n, 2)
	stats.AvgCalories = calories.DivRound(n, 2)
	return stats, nil
}
