package learning

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Shayanthavi/FitTrack-AI/internal/dataset"
)

// MockStore is a mock for the Store interface.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Save(ctx context.Context, b *Bundle) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

// MockActivator is a mock for the Activator interface.
type MockActivator struct {
	mock.Mock
}

func (m *MockActivator) Activate(b *Bundle) error {
	args := m.Called(b)
	return args.Error(0)
}

func writeTrainingCSV(t *testing.T, n int) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("TotalSteps,Calories,Sleep\n")
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "%d,%d,%.1f\n", 3000+(i*739)%9000, 1300+(i*131)%1400, 5+float64((i*7)%50)/10)
	}
	path := filepath.Join(t.TempDir(), "train.csv")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}

func newTestTrainer(t *testing.T, store Store, act Activator, events EventPublisher) *Trainer {
	t.Helper()
	opts := dataset.DefaultOptions()
	cfg := DefaultSelectorConfig()
	cfg.Params.ForestEstimators = 10
	trainer, err := NewTrainer(TrainerDeps{
		Preparer:  dataset.NewPreparer(opts, nil),
		Selector:  NewSelector(cfg, nil),
		Store:     store,
		Activator: act,
		Events:    events,
	})
	require.NoError(t, err)
	return trainer
}

func collect(ch <-chan *Event) []EventType {
	var types []EventType
	for {
		select {
		case ev := <-ch:
			types = append(types, ev.Type)
		case <-time.After(100 * time.Millisecond):
			return types
		}
	}
}

func TestTrainer_TrainFromCSV(t *testing.T) {
	// --- Setup ---
	store := new(MockStore)
	act := new(MockActivator)
	stream := NewEventStream(32)
	trainer := newTestTrainer(t, store, act, stream)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sub, err := stream.Subscribe(ctx)
	require.NoError(t, err)

	// --- Expectation ---
	store.On("Save", mock.Anything, mock.AnythingOfType("*learning.Bundle")).Return(nil).Once()
	act.On("Activate", mock.AnythingOfType("*learning.Bundle")).Return(nil).Once()

	// --- Action ---
	res, err := trainer.TrainFromCSV(ctx, writeTrainingCSV(t, 80))

	// --- Assertion ---
	require.NoError(t, err)
	meta := res.Bundle.Metadata
	assert.Contains(t, meta.Candidates, meta.SelectedModel)
	assert.Equal(t, []string{"steps", "sleep_hours", "calories"}, meta.FeatureOrder)
	assert.Equal(t, res.RunID, meta.Version)
	assert.True(t, meta.SyntheticLabels)
	assert.False(t, meta.SyntheticSleep)
	assert.Len(t, meta.Metrics, 3)
	assert.NoError(t, res.Bundle.Validate())

	assert.Equal(t, []EventType{
		EventStarted, EventPrepared,
		EventCandidate, EventCandidate, EventCandidate,
		EventSelected, EventSaved,
	}, collect(sub))

	store.AssertExpectations(t)
	act.AssertExpectations(t)
}

func TestTrainer_SaveFailureDoesNotActivate(t *testing.T) {
	store := new(MockStore)
	act := new(MockActivator)
	stream := NewEventStream(32)
	trainer := newTestTrainer(t, store, act, stream)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sub, err := stream.Subscribe(ctx)
	require.NoError(t, err)

	store.On("Save", mock.Anything, mock.Anything).Return(errors.New("disk full")).Once()

	_, err = trainer.TrainFromCSV(ctx, writeTrainingCSV(t, 80))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")

	types := collect(sub)
	require.NotEmpty(t, types)
	assert.Equal(t, EventFailed, types[len(types)-1])

	store.AssertExpectations(t)
	act.AssertNotCalled(t, "Activate", mock.Anything)
}

func TestTrainer_PreparationErrorsPropagate(t *testing.T) {
	store := new(MockStore)
	trainer := newTestTrainer(t, store, nil, nil)

	path := filepath.Join(t.TempDir(), "bad.csv")
	require.NoError(t, os.WriteFile(path, []byte("date,mood\n2024-01-01,ok\n"), 0o644))
	_, err := trainer.TrainFromCSV(context.Background(), path)
	assert.ErrorIs(t, err, dataset.ErrMissingColumns)

	_, err = trainer.TrainFromCSV(context.Background(), writeTrainingCSV(t, 10))
	assert.ErrorIs(t, err, ErrTraining)

	_, err = trainer.TrainFromCSV(context.Background(), filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)

	store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestNewTrainer_RequiresCollaborators(t *testing.T) {
	_, err := NewTrainer(TrainerDeps{})
	assert.Error(t, err)
}

func TestEventStream_DropsWhenSubscriberIsFull(t *testing.T) {
	stream := NewEventStream(1)
	ctx, cancel := context.WithCancel(context.Background())
	sub, err := stream.Subscribe(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stream.Subscribers())

	require.NoError(t, stream.Publish(ctx, &Event{Type: EventStarted}))
	require.NoError(t, stream.Publish(ctx, &Event{Type: EventFailed}))

	ev := <-sub
	assert.Equal(t, EventStarted, ev.Type)

	cancel()
	_, open := <-sub
	assert.False(t, open, "channel closes after the context is cancelled")
	assert.Eventually(t, func() bool { return stream.Subscribers() == 0 }, time.Second, 10*time.Millisecond)
}
