package learning

import (
	"context"
	"sync"
	"time"
)

// EventType is the stage a training run reached.
type EventType string

const (
	EventStarted   EventType = "started"
	EventPrepared  EventType = "prepared"
	EventCandidate EventType = "candidate"
	EventSelected  EventType = "selected"
	EventSaved     EventType = "saved"
	EventFailed    EventType = "failed"
)

// Event は学習の進捗を表します。websocket にそのまま JSON で流れます。
type Event struct {
	Type    EventType         `json:"type"`
	RunID   string            `json:"run_id"`
	Time    time.Time         `json:"time"`
	Model   string            `json:"model,omitempty"`
	Metrics *CandidateMetrics `json:"metrics,omitempty"`
	Rows    int               `json:"rows,omitempty"`
	Message string            `json:"message,omitempty"`
	Error   string            `json:"error,omitempty"`
}

// EventStream はインメモリで学習イベントを配信します。
// goroutine-safeです。
type EventStream struct {
	mu      sync.RWMutex
	subs    map[chan *Event]struct{}
	bufSize int
}

// NewEventStream は新しいEventStreamを生成します。
func NewEventStream(bufferSize int) *EventStream {
	return &EventStream{
		subs:    make(map[chan *Event]struct{}),
		bufSize: bufferSize,
	}
}

// Publishはイベントを登録されている全てのsubscriberに送信します。
func (s *EventStream) Publish(ctx context.Context, ev *Event) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for sub := range s.subs {
		select {
		case sub <- ev:
		case <-ctx.Done():
			return ctx.Err()
		default:
			// subscriberが詰まっている場合はブロックしない
		}
	}
	return nil
}

// Subscribeはイベントを受け取るためのチャネルを返します。
// contextがキャンセルされるとunsubscribeされ、チャネルは閉じられます。
func (s *EventStream) Subscribe(ctx context.Context) (<-chan *Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan *Event, s.bufSize)
	s.subs[ch] = struct{}{}

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, ch)
		close(ch)
	}()

	return ch, nil
}

// Subscribers returns the number of live subscriptions.
func (s *EventStream) Subscribers() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subs)
}
