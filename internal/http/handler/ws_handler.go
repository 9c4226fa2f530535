package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Shayanthavi/FitTrack-AI/internal/learning"
	"github.com/Shayanthavi/FitTrack-AI/internal/metrics"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// Subscriber hands out training event channels.
type Subscriber interface {
	Subscribe(ctx context.Context) (<-chan *learning.Event, error)
}

// TrainingStreamHandler は学習イベントを websocket で配信します。
// クライアントからのメッセージは読み捨てます。
type TrainingStreamHandler struct {
	events   Subscriber
	metrics  *metrics.Metrics
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

func NewTrainingStreamHandler(events Subscriber, m *metrics.Metrics, logger *zap.Logger) *TrainingStreamHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TrainingStreamHandler{
		events:  events,
		metrics: m,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		logger: logger,
	}
}

func (h *TrainingStreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response.
		h.logger.Debug("Websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	h.metrics.WebsocketOpened()
	defer h.metrics.WebsocketClosed()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	ch, err := h.events.Subscribe(ctx)
	if err != nil {
		h.logger.Error("Failed to subscribe to training events", zap.Error(err))
		return
	}

	go func() {
		defer cancel()
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					h.logger.Debug("Websocket read error", zap.Error(err))
				}
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(ev); err != nil {
				h.logger.Debug("Websocket write failed", zap.Error(err))
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}
