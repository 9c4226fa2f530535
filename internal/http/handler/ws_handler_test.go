package handler

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shayanthavi/FitTrack-AI/internal/learning"
	"github.com/Shayanthavi/FitTrack-AI/internal/metrics"
)

func TestTrainingStream(t *testing.T) {
	stream := learning.NewEventStream(8)
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	h := NewRouter(RouterDeps{
		Models:  NewModelHandler(unusedTrainer{}, &stubPredictor{}, stubSource{}, t.TempDir(), 1<<20, nil),
		Events:  NewTrainingStreamHandler(stream, m, nil),
		Source:  stubSource{},
		Metrics: m,
	})
	server := httptest.NewServer(h)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/training"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)

	require.Eventually(t, func() bool { return stream.Subscribers() == 1 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, 1.0, gaugeValue(t, reg, "fittrack_websocket_connections"))

	require.NoError(t, stream.Publish(t.Context(), &learning.Event{Type: learning.EventSelected, RunID: "run-1", Model: "Decision Tree"}))

	var ev learning.Event
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, learning.EventSelected, ev.Type)
	assert.Equal(t, "Decision Tree", ev.Model)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return stream.Subscribers() == 0 }, time.Second, 10*time.Millisecond)
	require.Eventually(t, func() bool { return gaugeValue(t, reg, "fittrack_websocket_connections") == 0 }, time.Second, 10*time.Millisecond)
}

func gaugeValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() == name && len(mf.GetMetric()) > 0 {
			return mf.GetMetric()[0].GetGauge().GetValue()
		}
	}
	return -1
}
