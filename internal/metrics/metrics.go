// Package metrics holds the Prometheus collectors of the service.
// All methods are safe on a nil *Metrics, which records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Metrics collects training, prediction and HTTP metrics.
type Metrics struct {
	trainingRuns     *prometheus.CounterVec
	trainingDuration prometheus.Histogram
	trainingRows     prometheus.Gauge
	candidateR2      *prometheus.GaugeVec
	predictions      *prometheus.CounterVec
	predictionScore  prometheus.Histogram
	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
	wsConnections    prometheus.Gauge
}

// New registers every collector with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		trainingRuns: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fittrack_training_runs_total",
				Help: "Total number of training runs by outcome",
			},
			[]string{"outcome"},
		),
		trainingDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "fittrack_training_duration_seconds",
				Help:    "Duration of training runs",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
			},
		),
		trainingRows: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "fittrack_training_rows",
				Help: "Rows used by the last successful training run",
			},
		),
		candidateR2: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "fittrack_candidate_r2",
				Help: "Held-out R2 of each candidate in the last training run",
			},
			[]string{"model"},
		),
		predictions: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fittrack_predictions_total",
				Help: "Total number of predictions by outcome",
			},
			[]string{"outcome"},
		),
		predictionScore: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "fittrack_prediction_score",
				Help:    "Distribution of predicted health scores",
				Buckets: prometheus.LinearBuckets(10, 10, 10),
			},
		),
		httpRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fittrack_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status_code"},
		),
		httpDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fittrack_http_request_duration_seconds",
				Help:    "Duration of HTTP requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		wsConnections: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "fittrack_websocket_connections",
				Help: "Open training event websocket connections",
			},
		),
	}
}

// ObserveTraining records one finished training run.
func (m *Metrics) ObserveTraining(outcome string, d time.Duration, rows int) {
	if m == nil {
		return
	}
	m.trainingRuns.WithLabelValues(outcome).Inc()
	m.trainingDuration.Observe(d.Seconds())
	if outcome == OutcomeSuccess {
		m.trainingRows.Set(float64(rows))
	}
}

// SetCandidateR2 records a candidate's held-out R2.
func (m *Metrics) SetCandidateR2(model string, r2 float64) {
	if m == nil {
		return
	}
	m.candidateR2.WithLabelValues(model).Set(r2)
}

// ObservePrediction records one prediction. score is ignored on failure.
func (m *Metrics) ObservePrediction(outcome string, score float64) {
	if m == nil {
		return
	}
	m.predictions.WithLabelValues(outcome).Inc()
	if outcome == OutcomeSuccess {
		m.predictionScore.Observe(score)
	}
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(method, route, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, status).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// WebsocketOpened and WebsocketClosed track live event subscribers.
func (m *Metrics) WebsocketOpened() {
	if m == nil {
		return
	}
	m.wsConnections.Inc()
}

func (m *Metrics) WebsocketClosed() {
	if m == nil {
		return
	}
	m.wsConnections.Dec()
}
