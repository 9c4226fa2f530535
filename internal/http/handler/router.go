package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Shayanthavi/FitTrack-AI/internal/metrics"
)

// RouterDeps wires every route. Logs and Events are optional; their routes
// are only mounted when set.
type RouterDeps struct {
	Models   *ModelHandler
	Logs     *LogHandler
	Events   *TrainingStreamHandler
	Source   ModelSource
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
	Logger   *zap.Logger
}

// NewRouter builds the service's chi router.
func NewRouter(deps RouterDeps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(instrument(deps.Metrics, logger))

	r.Get("/", StatusHandler(deps.Source))
	r.Get("/healthz", HealthCheckHandler)
	deps.Models.RegisterRoutes(r)
	if deps.Logs != nil {
		deps.Logs.RegisterRoutes(r)
	}
	if deps.Events != nil {
		r.Method(http.MethodGet, "/ws/training", deps.Events)
	}
	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

// instrument records per-route request counts and latencies and logs each
// request at debug level.
func instrument(m *metrics.Metrics, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			d := time.Since(start)
			m.ObserveHTTP(r.Method, route, strconv.Itoa(status), d)
			logger.Debug("Request served",
				zap.String("method", r.Method),
				zap.String("route", route),
				zap.Int("status", status),
				zap.Duration("duration", d),
				zap.String("request_id", middleware.GetReqID(r.Context())))
		})
	}
}
