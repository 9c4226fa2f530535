// Package main is the entry point of the FitTrack AI service.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/Shayanthavi/FitTrack-AI/internal/app"
	"github.com/Shayanthavi/FitTrack-AI/internal/config"
	"github.com/Shayanthavi/FitTrack-AI/internal/http/handler"
	"github.com/Shayanthavi/FitTrack-AI/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// --- Configuration ---
	configPath := flag.String("config", "config/config.yaml", "Path to the configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// --- Logger ---
	logger.SetGlobalLogLevel(cfg.LogLevel)
	defer func() {
		if err := logger.Sync(); err != nil {
			// We can't use the logger here because it's being synced.
			fmt.Fprintf(os.Stderr, "Failed to sync logger: %v\n", err)
		}
	}()
	logger.Info("FitTrack AI service starting...")
	logger.Infof("Loaded configuration from: %s", *configPath)
	zapLogger := logger.L()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Components ---
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	a, err := app.New(ctx, cfg, reg, zapLogger)
	if err != nil {
		logger.Fatalf("Failed to initialize service: %v", err)
	}
	defer a.Close()

	if err := a.LoadModel(ctx); err != nil {
		logger.Fatalf("%v", err)
	}

	// --- HTTP Server ---
	router := handler.NewRouter(handler.RouterDeps{
		Models:   handler.NewModelHandler(a.Trainer, a.Engine, a.Registry, cfg.UploadDir, cfg.Server.MaxUploadMB<<20, zapLogger.Named("http")),
		Logs:     handler.NewLogHandler(a.Logs, a.Engine, nil, zapLogger.Named("http")),
		Events:   handler.NewTrainingStreamHandler(a.Events, a.Metrics, zapLogger.Named("ws")),
		Source:   a.Registry,
		Metrics:  a.Metrics,
		Gatherer: reg,
		Logger:   zapLogger.Named("http"),
	})
	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Infof("HTTP server starting on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// Wait for shutdown signal
	select {
	case <-ctx.Done():
		logger.Info("Received shutdown signal, initiating shutdown...")
	case err := <-serverErr:
		if err != nil {
			logger.Errorf("HTTP server failed: %v", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("HTTP server shutdown failed: %v", err)
	}
	zapLogger.Info("FitTrack AI service shut down gracefully.", zap.String("addr", cfg.Server.Addr))
}
