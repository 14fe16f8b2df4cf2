// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"lead-intelligence/internal/chat/turn"
	"lead-intelligence/internal/common/camunda"
	"lead-intelligence/internal/common/config"
	"lead-intelligence/internal/common/database"
	"lead-intelligence/internal/common/logger"
	"lead-intelligence/internal/common/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.NewWithOptions(logger.Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Output:      cfg.Logging.Output,
		ServiceName: cfg.App.Name,
	})
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("starting worker manager",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs, err := observability.New(cfg.Observability, prometheus.DefaultRegisterer)
	if err != nil {
		zapLog.Fatal("observability init failed", zap.Error(err))
	}

	ctx := context.Background()

	// --- Stores ---
	stores := database.Connect(ctx, cfg.Database, log)
	deps := buildDependencies(ctx, cfg, stores, obs, log)

	// --- Zeebe ---
	zeebe, err := camunda.NewClient(cfg.Camunda)
	if err != nil {
		zapLog.Fatal("zeebe client failed", zap.Error(err))
	}
	zapLog.Info("zeebe client connected", zap.String("gateway", cfg.Camunda.BrokerAddress))

	workers := startWorkers(cfg, zeebe, deps, obs, log)
	zapLog.Info("workers registered", zap.Int("count", len(workers)))

	// --- HTTP: chat API, health and metrics ---
	router := mux.NewRouter()
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	}).Methods(http.MethodGet)
	router.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		status := http.StatusOK
		body := map[string]interface{}{
			"status": "ready",
			"stores": stores.Ready(r.Context()),
			"time":   time.Now().Format(time.RFC3339),
		}
		if err := zeebe.HealthCheck(r.Context()); err != nil {
			status = http.StatusServiceUnavailable
			body["status"] = "not_ready"
			body["error"] = err.Error()
		}
		writeJSON(w, status, body)
	}).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler())
	turn.RegisterRoutes(router, deps.processor, log)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      router,
		ReadTimeout:  config.GetDuration(cfg.HTTP.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.HTTP.WriteTimeout),
	}
	go func() {
		zapLog.Info("http server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("http server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("shutdown signal received, stopping workers")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("http server shutdown failed", zap.Error(err))
	}
	for _, w := range workers {
		w.Stop()
	}
	deps.persistence.Wait()

	if err := zeebe.Close(); err != nil {
		zapLog.Error("error closing zeebe client", zap.Error(err))
	}
	stores.Close()
	if err := obs.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("observability shutdown failed", zap.Error(err))
	}

	zapLog.Info("worker manager stopped")
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
