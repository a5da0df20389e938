package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/devrev/cachetrace/internal/store"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// MetricsServer serves Prometheus metrics and health probes via HTTP
type MetricsServer struct {
	httpServer *http.Server
	kv         store.Store
	logger     *zap.Logger
}

// MetricsServerConfig holds configuration for the metrics server
type MetricsServerConfig struct {
	Port int
	Path string
}

// NewMetricsServer creates a new metrics server over the given store
func NewMetricsServer(cfg *MetricsServerConfig, kv store.Store, logger *zap.Logger) *MetricsServer {
	mux := http.NewServeMux()

	ms := &MetricsServer{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		kv:     kv,
		logger: logger,
	}

	path := cfg.Path
	if path == "" {
		path = "/metrics"
	}

	// Register Prometheus metrics handler
	mux.Handle(path, promhttp.Handler())

	// Register health check endpoint
	mux.HandleFunc("/health", ms.healthHandler)

	// Register readiness endpoint
	mux.HandleFunc("/ready", ms.readyHandler)

	return ms
}

// Start starts the metrics server
func (s *MetricsServer) Start() error {
	s.logger.Info("Starting metrics server", zap.String("addr", s.httpServer.Addr))

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("Metrics server failed", zap.Error(err))
		}
	}()

	return nil
}

// Stop gracefully stops the metrics server
func (s *MetricsServer) Stop() error {
	s.logger.Info("Stopping metrics server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("metrics server shutdown failed: %w", err)
	}

	return nil
}

// healthHandler handles liveness check requests
func (s *MetricsServer) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status":"healthy","timestamp":"%s"}`, time.Now().Format(time.RFC3339))
}

// readyHandler handles readiness check requests by pinging the store
func (s *MetricsServer) readyHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	w.Header().Set("Content-Type", "application/json")

	if err := s.kv.Ping(ctx); err != nil {
		s.logger.Error("Store health check failed", zap.Error(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprintf(w, `{"status":"not_ready","reason":"store_unreachable"}`)
		return
	}

	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status":"ready","timestamp":"%s"}`, time.Now().Format(time.RFC3339))
}
