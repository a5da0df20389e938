package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/devrev/cachetrace/internal/cache"
	"github.com/devrev/cachetrace/internal/config"
	"github.com/devrev/cachetrace/internal/metrics"
	"github.com/devrev/cachetrace/internal/server"
	"github.com/devrev/cachetrace/internal/store"
	"github.com/devrev/cachetrace/internal/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	defaultConfig := os.Getenv("CONFIG_PATH")
	if defaultConfig == "" {
		defaultConfig = "./config.yaml"
	}

	configPath := flag.String("config", defaultConfig, "path to configuration file")
	useMemory := flag.Bool("memory", false, "use the in-memory store instead of Redis")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting cachetrace",
		zap.String("redis_host", cfg.Redis.Host),
		zap.Int("redis_port", cfg.Redis.Port),
		zap.Int("redis_db", cfg.Redis.DB),
		zap.Bool("memory_store", *useMemory))

	ctx := context.Background()

	var kv store.Store
	if *useMemory {
		kv = store.NewMemoryStore()
	} else {
		kv, err = store.NewRedisStore(cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DB, logger)
		if err != nil {
			logger.Fatal("Failed to initialize store", zap.Error(err))
		}
	}
	defer kv.Close()

	c, err := cache.New(ctx, kv, logger)
	if err != nil {
		logger.Fatal("Failed to initialize cache", zap.Error(err))
	}

	var m *metrics.Metrics
	var metricsServer *server.MetricsServer
	if cfg.Metrics.Enabled {
		m = metrics.NewMetrics()
		metricsServer = server.NewMetricsServer(&server.MetricsServerConfig{
			Port: cfg.Metrics.Port,
			Path: cfg.Metrics.Path,
		}, kv, logger)
		if err := metricsServer.Start(); err != nil {
			logger.Fatal("Failed to start metrics server", zap.Error(err))
		}
	}

	traced := trace.NewTracedCache(c, kv, cfg.Trace.OperationName, cfg.Trace.StrictPairing, m, logger)

	if err := runDemo(ctx, traced, logger); err != nil {
		logger.Fatal("Demo run failed", zap.Error(err))
	}

	if metricsServer != nil {
		logger.Info("Demo complete, serving metrics until interrupted")

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		if err := metricsServer.Stop(); err != nil {
			logger.Error("Failed to stop metrics server", zap.Error(err))
		}
	}

	logger.Info("Shutdown complete")
}

// runDemo stores a handful of values through the traced cache, reads them
// back typed, and replays the recorded call history to stdout.
func runDemo(ctx context.Context, traced *trace.TracedCache, logger *zap.Logger) error {
	values := []cache.Value{
		cache.Text("foo"),
		cache.Int(42),
		cache.Float(3.14),
	}

	keys := make([]string, 0, len(values))
	for _, v := range values {
		key, err := traced.Store(ctx, v)
		if err != nil {
			return fmt.Errorf("store failed: %w", err)
		}
		keys = append(keys, key)
	}

	text, err := traced.GetString(ctx, keys[0])
	if err != nil {
		return fmt.Errorf("read back text failed: %w", err)
	}
	number, err := traced.GetInt(ctx, keys[1])
	if err != nil {
		return fmt.Errorf("read back int failed: %w", err)
	}
	raw, err := traced.Get(ctx, keys[2], nil)
	if err != nil {
		return fmt.Errorf("read back raw failed: %w", err)
	}

	logger.Info("Read back stored values",
		zap.String("text", text),
		zap.Int64("int", number),
		zap.ByteString("raw", raw.([]byte)))

	return traced.Replay(ctx, os.Stdout)
}

// newLogger builds a zap logger from the logging configuration
func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	zapCfg := zap.NewProductionConfig()
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
