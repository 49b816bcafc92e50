package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tokenpulse/internal/adapters/ai"
	"tokenpulse/internal/adapters/config"
	"tokenpulse/internal/adapters/errors/noop"
	"tokenpulse/internal/adapters/errors/sentry"
	"tokenpulse/internal/adapters/providers"
	redisadapter "tokenpulse/internal/adapters/redis"
	"tokenpulse/internal/api"
	"tokenpulse/internal/api/health"
	"tokenpulse/internal/cache"
	"tokenpulse/internal/metrics"
	"tokenpulse/internal/services/analysis"
	"tokenpulse/internal/services/collectors"
	"tokenpulse/internal/services/tokens"
	"tokenpulse/internal/workers"
	"tokenpulse/pkg/errors"
	"tokenpulse/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	if err := logger.Init(cfg.App.LogLevel, cfg.App.Env); err != nil {
		panic("failed to init logger: " + err.Error())
	}
	defer logger.Sync()

	log := logger.Get()
	log.Infof("Starting %s in %s mode", cfg.App.Name, cfg.App.Env)

	errorTracker := initErrorTracker(cfg, log)
	logger.SetErrorTracker(errorTracker)

	metrics.Init()

	store, pinger := initCache(cfg, log)

	// Upstream clients
	coingecko := providers.NewCoinGecko(cfg.Providers)
	lunarcrush := providers.NewLunarCrush(cfg.Providers)
	tavily := providers.NewTavily(cfg.Providers)
	chat := ai.NewOpenAIClient(cfg.AI)

	// Services
	tokenSvc := tokens.New(store, coingecko, cfg.Cache)
	collectorSvc := collectors.New(store, lunarcrush, tavily, cfg.Cache, cfg.Providers)
	analysisSvc := analysis.New(
		tokenSvc,
		collectorSvc,
		analysis.NewPipeline(chat),
		analysis.NewAggregator(tavily, cfg.Providers),
	)

	// Background workers
	scheduler := workers.NewScheduler()
	scheduler.RegisterWorker(workers.NewTop25Refresher(
		tokenSvc,
		cfg.Workers.Top25RefreshInterval,
		cfg.Workers.Top25RefreshEnabled,
	))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := scheduler.Start(ctx); err != nil {
		log.Fatalf("failed to start workers: %v", err)
	}

	// HTTP server
	handlers := api.NewHandlers(tokenSvc, analysisSvc)
	healthHandler := health.New(log, pinger, scheduler, cfg.App.Name, cfg.App.Version)
	server := api.NewServer(api.ServerConfig{
		Server:      cfg.Server,
		ServiceName: cfg.App.Name,
		Version:     cfg.App.Version,
	}, handlers, healthHandler, log)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("http server failed: %v", err)
		}
	}()

	waitForShutdown(cancel, server, scheduler, errorTracker, log)
}

// initErrorTracker initializes error tracking (Sentry or no-op)
func initErrorTracker(cfg *config.Config, log *logger.Logger) errors.Tracker {
	if !cfg.ErrorTracking.Enabled || cfg.ErrorTracking.SentryDSN == "" {
		log.Info("Error tracking disabled")
		return noop.New()
	}

	tracker, err := sentry.New(cfg.ErrorTracking.SentryDSN, cfg.ErrorTracking.Environment)
	if err != nil {
		log.Warnf("Failed to initialize Sentry: %v", err)
		return noop.New()
	}

	log.Info("Error tracking initialized (Sentry)")
	return tracker
}

// initCache selects the cache backend: Redis when configured, otherwise the
// in-process store. The pinger is nil for the in-process store.
func initCache(cfg *config.Config, log *logger.Logger) (cache.Cache, health.CachePinger) {
	if !cfg.Redis.Enabled() {
		log.Info("Using in-process cache (REDIS_HOST not set)")
		return cache.NewMemory(), nil
	}

	client, err := redisadapter.NewClient(cfg.Redis)
	if err != nil {
		log.Warnf("Redis unavailable, falling back to in-process cache: %v", err)
		return cache.NewMemory(), nil
	}
	return cache.NewRedis(client), client
}

func waitForShutdown(
	cancel context.CancelFunc,
	server *api.Server,
	scheduler *workers.Scheduler,
	errorTracker errors.Tracker,
	log *logger.Logger,
) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Info("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warnf("HTTP server shutdown: %v", err)
	}
	if err := scheduler.Stop(); err != nil {
		log.Warnf("Worker shutdown: %v", err)
	}

	cancel()

	if errorTracker != nil {
		if err := errorTracker.Flush(shutdownCtx); err != nil {
			log.Warnf("Failed to flush error tracker: %v", err)
		}
	}

	log.Info("Shutdown complete")
}
