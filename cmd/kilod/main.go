package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/mokulua/kilo-data-service/internal/adapter/http"
	kafkaadapter "github.com/mokulua/kilo-data-service/internal/adapter/kafka"
	"github.com/mokulua/kilo-data-service/internal/briefing"
	"github.com/mokulua/kilo-data-service/internal/cache"
	"github.com/mokulua/kilo-data-service/internal/config"
	"github.com/mokulua/kilo-data-service/internal/domain"
	"github.com/mokulua/kilo-data-service/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	store, err := newStore(cfg, logger)
	if err != nil {
		logger.Error("failed to initialize cache", "error", err)
		os.Exit(1)
	}

	islands, err := parseIslands(cfg.Islands)
	if err != nil {
		logger.Error("invalid ISLANDS", "error", err)
		os.Exit(1)
	}

	aggs := newAggregators(cfg, store, logger, metrics)

	// Briefing pipeline (feature-flagged via BRIEFING_ENABLED).
	var (
		composer  *briefing.Composer
		scheduler *briefing.Scheduler
		publisher *kafkaadapter.Writer
	)
	if cfg.BriefingEnabled {
		publisher = kafkaadapter.NewWriter(cfg.KafkaBrokers, cfg.KafkaBriefingTopic, logger)
		composer = briefing.NewComposer(aggs.briefingSources(), publisher, islands,
			cfg.BriefingTopNews, cfg.BriefingTopEvents, logger, metrics)
		scheduler, err = briefing.NewScheduler(cfg.BriefingSchedule, composer, logger, metrics)
		if err != nil {
			logger.Error("failed to initialize briefing scheduler", "error", err)
			os.Exit(1)
		}
		logger.Info("briefing pipeline enabled",
			"schedule", cfg.BriefingSchedule, "topic", cfg.KafkaBriefingTopic, "islands", cfg.Islands)
	} else {
		logger.Info("briefing pipeline disabled")
	}

	admin := httpadapter.AdminHooks{
		ClearCache: store.Clear,
		RunBriefing: func(ctx context.Context) error {
			if composer == nil {
				return errors.New("briefing pipeline is disabled")
			}
			return composer.Run(ctx)
		},
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, aggs, aggs.domainFuncs(), admin, cfg.AdminToken, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	if scheduler != nil {
		scheduler.Start()
	}

	// Warm the cache so readiness flips without waiting for the first
	// dashboard request.
	go aggs.warm(ctx, islands, logger)

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if scheduler != nil {
		scheduler.Stop()
	}
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}

func newStore(cfg *config.Config, logger *slog.Logger) (cache.Store, error) {
	if cfg.CacheBackend == "redis" {
		client, err := cache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, err
		}
		logger.Info("using redis cache", "addr", cfg.RedisAddr, "db", cfg.RedisDB)
		return cache.NewRedisStore(client, "kilo:"), nil
	}
	logger.Info("using in-memory cache")
	return cache.NewMemory(nil), nil
}

func parseIslands(names []string) ([]domain.Island, error) {
	islands := make([]domain.Island, 0, len(names))
	for _, name := range names {
		island, err := domain.ParseIsland(name)
		if err != nil {
			return nil, err
		}
		islands = append(islands, island)
	}
	return islands, nil
}
