package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/cors"

	"github.com/citysense/citysense/internal/ai"
	"github.com/citysense/citysense/internal/api"
	"github.com/citysense/citysense/internal/config"
	"github.com/citysense/citysense/internal/geo"
	"github.com/citysense/citysense/internal/logging"
	"github.com/citysense/citysense/internal/metrics"
	"github.com/citysense/citysense/internal/profile"
	"github.com/citysense/citysense/internal/recs"
	"github.com/citysense/citysense/internal/server"
	"github.com/citysense/citysense/internal/store"
	"log/slog"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.New(slog.NewJSONHandler(os.Stdout, nil)).Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		slog.New(slog.NewJSONHandler(os.Stdout, nil)).Error("failed to init logger", "error", err)
		os.Exit(1)
	}

	logger.Info("starting CitySense")

	ctx := context.Background()

	kv, closeStore, err := openStore(ctx, cfg.Store)
	if err != nil {
		logger.Error("failed to open store", "backend", cfg.Store.Backend, "error", err)
		os.Exit(1)
	}
	defer closeStore()
	logger.Info("store ready", "backend", cfg.Store.Backend)

	if cfg.OpenAI.APIKey == "" {
		logger.Warn("OPENAI_API_KEY not set, collaborator calls will fail")
	}
	aiClient := ai.New(cfg.OpenAI, logger)
	locator := geo.NewIPLocator(cfg.Geo)

	collector, err := metrics.NewCollector()
	if err != nil {
		logger.Error("failed to init metrics", "error", err)
		os.Exit(1)
	}

	normalizer := recs.NewNormalizer(logger)
	cache := recs.NewCache(kv, logger)
	orchestrator := recs.NewOrchestrator(
		aiClient, locator, cache, normalizer,
		collector, logger, cfg.DefaultCity, cfg.OpenAI.Timeout,
	)

	profiles := profile.NewRepository(kv, logger)
	chat := ai.NewChatService(aiClient, normalizer, logger)

	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())
	api.SetupRoutes(mux, orchestrator, profiles, chat, logger)

	// The web front-end is served from a different origin
	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins: []string{cfg.AllowedOrigin},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
	})

	handler := collector.InstrumentHandler(corsMiddleware.Handler(mux))

	srv := server.New(cfg.Server, logger, handler)

	go func() {
		if err := srv.Start(); err != nil {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	logger.Info("CitySense started successfully")
	logger.Info("API available", "url", fmt.Sprintf("http://localhost:%s", cfg.Server.Port))

	waitForSignal(logger)

	logger.Info("shutting down")
	if err := srv.Shutdown(context.Background()); err != nil {
		logger.Error("shutdown error", "error", err)
	}
	logger.Info("shutdown complete")
}

func openStore(ctx context.Context, cfg config.StoreConfig) (store.Store, func(), error) {
	switch cfg.Backend {
	case "redis":
		s, err := store.NewRedisStore(ctx, cfg.RedisAddr)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { s.Close() }, nil
	case "postgres":
		s, err := store.NewPostgresStore(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { s.Close() }, nil
	default:
		return store.NewMemoryStore(), func() {}, nil
	}
}

func waitForSignal(logger *slog.Logger) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	sig := <-c
	logger.Info("received signal", "signal", sig.String())
	signal.Stop(c)
	close(c)
}
