package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/jihoon0306/onyak-ai-rail/internal/adapter/http"
	"github.com/jihoon0306/onyak-ai-rail/internal/adapter/kafka"
	"github.com/jihoon0306/onyak-ai-rail/internal/adapter/nominatim"
	"github.com/jihoon0306/onyak-ai-rail/internal/adapter/sdsc"
	"github.com/jihoon0306/onyak-ai-rail/internal/config"
	"github.com/jihoon0306/onyak-ai-rail/internal/observability"
	"github.com/jihoon0306/onyak-ai-rail/internal/pipeline"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
)

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()

	if cfg.HasServiceKey() {
		metrics.CredentialConfigured.Set(1)
	} else {
		logger.Warn("TA_SERVICE_KEY not set, lookups will serve demo data")
	}

	resolver := nominatim.NewClient(cfg.GeocoderURL, cfg.GeocoderUserAgent, cfg.UpstreamTimeout, metrics, logger)
	registry := sdsc.NewClient(cfg.RegistryURL, cfg.ServiceKey, cfg.UpstreamTimeout, metrics, logger)

	// Lookup event publishing is feature-flagged via TA_KAFKA_BROKERS.
	var publisher pipeline.EventPublisher
	var writer *kafka.Writer
	if cfg.KafkaEnabled() {
		writer = kafka.NewWriter(cfg, metrics, logger)
		publisher = writer
		logger.Info("lookup event publishing enabled", "topic", cfg.KafkaTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("lookup event publishing disabled")
	}

	p := pipeline.New(resolver, registry, publisher, clock, logger, metrics)
	srv := httpadapter.NewServer(cfg.HTTPAddr, p, clock, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
