package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/integratewise/webhook-gateway/config"
	"github.com/integratewise/webhook-gateway/dispatch"
	"github.com/integratewise/webhook-gateway/event"
	"github.com/integratewise/webhook-gateway/event/postgres"
	eventredis "github.com/integratewise/webhook-gateway/event/redis"
	"github.com/integratewise/webhook-gateway/internal/http/chi"
	"github.com/integratewise/webhook-gateway/metrics"
	"github.com/integratewise/webhook-gateway/notify"
	"github.com/rs/zerolog"
)

const TIMEOUT = 30 * time.Second

/* main is where the wiring of all other packages happens: dependencies
 * are initialized, configured, and handed to the packages that carry the
 * business logic. Imports flow in one direction only: the application
 * imports the business layer, which imports the storage layer.
 */

func main() {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg, err := config.GetConfig()
	if err != nil {
		logger.Error().Err(err).Msg("loading config")
		return
	}

	// Unconfigured verification keys mean fail-open acceptance; say so
	// loudly at startup rather than silently accepting unverified traffic
	for _, warning := range cfg.Warnings() {
		logger.Warn().Msg(warning)
	}

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT,
	)
	defer stop()

	repo, err := postgres.NewRepository(cfg.PostgresDSN)
	if err != nil {
		logger.Error().Err(err).Msg("connecting to postgres")
		return
	}
	defer repo.Close(ctx)

	if err := repo.EnsureSchema(ctx); err != nil {
		logger.Error().Err(err).Msg("applying schema")
		return
	}

	var (
		recorder       event.Recorder
		metricsHandler http.Handler
	)
	if cfg.RedisAddr != "" {
		cache, err := eventredis.NewCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.Error().Err(err).Msg("connecting to redis")
			return
		}
		defer cache.Close(ctx)
		recorder = cache

		exporter, err := metrics.NewOTelExporter(metrics.NewRedisCollector(cache))
		if err != nil {
			logger.Error().Err(err).Msg("creating metrics exporter")
			return
		}
		defer exporter.Shutdown(ctx)
		metricsHandler = exporter.Handler()

		go heartbeat(ctx, cache, uuid.New().String(), logger)
	}

	var notifier dispatch.Notifier
	if cfg.SlackNotifyURL != "" || cfg.DiscordNotifyURL != "" {
		notifier = notify.NewChatNotifier(cfg.SlackNotifyURL, cfg.DiscordNotifyURL)
	}

	dispatcher := dispatch.NewDispatcher(repo, notifier, logger)
	s := event.NewService(repo, cfg.Key, dispatcher, recorder, logger)
	r := chi.Handlers(ctx, s, repo, metricsHandler)

	srv := &http.Server{
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		Addr:         ":" + cfg.Port,
		Handler:      r,
	}

	errShutdown := make(chan error, 1)
	go shutdown(srv, ctx, errShutdown)
	logger.Info().Str("port", cfg.Port).Msg("listening")
	err = srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("server stopped")
		return
	}
	err = <-errShutdown
	if err != nil {
		logger.Error().Err(err).Msg("shutdown")
		return
	}
}

// heartbeat keeps this instance visible in the shared Redis cache while
// it serves traffic. The key TTL is 60s, so refresh at half that.
func heartbeat(ctx context.Context, cache *eventredis.Cache, instanceID string, logger zerolog.Logger) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	if err := cache.SetInstanceHeartbeat(ctx, instanceID, "serving"); err != nil {
		logger.Warn().Err(err).Msg("publishing heartbeat")
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := cache.SetInstanceHeartbeat(ctx, instanceID, "serving"); err != nil {
				logger.Warn().Err(err).Msg("publishing heartbeat")
			}
		}
	}
}

func shutdown(server *http.Server, ctxShutdown context.Context, errShutdown chan error) {
	<-ctxShutdown.Done()

	ctxTimeout, stop := context.WithTimeout(context.Background(), TIMEOUT)
	defer stop()

	err := server.Shutdown(ctxTimeout)
	switch err {
	case nil:
		fmt.Printf("\nShutting down server...\n")
		errShutdown <- nil
	case context.DeadlineExceeded:
		errShutdown <- fmt.Errorf("Forcing closing the server")
	default:
		errShutdown <- fmt.Errorf("Forcing closing the server")
	}
}
