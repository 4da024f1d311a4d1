package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/angelmondragon/warehouse-backend/api/routes"
	"github.com/angelmondragon/warehouse-backend/internal/access"
	"github.com/angelmondragon/warehouse-backend/internal/commit"
	"github.com/angelmondragon/warehouse-backend/internal/notifications"
	"github.com/angelmondragon/warehouse-backend/internal/store"
	"github.com/angelmondragon/warehouse-backend/pkg/config"
	"github.com/angelmondragon/warehouse-backend/pkg/logger"
	"github.com/angelmondragon/warehouse-backend/pkg/metrics"
	"github.com/angelmondragon/warehouse-backend/pkg/pubsub"
	"github.com/angelmondragon/warehouse-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) error {
	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		client, err := redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return err
		}
		redisClient = client
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	}

	docs, err := openDocstore(ctx, cfg, logg, redisClient)
	if err != nil {
		return err
	}
	defer func() {
		if err := docs.Close(); err != nil {
			logg.Error(context.Background(), "error closing document store", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	engineMetrics := metrics.NewEngineMetrics(registry)
	jobMetrics := metrics.NewJobMetrics(registry)

	repos := store.New(docs, store.WithLogger(logg), store.WithMetrics(engineMetrics))
	if err := repos.Load(ctx); err != nil {
		return err
	}

	sinks := []notifications.Sink{notifications.NewLogSink(logg)}
	if cfg.PubSub.Enabled(cfg.GCP) {
		psClient, err := pubsub.NewClient(ctx, cfg.GCP, cfg.PubSub, logg)
		if err != nil {
			return err
		}
		defer func() {
			if err := psClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing pubsub", err)
			}
		}()
		sink, err := notifications.NewPubSubSink(psClient.NotificationPublisher(), logg)
		if err != nil {
			return err
		}
		sinks = append(sinks, sink)
	}
	fanout := notifications.NewFanout(sinks...)

	runner, err := commit.NewRunner(repos, fanout, engineMetrics, logg)
	if err != nil {
		return err
	}
	services, err := routes.NewServices(repos, runner, logg)
	if err != nil {
		return err
	}

	policy, err := access.LoadPolicy(cfg.Access.PolicyFile)
	if err != nil {
		return err
	}
	keys, err := access.LoadKeyTable(cfg.Access.APIKeysFile)
	if err != nil {
		return err
	}
	if keys.Len() == 0 && !cfg.JWT.Enabled() {
		logg.Warn(ctx, "no api keys and no jwt secret configured, every /api/v1 request will be rejected")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	serverCtx := logg.WithFields(ctx, map[string]any{
		"env":     cfg.App.Env,
		"addr":    addr,
		"storage": cfg.Storage.Driver,
		"keys":    keys.Len(),
	})

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, routes.Security{Policy: policy, Keys: keys}, docs, redisClient, registry, services),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if cfg.Storage.FlushInterval > 0 {
		go runFlusher(ctx, repos, cfg.Storage.FlushInterval, jobMetrics, logg)
	}

	serveErr := make(chan error, 1)
	go func() {
		logg.Info(serverCtx, "starting api server")
		serveErr <- server.ListenAndServe()
	}()

	var runErr error
	select {
	case <-ctx.Done():
		logg.Info(serverCtx, "shutdown signal received")
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			runErr = err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Error(serverCtx, "http shutdown incomplete", err)
	}
	fanout.Wait()
	if err := repos.Flush(shutdownCtx); err != nil {
		logg.Error(serverCtx, "final flush failed", err)
		if runErr == nil {
			runErr = err
		}
	}
	logg.Info(serverCtx, "api server stopped")
	return runErr
}
