package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/elcobre-lavanderia/tracking-backend/api/routes"
	"github.com/elcobre-lavanderia/tracking-backend/internal/despachos"
	"github.com/elcobre-lavanderia/tracking-backend/internal/incidencias"
	"github.com/elcobre-lavanderia/tracking-backend/internal/notify"
	"github.com/elcobre-lavanderia/tracking-backend/internal/seguimientos"
	"github.com/elcobre-lavanderia/tracking-backend/pkg/config"
	"github.com/elcobre-lavanderia/tracking-backend/pkg/db"
	"github.com/elcobre-lavanderia/tracking-backend/pkg/logger"
	"github.com/elcobre-lavanderia/tracking-backend/pkg/metrics"
	"github.com/elcobre-lavanderia/tracking-backend/pkg/migrate"
	"github.com/elcobre-lavanderia/tracking-backend/pkg/outbox"
	"github.com/elcobre-lavanderia/tracking-backend/pkg/pubsub"
	"github.com/elcobre-lavanderia/tracking-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

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
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	pubsubClient, err := pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap pubsub", err)
		os.Exit(1)
	}
	defer func() {
		if err := pubsubClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing pubsub client", err)
		}
	}()

	trackingMetrics := metrics.NewTrackingMetrics(prometheus.DefaultRegisterer)

	outboxSvc := outbox.NewService(outbox.NewRepository(dbClient.DB()), logg)

	notifySvc, err := notify.NewService(
		notify.NewRepository(dbClient.DB()),
		notify.NewGCPPublisher(pubsubClient.NotificationPublisher()),
		cfg.Notify,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create notify service", err)
		os.Exit(1)
	}

	seguimientosSvc, err := seguimientos.NewService(
		seguimientos.NewRepository(dbClient.DB()),
		dbClient,
		outboxSvc,
		notifySvc,
		trackingMetrics,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create seguimientos service", err)
		os.Exit(1)
	}

	despachosSvc, err := despachos.NewService(
		despachos.NewRepository(dbClient.DB()),
		dbClient,
		outboxSvc,
		notifySvc,
		trackingMetrics,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create despachos service", err)
		os.Exit(1)
	}

	incidenciasSvc, err := incidencias.NewService(
		incidencias.NewRepository(dbClient.DB()),
		dbClient,
		outboxSvc,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create incidencias service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, seguimientosSvc, despachosSvc, incidenciasSvc),
	}

	signalCtx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-signalCtx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		shutdownErr := server.Shutdown(shutdownCtx)
		if err := <-serveErr; err != nil && err != http.ErrServerClosed {
			shutdownErr = multierr.Append(shutdownErr, err)
		}
		if shutdownErr != nil {
			logg.Error(ctx, "api server shutdown error", shutdownErr)
			os.Exit(1)
		}
	}

	logg.Info(ctx, "api server shutting down gracefully")
}
