// Package app wires the application graph together.
package app

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/amaumene/cinemahome/internal/api"
	"github.com/amaumene/cinemahome/internal/api/handlers"
	"github.com/amaumene/cinemahome/internal/config"
	"github.com/amaumene/cinemahome/internal/controllers"
	"github.com/amaumene/cinemahome/internal/scheduler"
	"github.com/amaumene/cinemahome/internal/services/catalog"
	"github.com/amaumene/cinemahome/internal/session"
	"github.com/amaumene/cinemahome/internal/store"
	"github.com/amaumene/cinemahome/internal/tracing"
	"github.com/amaumene/cinemahome/internal/utils"
)

// App holds everything a command needs
type App struct {
	Config     *config.Config
	Logger     zerolog.Logger
	Tracer     *sdktrace.TracerProvider
	Catalog    *catalog.Client
	Store      store.Store
	Session    *session.Session
	Browse     *controllers.BrowseController
	Visibility *controllers.VisibilityController
	Checkout   *controllers.CheckoutController
	Server     *api.Server
	Scheduler  *scheduler.Scheduler
}

func provideLogger(cfg *config.Config) zerolog.Logger {
	return utils.NewLogger(cfg.LogLevel, cfg.LogFormat)
}

func provideClock(cfg *config.Config) func() time.Time {
	return cfg.Now
}

func provideTracer(cfg *config.Config, logger zerolog.Logger) (*sdktrace.TracerProvider, func()) {
	provider, shutdown := tracing.NewProvider(cfg, logger)
	return provider, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(ctx); err != nil {
			logger.Warn().Err(err).Msg("Failed to flush traces")
		}
	}
}

func provideStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (store.Store, func(), error) {
	s, err := store.Open(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return s, func() {
		if err := s.Close(); err != nil {
			logger.Warn().Err(err).Msg("Failed to close session store")
		}
	}, nil
}

func provideSession(ctx context.Context, s store.Store, cfg *config.Config) (*session.Session, error) {
	return session.Load(ctx, s, cfg.DefaultLocation)
}

func provideGuard(sess *session.Session) *handlers.SessionGuard {
	return handlers.NewSessionGuard(sess)
}

func provideScheduler(cfg *config.Config, browse *controllers.BrowseController, client *catalog.Client, guard *handlers.SessionGuard, logger zerolog.Logger) *scheduler.Scheduler {
	return scheduler.NewScheduler(cfg, browse, client, guard.Location, logger)
}
