//go:build wireinject
// +build wireinject

package app

import (
	"context"

	"github.com/google/wire"

	"github.com/amaumene/cinemahome/internal/api"
	"github.com/amaumene/cinemahome/internal/config"
	"github.com/amaumene/cinemahome/internal/controllers"
	"github.com/amaumene/cinemahome/internal/metrics"
	"github.com/amaumene/cinemahome/internal/services/catalog"
)

var providerSet = wire.NewSet(
	provideLogger,
	provideClock,
	provideTracer,
	provideStore,
	provideSession,
	provideGuard,
	provideScheduler,
	metrics.New,
	catalog.NewClient,
	wire.Bind(new(controllers.ShowtimeSource), new(*catalog.Client)),
	wire.Bind(new(controllers.TicketService), new(*catalog.Client)),
	controllers.NewBrowseController,
	controllers.NewVisibilityController,
	controllers.NewCheckoutController,
	api.NewServer,
	wire.Struct(new(App), "*"),
)

// InitializeApp builds the application. The returned cleanup closes the
// session store and flushes traces.
func InitializeApp(ctx context.Context, cfg *config.Config) (*App, func(), error) {
	wire.Build(providerSet)
	return nil, nil, nil
}
