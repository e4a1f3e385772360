package api

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/rs/zerolog"

	"github.com/amaumene/cinemahome/internal/api/handlers"
	"github.com/amaumene/cinemahome/internal/api/middleware"
	"github.com/amaumene/cinemahome/internal/config"
	"github.com/amaumene/cinemahome/internal/controllers"
	"github.com/amaumene/cinemahome/internal/metrics"
)

// Server represents the HTTP server
type Server struct {
	app    *fiber.App
	addr   string
	logger zerolog.Logger
}

// NewServer creates a new HTTP server
func NewServer(
	cfg *config.Config,
	guard *handlers.SessionGuard,
	browse *controllers.BrowseController,
	visibility *controllers.VisibilityController,
	checkoutCtrl *controllers.CheckoutController,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *Server {
	app := fiber.New(fiber.Config{
		// Handlers keep query and path values past the request
		Immutable:             true,
		DisableStartupMessage: true,
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          15 * time.Second,
		IdleTimeout:           60 * time.Second,
		ErrorHandler:          handlers.ErrorHandler(logger),
	})

	s := &Server{
		app:    app,
		addr:   ":" + cfg.ServerPort,
		logger: logger,
	}

	app.Use(middleware.Logging(logger, m))
	s.setupRoutes(cfg, guard, browse, visibility, checkoutCtrl, m)

	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(
	cfg *config.Config,
	guard *handlers.SessionGuard,
	browse *controllers.BrowseController,
	visibility *controllers.VisibilityController,
	checkoutCtrl *controllers.CheckoutController,
	m *metrics.Metrics,
) {
	healthHandler := handlers.NewHealthHandler(s.logger)
	s.app.Get("/health", healthHandler.Handle)
	s.app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))

	api := s.app.Group("/api")

	viewHandler := handlers.NewViewHandler(guard, browse, cfg.Locations, s.logger)
	api.Get("/view", viewHandler.GetView)
	api.Get("/locations", viewHandler.GetLocations)
	api.Put("/location", viewHandler.PutLocation)
	api.Post("/refresh", viewHandler.Refresh)

	visibilityHandler := handlers.NewVisibilityHandler(guard, visibility, s.logger)
	api.Post("/movies/:id/hide", visibilityHandler.Hide)
	api.Post("/hidden/undo", visibilityHandler.Undo)
	api.Post("/hidden/redo", visibilityHandler.Redo)
	api.Delete("/hidden", visibilityHandler.RestoreAll)

	checkoutHandler := handlers.NewCheckoutHandler(guard, checkoutCtrl, browse, s.logger)
	api.Get("/showtimes/:id/quote", checkoutHandler.Quote)
	api.Post("/checkout", checkoutHandler.Checkout)
	api.Post("/tickets/:id/cancel", checkoutHandler.Cancel)
}

// App exposes the fiber app, mainly for tests
func (s *Server) App() *fiber.App {
	return s.app
}

// Start starts the HTTP server and blocks until ctx is cancelled
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info().Str("port", s.addr).Msg("Starting HTTP server")

	errChan := make(chan error, 1)
	go func() {
		if err := s.app.Listen(s.addr); err != nil {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.app.ShutdownWithContext(shutdownCtx)
}
