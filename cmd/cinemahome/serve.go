package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amaumene/cinemahome/internal/app"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the listing and checkout over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, serve)
		},
	}
}

func serve(ctx context.Context, a *app.App) error {
	logger := a.Logger
	logger.Info().Str("backend", a.Config.APIURL).Msg("Starting cinemahome")

	if err := a.Catalog.WaitReady(ctx, a.Config.BackendWait); err != nil {
		// Requests will answer 502 until the backend comes up
		logger.Warn().Err(err).Msg("Serving without a reachable backend")
	}

	if err := a.Scheduler.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer a.Scheduler.Stop()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- a.Server.Start(ctx)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	logger.Info().Str("port", a.Config.ServerPort).Msg("cinemahome is running")

	select {
	case err := <-serverErrChan:
		if err != nil {
			return err
		}
	case sig := <-sigChan:
		logger.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		// Start shuts the server down once ctx is cancelled
		cancel()
		if err := <-serverErrChan; err != nil {
			logger.Error().Err(err).Msg("Error during server shutdown")
		}
	}

	logger.Info().Msg("cinemahome stopped")
	return nil
}
