package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/amaumene/cinemahome/internal/app"
	"github.com/amaumene/cinemahome/internal/config"
)

var errCancelled = errors.New("cancelled")

// promptError maps a user abort to errCancelled and keeps real terminal failures
func promptError(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) || errors.Is(err, promptui.ErrAbort) {
		return errCancelled
	}
	return fmt.Errorf("prompt failed: %w", err)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "cinemahome",
		Short:         "Browse cinema showtimes and buy tickets",
		Long:          `Lists what is playing today, tomorrow and later at your cinema, hides movies you are not interested in and walks through a ticket checkout.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.String("api-url", "", "ticket backend URL (CINEMA_API_URL)")
	flags.String("session", "", "session id (SESSION_ID)")
	flags.String("store", "", "session store backend: sqlite or redis (STORE_BACKEND)")
	flags.String("log-level", "", "log level (LOG_LEVEL)")
	flags.String("log-format", "", "log format: console or json (LOG_FORMAT)")

	for key, name := range map[string]string{
		"CINEMA_API_URL": "api-url",
		"SESSION_ID":     "session",
		"STORE_BACKEND":  "store",
		"LOG_LEVEL":      "log-level",
		"LOG_FORMAT":     "log-format",
	} {
		_ = viper.BindPFlag(key, flags.Lookup(name))
	}

	root.AddCommand(
		newServeCmd(),
		newBrowseCmd(),
		newHideCmd(),
		newUndoCmd(),
		newRedoCmd(),
		newRestoreCmd(),
		newLocationCmd(),
		newQuoteCmd(),
		newBuyCmd(),
		newCancelCmd(),
		newResetCmd(),
	)
	return root
}

// withApp loads the configuration, builds the application and runs fn
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, cleanup, err := app.InitializeApp(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer cleanup()

	a.Logger.Debug().
		Str("config_dir", filepath.Dir(cfg.DatabaseFile)).
		Str("location", a.Session.Location).
		Msg("Configuration loaded")

	return fn(ctx, a)
}
