package controllers

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/amaumene/cinemahome/internal/ledger"
	"github.com/amaumene/cinemahome/internal/metrics"
	"github.com/amaumene/cinemahome/internal/session"
)

// VisibilityController runs ledger operations on a session, logging and
// counting each one.
type VisibilityController struct {
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// NewVisibilityController creates a new visibility controller
func NewVisibilityController(m *metrics.Metrics, logger zerolog.Logger) *VisibilityController {
	return &VisibilityController{
		metrics: m,
		logger:  logger.With().Str("component", "visibility").Logger(),
	}
}

// Hide hides movieID once confirmer agrees
func (c *VisibilityController) Hide(ctx context.Context, sess *session.Session, movieID int64, confirmer ledger.Confirmer) error {
	err := sess.Ledger.Hide(ctx, movieID, confirmer)
	c.record("hide", err)
	if err != nil {
		return err
	}

	c.logger.Info().
		Int64("movie_id", movieID).
		Int("hidden", len(sess.Ledger.Hidden())).
		Msg("Movie hidden")
	return nil
}

// Undo shows the most recently hidden movie again
func (c *VisibilityController) Undo(ctx context.Context, sess *session.Session) (int64, error) {
	movieID, err := sess.Ledger.Undo(ctx)
	c.record("undo", err)
	if err != nil {
		return 0, err
	}

	c.logger.Info().Int64("movie_id", movieID).Msg("Hide undone")
	return movieID, nil
}

// Redo hides the most recently restored movie again
func (c *VisibilityController) Redo(ctx context.Context, sess *session.Session) (int64, error) {
	movieID, err := sess.Ledger.Redo(ctx)
	c.record("redo", err)
	if err != nil {
		return 0, err
	}

	c.logger.Info().Int64("movie_id", movieID).Msg("Hide redone")
	return movieID, nil
}

// RestoreAll shows every hidden movie again
func (c *VisibilityController) RestoreAll(ctx context.Context, sess *session.Session) (int, error) {
	restored, err := sess.Ledger.RestoreAll(ctx)
	c.record("restore", err)
	if err != nil {
		return 0, err
	}

	c.logger.Info().Int("restored", restored).Msg("All hidden movies restored")
	return restored, nil
}

func (c *VisibilityController) record(op string, err error) {
	result := "ok"
	switch {
	case err == nil:
	case IsLedgerNoop(err):
		result = "noop"
		c.logger.Debug().Str("op", op).Err(err).Msg("Ledger operation had no effect")
	default:
		result = "error"
		c.logger.Error().Str("op", op).Err(err).Msg("Ledger operation failed")
	}
	c.metrics.LedgerOperations.WithLabelValues(op, result).Inc()
}

// IsLedgerNoop reports errors that leave the ledger unchanged and are only
// worth a notice to the user.
func IsLedgerNoop(err error) bool {
	return errors.Is(err, ledger.ErrNothingToUndo) ||
		errors.Is(err, ledger.ErrNothingToRedo) ||
		errors.Is(err, ledger.ErrNothingToRestore) ||
		errors.Is(err, ledger.ErrAlreadyHidden) ||
		errors.Is(err, ledger.ErrHideDeclined)
}
