package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/amaumene/cinemahome/internal/controllers"
	"github.com/amaumene/cinemahome/internal/ledger"
	"github.com/amaumene/cinemahome/internal/session"
)

// VisibilityHandler exposes the hide/undo/redo/restore actions
type VisibilityHandler struct {
	guard      *SessionGuard
	visibility *controllers.VisibilityController
	logger     zerolog.Logger
}

// NewVisibilityHandler creates a new visibility handler
func NewVisibilityHandler(guard *SessionGuard, visibility *controllers.VisibilityController, logger zerolog.Logger) *VisibilityHandler {
	return &VisibilityHandler{
		guard:      guard,
		visibility: visibility,
		logger:     logger,
	}
}

// LedgerResponse is returned by every visibility action
type LedgerResponse struct {
	MovieID  int64   `json:"movie_id,omitempty"`
	Restored int     `json:"restored,omitempty"`
	Hidden   []int64 `json:"hidden"`
	CanUndo  bool    `json:"can_undo"`
	CanRedo  bool    `json:"can_redo"`
}

func ledgerResponse(sess *session.Session) LedgerResponse {
	return LedgerResponse{
		Hidden:  sess.Ledger.Hidden(),
		CanUndo: sess.Ledger.CanUndo(),
		CanRedo: sess.Ledger.CanRedo(),
	}
}

// Hide handles POST /api/movies/:id/hide. The caller confirms with
// ?confirm=true; without it nothing changes.
func (h *VisibilityHandler) Hide(c *fiber.Ctx) error {
	movieID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	confirmed := c.QueryBool("confirm", false)
	confirmer := ledger.ConfirmFunc(func(ctx context.Context, id int64) (bool, error) {
		return confirmed, nil
	})

	return h.guard.Do(func(sess *session.Session) error {
		if err := h.visibility.Hide(c.UserContext(), sess, movieID, confirmer); err != nil {
			return err
		}
		resp := ledgerResponse(sess)
		resp.MovieID = movieID
		return c.JSON(resp)
	})
}

// Undo handles POST /api/hidden/undo
func (h *VisibilityHandler) Undo(c *fiber.Ctx) error {
	return h.guard.Do(func(sess *session.Session) error {
		movieID, err := h.visibility.Undo(c.UserContext(), sess)
		if err != nil {
			return err
		}
		resp := ledgerResponse(sess)
		resp.MovieID = movieID
		return c.JSON(resp)
	})
}

// Redo handles POST /api/hidden/redo
func (h *VisibilityHandler) Redo(c *fiber.Ctx) error {
	return h.guard.Do(func(sess *session.Session) error {
		movieID, err := h.visibility.Redo(c.UserContext(), sess)
		if err != nil {
			return err
		}
		resp := ledgerResponse(sess)
		resp.MovieID = movieID
		return c.JSON(resp)
	})
}

// RestoreAll handles DELETE /api/hidden
func (h *VisibilityHandler) RestoreAll(c *fiber.Ctx) error {
	return h.guard.Do(func(sess *session.Session) error {
		restored, err := h.visibility.RestoreAll(c.UserContext(), sess)
		if err != nil {
			return err
		}
		resp := ledgerResponse(sess)
		resp.Restored = restored
		return c.JSON(resp)
	})
}
