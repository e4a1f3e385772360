package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/amaumene/cinemahome/internal/config"
	"github.com/amaumene/cinemahome/internal/controllers"
	"github.com/amaumene/cinemahome/internal/session"
)

// ViewHandler serves the home listing and the cinema picker
type ViewHandler struct {
	guard     *SessionGuard
	browse    *controllers.BrowseController
	locations []string
	logger    zerolog.Logger
}

// NewViewHandler creates a new view handler
func NewViewHandler(guard *SessionGuard, browse *controllers.BrowseController, locations []string, logger zerolog.Logger) *ViewHandler {
	return &ViewHandler{
		guard:     guard,
		browse:    browse,
		locations: locations,
		logger:    logger,
	}
}

// GetView handles GET /api/view. search, genre and sort query parameters
// update the session filters before the view is built.
func (h *ViewHandler) GetView(c *fiber.Ctx) error {
	return h.guard.Do(func(sess *session.Session) error {
		args := c.Context().QueryArgs()
		if args.Has("search") {
			sess.SetSearch(c.Query("search"))
		}
		if args.Has("genre") {
			sess.SetGenre(c.Query("genre"))
		}
		if args.Has("sort") {
			if err := sess.SetSort(c.Query("sort")); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
		}
		return h.render(c, sess)
	})
}

// GetLocations handles GET /api/locations
func (h *ViewHandler) GetLocations(c *fiber.Ctx) error {
	var selected string
	_ = h.guard.Do(func(sess *session.Session) error {
		selected = sess.Location
		return nil
	})
	return c.JSON(fiber.Map{"locations": h.locations, "selected": selected})
}

type locationRequest struct {
	Location string `json:"location"`
}

// PutLocation handles PUT /api/location. The filters are reset and the view
// of the new cinema is returned.
func (h *ViewHandler) PutLocation(c *fiber.Ctx) error {
	var req locationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	location, ok := config.MatchLocation(h.locations, req.Location)
	if !ok {
		return fiber.NewError(fiber.StatusBadRequest, "unknown location")
	}

	return h.guard.Do(func(sess *session.Session) error {
		if err := sess.ChangeLocation(c.UserContext(), location); err != nil {
			return err
		}
		h.browse.Refresh(location)
		h.logger.Info().Str("location", location).Msg("Location changed")
		return h.render(c, sess)
	})
}

// Refresh handles POST /api/refresh
func (h *ViewHandler) Refresh(c *fiber.Ctx) error {
	return h.guard.Do(func(sess *session.Session) error {
		h.browse.Refresh(sess.Location)
		return h.render(c, sess)
	})
}

// render writes the view; a failed fetch still sends the view with 502
func (h *ViewHandler) render(c *fiber.Ctx, sess *session.Session) error {
	view, err := h.browse.Build(c.UserContext(), sess)
	if err != nil {
		if errors.Is(err, controllers.ErrDataFetch) && view != nil {
			return c.Status(fiber.StatusBadGateway).JSON(view)
		}
		return err
	}
	return c.JSON(view)
}
