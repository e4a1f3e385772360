package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/amaumene/cinemahome/internal/checkout"
	"github.com/amaumene/cinemahome/internal/controllers"
	"github.com/amaumene/cinemahome/internal/session"
)

// CheckoutHandler exposes quoting, buying and cancelling tickets
type CheckoutHandler struct {
	guard    *SessionGuard
	checkout *controllers.CheckoutController
	browse   *controllers.BrowseController
	logger   zerolog.Logger
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(guard *SessionGuard, checkoutCtrl *controllers.CheckoutController, browse *controllers.BrowseController, logger zerolog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		guard:    guard,
		checkout: checkoutCtrl,
		browse:   browse,
		logger:   logger,
	}
}

// Quote handles GET /api/showtimes/:id/quote?quantity=&ticket_type=
func (h *CheckoutHandler) Quote(c *fiber.Ctx) error {
	showtimeID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	quote, err := h.checkout.Quote(c.UserContext(), showtimeID, c.QueryInt("quantity", 1), c.Query("ticket_type"))
	if err != nil {
		return err
	}
	return c.JSON(quote)
}

// Checkout handles POST /api/checkout
func (h *CheckoutHandler) Checkout(c *fiber.Ctx) error {
	var form checkout.Form
	if err := c.BodyParser(&form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	ticket, err := h.checkout.Buy(c.UserContext(), form)
	if err != nil {
		return err
	}

	// Availability changed
	h.refreshCurrent()
	return c.Status(fiber.StatusCreated).JSON(ticket)
}

// Cancel handles POST /api/tickets/:id/cancel
func (h *CheckoutHandler) Cancel(c *fiber.Ctx) error {
	ticketID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	message, err := h.checkout.Cancel(c.UserContext(), ticketID)
	if err != nil {
		return err
	}

	h.refreshCurrent()
	return c.JSON(fiber.Map{"ticket_id": ticketID, "message": message})
}

func (h *CheckoutHandler) refreshCurrent() {
	_ = h.guard.Do(func(sess *session.Session) error {
		h.browse.Refresh(sess.Location)
		return nil
	})
}
