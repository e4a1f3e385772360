package controllers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/amaumene/cinemahome/internal/checkout"
	"github.com/amaumene/cinemahome/internal/metrics"
	"github.com/amaumene/cinemahome/internal/models"
	"github.com/amaumene/cinemahome/internal/services/catalog"
)

// TicketService is the part of the backend used by checkout
type TicketService interface {
	GetShowtime(ctx context.Context, id int64) (*models.ShowtimeRecord, error)
	PurchaseTicket(ctx context.Context, purchase models.PurchaseRequest) (*models.Ticket, error)
	CancelTicket(ctx context.Context, ticketID int64) (string, error)
}

// Quote is the price of a prospective purchase
type Quote struct {
	Showtime   models.ShowtimeRecord `json:"showtime"`
	Quantity   int                   `json:"quantity"`
	TicketType models.TicketType     `json:"ticket_type"`
	Total      float64               `json:"total"`
}

// CheckoutController validates checkout forms and forwards valid purchases
type CheckoutController struct {
	tickets TicketService
	now     func() time.Time
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// NewCheckoutController creates a new checkout controller
func NewCheckoutController(tickets TicketService, now func() time.Time, m *metrics.Metrics, logger zerolog.Logger) *CheckoutController {
	return &CheckoutController{
		tickets: tickets,
		now:     now,
		metrics: m,
		logger:  logger.With().Str("component", "checkout").Logger(),
	}
}

// Quote prices quantity tickets of ticketType for a showtime
func (c *CheckoutController) Quote(ctx context.Context, showtimeID int64, quantity int, ticketType string) (*Quote, error) {
	kind, err := checkout.ParseTicketType(ticketType)
	if err != nil {
		return nil, &checkout.ValidationError{Field: "ticket_type", Message: err.Error()}
	}
	if quantity < 1 {
		return nil, &checkout.ValidationError{Field: "quantity", Message: "quantity must be at least 1"}
	}

	showtime, err := c.tickets.GetShowtime(ctx, showtimeID)
	if err != nil {
		return nil, err
	}

	total, err := checkout.Quote(showtime.Price, quantity, kind)
	if err != nil {
		return nil, err
	}

	return &Quote{Showtime: *showtime, Quantity: quantity, TicketType: kind, Total: total}, nil
}

// Buy validates form against the current showtime and purchases the tickets
func (c *CheckoutController) Buy(ctx context.Context, form checkout.Form) (*models.Ticket, error) {
	showtime, err := c.tickets.GetShowtime(ctx, form.ShowtimeID)
	if err != nil && !errors.Is(err, catalog.ErrNotFound) {
		c.metrics.CheckoutTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	if err != nil {
		showtime = nil
	}

	if err := checkout.Validate(form, showtime, c.now()); err != nil {
		c.metrics.CheckoutTotal.WithLabelValues("invalid").Inc()
		c.logger.Debug().
			Int64("showtime_id", form.ShowtimeID).
			Err(err).
			Msg("Checkout form rejected")
		return nil, err
	}

	ticket, err := c.tickets.PurchaseTicket(ctx, form.PurchaseRequest())
	if err != nil {
		c.metrics.CheckoutTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to buy tickets: %w", err)
	}

	c.metrics.CheckoutTotal.WithLabelValues("ok").Inc()
	c.logger.Info().
		Int64("ticket_id", ticket.ID).
		Int64("showtime_id", ticket.ShowtimeID).
		Str("location", showtime.Location).
		Msg("Checkout completed")
	return ticket, nil
}

// Cancel cancels a purchased ticket
func (c *CheckoutController) Cancel(ctx context.Context, ticketID int64) (string, error) {
	message, err := c.tickets.CancelTicket(ctx, ticketID)
	if err != nil {
		return "", err
	}
	return message, nil
}
