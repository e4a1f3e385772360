package catalog

import (
	"context"
	"fmt"
	"strconv"

	"go.opentelemetry.io/otel/attribute"

	"github.com/amaumene/cinemahome/internal/models"
)

// PurchaseTicket books tickets for a showtime
func (c *Client) PurchaseTicket(ctx context.Context, purchase models.PurchaseRequest) (*models.Ticket, error) {
	var ticket models.Ticket
	if err := c.doRequest(ctx, endpoint{
		method: "POST",
		route:  "/tickets/purchase",
		path:   "/tickets/purchase",
		attrs:  []attribute.KeyValue{attribute.Int64("cinema.showtime_id", purchase.ShowtimeID)},
	}, purchase, &ticket); err != nil {
		return nil, fmt.Errorf("failed to purchase tickets: %w", err)
	}

	c.logger.Info().
		Int64("ticket_id", ticket.ID).
		Int64("showtime_id", ticket.ShowtimeID).
		Int("quantity", ticket.Quantity).
		Float64("total_price", ticket.TotalPrice).
		Msg("Tickets purchased")
	return &ticket, nil
}

// CancelTicket cancels a ticket and returns the backend's confirmation message
func (c *Client) CancelTicket(ctx context.Context, ticketID int64) (string, error) {
	var status statusMessage
	if err := c.doRequest(ctx, endpoint{
		method: "POST",
		route:  "/tickets/cancel/{id}",
		path:   "/tickets/cancel/" + strconv.FormatInt(ticketID, 10),
		attrs:  []attribute.KeyValue{attribute.Int64("cinema.ticket_id", ticketID)},
	}, nil, &status); err != nil {
		return "", fmt.Errorf("failed to cancel ticket %d: %w", ticketID, err)
	}

	c.logger.Info().Int64("ticket_id", ticketID).Msg("Ticket canceled")
	return status.Message, nil
}
