package catalog

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/otel/attribute"

	"github.com/amaumene/cinemahome/internal/models"
)

type statusMessage struct {
	Message string `json:"message"`
}

// Ping checks that the backend answers on its root endpoint
func (c *Client) Ping(ctx context.Context) error {
	var status statusMessage
	if err := c.doRequest(ctx, endpoint{method: "GET", route: "/", path: "/"}, nil, &status); err != nil {
		return fmt.Errorf("backend not ready: %w", err)
	}
	return nil
}

// WaitReady polls Ping with exponential backoff until it succeeds, maxWait
// elapses or ctx is cancelled.
func (c *Client) WaitReady(ctx context.Context, maxWait time.Duration) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 250 * time.Millisecond
	b.MaxInterval = 5 * time.Second
	b.MaxElapsedTime = maxWait

	attempt := 0
	err := backoff.RetryNotify(func() error {
		attempt++
		return c.Ping(ctx)
	}, backoff.WithContext(b, ctx), func(err error, next time.Duration) {
		c.logger.Warn().
			Err(err).
			Int("attempt", attempt).
			Dur("retry_in", next).
			Msg("Backend not ready yet")
	})
	if err != nil {
		return fmt.Errorf("backend at %s did not become ready: %w", c.baseURL, err)
	}

	c.logger.Info().Str("url", c.baseURL).Int("attempts", attempt).Msg("Backend is ready")
	return nil
}

// ListShowtimes returns every showtime at location. An empty location lists
// all cinemas. start_time values are returned untouched.
func (c *Client) ListShowtimes(ctx context.Context, location string) ([]models.ShowtimeRecord, error) {
	path := "/showtimes/"
	if location != "" {
		path += "?" + url.Values{"location": {location}}.Encode()
	}

	var records []models.ShowtimeRecord
	if err := c.doRequest(ctx, endpoint{
		method: "GET",
		route:  "/showtimes/",
		path:   path,
		attrs:  []attribute.KeyValue{attribute.String("cinema.location", location)},
	}, nil, &records); err != nil {
		return nil, fmt.Errorf("failed to list showtimes: %w", err)
	}
	if records == nil {
		records = []models.ShowtimeRecord{}
	}

	c.logger.Debug().
		Str("location", location).
		Int("count", len(records)).
		Msg("Fetched showtimes")
	return records, nil
}

// GetShowtime fetches a single showtime. Missing ids match ErrNotFound.
func (c *Client) GetShowtime(ctx context.Context, id int64) (*models.ShowtimeRecord, error) {
	var record models.ShowtimeRecord
	if err := c.doRequest(ctx, endpoint{
		method: "GET",
		route:  "/showtimes/{id}",
		path:   "/showtimes/" + strconv.FormatInt(id, 10),
		attrs:  []attribute.KeyValue{attribute.Int64("cinema.showtime_id", id)},
	}, nil, &record); err != nil {
		return nil, fmt.Errorf("failed to get showtime %d: %w", id, err)
	}
	return &record, nil
}
