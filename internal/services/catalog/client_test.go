package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/amaumene/cinemahome/internal/config"
	"github.com/amaumene/cinemahome/internal/models"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(&config.Config{APIURL: server.URL, RequestTimeout: 2 * time.Second}, zerolog.Nop())
	require.NoError(t, err)
	return client
}

func TestListShowtimes(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/showtimes/", r.URL.Path)
		assert.Equal(t, "VIVO Cluj", r.URL.Query().Get("location"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id": 11, "event_id": 2, "title": "Dune", "genre": null, "description": "Arrakis",
			 "location": "VIVO Cluj", "start_time": "2026-10-17T18:30:00",
			 "total_tickets": 100, "available_tickets": 42, "price": 32.5},
			{"id": 12, "event_id": 2, "title": "Dune", "genre": "SF", "location": "VIVO Cluj",
			 "start_time": "tomorrow-ish", "total_tickets": 100, "available_tickets": 100, "price": 30}
		]`))
	}))

	records, err := client.ListShowtimes(context.Background(), "VIVO Cluj")
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, models.ShowtimeRecord{
		ID:               11,
		MovieID:          2,
		Title:            "Dune",
		Description:      "Arrakis",
		Location:         "VIVO Cluj",
		StartTime:        "2026-10-17T18:30:00",
		Price:            32.5,
		TotalTickets:     100,
		AvailableTickets: 42,
	}, records[0])
	assert.Equal(t, "tomorrow-ish", records[1].StartTime, "malformed start times are passed through")
}

func TestListShowtimesEmptyBody(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.RawQuery)
		_, _ = w.Write([]byte(`[]`))
	}))

	records, err := client.ListShowtimes(context.Background(), "")
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestGetShowtimeNotFound(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/showtimes/99", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail":"Showtime not found"}`))
	}))

	_, err := client.GetShowtime(context.Background(), 99)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, IsNotFound(err))

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Showtime not found", apiErr.Detail)
	assert.Equal(t, "/showtimes/99", apiErr.Endpoint)
}

func TestPurchaseTicket(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/tickets/purchase", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var payload map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, float64(7), payload["showtime_id"])
		assert.Equal(t, "Ana Pop", payload["customer_name"])
		assert.Equal(t, "student", payload["ticket_type"])
		assert.NotContains(t, payload, "card_number")

		_, _ = w.Write([]byte(`{"id": 501, "showtime_id": 7, "customer_name": "Ana Pop",
			"customer_email": "ana@example.com", "quantity": 2, "ticket_type": "student",
			"total_price": 48.0, "is_paid": true}`))
	}))

	ticket, err := client.PurchaseTicket(context.Background(), models.PurchaseRequest{
		ShowtimeID:    7,
		CustomerName:  "Ana Pop",
		CustomerEmail: "ana@example.com",
		Quantity:      2,
		TicketType:    models.TicketStudent,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(501), ticket.ID)
	assert.Equal(t, 48.0, ticket.TotalPrice)
	assert.True(t, ticket.IsPaid)
}

func TestPurchaseTicketBackendRejects(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"detail":"Not enough tickets"}`))
	}))

	_, err := client.PurchaseTicket(context.Background(), models.PurchaseRequest{ShowtimeID: 1, Quantity: 500})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Not enough tickets")
	assert.False(t, IsNotFound(err))
}

func TestCancelTicket(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/tickets/cancel/501", r.URL.Path)
		_, _ = w.Write([]byte(`{"message":"Ticket canceled successfully"}`))
	}))

	message, err := client.CancelTicket(context.Background(), 501)
	require.NoError(t, err)
	assert.Equal(t, "Ticket canceled successfully", message)
}

func TestWaitReadyRetries(t *testing.T) {
	var calls int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"message":"Ticket Sales API is running!"}`))
	}))

	require.NoError(t, client.WaitReady(context.Background(), 10*time.Second))
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestWaitReadyGivesUp(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	assert.Error(t, client.WaitReady(ctx, time.Minute))
}

func TestNewClientRequiresURL(t *testing.T) {
	_, err := NewClient(&config.Config{}, zerolog.Nop())
	assert.Error(t, err)
}

func TestErrorDetail(t *testing.T) {
	assert.Equal(t, "Showtime not found", errorDetail([]byte(`{"detail":"Showtime not found"}`)))
	assert.Equal(t, `[{"msg":"field required"}]`, errorDetail([]byte(`{"detail":[{"msg":"field required"}]}`)))
	assert.Equal(t, "", errorDetail([]byte(`<html>bad gateway</html>`)))
}

func TestSpansAreNamedByRoute(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	client.tracer = provider.Tracer(tracerName)

	for _, location := range []string{"Iulius Mall", "VIVO Cluj"} {
		_, err := client.ListShowtimes(context.Background(), location)
		require.NoError(t, err)
	}

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	for i, location := range []string{"Iulius Mall", "VIVO Cluj"} {
		assert.Equal(t, "GET /showtimes/", spans[i].Name())
		assert.Contains(t, spans[i].Attributes(), attribute.String("cinema.location", location))
	}
}
