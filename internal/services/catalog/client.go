// Package catalog is the client for the ticket backend REST API.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/amaumene/cinemahome/internal/config"
)

const (
	userAgent  = "cinemahome/1.0"
	tracerName = "github.com/amaumene/cinemahome/internal/services/catalog"
)

// ErrNotFound is matched by errors.Is for every 404 answer
var ErrNotFound = errors.New("not found")

// APIError is returned when the backend answers with a non-2xx status
type APIError struct {
	StatusCode int
	Status     string
	Endpoint   string
	// Detail is the "detail" field of the error body, when present
	Detail string
	Body   string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("backend returned %s for %s: %s", e.Status, e.Endpoint, e.Detail)
	}
	return fmt.Sprintf("backend returned %s for %s: %s", e.Status, e.Endpoint, e.Body)
}

// Is lets errors.Is(err, ErrNotFound) match 404 answers
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// IsNotFound reports whether err is a 404 from the backend
func IsNotFound(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusNotFound
	}
	return false
}

// Client talks to the ticket backend REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
	tracer     trace.Tracer
}

// NewClient creates a new backend client
func NewClient(cfg *config.Config, logger zerolog.Logger) (*Client, error) {
	if cfg.APIURL == "" {
		return nil, fmt.Errorf("backend URL is required")
	}

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL:    cfg.APIURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.With().Str("component", "catalog").Logger(),
		tracer:     otel.Tracer(tracerName),
	}, nil
}

// endpoint is one backend request. route is the path template used to name
// spans; path is the concrete path, query included.
type endpoint struct {
	method string
	route  string
	path   string
	attrs  []attribute.KeyValue
}

// doRequest performs a JSON request against the backend. body and result
// may be nil.
func (c *Client) doRequest(ctx context.Context, ep endpoint, body interface{}, result interface{}) (err error) {
	method, path := ep.method, ep.path
	ctx, span := c.tracer.Start(ctx, method+" "+ep.route,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(ep.attrs...))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	fullURL := c.baseURL + path
	c.logger.Debug().
		Str("method", method).
		Str("url", fullURL).
		Msg("Making backend request")

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	span.SetAttributes(
		attribute.String("http.method", method),
		attribute.String("http.route", ep.route),
		attribute.String("http.url", fullURL),
		attribute.Int("http.status_code", resp.StatusCode),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		apiErr := &APIError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Endpoint:   path,
			Detail:     errorDetail(bodyBytes),
			Body:       string(bodyBytes),
		}
		c.logger.Warn().
			Int("status_code", resp.StatusCode).
			Str("endpoint", path).
			Str("detail", apiErr.Detail).
			Msg("Backend returned non-OK status")
		return apiErr
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// errorDetail extracts {"detail": "..."}; validation errors carry a list
func errorDetail(body []byte) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Detail) == 0 {
		return ""
	}
	var text string
	if err := json.Unmarshal(payload.Detail, &text); err == nil {
		return text
	}
	return string(payload.Detail)
}
