// Package apiclient talks to the remote Transfer Daily REST API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/TransferDaily/internal/domain"
	"github.com/TransferDaily/internal/infra/metrics"
	"github.com/TransferDaily/pkg/logging"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const maxErrorBody = 512

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s returned status %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("%s returned status %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

// Unwrap lets callers match the status against domain sentinels.
func (e *StatusError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return domain.ErrUnauthorized
	case http.StatusNotFound:
		return domain.ErrNotFound
	}
	return nil
}

// Client is a typed REST client guarded by a circuit breaker.
type Client struct {
	baseURL    string
	client     *http.Client
	cb         *gobreaker.CircuitBreaker
	timeout    time.Duration
	maxRetries int
	backoff    time.Duration
	sampler    *logging.ErrorSampler
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.client = hc
		}
	}
}

// WithRetries sets how many times idempotent requests are retried and the initial backoff.
func WithRetries(n int, backoff time.Duration) Option {
	return func(c *Client) {
		if n >= 0 {
			c.maxRetries = n
		}
		if backoff > 0 {
			c.backoff = backoff
		}
	}
}

// New creates a client for the API rooted at baseURL. timeout bounds each call.
func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		client:     &http.Client{},
		timeout:    timeout,
		maxRetries: 2,
		backoff:    250 * time.Millisecond,
		sampler:    logging.NewErrorSampler(10),
	}

	cbSettings := gobreaker.Settings{
		Name:        "remote-api",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// Client errors say nothing about the API's health.
		IsSuccessful: func(err error) bool {
			var se *StatusError
			if errors.As(err, &se) {
				return se.StatusCode < 500
			}
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			slog.Warn("CircuitBreaker state changed", "name", name, "from", from, "to", to)
			metrics.CircuitBreakerState.WithLabelValues(name).Set(float64(to))
		},
	}
	c.cb = gobreaker.NewCircuitBreaker(cbSettings)

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// request describes one API call.
type request struct {
	endpoint string // metric / log label
	method   string
	path     string
	query    url.Values
	token    string
	body     any
	out      any
}

func (c *Client) do(ctx context.Context, r request) error {
	ctx, span := otel.Tracer("transfer-daily").Start(ctx, "api."+r.endpoint)
	defer span.End()
	span.SetAttributes(
		attribute.String("http.method", r.method),
		attribute.String("api.path", r.path),
	)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	_, err := c.cb.Execute(func() (interface{}, error) {
		return nil, c.attempts(ctx, r)
	})
	metrics.APIRequestDuration.WithLabelValues(r.endpoint, r.method).Observe(time.Since(start).Seconds())

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		metrics.APIRequestErrors.WithLabelValues(r.endpoint, errorReason(err)).Inc()
		var se *StatusError
		if !errors.As(err, &se) || se.StatusCode >= 500 {
			c.sampler.Error(r.endpoint, "Remote API request failed", "method", r.method, "path", r.path, "error", err)
		}
		return err
	}
	c.sampler.Recovered(r.endpoint)
	return nil
}

// attempts runs the request, retrying network errors and 5xx for GETs.
func (c *Client) attempts(ctx context.Context, r request) error {
	var payload []byte
	if r.body != nil {
		var err error
		payload, err = json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("failed to encode %s request: %w", r.endpoint, err)
		}
	}

	retries := 0
	if r.method == http.MethodGet {
		retries = c.maxRetries
	}
	backoff := c.backoff

	var lastErr error
	for i := 0; i <= retries; i++ {
		if i > 0 {
			slog.Debug("Retrying request", "endpoint", r.endpoint, "attempt", i, "max_retries", retries)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
				backoff *= 2
			}
		}

		lastErr = c.once(ctx, r, payload)
		if lastErr == nil {
			return nil
		}
		var se *StatusError
		if errors.As(lastErr, &se) && se.StatusCode < 500 {
			return lastErr
		}
		if ctx.Err() != nil {
			return lastErr
		}
	}
	return lastErr
}

func (c *Client) once(ctx context.Context, r request, payload []byte) error {
	u := c.baseURL + r.path
	if len(r.query) > 0 {
		u += "?" + r.query.Encode()
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, r.method, u, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", r.endpoint, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Warn("Failed to close response body", "error", err)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Endpoint: r.endpoint, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(excerpt))}
	}

	if r.out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(r.out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to decode %s response: %w", r.endpoint, err)
	}
	return nil
}

func errorReason(err error) string {
	var se *StatusError
	switch {
	case errors.As(err, &se):
		return fmt.Sprintf("status_%d", se.StatusCode)
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return "circuit_open"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "network"
	}
}

func pageQuery(page, limit int) url.Values {
	q := url.Values{}
	if page > 0 {
		q.Set("page", fmt.Sprint(page))
	}
	if limit > 0 {
		q.Set("limit", fmt.Sprint(limit))
	}
	return q
}

func listQuery(lq domain.ListQuery) url.Values {
	q := pageQuery(lq.Page, lq.Limit)
	if lq.League != "" {
		q.Set("league", lq.League)
	}
	if lq.Status != "" {
		q.Set("status", lq.Status)
	}
	if lq.Search != "" {
		q.Set("search", lq.Search)
	}
	if lq.Locale != "" {
		q.Set("locale", string(lq.Locale))
	}
	return q
}
