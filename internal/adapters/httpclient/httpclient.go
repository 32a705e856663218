// Package httpclient holds the request plumbing shared by the provider adapters.
package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"route-planning-service/internal/ports"

	"golang.org/x/time/rate"
)

const maxErrorBody = 4 << 10

// StatusError is a non-2xx provider response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("Code %d: %s", e.Code, e.Body)
}

type Options struct {
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
}

// Client is an *http.Client behind a token-bucket limiter.
// It makes exactly one attempt per call.
type Client struct {
	session *http.Client
	limiter *rate.Limiter
}

func New(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}
	burst := opts.Burst
	if burst <= 0 {
		burst = 1
	}

	return &Client{
		session: &http.Client{Timeout: opts.Timeout},
		limiter: rate.NewLimiter(limit, burst),
	}
}

func NewRequest(ctx context.Context, method, url string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

// Do waits for the limiter, sends req and turns a >=400 response into a
// *StatusError. Failures worth retrying are wrapped with ports.ErrTransient.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if err := c.limiter.Wait(req.Context()); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	resp, err := c.session.Do(req)
	if err != nil {
		return nil, Classify(err)
	}
	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		resp.Body.Close()
		return nil, Classify(&StatusError{
			Code: resp.StatusCode,
			Body: strings.TrimSpace(string(b)),
		})
	}
	return resp, nil
}

// Classify marks network errors and 429/5xx responses as transient.
// Context cancellation is never transient.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var se *StatusError
	if errors.As(err, &se) {
		switch se.Code {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return fmt.Errorf("%w: %w", ports.ErrTransient, err)
		}
		return err
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return fmt.Errorf("%w: %w", ports.ErrTransient, err)
	}
	return err
}
