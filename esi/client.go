// Package esi is the network boundary: a thin client for the EVE Swagger
// Interface (ESI) universe endpoints.
//
// Failures are per-call, never systemic: a failed fetch of one system id
// says nothing about its siblings. Transient upstream errors (5xx, dropped
// connections) are retried with backoff; client errors fail fast.
package esi

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/klauspost/compress/gzip"
	"golang.org/x/time/rate"

	"github.com/hupe1980/esiq/codec"
	"github.com/hupe1980/esiq/model"
)

// DefaultBaseURL is the public ESI endpoint.
const DefaultBaseURL = "https://esi.evetech.net/latest"

const defaultUserAgent = "esiq (+https://github.com/hupe1980/esiq)"

// StatusError reports a non-2xx upstream response.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("esi: %s returned status %d", e.URL, e.Code)
}

// Temporary reports whether retrying the same request may succeed.
func (e *StatusError) Temporary() bool {
	return e.Code >= 500 || e.Code == http.StatusTooManyRequests
}

// Client talks to ESI. It is safe for concurrent use; the rate limiter is
// shared across all in-flight requests, which is what keeps chunked fetch
// workers inside the ESI error limit.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	limiter    *rate.Limiter
	codec      codec.Codec
	attempts   uint
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithBaseURL points the client at a different endpoint (e.g. a test
// server or the Serenity cluster).
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = u
		}
	}
}

// WithUserAgent sets the User-Agent header. ESI asks integrators to
// identify themselves with contact information.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithRateLimit caps outgoing requests per second. Values <= 0 disable
// pacing.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), int(rps)+1)
		} else {
			c.limiter = nil
		}
	}
}

// WithAttempts sets the per-call attempt budget for transient failures.
// Values == 0 fall back to the default of 3.
func WithAttempts(n uint) Option {
	return func(c *Client) {
		if n > 0 {
			c.attempts = n
		}
	}
}

// WithCodec overrides the response codec. If nil is passed, codec.Default
// is used.
func WithCodec(cd codec.Codec) Option {
	return func(c *Client) {
		if cd != nil {
			c.codec = cd
		}
	}
}

// New creates an ESI client.
func New(optFns ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    DefaultBaseURL,
		userAgent:  defaultUserAgent,
		limiter:    rate.NewLimiter(20, 40),
		codec:      codec.Default,
		attempts:   3,
	}

	for _, fn := range optFns {
		fn(c)
	}

	return c
}

// SystemIDs lists the ids of every solar system known to the cluster.
func (c *Client) SystemIDs(ctx context.Context) ([]model.SystemID, error) {
	var ids []model.SystemID
	if err := c.getJSON(ctx, "/universe/systems/", &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// System fetches one solar system record by id.
func (c *Client) System(ctx context.Context, id model.SystemID) (*model.SolarSystem, error) {
	var rec model.SolarSystem
	if err := c.getJSON(ctx, fmt.Sprintf("/universe/systems/%d/", int32(id)), &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Route returns the jump route between two systems as an ordered id list,
// origin and destination included.
func (c *Client) Route(ctx context.Context, origin, destination model.SystemID) ([]model.SystemID, error) {
	var ids []model.SystemID
	path := fmt.Sprintf("/route/%d/%d/", int32(origin), int32(destination))
	if err := c.getJSON(ctx, path, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// ResolveSystemName resolves an exact (case-insensitive) system name to its
// id via the bulk id-resolution endpoint.
func (c *Client) ResolveSystemName(ctx context.Context, name string) (model.SystemID, error) {
	body, err := c.codec.Marshal([]string{name})
	if err != nil {
		return 0, err
	}

	var out struct {
		Systems []struct {
			ID   model.SystemID `json:"id"`
			Name string         `json:"name"`
		} `json:"systems"`
	}
	if err := c.do(ctx, http.MethodPost, "/universe/ids/", body, &out); err != nil {
		return 0, err
	}

	if len(out.Systems) == 0 {
		return 0, fmt.Errorf("esi: unknown system name %q", name)
	}
	return out.Systems[0].ID, nil
}

func (c *Client) getJSON(ctx context.Context, path string, v any) error {
	return c.do(ctx, http.MethodGet, path, nil, v)
}

// do performs one logical call: rate-limit wait, then up to c.attempts
// physical requests with backoff on transient failure.
func (c *Client) do(ctx context.Context, method, path string, body []byte, v any) error {
	url := c.baseURL + path

	return retry.Do(
		func() error {
			if c.limiter != nil {
				if err := c.limiter.Wait(ctx); err != nil {
					return retry.Unrecoverable(err)
				}
			}
			return c.roundTrip(ctx, method, url, body, v)
		},
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.Delay(200*time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			if !retry.IsRecoverable(err) {
				return false
			}
			var se *StatusError
			if errors.As(err, &se) {
				return se.Temporary()
			}
			// Network-level errors (resets, timeouts) are worth
			// another try; context errors arrive as Unrecoverable.
			return true
		}),
	)
}

func (c *Client) roundTrip(ctx context.Context, method, url string, body []byte, v any) error {
	var reqBody io.Reader
	if body != nil {
		reqBody = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return retry.Unrecoverable(err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "gzip")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return retry.Unrecoverable(ctx.Err())
		}
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		se := &StatusError{Code: resp.StatusCode, URL: url}
		if !se.Temporary() {
			return retry.Unrecoverable(se)
		}
		return se
	}

	reader := io.Reader(resp.Body)
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return err
		}
		defer gz.Close()
		reader = gz
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}

	if v == nil {
		return nil
	}
	if err := c.codec.Unmarshal(data, v); err != nil {
		return retry.Unrecoverable(fmt.Errorf("esi: decode %s: %w", url, err))
	}
	return nil
}
