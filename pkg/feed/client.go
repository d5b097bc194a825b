package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

// Sink receives one decoded feed record per tracked object. An error from
// the sink is logged and does not stop dispatch of the remaining records in
// the same response.
type Sink func(objectID string, rec *RawRecord) error

// Client fetches the zone feed and dispatches its records. One Client
// issues one outstanding GET per FetchAndDispatch call; the HTTP transport
// and its connection pool are owned by the supplied http.Client.
type Client struct {
	baseURL    string
	bounds     *Bounds
	httpClient *http.Client
	limiter    *rate.Limiter
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBounds restricts fetches to a bounding box.
func WithBounds(b Bounds) ClientOption {
	return func(c *Client) { c.bounds = &b }
}

// WithHTTPClient replaces the default HTTP client (10 second timeout).
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithRateLimit caps the request rate. The default allows one request per
// polling interval, which keeps even a misconfigured caller polite to the
// upstream feed.
func WithRateLimit(r rate.Limit, burst int) ClientOption {
	return func(c *Client) { c.limiter = rate.NewLimiter(r, burst) }
}

// NewClient creates a feed client for baseURL. Pass DefaultBaseURL for the
// public flightradar24 zone feed.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Every(PollingInterval), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// URL returns the fetch URL: the base URL with a bounds query parameter
// appended when bounds are configured. The base URL's own query parameters
// are preserved.
func (c *Client) URL() (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid feed URL %q: %w", c.baseURL, err)
	}
	if c.bounds != nil {
		q := u.Query()
		q.Set("bounds", c.bounds.String())
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// FetchAndDispatch issues one GET to the feed and hands every array-valued
// entry of the response to sink as a decoded RawRecord.
//
// The feed response is a JSON object whose keys are object IDs; values that
// are not arrays are metadata the feed embeds alongside aircraft entries
// and are skipped without error. A record that fails to decode, or a sink
// error, drops only that record. Transport, status, and body-level parse
// failures are returned for the caller to log; they leave the registry and
// all previously dispatched state untouched.
func (c *Client) FetchAndDispatch(ctx context.Context, sink Sink) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	fetchURL, err := c.URL()
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fetchURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build feed request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("feed returned status %d", resp.StatusCode)
	}

	var entries map[string]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return fmt.Errorf("failed to parse feed response: %w", err)
	}

	for objectID, raw := range entries {
		if !isJSONArray(raw) {
			continue
		}

		var rec RawRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			log.Printf("feed: skipping malformed record %s: %v", objectID, err)
			continue
		}

		if err := sink(objectID, &rec); err != nil {
			log.Printf("feed: sink rejected record %s: %v", objectID, err)
		}
	}

	return nil
}

// isJSONArray reports whether the raw value's first token opens an array.
func isJSONArray(raw json.RawMessage) bool {
	for _, b := range raw {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		case '[':
			return true
		default:
			return false
		}
	}
	return false
}
