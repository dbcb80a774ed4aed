package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/coder/quartz"

	"github.com/modelrelay/relay/pkg/api"
	"github.com/modelrelay/relay/pkg/debug"
	"github.com/modelrelay/relay/pkg/observability"
)

const (
	// DefaultBaseURL is the OpenAI API origin.
	DefaultBaseURL = "https://api.openai.com"

	// DefaultTimeout bounds a single HTTP request.
	DefaultTimeout = 120 * time.Second

	// DefaultMinInterval is the minimum spacing between outbound
	// request issue times (10 requests per second).
	DefaultMinInterval = 100 * time.Millisecond

	// DefaultMaxRetries is the per-call budget for 429 retries.
	DefaultMaxRetries = 3

	// EnvAPIKey supplies the credential when none is passed explicitly.
	EnvAPIKey = "OPENAI_API_KEY"
)

// Client performs paced HTTP requests against the OpenAI API. It is
// safe for concurrent use; concurrent callers are serialized at the
// spacing chokepoint in lock-acquisition order.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	minInterval time.Duration
	maxRetries  int
	clock       quartz.Clock

	// next is the earliest instant the next request may be issued.
	// Guarded by mu so two concurrent callers never both observe a
	// stale slot and proceed without waiting.
	mu   sync.Mutex
	next time.Time
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL points the client at a different API origin.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = baseURL }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithMinInterval overrides the minimum spacing between outbound
// request issue times. Zero disables pacing.
func WithMinInterval(d time.Duration) Option {
	return func(c *Client) { c.minInterval = d }
}

// WithMaxRetries overrides the per-call 429 retry budget.
func WithMaxRetries(n int) Option {
	return func(c *Client) { c.maxRetries = n }
}

// WithClock replaces the clock used for pacing and backoff waits.
func WithClock(clk quartz.Clock) Option {
	return func(c *Client) { c.clock = clk }
}

// New creates a Client. When apiKey is empty the OPENAI_API_KEY
// environment variable supplies the credential; if that is also unset,
// construction fails with a ConfigError and the server must not start.
func New(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		apiKey = os.Getenv(EnvAPIKey)
	}
	if apiKey == "" {
		return nil, api.NewConfigError("no API key provided and %s is not set", EnvAPIKey)
	}

	c := &Client{
		httpClient:  &http.Client{Timeout: DefaultTimeout},
		baseURL:     DefaultBaseURL,
		apiKey:      apiKey,
		minInterval: DefaultMinInterval,
		maxRetries:  DefaultMaxRetries,
		clock:       quartz.NewReal(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.baseURL = strings.TrimRight(c.baseURL, "/")
	if c.maxRetries < 0 {
		c.maxRetries = 0
	}
	return c, nil
}

// Close releases client resources.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// postJSON issues a POST with a JSON body and decodes a JSON response
// into out. Exactly one HTTP request per invocation.
func (c *Client) postJSON(ctx context.Context, endpoint, path string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling %s request: %w", endpoint, err)
	}
	debug.Trace("dispatch", "request body", "endpoint", endpoint, "body", debug.Truncate(string(data), 2048))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("creating %s request: %w", endpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.send(endpoint, req, func(resp *http.Response) error {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("parsing %s response: %w", endpoint, err)
		}
		return nil
	})
}

// getJSON issues a GET and decodes a JSON response into out.
func (c *Client) getJSON(ctx context.Context, endpoint, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating %s request: %w", endpoint, err)
	}

	return c.send(endpoint, req, func(resp *http.Response) error {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("parsing %s response: %w", endpoint, err)
		}
		return nil
	})
}

// postBinary issues a POST with a JSON body and returns the raw
// response bytes. Used by the speech endpoint, whose success response
// is an audio payload rather than JSON.
func (c *Client) postBinary(ctx context.Context, endpoint, path string, body any) ([]byte, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshaling %s request: %w", endpoint, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("creating %s request: %w", endpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")

	var raw []byte
	err = c.send(endpoint, req, func(resp *http.Response) error {
		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("reading %s response: %w", endpoint, err)
		}
		raw = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return raw, nil
}

// send performs the HTTP exchange, maps failures to the api error
// taxonomy, and records request metrics.
func (c *Client) send(endpoint string, req *http.Request, decode func(*http.Response) error) error {
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	observability.RequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		observability.OutboundRequestsTotal.WithLabelValues(endpoint, "transport").Inc()
		return api.NewTransportError(endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		observability.OutboundRequestsTotal.WithLabelValues(endpoint, statusLabel(resp.StatusCode)).Inc()
		return newProviderError(resp)
	}

	observability.OutboundRequestsTotal.WithLabelValues(endpoint, "2xx").Inc()
	return decode(resp)
}

// statusLabel buckets a status code for metrics. 429 keeps its own
// label so throttling is visible separately from other client errors.
func statusLabel(code int) string {
	if code == http.StatusTooManyRequests {
		return "429"
	}
	return strconv.Itoa(code/100) + "xx"
}
