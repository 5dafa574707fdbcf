package httpclient

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
)

const userAgent = "go-jobboard/1.0"

// RequestIDHeader carries a per-request id the API echoes in its logs.
const RequestIDHeader = "X-Request-Id"

// Options configures the API client.
type Options struct {
	ProxyURL string
	// MinInterval is the minimum gap between two requests to the same
	// host. Zero disables the limit.
	MinInterval time.Duration
	Logger      *slog.Logger
}

// Client wraps http.Client with JSON headers, request ids and a per-host
// rate limit. It never retries: failures go straight back to the caller.
type Client struct {
	inner       *http.Client
	mu          sync.Mutex
	lastReq     map[string]time.Time
	minInterval time.Duration
	logger      *slog.Logger
}

// New creates a Client with the given options.
func New(opts Options) (*Client, error) {
	transport := &http.Transport{
		TLSClientConfig: &tls.Config{MinVersion: tls.VersionTLS12},
		Proxy:           http.ProxyFromEnvironment,
	}

	if opts.ProxyURL != "" {
		proxyURL, err := url.Parse(opts.ProxyURL)
		if err != nil {
			return nil, fmt.Errorf("httpclient: invalid proxy URL: %w", err)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		inner:       &http.Client{Transport: transport},
		lastReq:     make(map[string]time.Time),
		minInterval: opts.MinInterval,
		logger:      logger,
	}, nil
}

// Do executes req after setting headers and honouring the rate limit.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	c.setHeaders(req)

	if err := c.rateLimit(req.Context(), req.URL.Host); err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := c.inner.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %w", err)
	}
	c.logger.Debug("http request",
		"method", req.Method,
		"host", req.URL.Host,
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
		"request_id", req.Header.Get(RequestIDHeader),
	)
	return resp, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("User-Agent", userAgent)
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}
	if req.Header.Get(RequestIDHeader) == "" {
		req.Header.Set(RequestIDHeader, uuid.NewString())
	}
}

func (c *Client) rateLimit(ctx context.Context, host string) error {
	if c.minInterval <= 0 {
		return nil
	}

	c.mu.Lock()
	last, ok := c.lastReq[host]
	now := time.Now()
	var wait time.Duration
	if ok {
		wait = c.minInterval - now.Sub(last)
	}
	// Reserve the slot before sleeping so concurrent callers queue up.
	if wait > 0 {
		c.lastReq[host] = now.Add(wait)
	} else {
		c.lastReq[host] = now
	}
	c.mu.Unlock()

	if wait <= 0 {
		return nil
	}

	c.logger.Debug("rate limit", "host", host, "wait", wait.Round(time.Millisecond))
	select {
	case <-time.After(wait):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
