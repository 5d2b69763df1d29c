package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/angeloszaimis/proxy-health-gateway/internal/target"
)

const (
	DefaultMaxBodyBytes = 1 << 20
	DefaultUserAgent    = "proxy-health-gateway"

	// upstream error bodies are echoed back to callers, keep them short
	maxErrorBodyLen = 512
)

// Options tunes a Client. A zero Timeout waits for as long as the caller's
// context allows.
type Options struct {
	Timeout      time.Duration
	MaxBodyBytes int64
	UserAgent    string
	Transport    http.RoundTripper
}

// Result is a successful upstream answer: a 2xx status with a JSON body.
type Result struct {
	StatusCode int
	Body       []byte
	Duration   time.Duration
}

// Client queries a single fixed health-check endpoint.
type Client struct {
	baseURL      *url.URL
	httpClient   *http.Client
	timeout      time.Duration
	maxBodyBytes int64
	userAgent    string
}

// New creates a Client for the given base URL. The URL must be absolute
// http or https.
func New(baseURL string, opts Options) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse upstream url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("upstream url %q must use http or https", baseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("upstream url %q has no host", baseURL)
	}
	if opts.Timeout < 0 {
		return nil, fmt.Errorf("upstream timeout cannot be negative")
	}

	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}

	transport := opts.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}

	return &Client{
		baseURL:      u,
		httpClient:   &http.Client{Transport: transport},
		timeout:      opts.Timeout,
		maxBodyBytes: opts.MaxBodyBytes,
		userAgent:    opts.UserAgent,
	}, nil
}

// BaseURL returns the configured endpoint without any target applied.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Timeout returns the per-call bound, zero when unbounded.
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// URLFor builds <base>?ip=<host>:<port>, keeping any query already present
// on the base URL.
func (c *Client) URLFor(t target.Target) string {
	u := *c.baseURL
	q := u.Query()
	q.Set("ip", t.String())
	u.RawQuery = q.Encode()
	return u.String()
}

// Check performs the single outbound call for t.
func (c *Client) Check(ctx context.Context, t target.Target) (*Result, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URLFor(t), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classify(ctx, err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, c.maxBodyBytes+1))
	if err != nil {
		return nil, classify(ctx, err)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, &StatusError{
			StatusCode: res.StatusCode,
			Status:     statusText(res),
			Body:       truncate(strings.TrimSpace(string(body)), maxErrorBodyLen),
		}
	}

	if int64(len(body)) > c.maxBodyBytes {
		return nil, fmt.Errorf("%w: body exceeds %d bytes", ErrInvalidResponse, c.maxBodyBytes)
	}

	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: body is not valid JSON", ErrInvalidResponse)
	}

	return &Result{
		StatusCode: res.StatusCode,
		Body:       body,
		Duration:   time.Since(start),
	}, nil
}

func classify(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return ErrTimeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrTimeout
	}

	return fmt.Errorf("%w: %v", ErrNetwork, err)
}

func statusText(res *http.Response) string {
	if res.Status != "" {
		return res.Status
	}
	return fmt.Sprintf("%d %s", res.StatusCode, http.StatusText(res.StatusCode))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
