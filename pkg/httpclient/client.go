package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

// ClientType represents the type of HTTP client configuration
type ClientType string

const (
	// BrowserClient uses browser-like headers so dictionary sites serve the
	// regular entry page instead of a bot challenge
	BrowserClient ClientType = "browser"

	// APIClient sends a minimal identity and asks for JSON
	// Used for the translation endpoint
	APIClient ClientType = "api"
)

// DefaultUserAgent is the identity sent by BrowserClient when none is configured
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// DefaultMaxBodySize caps how much of a response body Fetch reads
const DefaultMaxBodySize int64 = 5 << 20

var errBodyTooLarge = errors.New("response body too large")

// Fetcher is the single-GET contract used by sources and the translator
type Fetcher interface {
	Fetch(ctx context.Context, url string, timeout time.Duration) (string, error)
}

// HTTPClient wraps an http.Client with configuration
type HTTPClient struct {
	client     *http.Client
	clientType ClientType
	userAgent  string
	maxBody    int64
}

// Option configures an HTTPClient
type Option func(*HTTPClient)

// WithUserAgent overrides the User-Agent header
func WithUserAgent(ua string) Option {
	return func(c *HTTPClient) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithMaxBodySize overrides DefaultMaxBodySize
func WithMaxBodySize(n int64) Option {
	return func(c *HTTPClient) {
		if n > 0 {
			c.maxBody = n
		}
	}
}

// WithTransport replaces the underlying round tripper (used by tests)
func WithTransport(rt http.RoundTripper) Option {
	return func(c *HTTPClient) {
		c.client.Transport = rt
	}
}

// NewClient creates a new HTTP client with the specified type
func NewClient(clientType ClientType, opts ...Option) *HTTPClient {
	client := &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			// Follow up to 10 redirects
			if len(via) >= 10 {
				return http.ErrUseLastResponse
			}
			return nil
		},
	}

	c := &HTTPClient{
		client:     client,
		clientType: clientType,
		userAgent:  DefaultUserAgent,
		maxBody:    DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do executes an HTTP request with the appropriate headers for the client type
func (c *HTTPClient) Do(req *http.Request) (*http.Response, error) {
	c.setHeaders(req)
	return c.client.Do(req)
}

// Get is a convenience method for GET requests
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	return c.Do(req)
}

// Fetch issues a single GET bounded by timeout and returns the body.
// There are no retries here; callers decide what a failure means.
// A timeout <= 0 leaves only the caller's context as the bound.
func (c *HTTPClient) Fetch(ctx context.Context, url string, timeout time.Duration) (string, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	resp, err := c.Get(ctx, url)
	if err != nil {
		return "", classify(url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &FetchError{Kind: KindStatus, URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return "", classify(url, err)
	}
	if int64(len(body)) > c.maxBody {
		return "", &FetchError{Kind: KindNetwork, URL: url, Err: fmt.Errorf("%w: more than %d bytes", errBodyTooLarge, c.maxBody)}
	}

	return string(body), nil
}

// setHeaders sets the appropriate headers based on client type
func (c *HTTPClient) setHeaders(req *http.Request) {
	switch c.clientType {
	case BrowserClient:
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		req.Header.Set("Accept-Language", "en-US,en;q=0.9")
		req.Header.Set("Connection", "keep-alive")
		req.Header.Set("Upgrade-Insecure-Requests", "1")

	case APIClient:
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept", "application/json,text/plain;q=0.9,*/*;q=0.8")

	default:
		// Default: use Go's default User-Agent
	}
}

// classify turns a transport error into a FetchError
func classify(url string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &FetchError{Kind: KindTimeout, URL: url, Err: err}
	}
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return &FetchError{Kind: KindTimeout, URL: url, Err: err}
	}
	return &FetchError{Kind: KindNetwork, URL: url, Err: fmt.Errorf("request failed: %w", err)}
}
