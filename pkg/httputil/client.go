package httputil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/matzehuels/jsontree/pkg/cache"
	jerrors "github.com/matzehuels/jsontree/pkg/errors"
	"github.com/matzehuels/jsontree/pkg/observability"
)

// Defaults for [NewClient].
const (
	DefaultTimeout  = 10 * time.Second
	DefaultMaxBytes = 32 << 20
	DefaultAttempts = 3
	DefaultBackoff  = time.Second
)

// Client fetches remote documents with caching and retry.
type Client struct {
	http    *http.Client
	cache   cache.Cache
	keyer   cache.Keyer
	headers map[string]string

	// MaxBytes caps the response body size.
	MaxBytes int64
	// Attempts and Backoff control retry of transient failures.
	Attempts int
	Backoff  time.Duration
}

// NewClient creates a Client. A nil cache disables caching. Headers are sent
// with every request.
func NewClient(c cache.Cache, headers map[string]string) *Client {
	if c == nil {
		c = cache.NewNullCache()
	}
	return &Client{
		http:     &http.Client{Timeout: DefaultTimeout},
		cache:    c,
		keyer:    cache.NewDefaultKeyer(),
		headers:  headers,
		MaxBytes: DefaultMaxBytes,
		Attempts: DefaultAttempts,
		Backoff:  DefaultBackoff,
	}
}

// WithKeyer returns the client after replacing its cache keyer.
func (c *Client) WithKeyer(k cache.Keyer) *Client {
	if k != nil {
		c.keyer = k
	}
	return c
}

// Fetch returns the body at rawURL. If refresh is true the cache is bypassed
// but still updated.
func (c *Client) Fetch(ctx context.Context, rawURL string, refresh bool) ([]byte, error) {
	if err := jerrors.ValidateURL(rawURL); err != nil {
		return nil, err
	}

	key := c.keyer.FetchKey(rawURL)
	if !refresh {
		if data, ok, _ := c.cache.Get(ctx, key); ok {
			observability.Cache().OnCacheHit(ctx, "fetch")
			return data, nil
		}
		observability.Cache().OnCacheMiss(ctx, "fetch")
	}

	var body []byte
	err := cache.Retry(ctx, c.Attempts, c.Backoff, func() error {
		var err error
		body, err = c.get(ctx, rawURL)
		return err
	})
	if err != nil {
		return nil, classify(rawURL, err)
	}

	if err := c.cache.Set(ctx, key, body, cache.TTLFetch); err == nil {
		observability.Cache().OnCacheSet(ctx, "fetch", len(body))
	}
	return body, nil
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json, application/yaml;q=0.9, */*;q=0.5")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	host, path := req.URL.Host, req.URL.Path
	hooks := observability.HTTP()
	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, cache.Retryable(fmt.Errorf("%w: %v", cache.ErrNetwork, err))
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode); err != nil {
		return nil, err
	}

	limit := c.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, cache.Retryable(fmt.Errorf("%w: %v", cache.ErrNetwork, err))
	}
	if int64(len(data)) > limit {
		return nil, jerrors.New(jerrors.ErrCodeInvalidInput, "response exceeds %d bytes", limit)
	}
	return data, nil
}

func checkStatus(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return cache.ErrNotFound
	case code >= 500, code == http.StatusTooManyRequests:
		return cache.Retryable(fmt.Errorf("%w: status %d", cache.ErrNetwork, code))
	default:
		return fmt.Errorf("%w: status %d", cache.ErrNetwork, code)
	}
}

// classify maps transport errors to coded errors.
func classify(rawURL string, err error) error {
	var coded *jerrors.Error
	var urlErr *url.Error
	switch {
	case errors.As(err, &coded):
		return err
	case errors.Is(err, context.Canceled):
		return err
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &urlErr) && urlErr.Timeout():
		return jerrors.Wrap(jerrors.ErrCodeTimeout, err, "fetch %s timed out", rawURL)
	case errors.Is(err, cache.ErrNotFound):
		return jerrors.Wrap(jerrors.ErrCodeNotFound, err, "fetch %s: not found", rawURL)
	default:
		return jerrors.Wrap(jerrors.ErrCodeNetwork, err, "fetch %s", rawURL)
	}
}
