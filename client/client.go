// Package client executes engine request descriptors. It owns the
// transport concerns the adapters stay out of: browser-like TLS
// fingerprinting, per-engine rate limiting and a short-lived response
// cache.
package client

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"metasearch/search"
)

const chromeUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

const maxBodyBytes = 10 * 1024 * 1024 // 10 MB cap

// Client executes search.Request descriptors and returns the raw body.
type Client struct {
	http     *http.Client
	cache    *Cache
	limiters *limiterPool
	logger   *zap.Logger
}

// New creates a client. cache may be nil to disable response caching;
// requestsPerMinute <= 0 disables rate limiting.
func New(logger *zap.Logger, cache *Cache, requestsPerMinute int) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	transport := &http.Transport{
		DialTLSContext: dialTLSChrome,
	}
	return &Client{
		http:     &http.Client{Transport: transport},
		cache:    cache,
		limiters: newLimiterPool(requestsPerMinute),
		logger:   logger,
	}
}

// Do executes one request descriptor for the given engine and returns the
// response body. Bodies are capped at 10 MB.
func (c *Client) Do(ctx context.Context, engine search.Engine, req *search.Request) ([]byte, error) {
	if req == nil {
		return nil, fmt.Errorf("client: nil request for engine %s", engine)
	}

	id := uuid.NewString()

	if c.cache != nil {
		if body, ok := c.cache.Get(engine, req.URL); ok {
			c.logger.Debug("cache hit",
				zap.String("request_id", id),
				zap.String("engine", string(engine)),
				zap.String("url", req.URL))
			return body, nil
		}
	}

	if err := c.limiters.wait(ctx, engine); err != nil {
		return nil, fmt.Errorf("client: rate limit wait: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("client: build request: %w", err)
	}
	for key, values := range req.Header {
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}
	if httpReq.Header.Get("User-Agent") == "" {
		httpReq.Header.Set("User-Agent", chromeUA)
	}
	httpReq.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	httpReq.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("client: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("client: HTTP %d from %s", resp.StatusCode, engine)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("client: read body: %w", err)
	}

	if c.cache != nil {
		if err := c.cache.Put(engine, req.URL, body); err != nil {
			c.logger.Warn("cache write failed",
				zap.String("engine", string(engine)),
				zap.Error(err))
		}
	}

	c.logger.Debug("fetched engine response",
		zap.String("request_id", id),
		zap.String("engine", string(engine)),
		zap.String("url", req.URL),
		zap.Int("bytes", len(body)),
	)
	return body, nil
}
