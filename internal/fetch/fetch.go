// Package fetch provides a caching page fetcher for source adapters.
//
// Fetched payloads are stored on disk keyed by a caller-supplied cache key
// (content-addressed by source and query), so reruns replay pages without
// touching the network. Any transport error or non-2xx status is returned as
// an error; the circuit breaker upstream converts it into a backoff penalty.
package fetch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"shelfcheck/internal/logging"
)

const userAgent = "shelfcheck/1.0"

// Client fetches pages through a read-through disk cache. An empty dir
// disables caching; every Fetch then hits the network.
type Client struct {
	dir        string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// New creates a caching fetch client writing page payloads under dir.
func New(dir string, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		dir:        dir,
		httpClient: &http.Client{Timeout: 20 * time.Second},
		logger:     logging.NewComponentLogger(logger, "fetch"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch returns the payload for url, served from cache when the cache key
// was fetched before. Cache writes are best-effort: a payload that cannot be
// persisted is still returned.
func (c *Client) Fetch(ctx context.Context, cacheKey, url string) ([]byte, error) {
	if data, ok, err := c.cached(cacheKey); err != nil {
		return nil, err
	} else if ok {
		c.logger.Debug("cache hit", logging.String("cache_key", cacheKey))
		return data, nil
	}

	data, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}

	if err := c.store(cacheKey, data); err != nil {
		c.logger.Warn("cache write failed",
			logging.String("cache_key", cacheKey),
			logging.Error(err))
	}
	return data, nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch %s returned %d (latency=%v)", url, resp.StatusCode, latency)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return data, nil
}

func (c *Client) cached(cacheKey string) ([]byte, bool, error) {
	if c.dir == "" {
		return nil, false, nil
	}
	data, err := os.ReadFile(c.cachePath(cacheKey))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read cached page: %w", err)
	}
	return data, true, nil
}

func (c *Client) store(cacheKey string, data []byte) error {
	if c.dir == "" {
		return nil
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}
	path := c.cachePath(cacheKey)
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

func (c *Client) cachePath(cacheKey string) string {
	sum := sha256.Sum256([]byte(cacheKey))
	return filepath.Join(c.dir, hex.EncodeToString(sum[:])+".page")
}
