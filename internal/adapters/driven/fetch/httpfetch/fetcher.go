// Package httpfetch retrieves e-file documents over HTTP.
package httpfetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/pfgrants/internal/core/domain"
	"github.com/custodia-labs/pfgrants/internal/core/ports/driven"
	"github.com/custodia-labs/pfgrants/internal/logger"
)

// Ensure Fetcher implements the interface.
var _ driven.DocumentFetcher = (*Fetcher)(nil)

// Fetcher issues throttled GET requests. Each locator is tried once.
type Fetcher struct {
	client    *http.Client
	limiter   *rate.Limiter
	userAgent string
}

// New creates a fetcher from settings with its own HTTP client.
func New(cfg domain.FetchSettings) *Fetcher {
	return NewWithClient(&http.Client{}, cfg)
}

// NewWithClient creates a fetcher around a copy of client, so the caller's
// client is left untouched. The copy's timeout is set from
// cfg.TimeoutSeconds when positive.
func NewWithClient(client *http.Client, cfg domain.FetchSettings) *Fetcher {
	c := *client
	if cfg.TimeoutSeconds > 0 {
		c.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	return &Fetcher{
		client:    &c,
		limiter:   rate.NewLimiter(limit, burst),
		userAgent: cfg.UserAgent,
	}
}

// Fetch returns the body of url. Only HTTP 200 is a success.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, &domain.FetchError{URL: url, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, &domain.FetchError{URL: url, Err: fmt.Errorf("create request: %w", err)}
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &domain.FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &domain.FetchError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.FetchError{URL: url, Err: fmt.Errorf("read body: %w", err)}
	}

	logger.Debug("Fetched %d bytes from %s", len(body), url)
	return body, nil
}
