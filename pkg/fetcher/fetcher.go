package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"github.com/dtnitsch/grc-lexicon-parser/pkg/caching"
)

// ErrNotFound is returned when the server answers 404.
var ErrNotFound = errors.New("page not found")

// StatusError is a non-success answer that was not retried away.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("failed to fetch %s, status code: %d", e.URL, e.Code)
}

// Options configures a Fetcher. Zero values fall back to sensible defaults.
type Options struct {
	Cache     caching.Cache
	UserAgent string
	Interval  time.Duration // minimum spacing between network requests
	Retries   int
	Backoff   time.Duration // grows linearly with the attempt number
	Timeout   time.Duration
	Logger    *slog.Logger
}

// Fetcher performs GET requests politely: responses are cached, requests
// share one rate limiter, and server errors are retried.
type Fetcher struct {
	client    *http.Client
	cache     caching.Cache
	limiter   *rate.Limiter
	userAgent string
	retries   int
	backoff   time.Duration
	logger    *slog.Logger
}

func NewFetcher(opts Options) *Fetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.Backoff <= 0 {
		opts.Backoff = time.Second
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	limit := rate.Inf
	if opts.Interval > 0 {
		limit = rate.Every(opts.Interval)
	}
	return &Fetcher{
		client:    &http.Client{Timeout: opts.Timeout},
		cache:     opts.Cache,
		limiter:   rate.NewLimiter(limit, 1),
		userAgent: opts.UserAgent,
		retries:   opts.Retries,
		backoff:   opts.Backoff,
		logger:    opts.Logger,
	}
}

// GetHtml fetches url and parses it into a document.
func (f *Fetcher) GetHtml(ctx context.Context, url string) (*goquery.Document, error) {
	bodyBytes, err := f.Get(ctx, url)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(bodyBytes)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc, nil
}

// Get returns the body of url, from the cache when present.
func (f *Fetcher) Get(ctx context.Context, url string) ([]byte, error) {
	if f.cache != nil {
		if data, ok := f.cache.Get(http.MethodGet, url); ok {
			f.logger.Debug("Cache hit", "url", url)
			return data, nil
		}
	}

	var lastErr error
	for attempt := 0; attempt <= f.retries; attempt++ {
		if attempt > 0 {
			wait := time.Duration(attempt) * f.backoff
			f.logger.Warn("Retrying request", "url", url, "attempt", attempt, "wait", wait, "error", lastErr)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
		}

		data, err := f.get(ctx, url)
		if err == nil {
			if f.cache != nil {
				if err := f.cache.Set(http.MethodGet, url, data); err != nil {
					f.logger.Warn("Failed to cache response", "url", url, "error", err)
				}
			}
			return data, nil
		}
		if !retryable(err) || ctx.Err() != nil {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("failed after %d attempts: %w", f.retries+1, lastErr)
}

func (f *Fetcher) get(ctx context.Context, url string) ([]byte, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	f.logger.Debug("Fetching", "url", url)
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make HTTP request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%s: %w", url, ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		return nil, &StatusError{URL: url, Code: resp.StatusCode}
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return bodyBytes, nil
}

// retryable reports whether err is a server error or a transport failure.
func retryable(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return false
	}
	var status *StatusError
	if errors.As(err, &status) {
		return status.Code >= 500 || status.Code == http.StatusTooManyRequests
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}
