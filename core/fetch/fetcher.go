// Package fetch implements the Fetcher interface.
// It performs HTTP GET requests with an explicit timeout and a bounded retry,
// then parses the body into a goquery document.
package fetch

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/gaurav-prasanna/pagasapipe/core"
)

const (
	defaultTimeout    = 30 * time.Second
	defaultRetryDelay = 2 * time.Second
	defaultUserAgent  = "pagasapipe/1.0 (https://github.com/gaurav-prasanna/pagasapipe)"
)

// Options configures an HTTPFetcher. Zero values fall back to defaults.
type Options struct {
	Timeout    time.Duration
	Retries    int
	RetryDelay time.Duration
	UserAgent  string
}

// HTTPFetcher fetches web pages via HTTP.
type HTTPFetcher struct {
	client     *http.Client
	retries    int
	retryDelay time.Duration
	userAgent  string
}

// New creates an HTTPFetcher. Retries is the number of extra attempts after
// the first failure; negative values disable retrying.
func New(opts Options) *HTTPFetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = defaultRetryDelay
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	if opts.Retries < 0 {
		opts.Retries = 0
	}
	return &HTTPFetcher{
		client:     &http.Client{Timeout: opts.Timeout},
		retries:    opts.Retries,
		retryDelay: opts.RetryDelay,
		userAgent:  opts.UserAgent,
	}
}

// Fetch retrieves and parses the given URL. On failure the returned document
// is nil and the error is a *core.FetchError.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*core.Document, error) {
	var lastErr error
	for attempt := 0; attempt <= f.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, &core.FetchError{URL: url, Err: ctx.Err()}
			case <-time.After(f.retryDelay):
			}
		}
		doc, err := f.fetchOnce(ctx, url)
		if err == nil {
			return doc, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

func (f *HTTPFetcher) fetchOnce(ctx context.Context, url string) (*core.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &core.FetchError{URL: url, Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &core.FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &core.FetchError{URL: url, Status: resp.StatusCode}
	}

	root, err := html.Parse(resp.Body)
	if err != nil {
		return nil, &core.FetchError{URL: url, Err: fmt.Errorf("parsing HTML: %w", err)}
	}

	return &core.Document{URL: url, Doc: goquery.NewDocumentFromNode(root)}, nil
}

// Parse builds a Document from an HTML string. Used for fixtures and
// previously saved pages.
func Parse(url, src string) (*core.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return &core.Document{URL: url, Doc: doc}, nil
}
