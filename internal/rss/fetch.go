package rss

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/deusflow/airadar/internal/logger"
	"github.com/deusflow/airadar/internal/metrics"
	"github.com/deusflow/airadar/internal/news"
)

const (
	// DefaultTimeout bounds each feed fetch independently.
	DefaultTimeout = 8 * time.Second
	UserAgent      = "Mozilla/5.0 (compatible; AIRadar/1.0)"

	maxBodyBytes = 10 << 20
)

// ErrBadStatus is wrapped into fetch errors for non-2xx responses.
var ErrBadStatus = errors.New("unexpected HTTP status")

// FetchResult is the outcome of fetching one source. Err is set on failure
// and Items is then empty.
type FetchResult struct {
	Source   Source
	Items    []news.Item
	Err      error
	Duration time.Duration
}

// OK reports whether the fetch succeeded.
func (r FetchResult) OK() bool {
	return r.Err == nil
}

// Fetcher downloads and parses feeds.
type Fetcher struct {
	client  *http.Client
	parser  *Parser
	timeout time.Duration
}

// NewFetcher creates a Fetcher whose every fetch is bounded by timeout.
func NewFetcher(client *http.Client, parser *Parser, timeout time.Duration) *Fetcher {
	if client == nil {
		client = &http.Client{}
	}
	if parser == nil {
		parser = NewParser(time.Local)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Fetcher{client: client, parser: parser, timeout: timeout}
}

// Fetch retrieves and parses one source. It never returns an error to the
// caller: failures are logged, counted and reported in the result.
func (f *Fetcher) Fetch(ctx context.Context, src Source) FetchResult {
	start := time.Now()

	items, err := f.fetch(ctx, src)
	res := FetchResult{Source: src, Items: items, Err: err, Duration: time.Since(start)}

	if err != nil {
		res.Items = nil
		logger.Warn("feed fetch failed", "source", src.Name, "url", src.URL, "error", err, "duration", res.Duration)
		metrics.RecordFetch(src.Name, "error", res.Duration)
		metrics.Global.SetError(fmt.Sprintf("%s: %v", src.Name, err))
		return res
	}

	logger.Debug("feed fetched", "source", src.Name, "items", len(items), "duration", res.Duration)
	metrics.RecordFetch(src.Name, "ok", res.Duration)
	return res
}

func (f *Fetcher) fetch(ctx context.Context, src Source) ([]news.Item, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %d", ErrBadStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read feed body: %w", err)
	}

	return f.parser.Parse(string(body), src), nil
}
