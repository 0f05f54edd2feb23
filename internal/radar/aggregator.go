// Package radar merges all feed sources into the five topic buckets.
package radar

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/deusflow/airadar/internal/logger"
	"github.com/deusflow/airadar/internal/metrics"
	"github.com/deusflow/airadar/internal/news"
	"github.com/deusflow/airadar/internal/rss"
	"golang.org/x/sync/errgroup"
)

// DefaultBucketLimit is the number of items kept per bucket.
const DefaultBucketLimit = 12

// Radar is the aggregated response. Every bucket is always present.
type Radar struct {
	Models        []news.Item `json:"models"`
	Tools         []news.Item `json:"tools"`
	OpenSource    []news.Item `json:"opensource"`
	GraphicDesign []news.Item `json:"graphicdesign"`
	WebDesign     []news.Item `json:"webdesign"`
}

// Counts returns the number of items per bucket, keyed by bucket name.
func (r Radar) Counts() map[string]int {
	return map[string]int{
		string(news.CategoryModels):        len(r.Models),
		string(news.CategoryTools):         len(r.Tools),
		string(news.CategoryOpenSource):    len(r.OpenSource),
		string(news.CategoryGraphicDesign): len(r.GraphicDesign),
		string(news.CategoryWebDesign):     len(r.WebDesign),
	}
}

func (r *Radar) buckets() []*[]news.Item {
	return []*[]news.Item{&r.Models, &r.Tools, &r.OpenSource, &r.GraphicDesign, &r.WebDesign}
}

// FeedFetcher fetches and parses one source. *rss.Fetcher implements it.
type FeedFetcher interface {
	Fetch(ctx context.Context, src rss.Source) rss.FetchResult
}

type Options struct {
	// BucketLimit caps each bucket; <= 0 means DefaultBucketLimit.
	BucketLimit int
	// Images, when set, fills in missing images after bucketing.
	Images ImageFinder
	// EnrichLimit caps image lookups per aggregation; <= 0 means DefaultEnrichLimit.
	EnrichLimit int
	// EnrichConcurrency bounds parallel lookups; <= 0 means DefaultEnrichConcurrency.
	EnrichConcurrency int
}

type Aggregator struct {
	fetcher FeedFetcher
	roster  rss.Roster
	opts    Options
}

func NewAggregator(fetcher FeedFetcher, roster rss.Roster, opts Options) *Aggregator {
	if opts.BucketLimit <= 0 {
		opts.BucketLimit = DefaultBucketLimit
	}
	if opts.EnrichLimit <= 0 {
		opts.EnrichLimit = DefaultEnrichLimit
	}
	if opts.EnrichConcurrency <= 0 {
		opts.EnrichConcurrency = DefaultEnrichConcurrency
	}
	return &Aggregator{fetcher: fetcher, roster: roster, opts: opts}
}

// Aggregate fetches every source concurrently and builds the radar. It never
// fails: unavailable sources simply contribute no items.
func (a *Aggregator) Aggregate(ctx context.Context) Radar {
	start := time.Now()

	groups := [][]rss.Source{a.roster.AI, a.roster.GraphicDesign, a.roster.WebDesign}
	results := a.fetchAll(ctx, groups)
	failed := countFailed(results)

	ai := mergeGroup("ai", results[0])
	graphic := mergeGroup("graphicdesign", results[1])
	web := mergeGroup("webdesign", results[2])

	limit := a.opts.BucketLimit
	r := Radar{
		Models:        head(byCategory(ai, news.CategoryModels), limit),
		Tools:         head(byCategory(ai, news.CategoryTools), limit),
		OpenSource:    head(byCategory(ai, news.CategoryOpenSource), limit),
		GraphicDesign: head(graphic, limit),
		WebDesign:     head(web, limit),
	}

	if a.opts.Images != nil {
		a.enrich(ctx, &r)
	}

	counts := r.Counts()
	metrics.RecordAggregation(time.Since(start), counts)
	logger.Info("radar aggregated",
		"sources", a.roster.Len(),
		"failed_sources", failed,
		"models", counts["models"],
		"tools", counts["tools"],
		"opensource", counts["opensource"],
		"graphicdesign", counts["graphicdesign"],
		"webdesign", counts["webdesign"],
		"duration", time.Since(start),
	)
	return r
}

// fetchAll issues every fetch at once. Each goroutine owns one result slot.
func (a *Aggregator) fetchAll(ctx context.Context, groups [][]rss.Source) [][]rss.FetchResult {
	results := make([][]rss.FetchResult, len(groups))
	var g errgroup.Group

	for gi, sources := range groups {
		results[gi] = make([]rss.FetchResult, len(sources))
		for si, src := range sources {
			slot := &results[gi][si]
			g.Go(func() error {
				*slot = a.safeFetch(ctx, src)
				return nil
			})
		}
	}

	_ = g.Wait()
	return results
}

func (a *Aggregator) safeFetch(ctx context.Context, src rss.Source) (res rss.FetchResult) {
	defer func() {
		if p := recover(); p != nil {
			logger.Error("panic while fetching feed", "source", src.Name, "url", src.URL, "panic", p)
			res = rss.FetchResult{Source: src, Err: fmt.Errorf("panic: %v", p)}
		}
	}()
	return a.fetcher.Fetch(ctx, src)
}

func countFailed(results [][]rss.FetchResult) int {
	n := 0
	for _, group := range results {
		for _, res := range group {
			if !res.OK() {
				n++
			}
		}
	}
	return n
}

// mergeGroup concatenates a group's items newest first and drops repeated URLs,
// keeping the most recent occurrence.
func mergeGroup(group string, results []rss.FetchResult) []news.Item {
	var all []news.Item
	for _, res := range results {
		all = append(all, res.Items...)
	}
	metrics.ItemsParsed.WithLabelValues(group).Add(float64(len(all)))

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Published.After(all[j].Published)
	})

	deduped := dedupe(all)
	if n := len(all) - len(deduped); n > 0 {
		metrics.DuplicatesFiltered.WithLabelValues(group).Add(float64(n))
		logger.Debug("dropped duplicate items", "group", group, "count", n)
	}
	return deduped
}

func dedupe(items []news.Item) []news.Item {
	seen := make(map[string]struct{}, len(items))
	out := make([]news.Item, 0, len(items))
	for _, it := range items {
		if _, ok := seen[it.URL]; ok {
			continue
		}
		seen[it.URL] = struct{}{}
		out = append(out, it)
	}
	return out
}

func byCategory(items []news.Item, c news.Category) []news.Item {
	out := []news.Item{}
	for _, it := range items {
		if it.Category == c {
			out = append(out, it)
		}
	}
	return out
}

// head returns at most n items as a fresh non-nil slice.
func head(items []news.Item, n int) []news.Item {
	if len(items) > n {
		items = items[:n]
	}
	return append([]news.Item{}, items...)
}
