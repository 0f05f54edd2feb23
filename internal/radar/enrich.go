package radar

import (
	"context"
	"sync"

	"github.com/deusflow/airadar/internal/logger"
	"github.com/deusflow/airadar/internal/news"
	"golang.org/x/sync/semaphore"
)

const (
	DefaultEnrichLimit       = 60
	DefaultEnrichConcurrency = 4
)

// ImageFinder looks up a preview image for an article page.
// *scraper.Scraper implements it.
type ImageFinder interface {
	PreviewImage(ctx context.Context, pageURL string) (string, error)
}

// enrich fills missing images of bucketed items from their article pages.
// A failed lookup leaves the item unchanged.
func (a *Aggregator) enrich(ctx context.Context, r *Radar) {
	sem := semaphore.NewWeighted(int64(a.opts.EnrichConcurrency))
	var wg sync.WaitGroup

	budget := a.opts.EnrichLimit
	for _, bucket := range r.buckets() {
		items := *bucket
		for i := range items {
			if items[i].Image != "" {
				continue
			}
			if budget == 0 {
				break
			}
			budget--

			if err := sem.Acquire(ctx, 1); err != nil {
				wg.Wait()
				return
			}
			wg.Add(1)
			go func(it *news.Item) {
				defer wg.Done()
				defer sem.Release(1)

				img, err := a.opts.Images.PreviewImage(ctx, it.URL)
				if err != nil {
					logger.Debug("image lookup failed", "url", it.URL, "error", err)
					return
				}
				if img != "" {
					*it = it.WithImage(img)
				}
			}(&items[i])
		}
	}

	wg.Wait()
}
