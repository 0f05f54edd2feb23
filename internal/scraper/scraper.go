package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	DefaultTimeout = 5 * time.Second
	userAgent      = "Mozilla/5.0 (compatible; AIRadar/1.0)"
	maxPageBytes   = 2 << 20
)

// Scraper looks up preview images on article pages.
type Scraper struct {
	client  *http.Client
	timeout time.Duration
}

func New(client *http.Client, timeout time.Duration) *Scraper {
	if client == nil {
		client = &http.Client{}
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Scraper{client: client, timeout: timeout}
}

// PreviewImage returns the page's social preview image as an absolute URL.
func (s *Scraper) PreviewImage(ctx context.Context, pageURL string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("error loading page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP error: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", fmt.Errorf("error parsing HTML: %w", err)
	}

	image := extractPreviewImage(doc)
	if image == "" {
		return "", nil
	}
	return absolute(pageURL, image), nil
}

// extractPreviewImage tries the usual meta tags in order of preference.
func extractPreviewImage(doc *goquery.Document) string {
	selectors := []string{
		`meta[property="og:image"]`,
		`meta[property="og:image:url"]`,
		`meta[name="twitter:image"]`,
		`meta[property="twitter:image"]`,
		`link[rel="image_src"]`,
	}

	for _, selector := range selectors {
		sel := doc.Find(selector).First()
		val, ok := sel.Attr("content")
		if !ok {
			val, _ = sel.Attr("href")
		}
		if val = strings.TrimSpace(val); val != "" {
			return val
		}
	}

	return ""
}

func absolute(base, ref string) string {
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}
