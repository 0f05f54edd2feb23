package rss

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Purpose-built media metadata comes first; inline body images are often
// tracking pixels or logos.
var imagePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)<media:content[^>]+url=["']([^"']+)["']`),
	regexp.MustCompile(`(?i)<media:thumbnail[^>]+url=["']([^"']+)["']`),
	regexp.MustCompile(`(?i)<enclosure[^>]+url=["']([^"']+)["'][^>]*type=["']image/`),
	regexp.MustCompile(`(?i)<enclosure[^>]+type=["']image/[^"']*["'][^>]*url=["']([^"']+)["']`),
	regexp.MustCompile(`(?i)<enclosure[^>]+url=["']([^"']+\.(?:jpg|jpeg|png|webp|gif))["']`),
	regexp.MustCompile(`(?i)<img[^>]+src=["']([^"']+)["']`),
}

// ResolveImage returns the best image URL found in a raw entry fragment, or "".
func ResolveImage(fragment string) string {
	for _, re := range imagePatterns {
		if m := re.FindStringSubmatch(fragment); m != nil {
			return normalizeImageURL(m[1])
		}
	}
	return ""
}

// imageFromHTML parses an HTML snippet and returns the first img src.
func imageFromHTML(html string) string {
	if !strings.Contains(strings.ToLower(html), "<img") {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	src, _ := doc.Find("img[src]").First().Attr("src")
	return normalizeImageURL(src)
}

func normalizeImageURL(u string) string {
	u = strings.TrimSpace(strings.ReplaceAll(u, "&amp;", "&"))
	if strings.HasPrefix(u, "//") {
		return "https:" + u
	}
	return u
}
