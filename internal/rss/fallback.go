package rss

import (
	"strings"

	"github.com/deusflow/airadar/internal/logger"
	"github.com/deusflow/airadar/internal/news"
	"github.com/mmcdole/gofeed"
)

// parseFallback handles documents whose entries the pattern pass cannot
// find, such as JSON Feed or namespace-prefixed Atom (<atom:entry>). A
// document gofeed cannot parse either contributes nothing.
func (p *Parser) parseFallback(doc string, src Source) []news.Item {
	feed, err := gofeed.NewParser().ParseString(doc)
	if err != nil {
		logger.Debug("feed document not recognized", "source", src.Name, "error", err)
		return nil
	}

	items := make([]news.Item, 0, len(feed.Items))
	for _, fi := range feed.Items {
		if it, ok := p.build(fromGofeed(fi), src); ok {
			items = append(items, it)
		}
	}
	return items
}

func fromGofeed(fi *gofeed.Item) entry {
	descHTML := fi.Description
	if strings.TrimSpace(cleanText(descHTML)) == "" {
		descHTML = fi.Content
	}

	e := entry{
		title:           cleanText(fi.Title),
		description:     cleanText(descHTML),
		descriptionHTML: descHTML,
		link:            strings.TrimSpace(fi.Link),
		image:           gofeedImage(fi),
	}
	if fi.PublishedParsed != nil {
		e.published = fi.PublishedParsed
	} else if fi.UpdatedParsed != nil {
		e.published = fi.UpdatedParsed
	} else {
		e.dateRaw = fi.Published
	}
	return e
}

// gofeedImage applies the resolver's order to gofeed's already-parsed fields.
func gofeedImage(fi *gofeed.Item) string {
	if media, ok := fi.Extensions["media"]; ok {
		for _, name := range []string{"content", "thumbnail"} {
			for _, ext := range media[name] {
				if u := ext.Attrs["url"]; u != "" {
					return normalizeImageURL(u)
				}
			}
		}
	}
	for _, enc := range fi.Enclosures {
		if strings.HasPrefix(enc.Type, "image/") && enc.URL != "" {
			return normalizeImageURL(enc.URL)
		}
	}
	if fi.Image != nil && fi.Image.URL != "" {
		return normalizeImageURL(fi.Image.URL)
	}
	return ""
}
