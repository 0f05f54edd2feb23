package rss

import (
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/deusflow/airadar/internal/logger"
	"github.com/deusflow/airadar/internal/news"
)

// entryPattern finds RSS <item> and Atom <entry> blocks. CDATA sections are
// consumed whole so a closing tag quoted inside one cannot end the entry.
var entryPattern = regexp.MustCompile(`(?is)<(?:item|entry)(?:\s[^>]*)?>((?:<!\[CDATA\[.*?\]\]>|.)*?)</(?:item|entry)\s*>`)

var atomLinkPattern = regexp.MustCompile(`(?i)<link[^>]+href=["']([^"']+)["']`)

// entry is the dialect-neutral intermediate form of one feed entry.
type entry struct {
	title       string
	description string
	// descriptionHTML keeps markup so the last-resort image lookup can see <img>.
	descriptionHTML string
	link            string
	dateRaw         string
	published       *time.Time
	image           string
}

// Parser turns feed documents into normalized items.
type Parser struct {
	// Location renders the item date; nil means time.Local.
	Location *time.Location
	// Now substitutes for missing or unparseable publish dates.
	Now func() time.Time
}

// NewParser returns a parser rendering dates in loc.
func NewParser(loc *time.Location) *Parser {
	return &Parser{Location: loc, Now: time.Now}
}

// Parse extracts every entry of doc that has both a title and a link. Entries
// missing either are skipped; an empty or unrecognizable document yields nil.
func (p *Parser) Parse(doc string, src Source) []news.Item {
	matches := entryPattern.FindAllStringSubmatch(doc, -1)
	if len(matches) == 0 {
		if strings.TrimSpace(doc) == "" {
			return nil
		}
		return p.parseFallback(doc, src)
	}

	items := make([]news.Item, 0, len(matches))
	for _, m := range matches {
		if it, ok := p.build(parseFragment(m[1]), src); ok {
			items = append(items, it)
		}
	}
	return items
}

// parseFragment reads one raw entry fragment. The image is taken before CDATA
// escaping because escaping turns embedded <img> tags into text.
func parseFragment(raw string) entry {
	image := ResolveImage(raw)
	block := escapeCDATA(raw)

	link := Field(block, "link")
	if link == "" {
		if m := atomLinkPattern.FindStringSubmatch(block); m != nil {
			link = m[1]
		}
	}

	var descHTML string
	for _, tag := range []string{"description", "summary", "content"} {
		if inner, ok := rawField(block, tag); ok && cleanText(inner) != "" {
			descHTML = decodeEntities(inner)
			break
		}
	}

	if image == "" {
		image = ResolveImage(block)
	}

	return entry{
		title:           Field(block, "title"),
		description:     FirstField(block, "description", "summary", "content"),
		descriptionHTML: descHTML,
		link:            link,
		dateRaw:         FirstField(block, "pubDate", "published", "updated", "dc:date"),
		image:           image,
	}
}

func (p *Parser) build(e entry, src Source) (news.Item, bool) {
	if e.title == "" || e.link == "" {
		logger.Debug("skipping feed entry without title or link", "source", src.Name, "title", e.title, "url", e.link)
		return news.Item{}, false
	}

	published := p.publishTime(e)

	category := src.Category
	tags := []string{}
	if !src.Forced() {
		category = news.Classify(e.title, e.description)
		tags = news.ExtractTags(e.title, e.description)
	}

	image := e.image
	if image == "" {
		image = imageFromHTML(e.descriptionHTML)
	}

	return news.Item{
		Title:     e.title,
		Summary:   news.Summarize(e.description),
		Source:    src.Name,
		URL:       e.link,
		Tags:      tags,
		Date:      news.FormatDate(published, p.Location),
		Published: published,
		Category:  category,
		Image:     image,
	}, true
}

func (p *Parser) publishTime(e entry) time.Time {
	if e.published != nil {
		return *e.published
	}
	if e.dateRaw != "" {
		if t, err := dateparse.ParseAny(e.dateRaw); err == nil {
			return t
		}
	}
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}
