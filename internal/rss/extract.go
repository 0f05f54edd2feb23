package rss

import (
	"regexp"
	"strings"
	"sync"
)

var (
	tagPatterns sync.Map // tag name -> *regexp.Regexp

	markupPattern = regexp.MustCompile(`<[^>]+>`)
	cdataPattern  = regexp.MustCompile(`(?s)<!\[CDATA\[(.*?)\]\]>`)
)

// Decoded in this order, so "&amp;lt;" ends up as "&lt;", not "<".
var entityReplacements = [][2]string{
	{"&lt;", "<"},
	{"&gt;", ">"},
	{"&amp;", "&"},
	{"&quot;", `"`},
	{"&#39;", "'"},
}

// tagPattern matches <tag ...>inner</tag>. Self-closing tags never open a match.
func tagPattern(tag string) *regexp.Regexp {
	if re, ok := tagPatterns.Load(tag); ok {
		return re.(*regexp.Regexp)
	}
	q := regexp.QuoteMeta(tag)
	re := regexp.MustCompile(`(?is)<` + q + `(?:\s(?:[^>]*[^/>])?)?>(.*?)</` + q + `\s*>`)
	actual, _ := tagPatterns.LoadOrStore(tag, re)
	return actual.(*regexp.Regexp)
}

// rawField returns the untouched inner text of the first tag match.
func rawField(fragment, tag string) (string, bool) {
	m := tagPattern(tag).FindStringSubmatch(fragment)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Field returns the text content of the first <tag> in fragment with entities
// decoded, nested markup removed and surrounding whitespace trimmed. It
// returns "" when the tag is absent.
func Field(fragment, tag string) string {
	inner, ok := rawField(fragment, tag)
	if !ok {
		return ""
	}
	return cleanText(inner)
}

// FirstField tries each tag in order and returns the first non-empty value.
func FirstField(fragment string, tags ...string) string {
	for _, tag := range tags {
		if v := Field(fragment, tag); v != "" {
			return v
		}
	}
	return ""
}

func decodeEntities(s string) string {
	for _, r := range entityReplacements {
		s = strings.ReplaceAll(s, r[0], r[1])
	}
	return s
}

func cleanText(s string) string {
	s = decodeEntities(s)
	s = markupPattern.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// escapeCDATA replaces every CDATA block by its content with angle brackets
// escaped, so embedded markup cannot be mistaken for feed structure.
func escapeCDATA(s string) string {
	return cdataPattern.ReplaceAllStringFunc(s, func(block string) string {
		content := cdataPattern.FindStringSubmatch(block)[1]
		content = strings.ReplaceAll(content, "<", "&lt;")
		return strings.ReplaceAll(content, ">", "&gt;")
	})
}
