package rss

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/deusflow/airadar/internal/news"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

func testParser() *Parser {
	return &Parser{Location: time.UTC, Now: func() time.Time { return fixedNow }}
}

var aiSource = Source{Name: "Test AI", URL: "http://feed.test/ai"}

func TestParse_RSSSkipsEntriesWithoutTitleOrLink(t *testing.T) {
	doc := `<?xml version="1.0"?>
<rss version="2.0"><channel><title>Feed</title>
<item><title>One</title><link>http://a/1</link><pubDate>Mon, 02 Jan 2006 15:04:05 GMT</pubDate></item>
<item><title>Two</title><link>http://a/2</link></item>
<item><title>No link</title></item>
<item><link>http://a/4</link></item>
</channel></rss>`

	items := testParser().Parse(doc, aiSource)
	require.Len(t, items, 2)

	assert.Equal(t, "One", items[0].Title)
	assert.Equal(t, "http://a/1", items[0].URL)
	assert.Equal(t, "Test AI", items[0].Source)
	assert.True(t, items[0].Published.Equal(time.Date(2006, 1, 2, 15, 4, 5, 0, time.UTC)))
	assert.Equal(t, "02.01.2006", items[0].Date)

	assert.Equal(t, "Two", items[1].Title)
	assert.Equal(t, fixedNow, items[1].Published)
	assert.Equal(t, "19.10.2026", items[1].Date)
}

func TestParse_Atom(t *testing.T) {
	doc := `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Blog</title>
  <link href="https://blog.example.com/"/>
  <entry>
    <title>Fine-tuning with &amp; Llama</title>
    <link rel="alternate" href="https://blog.example.com/post-1"/>
    <published>2026-01-02T10:00:00Z</published>
    <updated>2026-01-05T10:00:00Z</updated>
    <summary>A new dataset on GitHub</summary>
  </entry>
</feed>`

	items := testParser().Parse(doc, aiSource)
	require.Len(t, items, 1)

	it := items[0]
	assert.Equal(t, "Fine-tuning with & Llama", it.Title)
	assert.Equal(t, "https://blog.example.com/post-1", it.URL)
	assert.Equal(t, "A new dataset on GitHub", it.Summary)
	assert.Equal(t, "02.01.2026", it.Date)
	assert.Equal(t, news.CategoryOpenSource, it.Category)
	assert.Equal(t, []string{"Llama", "Fine-tuning"}, it.Tags)
}

func TestParse_CDATAImageAndBoundaries(t *testing.T) {
	doc := `<rss><channel>
<item>
<title><![CDATA[Claude ships <b>agents</b>]]></title>
<link>http://a/c</link>
<description><![CDATA[<p><img src="https://img.example.com/a.jpg"/>Text with </item> inside</p>]]></description>
</item>
<item><title>Second</title><link>http://a/d</link></item>
</channel></rss>`

	items := testParser().Parse(doc, aiSource)
	require.Len(t, items, 2)

	assert.Equal(t, "Claude ships agents", items[0].Title)
	assert.Equal(t, "https://img.example.com/a.jpg", items[0].Image)
	assert.Contains(t, items[0].Summary, "Text with")
	assert.NotContains(t, items[0].Summary, "<")

	assert.Equal(t, "Second", items[1].Title)
	assert.Empty(t, items[1].Image)
}

func TestParse_ImagesStayWithTheirEntry(t *testing.T) {
	doc := `<rss><channel>
<item><title>No image</title><link>http://a/1</link></item>
<item><title>Has image</title><link>http://a/2</link><media:thumbnail url="https://t/2.jpg"/></item>
</channel></rss>`

	items := testParser().Parse(doc, aiSource)
	require.Len(t, items, 2)
	assert.Empty(t, items[0].Image)
	assert.Equal(t, "https://t/2.jpg", items[1].Image)
}

func TestParse_EscapedHTMLImageFallback(t *testing.T) {
	doc := `<rss><channel><item>
<title>Escaped</title><link>http://a/e</link>
<description>&lt;p&gt;&lt;img src="https://x/y.png"&gt;Hello&lt;/p&gt;</description>
</item></channel></rss>`

	items := testParser().Parse(doc, aiSource)
	require.Len(t, items, 1)
	assert.Equal(t, "Hello", items[0].Summary)
	assert.Equal(t, "https://x/y.png", items[0].Image)
}

func TestParse_ItemWithAttributes(t *testing.T) {
	doc := `<rdf:RDF><item rdf:about="http://a/r"><title>RDF item</title><link>http://a/r</link></item></rdf:RDF>`

	items := testParser().Parse(doc, aiSource)
	require.Len(t, items, 1)
	assert.Equal(t, "RDF item", items[0].Title)
}

func TestParse_ForcedCategory(t *testing.T) {
	doc := `<rss><channel><item><title>GPT-4 designs a poster</title><link>http://d/1</link>
<description>Claude and an open source API</description></item></channel></rss>`
	src := Source{Name: "Design", URL: "http://feed.test/d", Category: news.CategoryGraphicDesign}

	items := testParser().Parse(doc, src)
	require.Len(t, items, 1)
	assert.Equal(t, news.CategoryGraphicDesign, items[0].Category)
	assert.NotNil(t, items[0].Tags)
	assert.Empty(t, items[0].Tags)
}

func TestParse_UnparseableDateUsesNow(t *testing.T) {
	doc := `<rss><channel><item><title>T</title><link>http://a/1</link><pubDate>sometime soon</pubDate></item></channel></rss>`

	items := testParser().Parse(doc, aiSource)
	require.Len(t, items, 1)
	assert.Equal(t, fixedNow, items[0].Published)
}

func TestParse_DublinCoreDate(t *testing.T) {
	doc := `<rss><channel><item><title>T</title><link>http://a/1</link><dc:date>2025-06-30T08:00:00Z</dc:date></item></channel></rss>`

	items := testParser().Parse(doc, aiSource)
	require.Len(t, items, 1)
	assert.Equal(t, "30.06.2025", items[0].Date)
}

func TestParse_SummaryTruncation(t *testing.T) {
	long := strings.Repeat("word ", 100)
	doc := `<rss><channel><item><title>T</title><link>http://a/1</link><description>` + long + `</description></item></channel></rss>`

	items := testParser().Parse(doc, aiSource)
	require.Len(t, items, 1)
	assert.Equal(t, news.SummaryMaxRunes+1, utf8.RuneCountInString(items[0].Summary))
	assert.True(t, strings.HasSuffix(items[0].Summary, "…"))
}

func TestParse_OpenSourceScenario(t *testing.T) {
	doc := `<rss><channel><item><title>Model X Released</title><link>http://a/1</link>` +
		`<description>New open source model weights on GitHub</description></item></channel></rss>`

	items := testParser().Parse(doc, aiSource)
	require.Len(t, items, 1)
	assert.Equal(t, news.CategoryOpenSource, items[0].Category)
}

func TestParse_JSONFeedFallback(t *testing.T) {
	doc := `{
  "version": "https://jsonfeed.org/version/1.1",
  "title": "JSON",
  "items": [
    {"id": "1", "url": "https://j/1", "title": "Gemini update", "summary": "New API for agents",
     "image": "https://j/1.png", "date_published": "2026-02-03T04:05:06Z"},
    {"id": "2", "title": "No url"}
  ]
}`

	items := testParser().Parse(doc, aiSource)
	require.Len(t, items, 1)
	assert.Equal(t, "Gemini update", items[0].Title)
	assert.Equal(t, "https://j/1", items[0].URL)
	assert.Equal(t, "https://j/1.png", items[0].Image)
	assert.Equal(t, "03.02.2026", items[0].Date)
}

func TestParse_EmptyAndGarbage(t *testing.T) {
	p := testParser()
	assert.Empty(t, p.Parse("", aiSource))
	assert.Empty(t, p.Parse("   \n", aiSource))
	assert.Empty(t, p.Parse("not a feed at all", aiSource))
	assert.Empty(t, p.Parse("<html><body>Forbidden</body></html>", aiSource))
}
