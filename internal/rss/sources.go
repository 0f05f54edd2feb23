package rss

import (
	"fmt"
	"net/url"
	"os"

	"github.com/deusflow/airadar/internal/news"
	"gopkg.in/yaml.v3"
)

// Source is one configured feed. An empty Category means items are
// classified by keyword; otherwise every item gets Category.
type Source struct {
	Name     string
	URL      string
	Category news.Category
}

// Forced reports whether the source bypasses keyword classification.
func (s Source) Forced() bool {
	return s.Category != ""
}

// Roster is the fixed set of feeds, split into the three topic groups.
type Roster struct {
	AI            []Source
	GraphicDesign []Source
	WebDesign     []Source
}

// Len returns the total number of sources.
func (r Roster) Len() int {
	return len(r.AI) + len(r.GraphicDesign) + len(r.WebDesign)
}

// DefaultRoster returns the built-in feed list.
func DefaultRoster() Roster {
	return Roster{
		AI: []Source{
			{Name: "Hugging Face", URL: "https://huggingface.co/blog/feed.xml"},
			{Name: "Anthropic", URL: "https://www.anthropic.com/rss.xml"},
			{Name: "OpenAI", URL: "https://openai.com/blog/rss.xml"},
			{Name: "Google DeepMind", URL: "https://deepmind.google/blog/rss.xml"},
			{Name: "The Verge AI", URL: "https://www.theverge.com/rss/ai-artificial-intelligence/index.xml"},
			{Name: "TechCrunch AI", URL: "https://techcrunch.com/category/artificial-intelligence/feed/"},
			{Name: "Mistral AI", URL: "https://mistral.ai/news/rss.xml"},
		},
		GraphicDesign: forced(news.CategoryGraphicDesign,
			Source{Name: "Creative Bloq", URL: "https://www.creativebloq.com/rss"},
			Source{Name: "It's Nice That", URL: "https://www.itsnicethat.com/rss"},
			Source{Name: "Designboom", URL: "https://www.designboom.com/feed/"},
			Source{Name: "Awwwards", URL: "https://www.awwwards.com/blog/feed/"},
		),
		WebDesign: forced(news.CategoryWebDesign,
			Source{Name: "Smashing Magazine", URL: "https://www.smashingmagazine.com/feed/"},
			Source{Name: "CSS-Tricks", URL: "https://css-tricks.com/feed/"},
			Source{Name: "Codrops", URL: "https://tympanus.net/codrops/feed/"},
			Source{Name: "A List Apart", URL: "https://alistapart.com/main/feed/"},
		),
	}
}

func forced(category news.Category, sources ...Source) []Source {
	out := make([]Source, len(sources))
	for i, s := range sources {
		s.Category = category
		out[i] = s
	}
	return out
}

// RosterConfig is the YAML layout of a feeds file:
//
//	ai:
//	  - name: Hugging Face
//	    url: https://huggingface.co/blog/feed.xml
//	graphicdesign: [...]
//	webdesign: [...]
//
// A group left out of the file keeps its built-in sources.
type RosterConfig struct {
	AI            []SourceConfig `yaml:"ai"`
	GraphicDesign []SourceConfig `yaml:"graphicdesign"`
	WebDesign     []SourceConfig `yaml:"webdesign"`
}

type SourceConfig struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// LoadRoster reads a feeds file. An empty path returns DefaultRoster.
func LoadRoster(path string) (Roster, error) {
	if path == "" {
		return DefaultRoster(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return Roster{}, fmt.Errorf("open feeds config: %w", err)
	}
	defer f.Close()

	var cfg RosterConfig
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return Roster{}, fmt.Errorf("decode feeds config %s: %w", path, err)
	}
	return cfg.Roster()
}

// Roster validates the config and merges it over the built-in roster.
func (c RosterConfig) Roster() (Roster, error) {
	r := DefaultRoster()

	groups := []struct {
		name     string
		entries  []SourceConfig
		category news.Category
		dst      *[]Source
	}{
		{"ai", c.AI, "", &r.AI},
		{"graphicdesign", c.GraphicDesign, news.CategoryGraphicDesign, &r.GraphicDesign},
		{"webdesign", c.WebDesign, news.CategoryWebDesign, &r.WebDesign},
	}

	for _, g := range groups {
		if g.entries == nil {
			continue
		}
		sources := make([]Source, 0, len(g.entries))
		for i, e := range g.entries {
			if err := e.validate(); err != nil {
				return Roster{}, fmt.Errorf("%s[%d]: %w", g.name, i, err)
			}
			sources = append(sources, Source{Name: e.Name, URL: e.URL, Category: g.category})
		}
		*g.dst = sources
	}
	return r, nil
}

func (e SourceConfig) validate() error {
	if e.Name == "" {
		return fmt.Errorf("name is required")
	}
	if e.URL == "" {
		return fmt.Errorf("url is required")
	}
	u, err := url.Parse(e.URL)
	if err != nil {
		return fmt.Errorf("invalid url %q: %w", e.URL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid url scheme %q (must be http or https)", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host in url %q", e.URL)
	}
	return nil
}
