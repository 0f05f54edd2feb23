package news

import (
	"time"
	"unicode/utf8"
)

// Category is the single topic bucket an item belongs to.
type Category string

const (
	CategoryModels        Category = "models"
	CategoryTools         Category = "tools"
	CategoryOpenSource    Category = "opensource"
	CategoryGraphicDesign Category = "graphicdesign"
	CategoryWebDesign     Category = "webdesign"
)

const (
	// SummaryMaxRunes is the summary length before the ellipsis is appended.
	SummaryMaxRunes = 280
	// MaxTags caps the number of entity tags per item.
	MaxTags = 3

	ellipsis   = "…"
	dateLayout = "02.01.2006"
)

// Item is one normalized feed entry. Published is only a sort key and is
// never serialized.
type Item struct {
	Title     string    `json:"title"`
	Summary   string    `json:"summary"`
	Source    string    `json:"source"`
	URL       string    `json:"url"`
	Tags      []string  `json:"tags"`
	Date      string    `json:"date"`
	Published time.Time `json:"-"`
	Category  Category  `json:"category"`
	Image     string    `json:"image,omitempty"`
}

// Summarize cuts description to SummaryMaxRunes runes and marks the cut.
func Summarize(description string) string {
	if utf8.RuneCountInString(description) <= SummaryMaxRunes {
		return description
	}
	runes := []rune(description)
	return string(runes[:SummaryMaxRunes]) + ellipsis
}

// FormatDate renders t as a short day-first date in loc.
func FormatDate(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(dateLayout)
}

// WithImage returns a copy of the item carrying image.
func (it Item) WithImage(image string) Item {
	it.Tags = append([]string{}, it.Tags...)
	it.Image = image
	return it
}
