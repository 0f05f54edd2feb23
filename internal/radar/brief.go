package radar

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/deusflow/airadar/internal/ai"
	"github.com/deusflow/airadar/internal/logger"
	"github.com/deusflow/airadar/internal/metrics"
	"github.com/deusflow/airadar/internal/news"
	"github.com/deusflow/airadar/internal/ratelimit"
	"github.com/deusflow/airadar/internal/retry"
)

// briefHeadlines is the number of titles taken from each AI bucket.
const briefHeadlines = 5

const emptyBrief = "Derzeit liegen keine neuen KI-Meldungen vor."

// Brief is a short generated digest of the AI buckets.
type Brief struct {
	Text        string    `json:"text"`
	GeneratedAt time.Time `json:"generatedAt"`
	Provider    string    `json:"provider"`
	Model       string    `json:"model"`
}

// Briefer asks a completion provider to summarize a radar.
type Briefer struct {
	completer ai.Completer
	provider  string
	model     string
	limiter   *ratelimit.Limiter
	retry     retry.RetryConfig
	now       func() time.Time
}

// NewBriefer returns a Briefer. A nil completer makes every call fail with
// ai.ErrNoProvider; a nil limiter means no rate limit. provider and model are
// reported on every Brief.
func NewBriefer(completer ai.Completer, limiter *ratelimit.Limiter, provider, model string) *Briefer {
	return &Briefer{
		completer: completer,
		provider:  provider,
		model:     model,
		limiter:   limiter,
		retry:     retry.RetryConfig{MaxAttempts: 2, Delay: 2 * time.Second, Backoff: true},
		now:       time.Now,
	}
}

// Brief generates the digest for r.
func (b *Briefer) Brief(ctx context.Context, r Radar) (Brief, error) {
	if b.completer == nil {
		metrics.BriefRequests.WithLabelValues("unavailable").Inc()
		return Brief{}, ai.ErrNoProvider
	}

	if len(headlines(r)) == 0 {
		metrics.BriefRequests.WithLabelValues("empty").Inc()
		return b.brief(emptyBrief), nil
	}

	if b.limiter != nil {
		if err := b.limiter.Acquire(); err != nil {
			metrics.BriefRequests.WithLabelValues("limited").Inc()
			return Brief{}, err
		}
	}

	prompt := BuildPrompt(r)
	var text string
	err := retry.WithRetry(ctx, b.retry, func() error {
		out, err := b.completer.Complete(ctx, prompt)
		if err != nil {
			logger.Warn("brief completion failed", "error", err)
			return err
		}
		text = out
		return nil
	})
	if err != nil {
		metrics.BriefRequests.WithLabelValues("error").Inc()
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return Brief{}, err
		}
		return Brief{}, fmt.Errorf("generate brief: %w", err)
	}

	metrics.BriefRequests.WithLabelValues("ok").Inc()
	return b.brief(text), nil
}

// LimiterStats reports the completion rate limiter counters, or nil without one.
func (b *Briefer) LimiterStats() map[string]interface{} {
	if b.limiter == nil {
		return nil
	}
	return b.limiter.GetStats()
}

func (b *Briefer) brief(text string) Brief {
	return Brief{Text: text, GeneratedAt: b.now(), Provider: b.provider, Model: b.model}
}

// headlines lists the leading titles of the models, tools and open source buckets.
func headlines(r Radar) []string {
	var out []string
	for _, bucket := range [][]news.Item{r.Models, r.Tools, r.OpenSource} {
		for i, it := range bucket {
			if i == briefHeadlines {
				break
			}
			out = append(out, it.Title)
		}
	}
	return out
}

// BuildPrompt renders the German digest prompt for r.
func BuildPrompt(r Radar) string {
	var sb strings.Builder
	sb.WriteString("Du bist Redakteur eines KI-Newsletters. Fasse die folgenden Schlagzeilen ")
	sb.WriteString("in höchstens fünf kurzen Sätzen auf Deutsch zusammen. ")
	sb.WriteString("Nenne keine Quellen und erfinde keine Details.\n")

	sections := []struct {
		label string
		items []news.Item
	}{
		{"Modelle", r.Models},
		{"Tools", r.Tools},
		{"Open Source", r.OpenSource},
	}
	for _, s := range sections {
		if len(s.items) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "\n%s:\n", s.label)
		for i, it := range s.items {
			if i == briefHeadlines {
				break
			}
			fmt.Fprintf(&sb, "- %s\n", it.Title)
		}
	}
	return sb.String()
}
