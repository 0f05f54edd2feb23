package radar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/deusflow/airadar/internal/ai"
	"github.com/deusflow/airadar/internal/news"
	"github.com/deusflow/airadar/internal/ratelimit"
	"github.com/deusflow/airadar/internal/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCompleter struct {
	calls   int
	prompt  string
	replies []error
	text    string
}

func (f *fakeCompleter) Complete(_ context.Context, prompt string) (string, error) {
	f.calls++
	f.prompt = prompt
	if len(f.replies) > 0 {
		err := f.replies[0]
		f.replies = f.replies[1:]
		if err != nil {
			return "", err
		}
	}
	return f.text, nil
}

func sampleRadar(perBucket int) Radar {
	r := Radar{Models: []news.Item{}, Tools: []news.Item{}, OpenSource: []news.Item{}, GraphicDesign: []news.Item{}, WebDesign: []news.Item{}}
	for i := 0; i < perBucket; i++ {
		r.Models = append(r.Models, news.Item{Title: fmt.Sprintf("Model %d", i)})
		r.Tools = append(r.Tools, news.Item{Title: fmt.Sprintf("Tool %d", i)})
	}
	r.GraphicDesign = append(r.GraphicDesign, news.Item{Title: "Poster"})
	return r
}

func testBriefer(c ai.Completer, l *ratelimit.Limiter) *Briefer {
	b := NewBriefer(c, l, ai.ProviderMistral, ai.DefaultMistralModel)
	b.retry = retry.RetryConfig{MaxAttempts: 2, Delay: time.Millisecond}
	b.now = func() time.Time { return base }
	return b
}

func TestBuildPrompt(t *testing.T) {
	p := BuildPrompt(sampleRadar(7))

	assert.Contains(t, p, "Deutsch")
	assert.Contains(t, p, "- Model 4\n")
	assert.NotContains(t, p, "Model 5")
	assert.Contains(t, p, "Tools:")
	assert.NotContains(t, p, "Open Source:")
	assert.NotContains(t, p, "Poster")
}

func TestHeadlines(t *testing.T) {
	h := headlines(sampleRadar(7))
	assert.Len(t, h, 10)
	assert.Equal(t, "Model 0", h[0])
	assert.Equal(t, "Tool 0", h[5])
}

func TestBrief_Success(t *testing.T) {
	c := &fakeCompleter{text: "Neue Modelle und Tools."}

	b, err := testBriefer(c, nil).Brief(context.Background(), sampleRadar(2))
	require.NoError(t, err)
	assert.Equal(t, "Neue Modelle und Tools.", b.Text)
	assert.Equal(t, base, b.GeneratedAt)
	assert.Equal(t, ai.ProviderMistral, b.Provider)
	assert.Equal(t, ai.DefaultMistralModel, b.Model)
	assert.True(t, strings.Contains(c.prompt, "Model 1"))
}

func TestBrief_JSONShape(t *testing.T) {
	b, err := testBriefer(&fakeCompleter{text: "Kurz gesagt"}, nil).Brief(context.Background(), sampleRadar(1))
	require.NoError(t, err)

	raw, err := json.Marshal(b)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"text": "Kurz gesagt",
		"generatedAt": "2026-03-01T12:00:00Z",
		"provider": "mistral",
		"model": "mistral-small-latest"
	}`, string(raw))
}

func TestBriefer_LimiterStats(t *testing.T) {
	assert.Nil(t, testBriefer(nil, nil).LimiterStats())

	b := testBriefer(&fakeCompleter{text: "ok"}, ratelimit.New(1, 1))
	_, _ = b.Brief(context.Background(), sampleRadar(1))
	_, _ = b.Brief(context.Background(), sampleRadar(1))

	stats := b.LimiterStats()
	assert.Equal(t, 1, stats["allowed"])
	assert.Equal(t, 1, stats["refused"])
}

func TestBrief_NoProvider(t *testing.T) {
	_, err := testBriefer(nil, nil).Brief(context.Background(), sampleRadar(1))
	assert.ErrorIs(t, err, ai.ErrNoProvider)
}

func TestBrief_EmptyRadarSkipsProvider(t *testing.T) {
	c := &fakeCompleter{text: "x"}

	b, err := testBriefer(c, nil).Brief(context.Background(), sampleRadar(0))
	require.NoError(t, err)
	assert.Equal(t, emptyBrief, b.Text)
	assert.Equal(t, ai.ProviderMistral, b.Provider)
	assert.Equal(t, 0, c.calls)
}

func TestBrief_RetriesThenSucceeds(t *testing.T) {
	c := &fakeCompleter{text: "ok", replies: []error{errors.New("503")}}

	b, err := testBriefer(c, nil).Brief(context.Background(), sampleRadar(1))
	require.NoError(t, err)
	assert.Equal(t, "ok", b.Text)
	assert.Equal(t, 2, c.calls)
}

func TestBrief_ProviderFailure(t *testing.T) {
	upstream := errors.New("upstream down")
	c := &fakeCompleter{replies: []error{upstream, upstream}}

	_, err := testBriefer(c, nil).Brief(context.Background(), sampleRadar(1))
	require.Error(t, err)
	assert.ErrorIs(t, err, upstream)
	assert.Equal(t, 2, c.calls)
}

func TestBrief_RateLimited(t *testing.T) {
	c := &fakeCompleter{text: "ok"}
	b := testBriefer(c, ratelimit.New(1, 1))

	_, err := b.Brief(context.Background(), sampleRadar(1))
	require.NoError(t, err)

	_, err = b.Brief(context.Background(), sampleRadar(1))
	assert.ErrorIs(t, err, ratelimit.ErrLimited)
	assert.Equal(t, 1, c.calls)
}
