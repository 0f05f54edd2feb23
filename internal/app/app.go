// Package app wires configuration, feeds and the HTTP server together.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/deusflow/airadar/internal/ai"
	"github.com/deusflow/airadar/internal/config"
	"github.com/deusflow/airadar/internal/logger"
	"github.com/deusflow/airadar/internal/radar"
	"github.com/deusflow/airadar/internal/ratelimit"
	"github.com/deusflow/airadar/internal/rss"
	"github.com/deusflow/airadar/internal/scraper"
)

// briefBurst is the number of brief completions allowed back to back.
const briefBurst = 1

// App holds the assembled components.
type App struct {
	cfg        *config.Config
	Aggregator *radar.Aggregator
	Briefer    *radar.Briefer
	closers    []io.Closer
}

// New assembles the aggregator and briefer from cfg.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	roster, err := rss.LoadRoster(cfg.FeedsConfigPath)
	if err != nil {
		return nil, err
	}

	client := &http.Client{}
	fetcher := rss.NewFetcher(client, rss.NewParser(loc), cfg.FetchTimeout)

	opts := radar.Options{BucketLimit: cfg.BucketLimit}
	if cfg.EnrichImages {
		opts.Images = scraper.New(client, 0)
	}

	a := &App{
		cfg:        cfg,
		Aggregator: radar.NewAggregator(fetcher, roster, opts),
	}

	aiCfg := ai.Config{
		Provider:      cfg.AIProvider,
		Model:         cfg.AIModel,
		GeminiAPIKey:  cfg.GeminiAPIKey,
		MistralAPIKey: cfg.MistralAPIKey,
	}
	completer, err := ai.New(ctx, aiCfg)
	switch {
	case errors.Is(err, ai.ErrNoProvider):
		logger.Info("no completion provider configured, brief endpoint disabled")
	case err != nil:
		return nil, fmt.Errorf("create completion provider: %w", err)
	default:
		if c, ok := completer.(io.Closer); ok {
			a.closers = append(a.closers, c)
		}
	}
	limiter := ratelimit.New(cfg.BriefRatePerMinute, briefBurst)
	a.Briefer = radar.NewBriefer(completer, limiter, strings.ToLower(aiCfg.Provider), aiCfg.ModelName())

	logger.Info("radar configured",
		"sources", roster.Len(),
		"fetch_timeout", cfg.FetchTimeout,
		"bucket_limit", cfg.BucketLimit,
		"cache_ttl", cfg.CacheTTL,
		"enrich_images", cfg.EnrichImages,
		"ai_provider", cfg.AIProvider,
		"ai_model", aiCfg.ModelName(),
	)
	return a, nil
}

// Serve runs the HTTP server until ctx is cancelled.
func (a *App) Serve(ctx context.Context) error {
	srv := NewServer(a.Aggregator, a.Briefer, a.cfg.CacheTTL)
	return srv.Run(ctx, ":"+strconv.Itoa(a.cfg.Port))
}

func (a *App) Close() {
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			logger.Warn("close failed", "error", err)
		}
	}
}
