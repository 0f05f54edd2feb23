package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/deusflow/airadar/internal/ai"
	"github.com/deusflow/airadar/internal/cache"
	"github.com/deusflow/airadar/internal/logger"
	"github.com/deusflow/airadar/internal/metrics"
	"github.com/deusflow/airadar/internal/radar"
	"github.com/deusflow/airadar/internal/ratelimit"
	"github.com/labstack/echo/v4"
)

// CacheControl lets shared caches serve the radar for 15 minutes and a
// stale copy for 30 more while revalidating.
const CacheControl = "public, s-maxage=900, stale-while-revalidate=1800"

const (
	radarKey = "radar"
	briefKey = "brief"
)

// Aggregator builds a fresh radar. *radar.Aggregator implements it.
type Aggregator interface {
	Aggregate(ctx context.Context) radar.Radar
}

// Briefer summarizes a radar. *radar.Briefer implements it.
type Briefer interface {
	Brief(ctx context.Context, r radar.Radar) (radar.Brief, error)
}

// limiterReporter is implemented by briefers that rate limit their provider.
type limiterReporter interface {
	LimiterStats() map[string]interface{}
}

type handlers struct {
	aggregator Aggregator
	briefer    Briefer
	ttl        time.Duration
	radars     *cache.Cache[radar.Radar]
	briefs     *cache.Cache[radar.Brief]
}

func newHandlers(aggregator Aggregator, briefer Briefer, ttl time.Duration) *handlers {
	return &handlers{
		aggregator: aggregator,
		briefer:    briefer,
		ttl:        ttl,
		radars:     cache.New[radar.Radar](),
		briefs:     cache.New[radar.Brief](),
	}
}

// currentRadar returns the cached radar while fresh, otherwise aggregates.
func (h *handlers) currentRadar(ctx context.Context) radar.Radar {
	if r, ok := h.radars.Get(radarKey); ok {
		metrics.CacheRequests.WithLabelValues("hit").Inc()
		return r
	}
	metrics.CacheRequests.WithLabelValues("miss").Inc()

	// Fetches keep their own timeouts so a dropped client cannot cache an
	// empty radar.
	r := h.aggregator.Aggregate(context.WithoutCancel(ctx))
	h.radars.Set(radarKey, r, h.ttl)
	return r
}

// GET /api/ai-radar
func (h *handlers) getRadar(c echo.Context) error {
	r := h.currentRadar(c.Request().Context())
	c.Response().Header().Set("Cache-Control", CacheControl)
	return c.JSON(http.StatusOK, r)
}

// GET /api/ai-radar/brief
func (h *handlers) getBrief(c echo.Context) error {
	if b, ok := h.briefs.Get(briefKey); ok {
		c.Response().Header().Set("Cache-Control", CacheControl)
		return c.JSON(http.StatusOK, b)
	}

	ctx := c.Request().Context()
	b, err := h.briefer.Brief(ctx, h.currentRadar(ctx))
	switch {
	case err == nil:
	case errors.Is(err, ai.ErrNoProvider):
		return echo.NewHTTPError(http.StatusServiceUnavailable, "brief is not configured")
	case errors.Is(err, ratelimit.ErrLimited):
		c.Response().Header().Set("Retry-After", "60")
		return echo.NewHTTPError(http.StatusTooManyRequests, "brief rate limit exceeded")
	default:
		logger.Error("brief generation failed", "error", err)
		return echo.NewHTTPError(http.StatusBadGateway, "brief generation failed").SetInternal(err)
	}

	h.briefs.Set(briefKey, b, h.ttl)
	c.Response().Header().Set("Cache-Control", CacheControl)
	return c.JSON(http.StatusOK, b)
}

// GET /health
func (h *handlers) health(c echo.Context) error {
	stats := metrics.Global.GetStats()
	if lr, ok := h.briefer.(limiterReporter); ok {
		if ls := lr.LimiterStats(); ls != nil {
			stats["brief_limiter"] = ls
		}
	}
	return c.JSON(http.StatusOK, stats)
}
