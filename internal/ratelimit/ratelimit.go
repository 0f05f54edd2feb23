package ratelimit

import (
	"errors"
	"sync"
	"time"

	"github.com/deusflow/airadar/internal/logger"
	"golang.org/x/time/rate"
)

// ErrLimited is returned when no completion budget is left.
var ErrLimited = errors.New("completion rate limit exceeded")

// Limiter guards calls to the completion provider.
type Limiter struct {
	limiter *rate.Limiter

	mu      sync.Mutex
	allowed int
	refused int
}

// New allows perMinute calls per minute with the given burst. perMinute <= 0
// disables limiting.
func New(perMinute, burst int) *Limiter {
	limit := rate.Inf
	if perMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(perMinute))
	}
	if burst < 1 {
		burst = 1
	}
	return &Limiter{limiter: rate.NewLimiter(limit, burst)}
}

// Acquire takes one token or returns ErrLimited without waiting.
func (l *Limiter) Acquire() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.limiter.Allow() {
		l.refused++
		logger.Warn("completion rate limit reached", "allowed", l.allowed, "refused", l.refused)
		return ErrLimited
	}
	l.allowed++
	return nil
}

// GetStats returns current limiter statistics.
func (l *Limiter) GetStats() map[string]interface{} {
	l.mu.Lock()
	defer l.mu.Unlock()

	return map[string]interface{}{
		"allowed": l.allowed,
		"refused": l.refused,
		"limit":   float64(l.limiter.Limit()),
		"burst":   l.limiter.Burst(),
	}
}
