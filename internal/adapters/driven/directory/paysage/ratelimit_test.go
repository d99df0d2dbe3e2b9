package paysage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_Defaults(t *testing.T) {
	r := NewRateLimiter(0, 0)
	assert.InDelta(t, DefaultRequestsPerSecond, float64(r.limiter.Limit()), 1e-9)
	assert.Equal(t, DefaultBurst, r.limiter.Burst())
}

func TestRateLimiter_BackoffBlocksUntilContextDone(t *testing.T) {
	r := NewRateLimiter(100, 1)
	r.Backoff(time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, r.Wait(ctx), context.DeadlineExceeded)
}

func TestRateLimiter_BackoffNeverShortens(t *testing.T) {
	r := NewRateLimiter(100, 1)
	r.Backoff(time.Minute)
	first := r.retryAt
	r.Backoff(time.Second)
	assert.Equal(t, first, r.retryAt)
}

func TestRateLimiter_WaitWithoutBackoff(t *testing.T) {
	r := NewRateLimiter(100, 5)
	assert.NoError(t, r.Wait(context.Background()))
}
