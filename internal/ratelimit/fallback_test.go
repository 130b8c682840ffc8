package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallbackAlwaysAllows(t *testing.T) {
	f := NewFallback(10, time.Minute, testLogger)
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		r, err := f.Allow(ctx, "192.168.1.1")
		require.NoError(t, err)
		assert.True(t, r.Allowed)
		assert.Equal(t, 10, r.Limit)
		assert.Equal(t, 10, r.Remaining)
	}
}

func TestFallbackResetInTheFuture(t *testing.T) {
	f := NewFallback(10, time.Minute, testLogger)

	before := time.Now().UnixMilli()
	r, err := f.Allow(context.Background(), "anonymous")
	require.NoError(t, err)
	assert.Greater(t, r.Reset, before)
}

func TestHeaders(t *testing.T) {
	h := Headers(Result{Allowed: true, Limit: 10, Remaining: 5, Reset: 1234567890})

	assert.Equal(t, "10", h["X-RateLimit-Limit"])
	assert.Equal(t, "5", h["X-RateLimit-Remaining"])
	assert.Equal(t, "1234567890", h["X-RateLimit-Reset"])
}
