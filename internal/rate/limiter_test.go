package rate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) (func() time.Time, func(time.Duration)) {
	now := t
	return func() time.Time { return now }, func(d time.Duration) { now = now.Add(d) }
}

func TestMemoryLimiter_FixedWindow(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLimiter("login:", 3, time.Minute)
	clock, advance := fixedClock(time.Date(2024, 1, 1, 10, 0, 10, 0, time.UTC))
	l.Now = clock

	for i := 1; i <= 3; i++ {
		res, err := l.Allow(ctx, "AAA0T")
		require.NoError(t, err)
		assert.True(t, res.Allowed, "hit %d", i)
		assert.Equal(t, int64(i), res.CurrentHits)
		assert.Equal(t, int64(3-i), res.Remaining)
	}

	res, err := l.Allow(ctx, "AAA0T")
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, int64(0), res.Remaining)
	assert.Equal(t, 50*time.Second, res.RetryAfter)

	// Otra clave no se ve afectada.
	res, _ = l.Allow(ctx, "III1R")
	assert.True(t, res.Allowed)

	// Ventana siguiente.
	advance(time.Minute)
	res, _ = l.Allow(ctx, "AAA0T")
	assert.True(t, res.Allowed)
	assert.Equal(t, int64(1), res.CurrentHits)
}

func TestMemoryLimiter_PeekDoesNotConsume(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLimiter("", 2, time.Minute)
	clock, _ := fixedClock(time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC))
	l.Now = clock

	res, err := l.Peek(ctx, "k")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, int64(0), res.CurrentHits)

	_, _ = l.Allow(ctx, "k")
	_, _ = l.Allow(ctx, "k")
	res, _ = l.Peek(ctx, "k")
	assert.False(t, res.Allowed, "limit reached")
	assert.Equal(t, int64(2), res.CurrentHits)

	res, _ = l.Peek(ctx, "k")
	assert.Equal(t, int64(2), res.CurrentHits)
}

func TestMemoryLimiter_Reset(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLimiter("", 1, time.Minute)
	l.Now, _ = fixedClock(time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC))
	_, _ = l.Allow(ctx, "clave con espacios")
	res, _ := l.Allow(ctx, "clave con espacios")
	require.False(t, res.Allowed)

	require.NoError(t, l.Reset(ctx, "clave con espacios"))
	res, _ = l.Allow(ctx, "clave con espacios")
	assert.True(t, res.Allowed)
}

func TestMemoryLimiter_ImplementsLimiter(t *testing.T) {
	var _ Limiter = NewMemoryLimiter("", 1, time.Second)
}
