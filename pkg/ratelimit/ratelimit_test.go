package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiterStore_PerKey(t *testing.T) {
	store := PerMinute(60)

	a := store.GetLimiter("copart")
	b := store.GetLimiter("iaai")
	assert.Same(t, a, store.GetLimiter("copart"))
	assert.NotSame(t, a, b)

	require.NoError(t, store.Wait(context.Background(), "copart"))
	require.NoError(t, store.Wait(context.Background(), "iaai"))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.Error(t, store.Wait(ctx, "copart"))
}

func TestLimiterStore_Disabled(t *testing.T) {
	store := PerMinute(0)
	for i := 0; i < 100; i++ {
		require.NoError(t, store.Wait(context.Background(), "any"))
	}
}

func TestTokenLimiter(t *testing.T) {
	now := time.Now()
	l := NewTokenLimiter(100)
	l.now = func() time.Time { return now }
	l.lastRefill = now

	require.NoError(t, l.Wait(context.Background(), 60))
	assert.Equal(t, 40, l.GetRemaining())

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, l.Wait(ctx, 50), context.DeadlineExceeded)

	now = now.Add(time.Minute)
	refillCtx, refillCancel := context.WithTimeout(context.Background(), time.Second)
	defer refillCancel()
	require.NoError(t, l.Wait(refillCtx, 50))
	assert.Equal(t, 50, l.GetRemaining())

	assert.Error(t, l.Wait(refillCtx, 101))
}

func TestTokenLimiter_RefillsExactlyOneMinuteAfterCreation(t *testing.T) {
	l := NewTokenLimiter(10)
	current := l.lastRefill
	l.now = func() time.Time { return current }

	require.NoError(t, l.Wait(context.Background(), 10))
	assert.Equal(t, 0, l.GetRemaining())

	current = current.Add(time.Minute)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, l.Wait(ctx, 10))
	assert.Equal(t, 0, l.GetRemaining())
}

func TestTokenLimiter_ZeroCapacityIsUnlimited(t *testing.T) {
	for _, capacity := range []int{0, -5} {
		l := NewTokenLimiter(capacity)
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		for i := 0; i < 10; i++ {
			require.NoError(t, l.Wait(ctx, 50_000), "capacity %d", capacity)
		}
		cancel()
	}
}
