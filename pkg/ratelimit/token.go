package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// TokenLimiter enforces a model provider's tokens-per-minute quota.
type TokenLimiter struct {
	sync.Mutex
	capacity     int
	remaining    int
	refillPeriod time.Duration
	lastRefill   time.Time
	now          func() time.Time
}

// NewTokenLimiter returns a limiter for tokensPerMinute. A quota of zero or
// less disables the limit.
func NewTokenLimiter(tokensPerMinute int) *TokenLimiter {
	l := &TokenLimiter{
		capacity:     tokensPerMinute,
		remaining:    tokensPerMinute,
		refillPeriod: time.Minute,
		now:          time.Now,
	}
	l.lastRefill = l.now()
	return l
}

// Wait reserves tokens, polling until the bucket refills. A request larger
// than the whole capacity can never succeed and fails immediately.
func (l *TokenLimiter) Wait(ctx context.Context, tokens int) error {
	if l.capacity <= 0 {
		return ctx.Err()
	}
	if tokens > l.capacity {
		return fmt.Errorf("request needs %d tokens, limit is %d per minute", tokens, l.capacity)
	}

	for {
		l.refill()

		l.Lock()
		if l.remaining >= tokens {
			l.remaining -= tokens
			l.Unlock()
			return nil
		}
		l.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(100 * time.Millisecond):
		}
	}
}

func (l *TokenLimiter) refill() {
	l.Lock()
	defer l.Unlock()

	now := l.now()
	if now.Sub(l.lastRefill) >= l.refillPeriod {
		l.remaining = l.capacity
		l.lastRefill = now
	}
}

func (l *TokenLimiter) GetRemaining() int {
	l.Lock()
	defer l.Unlock()
	return l.remaining
}
