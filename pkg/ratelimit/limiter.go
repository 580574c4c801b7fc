package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// LimiterStore hands out one limiter per upstream key (e.g. per marketplace)
// so a slow marketplace never starves requests to the other.
type LimiterStore struct {
	limiters map[string]*rate.Limiter
	mu       sync.Mutex
	r        rate.Limit
	burst    int
}

func NewLimiterStore(r rate.Limit, burst int) *LimiterStore {
	return &LimiterStore{
		limiters: make(map[string]*rate.Limiter),
		r:        r,
		burst:    burst,
	}
}

// PerMinute builds a store allowing requestsPerMinute evenly spread requests per key.
// A non-positive value disables limiting.
func PerMinute(requestsPerMinute int) *LimiterStore {
	if requestsPerMinute <= 0 {
		return NewLimiterStore(rate.Inf, 1)
	}
	return NewLimiterStore(rate.Every(time.Minute/time.Duration(requestsPerMinute)), 1)
}

func (s *LimiterStore) GetLimiter(key string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limiter, exists := s.limiters[key]; exists {
		return limiter
	}
	limiter := rate.NewLimiter(s.r, s.burst)
	s.limiters[key] = limiter
	return limiter
}

// Wait blocks until the limiter for key admits one request or ctx is done.
func (s *LimiterStore) Wait(ctx context.Context, key string) error {
	return s.GetLimiter(key).Wait(ctx)
}
