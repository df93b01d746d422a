package client

import (
	"context"
	"sync"

	"golang.org/x/time/rate"

	"metasearch/search"
)

// limiterPool holds one token bucket per engine, created lazily. Engines
// throttle by origin, so one shared budget across engines would starve the
// fast ones for no reason.
type limiterPool struct {
	requestsPerMinute int

	mu       sync.Mutex
	limiters map[search.Engine]*rate.Limiter
}

func newLimiterPool(requestsPerMinute int) *limiterPool {
	return &limiterPool{
		requestsPerMinute: requestsPerMinute,
		limiters:          make(map[search.Engine]*rate.Limiter),
	}
}

func (p *limiterPool) wait(ctx context.Context, engine search.Engine) error {
	if p.requestsPerMinute <= 0 {
		return nil
	}

	p.mu.Lock()
	limiter, ok := p.limiters[engine]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(float64(p.requestsPerMinute)/60.0), 1)
		p.limiters[engine] = limiter
	}
	p.mu.Unlock()

	return limiter.Wait(ctx)
}
