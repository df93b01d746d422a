package engines

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"
)

const (
	asyncTokenChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789-_"
	asyncTokenLen   = 23
)

// TokenProvider hands out the opaque id Google expects inside the async
// parameter. Google's own front end keeps one id per session, so the id is
// reused for a full rotation interval instead of being minted per request.
// Reads are lock-cheap; two callers racing to regenerate on the boundary
// both produce valid ids and the last writer wins.
type TokenProvider struct {
	ttl time.Duration
	now func() time.Time

	mu    sync.RWMutex
	token string
	setAt time.Time
}

// NewTokenProvider creates a provider rotating at the given interval. The
// now func is injectable for tests; nil means time.Now.
func NewTokenProvider(ttl time.Duration, now func() time.Time) *TokenProvider {
	if now == nil {
		now = time.Now
	}
	return &TokenProvider{ttl: ttl, now: now}
}

// Token returns the current id, regenerating it once the rotation interval
// has elapsed.
func (p *TokenProvider) Token() string {
	p.mu.RLock()
	token, setAt := p.token, p.setAt
	p.mu.RUnlock()

	if token != "" && p.now().Sub(setAt) <= p.ttl {
		return token
	}

	token = randomAsyncToken()
	p.mu.Lock()
	p.token, p.setAt = token, p.now()
	p.mu.Unlock()
	return token
}

// AsyncValue renders the full async parameter value around the rotating id.
func (p *TokenProvider) AsyncValue() string {
	const pageNumber = 1
	arcID := fmt.Sprintf("arc_id:srp_%s_%d", p.Token(), 100+pageNumber*10)
	return arcID + ",use_ac:true,_fmt:prog"
}

func randomAsyncToken() string {
	b := make([]byte, asyncTokenLen)
	for i := range b {
		b[i] = asyncTokenChars[rand.IntN(len(asyncTokenChars))]
	}
	return string(b)
}

// googleTokens is the process-wide slot shared by every Google request.
var googleTokens = NewTokenProvider(time.Hour, nil)
