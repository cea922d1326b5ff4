// Package ratelim throttles requests with one token bucket per visitor.
package ratelim

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/julienschmidt/httprouter"
	"golang.org/x/time/rate"

	"storefront/session"
	"storefront/utils"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keys buckets by guest session, or by client address for
// requests that carry none.
type RateLimiter struct {
	limit    rate.Limit
	burst    int
	visitors map[string]*visitor
	mu       sync.Mutex
	now      func() time.Time
	// TrustProxy lets X-Forwarded-For name the client. Only set it when a
	// proxy that overwrites the header sits in front of the service.
	TrustProxy bool
}

func NewRateLimiter(perSecond float64, burst int) *RateLimiter {
	return &RateLimiter{
		limit:    rate.Limit(perSecond),
		burst:    burst,
		visitors: make(map[string]*visitor),
		now:      time.Now,
	}
}

func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, ok := rl.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.visitors[key] = v
	}
	v.lastSeen = rl.now()
	return v.limiter
}

func (rl *RateLimiter) visitorKey(r *http.Request) string {
	if sid, err := session.IDFromContext(r.Context()); err == nil {
		return "s:" + sid
	}
	return "ip:" + utils.ClientIP(r, rl.TrustProxy)
}

var tooMany = utils.Notice{
	Title:       "Too many requests",
	Description: "Please slow down and try again in a moment.",
	Variant:     utils.VariantDestructive,
}

func (rl *RateLimiter) Limit(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if !rl.getLimiter(rl.visitorKey(r)).Allow() {
			w.Header().Set("Retry-After", "1")
			utils.RespondWithNotice(w, http.StatusTooManyRequests, tooMany, nil)
			return
		}
		next(w, r, ps)
	}
}

// Sweep forgets visitors idle for longer than idle.
func (rl *RateLimiter) Sweep(idle time.Duration) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	cutoff := rl.now().Add(-idle)
	n := 0
	for k, v := range rl.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(rl.visitors, k)
			n++
		}
	}
	return n
}

// RunJanitor sweeps every idle interval until ctx is done.
func (rl *RateLimiter) RunJanitor(ctx context.Context, idle time.Duration) {
	t := time.NewTicker(idle)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			rl.Sweep(idle)
		}
	}
}
