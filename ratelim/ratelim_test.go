package ratelim

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"

	"storefront/session"
)

func ok(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	w.WriteHeader(http.StatusNoContent)
}

func call(h httprouter.Handle, sid, addr string) int {
	return callVia(h, sid, addr, "")
}

func callVia(h httprouter.Handle, sid, addr, forwardedFor string) int {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = addr
	if forwardedFor != "" {
		req.Header.Set("X-Forwarded-For", forwardedFor)
	}
	if sid != "" {
		req = req.WithContext(session.WithID(req.Context(), sid))
	}
	rec := httptest.NewRecorder()
	h(rec, req, nil)
	return rec.Code
}

func TestLimit_PerSession(t *testing.T) {
	rl := NewRateLimiter(0.001, 2)
	h := rl.Limit(ok)

	assert.Equal(t, http.StatusNoContent, call(h, "a", "10.0.0.1:1"))
	assert.Equal(t, http.StatusNoContent, call(h, "a", "10.0.0.1:1"))
	assert.Equal(t, http.StatusTooManyRequests, call(h, "a", "10.0.0.1:1"))

	// another session behind the same address has its own bucket
	assert.Equal(t, http.StatusNoContent, call(h, "b", "10.0.0.1:1"))
}

func TestLimit_ByAddressWithoutSession(t *testing.T) {
	rl := NewRateLimiter(0.001, 1)
	h := rl.Limit(ok)

	assert.Equal(t, http.StatusNoContent, call(h, "", "10.0.0.1:1"))
	assert.Equal(t, http.StatusTooManyRequests, call(h, "", "10.0.0.1:2"))
	assert.Equal(t, http.StatusNoContent, call(h, "", "10.0.0.2:1"))
}

func TestLimit_IgnoresForwardedForByDefault(t *testing.T) {
	rl := NewRateLimiter(0.001, 1)
	h := rl.Limit(ok)

	assert.Equal(t, http.StatusNoContent, callVia(h, "", "10.0.0.1:1", "1.1.1.1"))
	assert.Equal(t, http.StatusTooManyRequests, callVia(h, "", "10.0.0.1:1", "2.2.2.2"))
	assert.Equal(t, http.StatusTooManyRequests, callVia(h, "", "10.0.0.1:1", "3.3.3.3"))
}

func TestLimit_TrustedProxyUsesLastHop(t *testing.T) {
	rl := NewRateLimiter(0.001, 1)
	rl.TrustProxy = true
	h := rl.Limit(ok)

	// the client controls everything before the hop the proxy appended
	assert.Equal(t, http.StatusNoContent, callVia(h, "", "10.0.0.9:1", "1.1.1.1, 203.0.113.7"))
	assert.Equal(t, http.StatusTooManyRequests, callVia(h, "", "10.0.0.9:1", "2.2.2.2, 203.0.113.7"))
	assert.Equal(t, http.StatusNoContent, callVia(h, "", "10.0.0.9:1", "203.0.113.8"))
}

func TestSweep(t *testing.T) {
	now := time.Now()
	rl := NewRateLimiter(1, 1)
	rl.now = func() time.Time { return now }
	rl.getLimiter("old")

	now = now.Add(time.Minute)
	rl.getLimiter("fresh")

	assert.Equal(t, 1, rl.Sweep(30*time.Second))
	assert.Len(t, rl.visitors, 1)
	assert.Contains(t, rl.visitors, "fresh")
}
