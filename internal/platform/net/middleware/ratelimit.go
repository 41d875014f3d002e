package middleware

import (
	"net"
	stdhttp "net/http"
	"sync"
	"time"

	perr "mapaclim/internal/platform/errors"
	phttp "mapaclim/internal/platform/net/http"

	"golang.org/x/time/rate"
)

// RateLimitOptions configures the per-client limiter
type RateLimitOptions struct {
	// PerMinute is the sustained request budget per remote IP; <= 0 disables the middleware
	PerMinute int
	// Burst defaults to PerMinute when <= 0
	Burst int
	// IdleTTL evicts limiters not seen for this long; defaults to 10m
	IdleTTL time.Duration
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ipLimiter applies a token bucket per remote IP and evicts idle entries
// on the way through
type ipLimiter struct {
	limit   rate.Limit
	burst   int
	idleTTL time.Duration
	mu      sync.Mutex
	byIP    map[string]*limiterEntry
	hits    uint64
}

func newIPLimiter(o RateLimitOptions) *ipLimiter {
	burst := o.Burst
	if burst <= 0 {
		burst = o.PerMinute
	}
	ttl := o.IdleTTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &ipLimiter{
		limit:   rate.Limit(float64(o.PerMinute) / 60.0),
		burst:   burst,
		idleTTL: ttl,
		byIP:    make(map[string]*limiterEntry),
	}
}

func (l *ipLimiter) allow(ip string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.byIP[ip]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.byIP[ip] = e
	}
	e.lastSeen = now

	// sweep idle entries every so often to keep the map bounded
	l.hits++
	if l.hits%256 == 0 {
		for k, v := range l.byIP {
			if now.Sub(v.lastSeen) > l.idleTTL {
				delete(l.byIP, k)
			}
		}
	}
	return e.limiter.AllowN(now, 1)
}

// RateLimit rejects clients exceeding the per-IP budget with a 429 detail body
func RateLimit(o RateLimitOptions) func(stdhttp.Handler) stdhttp.Handler {
	if o.PerMinute <= 0 {
		return func(next stdhttp.Handler) stdhttp.Handler { return next }
	}
	l := newIPLimiter(o)
	return func(next stdhttp.Handler) stdhttp.Handler {
		return stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
			ip := r.RemoteAddr
			if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
				ip = host
			}
			if !l.allow(ip, time.Now()) {
				phttp.RespondError(w, perr.TooManyRequestsf("rate limit exceeded"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
