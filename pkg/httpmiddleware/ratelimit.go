package httpmiddleware

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-faster/jx"
	"golang.org/x/time/rate"
)

// RateLimitConfig configures the per-client rate limiter.
type RateLimitConfig struct {
	// RPS is the sustained number of requests per second allowed per client.
	RPS float64
	// Burst is the maximum burst size per client.
	Burst int
	// KeyFunc extracts the rate limit key from a request.
	// If nil, the client IP address is used.
	KeyFunc func(*http.Request) string
	// TTL is how long an idle client entry is kept before eviction.
	// Defaults to 5 minutes when zero.
	TTL time.Duration
}

type clientLimiter struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// rateLimiter maps client keys to token bucket limiters.
type rateLimiter struct {
	cfg     RateLimitConfig
	mu      sync.Mutex
	clients map[string]*clientLimiter
}

func newRateLimiter(cfg RateLimitConfig) *rateLimiter {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = clientIP
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 5 * time.Minute
	}
	return &rateLimiter{
		cfg:     cfg,
		clients: make(map[string]*clientLimiter),
	}
}

func (rl *rateLimiter) limiter(key string, now time.Time) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	c, ok := rl.clients[key]
	if !ok {
		c = &clientLimiter{lim: rate.NewLimiter(rate.Limit(rl.cfg.RPS), rl.cfg.Burst)}
		rl.clients[key] = c
	}
	c.lastSeen = now
	return c.lim
}

// cleanup evicts clients that have been idle longer than the TTL.
func (rl *rateLimiter) cleanup(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	for key, c := range rl.clients {
		if now.Sub(c.lastSeen) > rl.cfg.TTL {
			delete(rl.clients, key)
		}
	}
}

func (rl *rateLimiter) startCleanup(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(rl.cfg.TTL)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				rl.cleanup(now)
			}
		}
	}()
}

// RateLimit returns a middleware enforcing a per-client token bucket rate
// limit. When the limit is exceeded it responds with 429 Too Many Requests
// and a JSON body. This variant does not evict idle client entries; use
// RateLimitWithCleanup for long-running servers.
func RateLimit(cfg RateLimitConfig) Middleware {
	return rateLimitMiddleware(newRateLimiter(cfg))
}

// RateLimitWithCleanup is like RateLimit but additionally starts a background
// goroutine that evicts idle client entries. The goroutine stops when ctx is
// cancelled.
func RateLimitWithCleanup(ctx context.Context, cfg RateLimitConfig) Middleware {
	rl := newRateLimiter(cfg)
	rl.startCleanup(ctx)
	return rateLimitMiddleware(rl)
}

func rateLimitMiddleware(rl *rateLimiter) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := rl.cfg.KeyFunc(r)
			if !rl.limiter(key, time.Now()).Allow() {
				w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds(rl.cfg.RPS)))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)

				var e jx.Encoder
				e.Obj(func(e *jx.Encoder) {
					e.Field("success", func(e *jx.Encoder) { e.Bool(false) })
					e.Field("error", func(e *jx.Encoder) { e.Str("rate limit exceeded") })
				})
				_, _ = w.Write(e.Bytes())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// retryAfterSeconds estimates how long until a single token is available.
func retryAfterSeconds(rps float64) int {
	if rps <= 0 {
		return 1
	}
	secs := int(1 / rps)
	if secs < 1 {
		secs = 1
	}
	return secs
}

// clientIP extracts the client address, checking X-Forwarded-For first, then
// X-Real-IP, then falling back to RemoteAddr.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// May contain a comma-separated list; the first entry is the client.
		if i := strings.IndexByte(xff, ','); i > 0 {
			return strings.TrimSpace(xff[:i])
		}
		return strings.TrimSpace(xff)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
