package middleware

import (
	"context"
	"net"
	"net/http"
	"net/netip"
	"strconv"
	"strings"
	"sync"
	"time"

	"news-summarizer/internal/cache"

	"github.com/rs/zerolog/log"
)

// Limiter decides whether a client may issue one more request.
type Limiter interface {
	Allow(ctx context.Context, clientIP string) (bool, error)
}

// RateLimit rejects requests from clients that exceeded their quota with
// 429. Limiter errors let the request through. X-Forwarded-For is only
// consulted when the direct peer falls in trustedProxies.
func RateLimit(limiter Limiter, trustedProxies []netip.Prefix) func(http.Handler) http.Handler {
	retryAfter := strconv.Itoa(int(cache.RateLimitWindow.Seconds()))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientIP := getClientIP(r, trustedProxies)

			allowed, err := limiter.Allow(r.Context(), clientIP)
			if err != nil {
				log.Warn().Err(err).Str("client_ip", clientIP).Msg("Rate limiter unavailable")
				next.ServeHTTP(w, r)
				return
			}

			if !allowed {
				log.Warn().
					Str("client_ip", clientIP).
					Str("url", r.URL.String()).
					Msg("Rate limit exceeded")

				w.Header().Set("Retry-After", retryAfter)
				writeErrorEnvelope(w, http.StatusTooManyRequests, "RATE_LIMIT", "Rate limit exceeded. Please try again later.")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// getClientIP returns the peer address without its port. When the peer is a
// trusted proxy, the X-Forwarded-For chain is walked from the right and the
// first address outside trusted is used instead.
func getClientIP(r *http.Request, trusted []netip.Prefix) string {
	peer := r.RemoteAddr
	if host, _, err := net.SplitHostPort(peer); err == nil {
		peer = host
	}
	if !isTrusted(peer, trusted) {
		return peer
	}

	hops := strings.Split(r.Header.Get("X-Forwarded-For"), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		if hop == "" {
			continue
		}
		addr, err := netip.ParseAddr(hop)
		if err != nil {
			break
		}
		if !isTrusted(hop, trusted) {
			return addr.Unmap().String()
		}
	}
	return peer
}

func isTrusted(ip string, trusted []netip.Prefix) bool {
	if len(trusted) == 0 {
		return false
	}
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, prefix := range trusted {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

// minIdleTTL is the shortest time a bucket may sit unused before it is
// evicted.
const minIdleTTL = 2 * time.Minute

// SimpleRateLimiter is an in-memory token bucket per client.
// Limits are per process. Buckets idle long enough to be full again are
// dropped, at most once per idle period.
type SimpleRateLimiter struct {
	mu                sync.Mutex
	requestsPerMinute int
	burstSize         int
	idleTTL           time.Duration
	clients           map[string]*clientLimit
	lastSweep         time.Time
	now               func() time.Time
}

type clientLimit struct {
	tokens     int
	lastRefill time.Time
}

func NewSimpleRateLimiter(requestsPerMinute, burstSize int) *SimpleRateLimiter {
	idleTTL := minIdleTTL
	if requestsPerMinute > 0 {
		refill := time.Duration(burstSize) * time.Minute / time.Duration(requestsPerMinute)
		if refill > idleTTL {
			idleTTL = refill
		}
	}

	return &SimpleRateLimiter{
		requestsPerMinute: requestsPerMinute,
		burstSize:         burstSize,
		idleTTL:           idleTTL,
		clients:           make(map[string]*clientLimit),
		now:               time.Now,
	}
}

func (rl *SimpleRateLimiter) Allow(_ context.Context, clientIP string) (bool, error) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.sweep(now)

	client, exists := rl.clients[clientIP]
	if !exists {
		client = &clientLimit{
			tokens:     rl.burstSize,
			lastRefill: now,
		}
		rl.clients[clientIP] = client
	}

	tokensToAdd := int(now.Sub(client.lastRefill).Minutes() * float64(rl.requestsPerMinute))
	if tokensToAdd > 0 {
		client.tokens = min(client.tokens+tokensToAdd, rl.burstSize)
		client.lastRefill = now
	}

	if client.tokens > 0 {
		client.tokens--
		return true, nil
	}
	return false, nil
}

// sweep must be called with mu held.
func (rl *SimpleRateLimiter) sweep(now time.Time) {
	if rl.lastSweep.IsZero() {
		rl.lastSweep = now
		return
	}
	if now.Sub(rl.lastSweep) < rl.idleTTL {
		return
	}

	for ip, client := range rl.clients {
		if now.Sub(client.lastRefill) >= rl.idleTTL {
			delete(rl.clients, ip)
		}
	}
	rl.lastSweep = now
}

// RedisRateLimiter is a fixed one-minute window counter shared by every
// instance pointing at the same Redis.
type RedisRateLimiter struct {
	cache             *cache.RedisCache
	requestsPerMinute int
	now               func() time.Time
}

func NewRedisRateLimiter(c *cache.RedisCache, requestsPerMinute int) *RedisRateLimiter {
	return &RedisRateLimiter{cache: c, requestsPerMinute: requestsPerMinute, now: time.Now}
}

func (rl *RedisRateLimiter) Allow(ctx context.Context, clientIP string) (bool, error) {
	window := rl.now().Truncate(cache.RateLimitWindow)
	key := cache.RateLimitKey(clientIP, window)

	count, err := rl.cache.Incr(ctx, key)
	if err != nil {
		return false, err
	}
	if count == 1 {
		if err := rl.cache.Expire(ctx, key, cache.RateLimitWindow); err != nil {
			return false, err
		}
	}
	return count <= int64(rl.requestsPerMinute), nil
}
