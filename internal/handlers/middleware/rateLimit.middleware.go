package middleware

import (
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"
)

const limiterMaxIdle = 10 * time.Minute

type limiterEntry struct {
	limiter *rate.Limiter
	seen    time.Time
}

// loginLimiter keeps one token bucket per client IP.
type loginLimiter struct {
	limit   rate.Limit
	burst   int
	mu      sync.Mutex
	clients map[string]*limiterEntry
}

func newLoginLimiter(perSecond float64, burst int) *loginLimiter {
	if perSecond <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}
	return &loginLimiter{
		limit:   rate.Limit(perSecond),
		burst:   burst,
		clients: make(map[string]*limiterEntry),
	}
}

func (l *loginLimiter) get(key string, now time.Time) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if entry, ok := l.clients[key]; ok {
		entry.seen = now
		return entry.limiter
	}

	for k, entry := range l.clients {
		if now.Sub(entry.seen) > limiterMaxIdle {
			delete(l.clients, k)
		}
	}

	limiter := rate.NewLimiter(l.limit, l.burst)
	l.clients[key] = &limiterEntry{limiter: limiter, seen: now}
	return limiter
}

// retryAfter is the number of whole seconds until one more request fits.
func (l *loginLimiter) retryAfter() int {
	return int(math.Ceil(1 / float64(l.limit)))
}

// RateLimit throttles credential endpoints per client IP. A non-positive
// LOGIN_RATE_LIMIT disables it.
func (m *Middleware) RateLimit() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if m.limiter == nil {
			return c.Next()
		}

		if !m.limiter.get(c.IP(), time.Now()).Allow() {
			m.log.TraceFromContext(c.UserContext()).Function("RateLimit").
				Warn("rate limit exceeded", "ip", c.IP(), "path", c.Path())
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(m.limiter.retryAfter()))
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many attempts, try again later",
			})
		}

		return c.Next()
	}
}
