package middleware

import (
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberutils "github.com/gofiber/fiber/v2/utils"

	"learnhub/backend/utils"
)

// RateLimiter is an in-process fixed-window counter keyed by a
// client-supplied identifier. State is not persisted and not shared across
// instances; multi-instance deployments need an external counter store.
type RateLimiter struct {
	mu      sync.Mutex
	windows map[string]*window
	limit   int
	period  time.Duration
}

type window struct {
	start time.Time
	count int
}

func NewRateLimiter(limit int, period time.Duration) *RateLimiter {
	return &RateLimiter{
		windows: make(map[string]*window),
		limit:   limit,
		period:  period,
	}
}

// Allow records a request for key and reports whether it fits in the current
// window, along with the remaining allowance.
func (rl *RateLimiter) Allow(key string) (bool, int) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	w, ok := rl.windows[key]
	if !ok || now.Sub(w.start) >= rl.period {
		w = &window{start: now}
		rl.windows[key] = w
	}

	if w.count >= rl.limit {
		return false, 0
	}
	w.count++
	return true, rl.limit - w.count
}

// Middleware keys the limit by the X-Client-Id header, falling back to the
// client IP when the header is absent.
func (rl *RateLimiter) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.Get("X-Client-Id")
		if key == "" {
			key = c.IP()
		}
		// The header and IP strings are backed by fasthttp's reused
		// request buffer; the map key outlives the request, so it
		// needs its own copy.
		key = fiberutils.CopyString(key)

		ok, remaining := rl.Allow(key)
		if !ok {
			return utils.TooManyRequests(c, "AI request limit reached, try again later")
		}

		c.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		return c.Next()
	}
}
