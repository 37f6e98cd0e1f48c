package middleware

import (
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

type clientWindow struct {
	window int64
	count  int
}

// RateLimiter is a fixed-window limiter keyed by client address.
type RateLimiter struct {
	maxRequests    int
	windowDuration time.Duration
	clients        map[string]*clientWindow
	swept          int64
	now            func() time.Time
	mu             sync.Mutex
}

func NewRateLimiter(maxRequests int, windowDuration time.Duration) *RateLimiter {
	if windowDuration <= 0 {
		windowDuration = time.Second
	}
	return &RateLimiter{
		maxRequests:    maxRequests,
		windowDuration: windowDuration,
		clients:        make(map[string]*clientWindow),
		now:            time.Now,
	}
}

func (rl *RateLimiter) getClientID(c *fiber.Ctx) string {
	ip := c.Get("X-Forwarded-For")
	if ip == "" {
		ip = c.Get("X-Real-IP")
	}
	if ip == "" {
		ip = c.IP()
	}
	return ip
}

func (rl *RateLimiter) Allow(clientID string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	window := rl.now().UnixNano() / rl.windowDuration.Nanoseconds()
	// edge case: sweep stale clients once per window, whoever shows up first
	if window > rl.swept {
		rl.evict(window)
		rl.swept = window
	}

	cw, ok := rl.clients[clientID]
	if !ok || cw.window != window {
		rl.clients[clientID] = &clientWindow{window: window, count: 1}
		return true
	}

	if cw.count >= rl.maxRequests {
		return false
	}
	cw.count++
	return true
}

func (rl *RateLimiter) evict(current int64) {
	for id, cw := range rl.clients {
		if cw.window < current {
			delete(rl.clients, id)
		}
	}
}

func (rl *RateLimiter) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		clientID := rl.getClientID(c)

		if !rl.Allow(clientID) {
			log.Warn().
				Str("client_ip", clientID).
				Str("path", c.Path()).
				Str("method", c.Method()).
				Int("max_requests", rl.maxRequests).
				Msg("Rate limit exceeded")
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error":   "Rate limit exceeded",
				"message": "Too many requests. Please try again later.",
			})
		}

		c.Set("X-RateLimit-Limit", strconv.Itoa(rl.maxRequests))
		c.Set("X-RateLimit-Window", rl.windowDuration.String())

		return c.Next()
	}
}
