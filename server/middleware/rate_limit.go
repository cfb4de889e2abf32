// Package middleware holds the transport-level echo middleware.
package middleware

import (
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

// ClientLimiter rate-limits requests per client key. The chat endpoint has
// its own tighter limiter inside the assistant; this one protects the whole
// API surface from a runaway client.
type ClientLimiter struct {
	mu     sync.Mutex
	limits map[string]*rate.Limiter
	perSec rate.Limit
	burst  int
}

// NewClientLimiter builds a limiter allowing perSec requests with the given
// burst per client.
func NewClientLimiter(perSec float64, burst int) *ClientLimiter {
	return &ClientLimiter{
		limits: make(map[string]*rate.Limiter),
		perSec: rate.Limit(perSec),
		burst:  burst,
	}
}

func (cl *ClientLimiter) limiter(key string) *rate.Limiter {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	if l, ok := cl.limits[key]; ok {
		return l
	}
	l := rate.NewLimiter(cl.perSec, cl.burst)
	cl.limits[key] = l
	return l
}

// Allow reports whether a request from key may proceed.
func (cl *ClientLimiter) Allow(key string) bool {
	return cl.limiter(key).Allow()
}

// Middleware rejects over-limit requests with 429, keyed by client IP.
func (cl *ClientLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !cl.Allow(c.RealIP()) {
				return c.JSON(http.StatusTooManyRequests, echo.Map{
					"error": "Too many requests, slow down",
				})
			}
			return next(c)
		}
	}
}
