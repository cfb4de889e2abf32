package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestClientLimiter_Allow(t *testing.T) {
	cl := NewClientLimiter(1, 2)

	assert.True(t, cl.Allow("a"))
	assert.True(t, cl.Allow("a"))
	assert.False(t, cl.Allow("a"), "burst exhausted")

	// Separate clients get separate buckets.
	assert.True(t, cl.Allow("b"))
}

func TestClientLimiter_Middleware(t *testing.T) {
	e := echo.New()
	e.Use(NewClientLimiter(1, 1).Middleware())
	e.GET("/ping", func(c echo.Context) error {
		return c.String(http.StatusOK, "pong")
	})

	do := func() int {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = "10.0.0.7:1234"
		rr := httptest.NewRecorder()
		e.ServeHTTP(rr, req)
		return rr.Code
	}

	assert.Equal(t, http.StatusOK, do())
	assert.Equal(t, http.StatusTooManyRequests, do())
}
