package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(handlers...)
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return r
}

func TestIPRateLimiter(t *testing.T) {
	rl := NewIPRateLimiter(RateLimiterConfig{RequestsPerSecond: 0.001, BurstSize: 2, CleanupInterval: time.Minute, EntryTTL: time.Minute})
	defer rl.Stop()
	r := newRouter(rl.Middleware())

	get := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = ip + ":1234"
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, get("10.0.0.1").Code)
	assert.Equal(t, http.StatusOK, get("10.0.0.1").Code)
	limited := get("10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.Equal(t, "1", limited.Header().Get("Retry-After"))
	assert.Contains(t, limited.Body.String(), `"success":false`)

	assert.Equal(t, http.StatusOK, get("10.0.0.2").Code, "other tills keep their own bucket")
	assert.Equal(t, 2, rl.Stats()["active_clients"])
}

func TestIPRateLimiter_Cleanup(t *testing.T) {
	rl := NewIPRateLimiter(RateLimiterConfig{RequestsPerSecond: 1, BurstSize: 1, CleanupInterval: time.Hour, EntryTTL: time.Nanosecond})
	defer rl.Stop()

	rl.getLimiter("10.0.0.1")
	time.Sleep(time.Millisecond)
	rl.cleanup()
	assert.Equal(t, 0, rl.Stats()["active_clients"])
}

func TestLoggerMiddleware_RequestID(t *testing.T) {
	r := newRouter(LoggerMiddleware())

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "till-7")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, "till-7", rec.Header().Get("X-Request-ID"))

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Len(t, rec.Header().Get("X-Request-ID"), 36)
}
