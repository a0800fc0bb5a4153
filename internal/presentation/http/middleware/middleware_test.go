package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestClientID(t *testing.T) {
	router := gin.New()
	router.GET("/", func(c *gin.Context) { c.String(http.StatusOK, ClientID(c)) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.1.2.3:5555"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "ip:10.1.2.3", w.Body.String())

	req.Header.Set(TerminalIDHeader, "till-4")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "terminal:till-4", w.Body.String())
}

func TestLoggerMiddleware_ShortRequestID(t *testing.T) {
	router := gin.New()
	router.Use(LoggerMiddleware())
	router.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc")
	w := httptest.NewRecorder()

	assert.NotPanics(t, func() { router.ServeHTTP(w, req) })
	assert.Equal(t, "abc", w.Body.String())
	assert.Equal(t, "abc", w.Header().Get("X-Request-ID"))
}

func TestClientRateLimiter_PerClient(t *testing.T) {
	rl := NewClientRateLimiter(RateLimiterConfig{
		RequestsPerSecond: 0.001,
		BurstSize:         1,
		CleanupInterval:   time.Hour,
		EntryTTL:          time.Hour,
	})
	router := gin.New()
	router.POST("/", rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	send := func(terminal string) int {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set(TerminalIDHeader, terminal)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusNoContent, send("a"))
	assert.Equal(t, http.StatusTooManyRequests, send("a"))
	assert.Equal(t, http.StatusNoContent, send("b"))
}

func TestClientRateLimiter_Cleanup(t *testing.T) {
	rl := NewClientRateLimiter(RateLimiterConfig{
		RequestsPerSecond: 1,
		BurstSize:         1,
		CleanupInterval:   time.Hour,
		EntryTTL:          time.Minute,
	})
	rl.getLimiter("stale")
	rl.getLimiter("fresh")
	rl.limiters["stale"].lastSeen = time.Now().Add(-2 * time.Minute)

	rl.cleanup()

	assert.NotContains(t, rl.limiters, "stale")
	assert.Contains(t, rl.limiters, "fresh")
}
