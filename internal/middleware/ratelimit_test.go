package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func newRateLimitRouter(t *testing.T, limit int, window time.Duration) (*gin.Engine, *miniredis.Miniredis) {
	gin.SetMode(gin.TestMode)
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	r := gin.New()
	r.GET("/test", IPRateLimit(client, limit, window), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return r, mr
}

func doRequest(r *gin.Engine) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.RemoteAddr = "192.0.2.1:1234"
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimit(t *testing.T) {
	t.Run("限制内放行并返回余量头", func(t *testing.T) {
		r, _ := newRateLimitRouter(t, 3, time.Minute)

		w := doRequest(r)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "3", w.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, "2", w.Header().Get("X-RateLimit-Remaining"))
	})

	t.Run("超过限制返回 429", func(t *testing.T) {
		r, _ := newRateLimitRouter(t, 2, time.Minute)

		doRequest(r)
		doRequest(r)
		w := doRequest(r)
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
		assert.NotEmpty(t, w.Header().Get("Retry-After"))
	})

	t.Run("窗口过期后重新计数", func(t *testing.T) {
		r, mr := newRateLimitRouter(t, 1, time.Minute)

		doRequest(r)
		w := doRequest(r)
		assert.Equal(t, http.StatusTooManyRequests, w.Code)

		mr.FastForward(2 * time.Minute)

		w = doRequest(r)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Redis 不可用时放行", func(t *testing.T) {
		gin.SetMode(gin.TestMode)
		mr := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		mr.Close()

		r := gin.New()
		r.GET("/test", IPRateLimit(client, 1, time.Minute), func(c *gin.Context) {
			c.String(http.StatusOK, "ok")
		})

		w := doRequest(r)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
