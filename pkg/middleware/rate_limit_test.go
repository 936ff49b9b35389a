package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func limitedRouter(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/entries", mw, func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	return r
}

func doGet(r *gin.Engine, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/entries", nil)
	req.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimitRejectsBeyondBurst(t *testing.T) {
	r := limitedRouter(RateLimitMiddleware(0.001, 2))

	addr := "10.1.0.1:5000"
	require.Equal(t, http.StatusOK, doGet(r, addr).Code)
	require.Equal(t, http.StatusOK, doGet(r, addr).Code)

	w := doGet(r, addr)
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	require.Equal(t, "1", w.Header().Get("Retry-After"))
}

func TestRateLimitKeysByClient(t *testing.T) {
	r := limitedRouter(RateLimitMiddleware(0.001, 1))

	require.Equal(t, http.StatusOK, doGet(r, "10.2.0.1:5000").Code)
	require.Equal(t, http.StatusTooManyRequests, doGet(r, "10.2.0.1:5000").Code)

	// a different client has its own bucket
	require.Equal(t, http.StatusOK, doGet(r, "10.2.0.2:5000").Code)
}

func TestRedisRateLimitFixedWindow(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	// 0 rps + burst 2 => 2 requests per window
	r := limitedRouter(RedisRateLimitMiddleware(client, 0, 2, time.Minute))

	addr := "10.3.0.1:5000"
	require.Equal(t, http.StatusOK, doGet(r, addr).Code)
	require.Equal(t, http.StatusOK, doGet(r, addr).Code)
	require.Equal(t, http.StatusTooManyRequests, doGet(r, addr).Code)
}

func TestRedisRateLimitWindowResets(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	r := limitedRouter(RedisRateLimitMiddleware(client, 0, 1, time.Second))

	addr := "10.4.0.1:5000"
	require.Equal(t, http.StatusOK, doGet(r, addr).Code)
	require.Equal(t, http.StatusTooManyRequests, doGet(r, addr).Code)

	// next fixed window, fresh allowance
	require.Eventually(t, func() bool {
		return doGet(r, addr).Code == http.StatusOK
	}, 3*time.Second, 100*time.Millisecond)
}

func TestRedisRateLimitNilClientFallsBack(t *testing.T) {
	r := limitedRouter(RedisRateLimitMiddleware(nil, 0.001, 1, time.Minute))

	addr := fmt.Sprintf("10.5.0.%d:5000", time.Now().UnixNano()%200+1)
	require.Equal(t, http.StatusOK, doGet(r, addr).Code)
	require.Equal(t, http.StatusTooManyRequests, doGet(r, addr).Code)
}
