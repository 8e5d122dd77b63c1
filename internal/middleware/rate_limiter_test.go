package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func serveOnce(t *testing.T, limiter *RateLimiter) int {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(limiter.RateLimit())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	return w.Code
}

func TestZeroRateMeansUnlimited(t *testing.T) {
	limiter := NewRateLimiter(RateLimiterConfig{})

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, serveOnce(t, limiter))
	}
}

func TestExhaustedBucketRejects(t *testing.T) {
	limiter := NewRateLimiter(RateLimiterConfig{Rate: rate.Limit(0.001), Burst: 1})

	assert.Equal(t, http.StatusOK, serveOnce(t, limiter))
	assert.Equal(t, http.StatusTooManyRequests, serveOnce(t, limiter))
}
