package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(lim *Limiter, keyFn KeyFunc) *gin.Engine {
	r := gin.New()
	r.Use(Middleware(lim, keyFn))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return r
}

func TestMiddlewareAllowsThenRejects(t *testing.T) {
	// Arrange
	lim, _, clock := newMemoryLimiter(time.Minute, 1)
	r := newRouter(lim, nil)

	// Act
	req1 := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req1.RemoteAddr = "10.0.0.1:1234"
	w1 := httptest.NewRecorder()
	r.ServeHTTP(w1, req1)

	req2 := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req2.RemoteAddr = "10.0.0.1:5678"
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, req2)

	// Assert
	assert.Equal(t, http.StatusOK, w1.Code)
	assert.Equal(t, "1", w1.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", w1.Header().Get("X-RateLimit-Remaining"))
	wantReset := (clock.Now().Add(time.Minute).UnixMilli() + 999) / 1000
	assert.Equal(t, strconv.FormatInt(wantReset, 10), w1.Header().Get("X-RateLimit-Reset"))

	assert.Equal(t, http.StatusTooManyRequests, w2.Code)
	assert.JSONEq(t, `{"message":"Too many requests"}`, w2.Body.String())
}

func TestClientIPKeyFunc(t *testing.T) {
	cases := []struct {
		name     string
		trustXFF bool
		xff      string
		remote   string
		want     string
	}{
		{name: "remote addr", remote: "10.0.0.1:1234", want: "10.0.0.1"},
		{name: "xff ignored when untrusted", xff: "1.2.3.4", remote: "10.0.0.1:1234", want: "10.0.0.1"},
		{name: "xff first hop", trustXFF: true, xff: "1.2.3.4, 5.6.7.8", remote: "10.0.0.1:1234", want: "1.2.3.4"},
		{name: "remote without port", remote: "10.0.0.9", want: "10.0.0.9"},
		{name: "unknown", remote: "", want: "unknown"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			c.Request.RemoteAddr = tc.remote
			if tc.xff != "" {
				c.Request.Header.Set("X-Forwarded-For", tc.xff)
			}

			assert.Equal(t, tc.want, ClientIPKeyFunc(tc.trustXFF)(c))
		})
	}
}
