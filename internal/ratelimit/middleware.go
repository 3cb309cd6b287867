package ratelimit

import (
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// KeyFunc deriva a chave de limitação de uma requisição.
type KeyFunc func(c *gin.Context) string

// ClientIPKeyFunc usa o primeiro IP do X-Forwarded-For quando trustXFF,
// senão o RemoteAddr.
func ClientIPKeyFunc(trustXFF bool) KeyFunc {
	return func(c *gin.Context) string {
		r := c.Request

		if trustXFF {
			if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
				if ip := strings.TrimSpace(strings.Split(xff, ",")[0]); ip != "" {
					return ip
				}
			}
		}

		host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
		if err == nil && host != "" {
			return host
		}
		if r.RemoteAddr != "" {
			return r.RemoteAddr
		}
		return "unknown"
	}
}

// Middleware aplica o limiter e publica os cabeçalhos X-RateLimit-*.
func Middleware(l *Limiter, keyFn KeyFunc) gin.HandlerFunc {
	if keyFn == nil {
		keyFn = ClientIPKeyFunc(false)
	}

	return func(c *gin.Context) {
		res := l.Check(c.Request.Context(), keyFn(c))

		c.Header("X-RateLimit-Limit", strconv.Itoa(res.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(res.ResetUnix(), 10))

		if !res.Allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"message": "Too many requests"})
			return
		}

		c.Next()
	}
}
