package httpx

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/matheusmosca/commerce-api/internal/analytics"
)

const RequestIDHeader = "X-Request-ID"

// RequestID propaga o X-Request-ID recebido ou gera um novo.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// RequestLogger registra cada requisição no log e alimenta o analytics.
// Respostas com status >= 400 contam como erro.
func RequestLogger(log *zap.Logger, a *analytics.Analytics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		ctx := c.Request.Context()
		a.RecordRequest(ctx)

		c.Next()

		elapsed := time.Since(start)
		status := c.Writer.Status()
		a.RecordResponseTime(ctx, elapsed)
		if status >= http.StatusBadRequest {
			a.RecordError(ctx)
		}

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("duration", elapsed),
			zap.String("request_id", c.GetString("request_id")),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch {
		case status >= http.StatusInternalServerError:
			log.Error("❌ request failed", fields...)
		case status >= http.StatusBadRequest:
			log.Warn("⚠️ request rejected", fields...)
		default:
			log.Info("✅ request", fields...)
		}
	}
}

// RequireJSON rejeita POST, PUT e PATCH com corpo que não seja application/json.
// Requisições sem corpo passam.
func RequireJSON() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
		default:
			c.Next()
			return
		}

		if c.Request.ContentLength == 0 {
			c.Next()
			return
		}

		if !strings.Contains(strings.ToLower(c.ContentType()), "application/json") {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Content-Type must be application/json"})
			return
		}
		c.Next()
	}
}

// Recovery converte um panic em 500 e registra a causa.
func Recovery(log *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Error("❌ panic recovered",
			zap.Any("panic", recovered),
			zap.String("path", c.Request.URL.Path),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
	})
}

func NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"message": "Endpoint not found"})
}
