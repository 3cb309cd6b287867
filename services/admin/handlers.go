// Package admin expõe as rotas de operação: métricas, logs, nível de log,
// estado do cache e informações do processo.
package admin

import (
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/matheusmosca/commerce-api/internal/analytics"
	"github.com/matheusmosca/commerce-api/internal/cache"
	"github.com/matheusmosca/commerce-api/internal/logger"
)

// SystemInfo descreve o processo em execução
type SystemInfo struct {
	GoVersion    string      `json:"goVersion"`
	Platform     string      `json:"platform"`
	Architecture string      `json:"architecture"`
	Goroutines   int         `json:"goroutines"`
	MemoryUsage  MemoryUsage `json:"memoryUsage"`
	Uptime       float64     `json:"uptime"`
}

// MemoryUsage resume runtime.MemStats em bytes
type MemoryUsage struct {
	HeapAlloc  uint64 `json:"heapAlloc"`
	HeapSys    uint64 `json:"heapSys"`
	TotalAlloc uint64 `json:"totalAlloc"`
	Sys        uint64 `json:"sys"`
	NumGC      uint32 `json:"numGC"`
}

// AdminHandler contém os handlers HTTP de administração
type AdminHandler struct {
	analytics *analytics.Analytics
	logger    *logger.Logger
	cache     *cache.Manager
	tracer    trace.Tracer
	startedAt time.Time
}

// NewAdminHandler cria uma nova instância de AdminHandler
func NewAdminHandler(a *analytics.Analytics, l *logger.Logger, c *cache.Manager, tracer trace.Tracer) *AdminHandler {
	return &AdminHandler{
		analytics: a,
		logger:    l,
		cache:     c,
		tracer:    tracer,
		startedAt: time.Now(),
	}
}

// RegisterRoutes monta as rotas em /api/admin; o grupo deve exigir um admin
func (h *AdminHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/stats", h.Stats)
	rg.GET("/metrics", h.Metrics)
	rg.GET("/logs", h.Logs)
	rg.GET("/system", h.System)
	rg.POST("/log-level", h.SetLogLevel)
	rg.GET("/cache", h.CacheStats)
}

func (h *AdminHandler) Stats(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "admin_stats")
	defer span.End()

	c.JSON(http.StatusOK, h.analytics.Snapshot())
}

// Metrics exige ?name; ?limit é opcional
func (h *AdminHandler) Metrics(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "admin_metrics")
	defer span.End()

	name := c.Query("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Metric name required"})
		return
	}
	limit, ok := queryLimit(c, analytics.DefaultMetricLimit)
	if !ok {
		return
	}
	span.SetAttributes(attribute.String("metric", name), attribute.Int("limit", limit))

	c.JSON(http.StatusOK, gin.H{"metric": name, "data": h.analytics.Metric(name, limit)})
}

func (h *AdminHandler) Logs(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "admin_logs")
	defer span.End()

	limit, ok := queryLimit(c, logger.DefaultLogsLimit)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.logger.Logs(limit))
}

func (h *AdminHandler) System(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "admin_system")
	defer span.End()

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	c.JSON(http.StatusOK, SystemInfo{
		GoVersion:    runtime.Version(),
		Platform:     runtime.GOOS,
		Architecture: runtime.GOARCH,
		Goroutines:   runtime.NumGoroutine(),
		MemoryUsage: MemoryUsage{
			HeapAlloc:  m.HeapAlloc,
			HeapSys:    m.HeapSys,
			TotalAlloc: m.TotalAlloc,
			Sys:        m.Sys,
			NumGC:      m.NumGC,
		},
		Uptime: time.Since(h.startedAt).Seconds(),
	})
}

type logLevelRequest struct {
	Level string `json:"level"`
}

func (h *AdminHandler) SetLogLevel(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "admin_set_log_level")
	defer span.End()

	var req logLevelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid log level"})
		return
	}
	level, err := logger.ParseLevel(req.Level)
	if err != nil {
		span.RecordError(err)
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid log level"})
		return
	}
	span.SetAttributes(attribute.String("level", string(level)))

	h.logger.SetLevel(level)
	c.JSON(http.StatusOK, gin.H{"message": "Log level set to " + string(level)})
}

func (h *AdminHandler) CacheStats(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "admin_cache")
	defer span.End()

	c.JSON(http.StatusOK, h.cache.Stats())
}

func queryLimit(c *gin.Context, def int) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return def, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid limit"})
		return 0, false
	}
	return limit, true
}
