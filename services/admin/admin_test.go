package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/matheusmosca/commerce-api/internal/analytics"
	"github.com/matheusmosca/commerce-api/internal/cache"
	"github.com/matheusmosca/commerce-api/internal/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fixture struct {
	router    *gin.Engine
	analytics *analytics.Analytics
	logger    *logger.Logger
	cache     *cache.Manager
}

func newFixture() *fixture {
	f := &fixture{
		analytics: analytics.New(nil),
		logger:    logger.Nop(),
		cache:     cache.New(),
	}
	h := NewAdminHandler(f.analytics, f.logger, f.cache, noop.NewTracerProvider().Tracer("test"))
	f.router = gin.New()
	h.RegisterRoutes(f.router.Group("/api/admin"))
	return f
}

func (f *fixture) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestStats(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.analytics.RecordRequest(ctx)
	f.analytics.RecordRequest(ctx)
	f.analytics.RecordError(ctx)
	f.analytics.RecordResponseTime(ctx, 30*time.Millisecond)

	w := f.do(http.MethodGet, "/api/admin/stats", "")

	require.Equal(t, http.StatusOK, w.Code)
	var snap analytics.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.Equal(t, int64(2), snap.TotalRequests)
	assert.Equal(t, int64(1), snap.TotalErrors)
	assert.Equal(t, int64(30), snap.AverageResponseTime)
}

func TestMetrics(t *testing.T) {
	f := newFixture()
	for _, v := range []float64{1, 2, 3} {
		f.analytics.RecordMetric(context.Background(), "checkout", v)
	}

	w := f.do(http.MethodGet, "/api/admin/metrics", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"Metric name required"}`, w.Body.String())

	w = f.do(http.MethodGet, "/api/admin/metrics?name=checkout&limit=2", "")
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Metric string                 `json:"metric"`
		Data   []analytics.MetricData `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "checkout", body.Metric)
	require.Len(t, body.Data, 2)
	assert.Equal(t, 3.0, body.Data[1].Value)
}

func TestLogsAndLogLevel(t *testing.T) {
	f := newFixture()
	f.logger.Info("first")
	f.logger.Info("second")

	w := f.do(http.MethodGet, "/api/admin/logs?limit=1", "")
	require.Equal(t, http.StatusOK, w.Code)
	var logs []logger.Entry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &logs))
	require.Len(t, logs, 1)
	assert.Equal(t, "second", logs[0].Message)

	w = f.do(http.MethodPost, "/api/admin/log-level", `{"level":"VERBOSE"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"Invalid log level"}`, w.Body.String())

	w = f.do(http.MethodPost, "/api/admin/log-level", `{"level":"ERROR"}`)
	assert.JSONEq(t, `{"message":"Log level set to ERROR"}`, w.Body.String())
	assert.Equal(t, logger.LevelError, f.logger.Level())
}

func TestSystemAndCache(t *testing.T) {
	f := newFixture()
	f.cache.Set("b", 1, 0)
	f.cache.Set("a", 2, 0)

	w := f.do(http.MethodGet, "/api/admin/cache", "")
	assert.JSONEq(t, `{"size":2,"keys":["a","b"]}`, w.Body.String())

	w = f.do(http.MethodGet, "/api/admin/system", "")
	require.Equal(t, http.StatusOK, w.Code)
	var info SystemInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	assert.NotEmpty(t, info.GoVersion)
	assert.Positive(t, info.Goroutines)
}
