// Package analytics mantém contadores de requisições e séries de métricas em
// memória e espelha os contadores em instrumentos OpenTelemetry.
package analytics

import (
	"context"
	"math"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const (
	maxResponseTimes   = 1000
	DefaultMetricLimit = 100
)

// MetricData é um ponto de uma série nomeada.
type MetricData struct {
	Timestamp int64   `json:"timestamp"`
	Value     float64 `json:"value"`
}

// Snapshot resume o estado dos contadores.
type Snapshot struct {
	TotalRequests       int64 `json:"totalRequests"`
	TotalErrors         int64 `json:"totalErrors"`
	AverageResponseTime int64 `json:"averageResponseTime"`
	Uptime              int64 `json:"uptime"`
	Timestamp           int64 `json:"timestamp"`
}

type Analytics struct {
	mu            sync.Mutex
	now           func() time.Time
	startTime     time.Time
	totalRequests int64
	totalErrors   int64
	responseTimes []float64
	metrics       map[string][]MetricData

	requestCounter metric.Int64Counter
	errorCounter   metric.Int64Counter
	responseTime   metric.Float64Histogram
	meter          metric.Meter
	series         map[string]metric.Float64Histogram
}

type Option func(*Analytics)

// WithClock injeta o relógio; usado em testes.
func WithClock(now func() time.Time) Option {
	return func(a *Analytics) { a.now = now }
}

// New cria o agregador. meter pode ser nil.
func New(meter metric.Meter, opts ...Option) *Analytics {
	if meter == nil {
		meter = noop.NewMeterProvider().Meter("analytics")
	}

	a := &Analytics{
		now:     time.Now,
		metrics: make(map[string][]MetricData),
		meter:   meter,
		series:  make(map[string]metric.Float64Histogram),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.startTime = a.now()

	noopMeter := noop.NewMeterProvider().Meter("analytics")
	var err error
	if a.requestCounter, err = meter.Int64Counter("http.requests", metric.WithDescription("Total HTTP requests")); err != nil {
		a.requestCounter, _ = noopMeter.Int64Counter("http.requests")
	}
	if a.errorCounter, err = meter.Int64Counter("http.errors", metric.WithDescription("HTTP requests answered with status >= 400")); err != nil {
		a.errorCounter, _ = noopMeter.Int64Counter("http.errors")
	}
	if a.responseTime, err = meter.Float64Histogram("http.response_time", metric.WithUnit("ms")); err != nil {
		a.responseTime, _ = noopMeter.Float64Histogram("http.response_time")
	}

	return a
}

func (a *Analytics) RecordRequest(ctx context.Context) {
	a.mu.Lock()
	a.totalRequests++
	a.mu.Unlock()

	a.requestCounter.Add(ctx, 1)
}

func (a *Analytics) RecordError(ctx context.Context) {
	a.mu.Lock()
	a.totalErrors++
	a.mu.Unlock()

	a.errorCounter.Add(ctx, 1)
}

// RecordResponseTime guarda apenas as últimas 1000 medições.
func (a *Analytics) RecordResponseTime(ctx context.Context, d time.Duration) {
	ms := float64(d) / float64(time.Millisecond)

	a.mu.Lock()
	a.responseTimes = append(a.responseTimes, ms)
	if over := len(a.responseTimes) - maxResponseTimes; over > 0 {
		a.responseTimes = append(a.responseTimes[:0:0], a.responseTimes[over:]...)
	}
	a.mu.Unlock()

	a.responseTime.Record(ctx, ms)
}

// RecordMetric acrescenta um ponto à série name.
func (a *Analytics) RecordMetric(ctx context.Context, name string, value float64) {
	a.mu.Lock()
	a.metrics[name] = append(a.metrics[name], MetricData{Timestamp: a.now().UnixMilli(), Value: value})
	hist, ok := a.series[name]
	if !ok {
		var err error
		if hist, err = a.meter.Float64Histogram("analytics." + name); err != nil {
			hist = nil
		}
		a.series[name] = hist
	}
	a.mu.Unlock()

	if hist != nil {
		hist.Record(ctx, value, metric.WithAttributes(attribute.String("metric", name)))
	}
}

// Metric devolve os últimos limit pontos da série.
func (a *Analytics) Metric(name string, limit int) []MetricData {
	if limit <= 0 {
		limit = DefaultMetricLimit
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	data := a.metrics[name]
	start := len(data) - limit
	if start < 0 {
		start = 0
	}
	out := make([]MetricData, len(data)-start)
	copy(out, data[start:])
	return out
}

func (a *Analytics) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	var avg float64
	if n := len(a.responseTimes); n > 0 {
		var sum float64
		for _, v := range a.responseTimes {
			sum += v
		}
		avg = sum / float64(n)
	}

	now := a.now()
	return Snapshot{
		TotalRequests:       a.totalRequests,
		TotalErrors:         a.totalErrors,
		AverageResponseTime: int64(math.Round(avg)),
		Uptime:              int64(now.Sub(a.startTime) / time.Second),
		Timestamp:           now.UnixMilli(),
	}
}

func (a *Analytics) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.totalRequests = 0
	a.totalErrors = 0
	a.responseTimes = nil
	a.metrics = make(map[string][]MetricData)
	a.startTime = a.now()
}
