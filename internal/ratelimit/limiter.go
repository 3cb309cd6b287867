// Package ratelimit implementa um limitador de janela fixa por chave.
//
// Cada chave tem um contador e o instante de reset da janela. A janela é
// renovada de forma preguiçosa: só quando a chave é consultada depois do reset.
package ratelimit

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Store guarda os contadores das janelas.
type Store interface {
	// Hit incrementa o contador de key, abrindo uma nova janela quando não
	// existe entrada ou a anterior expirou, e devolve o valor do contador e o
	// reset da janela corrente.
	Hit(ctx context.Context, key string, window time.Duration) (count int64, resetAt time.Time, err error)
	Delete(ctx context.Context, key string) error
	Flush(ctx context.Context) error
}

// Result é a decisão para uma requisição.
type Result struct {
	Allowed   bool
	Limit     int
	Count     int64
	Remaining int
	ResetTime time.Time
}

// ResetUnix é o reset em segundos unix, arredondado para cima.
func (r Result) ResetUnix() int64 {
	ms := r.ResetTime.UnixMilli()
	return (ms + 999) / 1000
}

type Limiter struct {
	store       Store
	window      time.Duration
	maxRequests int
	now         func() time.Time
	log         *zap.Logger
}

type Option func(*Limiter)

func WithLogger(l *zap.Logger) Option {
	return func(lim *Limiter) { lim.log = l }
}

// WithClock só afeta o ResetTime usado quando o store falha.
func WithClock(now func() time.Time) Option {
	return func(lim *Limiter) { lim.now = now }
}

func New(store Store, window time.Duration, maxRequests int, opts ...Option) *Limiter {
	l := &Limiter{
		store:       store,
		window:      window,
		maxRequests: maxRequests,
		now:         time.Now,
		log:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Limiter) Window() time.Duration { return l.window }
func (l *Limiter) MaxRequests() int      { return l.maxRequests }

// Check conta uma requisição para key. Falhas do store liberam a requisição.
func (l *Limiter) Check(ctx context.Context, key string) Result {
	count, resetAt, err := l.store.Hit(ctx, key, l.window)
	if err != nil {
		l.log.Warn("rate limit store unavailable, allowing request", zap.String("key", key), zap.Error(err))
		return Result{
			Allowed:   true,
			Limit:     l.maxRequests,
			Remaining: l.maxRequests,
			ResetTime: l.now().Add(l.window),
		}
	}

	remaining := l.maxRequests - int(count)
	if remaining < 0 {
		remaining = 0
	}

	return Result{
		Allowed:   count <= int64(l.maxRequests),
		Limit:     l.maxRequests,
		Count:     count,
		Remaining: remaining,
		ResetTime: resetAt,
	}
}

func (l *Limiter) Reset(ctx context.Context, key string) error {
	return l.store.Delete(ctx, key)
}

func (l *Limiter) Clear(ctx context.Context) error {
	return l.store.Flush(ctx)
}
