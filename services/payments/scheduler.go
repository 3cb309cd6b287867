package payments

import (
	"context"
	"sync"
	"time"
)

// Scheduler executa tarefas com atraso. Shutdown cancela as que ainda não
// dispararam e espera as que estão rodando.
type Scheduler struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

func NewScheduler() *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{ctx: ctx, cancel: cancel}
}

// After agenda task para daqui a d. Devolve false se o scheduler já foi encerrado.
func (s *Scheduler) After(d time.Duration, task func(ctx context.Context)) bool {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()

		timer := time.NewTimer(d)
		defer timer.Stop()

		select {
		case <-s.ctx.Done():
		case <-timer.C:
			task(s.ctx)
		}
	}()
	return true
}

// Shutdown é idempotente; devolve ctx.Err() se ctx expirar antes das tarefas terminarem.
func (s *Scheduler) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
