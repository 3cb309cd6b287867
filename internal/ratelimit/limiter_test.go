package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newMemoryLimiter(window time.Duration, max int) (*Limiter, *MemoryStore, *fakeClock) {
	clock := &fakeClock{t: time.UnixMilli(1_700_000_000_500)}
	store := NewMemoryStore(WithMemoryClock(clock.Now))
	return New(store, window, max, WithClock(clock.Now)), store, clock
}

func TestCheckCountsWithinWindow(t *testing.T) {
	// Arrange
	ctx := context.Background()
	lim, _, _ := newMemoryLimiter(time.Minute, 3)

	// Act + Assert
	for n := 1; n <= 5; n++ {
		res := lim.Check(ctx, "10.0.0.1")
		assert.Equal(t, int64(n), res.Count)
		assert.Equal(t, n <= 3, res.Allowed, "check %d", n)
		assert.GreaterOrEqual(t, res.Remaining, 0)
		assert.Equal(t, max(0, 3-n), res.Remaining)
		assert.Equal(t, 3, res.Limit)
	}
}

func TestCheckRestartsAfterWindow(t *testing.T) {
	ctx := context.Background()
	lim, _, clock := newMemoryLimiter(time.Minute, 2)

	first := lim.Check(ctx, "k")
	lim.Check(ctx, "k")
	assert.False(t, lim.Check(ctx, "k").Allowed)

	// ainda dentro da janela no instante exato do reset
	clock.Advance(time.Minute)
	assert.Equal(t, int64(4), lim.Check(ctx, "k").Count)

	clock.Advance(time.Millisecond)
	res := lim.Check(ctx, "k")
	assert.Equal(t, int64(1), res.Count)
	assert.True(t, res.Allowed)
	assert.True(t, res.ResetTime.After(first.ResetTime))
}

func TestKeysAreIndependent(t *testing.T) {
	ctx := context.Background()
	lim, _, _ := newMemoryLimiter(time.Minute, 1)

	assert.True(t, lim.Check(ctx, "a").Allowed)
	assert.False(t, lim.Check(ctx, "a").Allowed)
	assert.True(t, lim.Check(ctx, "b").Allowed)
}

func TestResetAndClear(t *testing.T) {
	ctx := context.Background()
	lim, store, _ := newMemoryLimiter(time.Minute, 1)

	lim.Check(ctx, "a")
	lim.Check(ctx, "b")
	assert.NoError(t, lim.Reset(ctx, "a"))
	assert.True(t, lim.Check(ctx, "a").Allowed)
	assert.Equal(t, 2, store.Len())

	assert.NoError(t, lim.Clear(ctx))
	assert.Equal(t, 0, store.Len())
}

func TestResetUnixIsCeiling(t *testing.T) {
	res := Result{ResetTime: time.UnixMilli(1_700_000_060_500)}
	assert.Equal(t, int64(1_700_000_061), res.ResetUnix())

	res = Result{ResetTime: time.UnixMilli(1_700_000_060_000)}
	assert.Equal(t, int64(1_700_000_060), res.ResetUnix())
}

type MockStore struct {
	mock.Mock
}

func (m *MockStore) Hit(ctx context.Context, key string, window time.Duration) (int64, time.Time, error) {
	args := m.Called(ctx, key, window)
	return args.Get(0).(int64), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockStore) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockStore) Flush(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func TestCheckFailsOpenWhenStoreErrors(t *testing.T) {
	// Arrange
	ctx := context.Background()
	store := new(MockStore)
	store.On("Hit", ctx, "k", time.Minute).Return(int64(0), time.Time{}, errors.New("connection refused"))
	lim := New(store, time.Minute, 10)

	// Act
	res := lim.Check(ctx, "k")

	// Assert
	assert.True(t, res.Allowed)
	assert.Equal(t, 10, res.Remaining)
	store.AssertExpectations(t)
}
