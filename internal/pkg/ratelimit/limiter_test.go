package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock не двигает время сам, а только записывает запрошенные ожидания
type fakeClock struct {
	mu    sync.Mutex
	now   time.Time
	waits []time.Duration
	block bool
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.waits = append(c.waits, d)

	if c.block {
		return make(chan time.Time)
	}
	ch := make(chan time.Time, 1)
	ch <- c.now.Add(d)
	return ch
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func (c *fakeClock) Waits() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Duration(nil), c.waits...)
}

func TestLimiter_SerializesCalls(t *testing.T) {
	clock := newFakeClock()
	l := NewWithClock(time.Second, clock)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, l.Acquire(ctx))
	}

	// первый вызов проходит сразу, следующие ждут 1s и 2s
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, clock.Waits())
}

func TestLimiter_NoWaitAfterInterval(t *testing.T) {
	clock := newFakeClock()
	l := NewWithClock(time.Second, clock)
	ctx := context.Background()

	require.NoError(t, l.Acquire(ctx))
	clock.Advance(time.Second)
	require.NoError(t, l.Acquire(ctx))
	clock.Advance(5 * time.Second)
	require.NoError(t, l.Acquire(ctx))

	assert.Empty(t, clock.Waits())
}

func TestLimiter_CancelledWaitReleasesSlot(t *testing.T) {
	clock := newFakeClock()
	l := NewWithClock(time.Second, clock)

	require.NoError(t, l.Acquire(context.Background()))

	clock.block = true
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := l.Acquire(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	clock.block = false
	require.NoError(t, l.Acquire(context.Background()))

	// отменённое резервирование не сдвигает очередь
	assert.Equal(t, []time.Duration{time.Second, time.Second}, clock.Waits())
}

func TestLimiter_ZeroIntervalNeverWaits(t *testing.T) {
	clock := newFakeClock()
	l := NewWithClock(0, clock)

	for i := 0; i < 5; i++ {
		require.NoError(t, l.Acquire(context.Background()))
	}
	assert.Empty(t, clock.Waits())
}
