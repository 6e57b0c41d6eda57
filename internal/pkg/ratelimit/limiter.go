// Package ratelimit реализует общий для процесса ограничитель исходящих запросов.
package ratelimit

import (
	"context"
	"errors"
	"time"

	"golang.org/x/time/rate"
)

// ErrReservation - ограничитель не смог выдать резервирование
var ErrReservation = errors.New("ratelimit: reservation not allowed")

// Clock - источник времени ограничителя
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time                         { return time.Now() }
func (systemClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// SystemClock - реальное время
var SystemClock Clock = systemClock{}

// Limiter пропускает не более одного вызова за interval.
// Вызовы из разных горутин выстраиваются в очередь по времени резервирования.
type Limiter struct {
	limiter *rate.Limiter
	clock   Clock
}

// New создаёт ограничитель на реальном времени
func New(interval time.Duration) *Limiter {
	return NewWithClock(interval, SystemClock)
}

// NewWithClock создаёт ограничитель с заданным источником времени
func NewWithClock(interval time.Duration, clock Clock) *Limiter {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}

	return &Limiter{
		limiter: rate.NewLimiter(limit, 1),
		clock:   clock,
	}
}

// Acquire блокируется, пока вызов не будет разрешён, либо до отмены ctx.
// При отмене резервирование возвращается, следующий вызов не ждёт за отменённый.
func (l *Limiter) Acquire(ctx context.Context) error {
	now := l.clock.Now()
	r := l.limiter.ReserveN(now, 1)
	if !r.OK() {
		return ErrReservation
	}

	delay := r.DelayFrom(now)
	if delay <= 0 {
		return nil
	}

	select {
	case <-l.clock.After(delay):
		return nil
	case <-ctx.Done():
		r.CancelAt(l.clock.Now())
		return ctx.Err()
	}
}
