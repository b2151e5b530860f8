package throttle

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Window is a rolling-window Limiter. It admits at most limit operations
// within any period-long interval.
type Window struct {
	mu       sync.Mutex
	limit    int
	period   time.Duration
	admitted []time.Time // admission times, oldest first
	now      func() time.Time
}

// NewWindow returns a Window admitting limit operations per period.
func NewWindow(limit int, period time.Duration) (*Window, error) {
	if limit <= 0 || period <= 0 {
		return nil, fmt.Errorf("limit[%d] and period[%s] %w", limit, period, ErrMustNotBeZero)
	}

	w := Window{
		limit:    limit,
		period:   period,
		admitted: make([]time.Time, 0, limit),
		now:      time.Now,
	}

	return &w, nil
}

// Wait blocks until the window has a free slot, then claims it.
// It returns ctx.Err() if ctx ends first, in which case no slot is claimed.
func (w *Window) Wait(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		delay, ok := w.reserve()
		if ok {
			return nil
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// Available reports how many slots the window could admit right now.
func (w *Window) Available() int {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.evict(w.now())

	return w.limit - len(w.admitted)
}

// reserve claims a slot if one is free. Otherwise it returns
// how long until the oldest admission ages out.
func (w *Window) reserve() (time.Duration, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.now()
	w.evict(now)

	if len(w.admitted) < w.limit {
		w.admitted = append(w.admitted, now)
		return 0, true
	}

	return w.admitted[0].Add(w.period).Sub(now), false
}

// evict drops admissions older than one period. Callers hold mu.
func (w *Window) evict(now time.Time) {
	var expired int
	for expired < len(w.admitted) && !now.Before(w.admitted[expired].Add(w.period)) {
		expired++
	}

	if expired > 0 {
		w.admitted = append(w.admitted[:0], w.admitted[expired:]...)
	}
}

// NewTokenBucket returns a token-bucket Limiter holding limit tokens,
// refilled at one token every period/limit.
func NewTokenBucket(limit int, period time.Duration) (*rate.Limiter, error) {
	if limit <= 0 || period <= 0 {
		return nil, fmt.Errorf("limit[%d] and period[%s] %w", limit, period, ErrMustNotBeZero)
	}

	return rate.NewLimiter(rate.Every(period/time.Duration(limit)), limit), nil
}
