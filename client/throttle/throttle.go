package throttle

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// Option configures a Gate.
type Option func(*Gate)

// WithWaitObserver registers fn to receive the time each operation
// spent waiting on the limiter.
func WithWaitObserver(fn func(waited time.Duration)) Option {
	return func(g *Gate) {
		g.observe = fn
	}
}

// NewGate returns a Gate admitting operations through l. logFn lazily
// resolves the logger at admission time, making option ordering
// irrelevant. A nil-returning logFn disables wait logging.
func NewGate(l Limiter, logFn func() *slog.Logger, opts ...Option) (*Gate, error) {
	if l == nil {
		return nil, ErrNilLimiter
	}

	if logFn == nil {
		logFn = func() *slog.Logger { return nil }
	}

	g := &Gate{
		limiter: l,
		logFn:   logFn,
	}

	for _, opt := range opts {
		opt(g)
	}

	return g, nil
}

// Wait blocks until the limiter admits one operation on path or ctx ends.
// Only ctx bounds the wait.
func (g *Gate) Wait(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w early: %w", ErrContextEnded, err)
	}

	start := time.Now()

	err := g.limiter.Wait(ctx)
	waited := time.Since(start)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWaitingFailed, err)
	}

	if g.observe != nil {
		g.observe(waited)
	}

	if waited >= time.Millisecond {
		if logger := g.logFn(); logger != nil {
			logger.Info("throttle wait complete", "waited", waited.String(), "path", path)
		}
	}

	if err := ctx.Err(); err != nil { // Check context hasn't expired again.
		return fmt.Errorf("%w post-wait: %w", ErrContextEnded, err)
	}

	return nil
}

// NewRoundTripper returns an http.RoundTripper that throttles outbound
// requests through a Gate over l before forwarding them to next.
//
// The wait runs under the request context, so an http.Client.Timeout
// also bounds time spent throttled. Callers that must only ever delay
// should call [Gate.Wait] before handing the request to the client.
func NewRoundTripper(l Limiter, logFn func() *slog.Logger, next http.RoundTripper, opts ...Option) (http.RoundTripper, error) {
	g, err := NewGate(l, logFn, opts...)
	if err != nil {
		return nil, err
	}

	return &throttle{gate: g, next: next}, nil
}

func (t *throttle) RoundTrip(r *http.Request) (*http.Response, error) {
	if err := t.gate.Wait(r.Context(), r.URL.Path); err != nil {
		return nil, err
	}

	return t.next.RoundTrip(r)
}

// CloseIdleConnections forwards to the wrapped transport when it pools connections.
func (t *throttle) CloseIdleConnections() {
	type closeIdler interface{ CloseIdleConnections() }
	if ci, ok := t.next.(closeIdler); ok {
		ci.CloseIdleConnections()
	}
}
