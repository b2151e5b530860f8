package throttle

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"
)

var (
	ErrMustNotBeZero = errors.New("must be greater than zero")
	ErrNilLimiter    = errors.New("limiter must not be nil")
	ErrWaitingFailed = errors.New("limiter waiting failed")
	ErrContextEnded  = errors.New("throttle context ended")
)

// Limiter admits one operation per call to Wait, blocking until the
// operation may proceed or ctx ends. *rate.Limiter satisfies it.
type Limiter interface {
	Wait(ctx context.Context) error
}

// Config defines the throttler's admission Limit per Period.
type Config struct {
	Limit  int
	Period time.Duration
}

// Gate admits operations through a shared Limiter, reporting
// each wait to its logger and observer.
type Gate struct {
	limiter Limiter
	logFn   func() *slog.Logger
	observe func(waited time.Duration)
}

// throttle is an http.RoundTripper, gating outbound calls
// through a Gate.
type throttle struct {
	gate *Gate
	next http.RoundTripper
}
