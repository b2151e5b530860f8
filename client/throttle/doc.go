// Package throttle rate-limits outbound HTTP requests through a shared
// [Limiter], either as a [Gate] called before each request or as an
// [http.RoundTripper].
//
// # Limiters
//
// [NewWindow] returns a rolling-window limiter that admits at most limit
// operations in any period-long window:
//
//	w, err := throttle.NewWindow(60, time.Minute)
//
// [NewTokenBucket] returns a [golang.org/x/time/rate] token bucket with the
// same nominal rate. It refills steadily instead of per window:
//
//	tb, err := throttle.NewTokenBucket(60, time.Minute)
//
// # Usage
//
// Wrap an existing transport with [NewRoundTripper]:
//
//	rt, err := throttle.NewRoundTripper(
//		w,
//		func() *slog.Logger { return slog.Default() },
//		http.DefaultTransport,
//	)
//	httpClient := &http.Client{Transport: rt}
//
// When the limit is exhausted, outbound requests block until a slot
// frees or the request context is cancelled. Requests are never dropped.
//
// A round tripper waits under the request context, which an
// [http.Client] Timeout bounds. To keep the timeout off the wait, admit
// through a [Gate] first:
//
//	g, err := throttle.NewGate(w, nil)
//	if err := g.Wait(ctx, "/markets"); err != nil {
//		return err
//	}
//	resp, err := httpClient.Do(req)
package throttle
