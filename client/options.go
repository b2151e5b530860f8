package client

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"

	"github.com/adamwoolhether/bittrex/client/signer"
	"github.com/adamwoolhether/bittrex/client/throttle"
)

// Option is a functional option for configuring a [Client] via [Build].
type Option func(*options) error
type options struct {
	client     *http.Client
	rt         http.RoundTripper
	timeout    *time.Duration
	userAgent  string
	baseURL    *url.URL
	creds      signer.Credentials
	throttle   *throttle.Config
	limiter    throttle.Limiter
	logger     *slog.Logger
	tracer     trace.Tracer
	registerer prometheus.Registerer
}

// WithCredentials sets the API key and secret used to sign requests.
// Without them only public endpoints succeed.
func WithCredentials(key, secret string) Option {
	return func(c *options) error {
		c.creds = signer.Credentials{Key: key, Secret: secret}
		return nil
	}
}

// WithBaseURL replaces [DefaultBaseURL], e.g. to point the [Client] at a test server.
func WithBaseURL(raw string) Option {
	return func(c *options) error {
		u, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("parsing base url: %w", err)
		}
		if u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("base url %q must be absolute", raw)
		}
		c.baseURL = u
		return nil
	}
}

// WithClient replaces the default [http.Client] used by the [Client].
// Its transport, if set, becomes the shared connection pool.
func WithClient(hc *http.Client) Option {
	return func(c *options) error {
		if hc == nil {
			return errors.New("client must not be nil")
		}
		c.client = hc
		return nil
	}
}

// WithTransport sets a custom [http.RoundTripper] as the shared base transport.
// It is released by [Client.Close].
func WithTransport(rt http.RoundTripper) Option {
	return func(c *options) error {
		if rt == nil {
			return errors.New("transport must not be nil")
		}
		c.rt = rt
		return nil
	}
}

// WithTimeout sets the overall per-request timeout, [DefaultTimeout] otherwise.
func WithTimeout(d time.Duration) Option {
	return func(c *options) error {
		if d < 0 {
			return errors.New("timeout must not be negative")
		}
		c.timeout = &d
		return nil
	}
}

// WithUserAgent adds a persistent User-Agent header to all outgoing requests.
func WithUserAgent(header string) Option {
	return func(c *options) error {
		c.userAgent = header
		return nil
	}
}

// WithRateLimit admits at most limit requests in any rolling period.
// The default is [DefaultRateLimit] per [DefaultRatePeriod].
func WithRateLimit(limit int, period time.Duration) Option {
	return func(c *options) error {
		if limit <= 0 || period <= 0 {
			return fmt.Errorf("limit[%d] and period[%s] %w", limit, period, throttle.ErrMustNotBeZero)
		}
		c.throttle = &throttle.Config{Limit: limit, Period: period}
		return nil
	}
}

// WithLimiter injects the throttle shared by every request,
// taking precedence over [WithRateLimit].
func WithLimiter(l throttle.Limiter) Option {
	return func(c *options) error {
		if l == nil {
			return throttle.ErrNilLimiter
		}
		c.limiter = l
		return nil
	}
}

// WithLogger injects a custom [slog.Logger] into the [Client].
func WithLogger(logger *slog.Logger) Option {
	return func(c *options) error {
		c.logger = logger
		return nil
	}
}

// WithTracer records a client span for every request.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *options) error {
		if tracer == nil {
			return errors.New("tracer must not be nil")
		}
		c.tracer = tracer
		return nil
	}
}

// WithMetrics registers the client's Prometheus collectors with reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(c *options) error {
		if reg == nil {
			return errors.New("registerer must not be nil")
		}
		c.registerer = reg
		return nil
	}
}

// userAgent is an http.RoundTripper, enabling the persistent User-Agent header.
type userAgent struct {
	value string
	base  http.RoundTripper
}

func (ua userAgent) RoundTrip(r *http.Request) (*http.Response, error) {
	cpy := r.Clone(r.Context())
	cpy.Header.Set("User-Agent", ua.value)
	return ua.base.RoundTrip(cpy)
}

func (ua userAgent) CloseIdleConnections() {
	if ci, ok := ua.base.(closeIdler); ok {
		ci.CloseIdleConnections()
	}
}

// CloseOption is a functional option for [Client.Close].
type CloseOption func(*closeOpts) error

type closeOpts struct {
	delay time.Duration
}

// WithCloseDelay sets the grace period [Client.Close] waits before
// shutting down, [DefaultCloseDelay] otherwise.
func WithCloseDelay(d time.Duration) CloseOption {
	return func(opts *closeOpts) error {
		if d < 0 {
			return errors.New("close delay must not be negative")
		}
		opts.delay = d
		return nil
	}
}
