package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/adamwoolhether/bittrex/client/signer"
	"github.com/adamwoolhether/bittrex/client/throttle"
)

// Client is a signed, rate-limited Bittrex REST client.
// All requests share one throttle and one connection pool,
// both released by Close. It is safe for concurrent use.
type Client struct {
	c       *http.Client
	pool    http.RoundTripper
	gate    *throttle.Gate
	baseURL *url.URL
	logger  *slog.Logger
	tracer  trace.Tracer
	metrics *metrics

	mu        sync.RWMutex
	closed    bool
	inflight  sync.WaitGroup
	closeOnce sync.Once
}

func Build(optFns ...Option) (*Client, error) {
	var opts options
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return nil, fmt.Errorf("applying client option: %w", err)
		}
	}

	client := &Client{
		logger: slog.Default(),
		tracer: noop.NewTracerProvider().Tracer("bittrex"),
	}

	if opts.logger != nil {
		client.logger = opts.logger
	}

	if opts.tracer != nil {
		client.tracer = opts.tracer
	}

	client.baseURL = opts.baseURL
	if client.baseURL == nil {
		u, err := url.Parse(DefaultBaseURL)
		if err != nil {
			return nil, fmt.Errorf("parsing default base url: %w", err)
		}
		client.baseURL = u
	}

	if opts.registerer != nil {
		m, err := newMetrics(opts.registerer)
		if err != nil {
			return nil, fmt.Errorf("registering metrics: %w", err)
		}
		client.metrics = m
	}

	hc := &http.Client{Timeout: DefaultTimeout}
	if opts.client != nil {
		cpy := *opts.client
		hc = &cpy
	}

	if opts.timeout != nil {
		hc.Timeout = *opts.timeout
	}

	var transport http.RoundTripper
	switch {
	case opts.rt != nil:
		transport = opts.rt
	case opts.client != nil && opts.client.Transport != nil:
		transport = opts.client.Transport
	default:
		transport = http.DefaultTransport.(*http.Transport).Clone()
	}
	client.pool = transport

	if opts.userAgent != "" {
		transport = userAgent{value: opts.userAgent, base: transport}
	}

	// Requests are signed by the transport, after gate admission,
	// so a request that waited never goes out with a stale nonce.
	hc.Transport = signer.NewRoundTripper(signer.New(opts.creds), transport)

	limiter := opts.limiter
	if limiter == nil {
		cfg := throttle.Config{Limit: DefaultRateLimit, Period: DefaultRatePeriod}
		if opts.throttle != nil {
			cfg = *opts.throttle
		}

		w, err := throttle.NewWindow(cfg.Limit, cfg.Period)
		if err != nil {
			return nil, fmt.Errorf("configuring throttle: %w", err)
		}
		limiter = w
	}

	gate, err := throttle.NewGate(limiter, func() *slog.Logger { return client.logger }, throttle.WithWaitObserver(client.metrics.observeWait))
	if err != nil {
		return nil, fmt.Errorf("configuring throttle: %w", err)
	}
	client.gate = gate

	client.c = hc

	return client, nil
}

// Close waits out the grace delay, stops accepting requests, waits for
// in-flight requests to finish, and then releases the connection pool.
// Only the first call has any effect.
func (c *Client) Close(opts ...CloseOption) error {
	settings := closeOpts{delay: DefaultCloseDelay}
	for _, opt := range opts {
		if err := opt(&settings); err != nil {
			return err
		}
	}

	c.closeOnce.Do(func() {
		time.Sleep(settings.delay)

		c.mu.Lock()
		c.closed = true
		c.mu.Unlock()

		c.inflight.Wait()

		if ci, ok := c.pool.(closeIdler); ok {
			ci.CloseIdleConnections()
		}

		c.logger.Debug("bittrex client closed")
	})

	return nil
}

// acquire registers an in-flight request, failing once the client is closed.
func (c *Client) acquire() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return ErrClosed
	}
	c.inflight.Add(1)

	return nil
}

// fetch issues a signed GET for the relative path and shapes the decoded,
// error-checked JSON value. Shape errors are traced and counted like any
// other failure.
func fetch[T any](ctx context.Context, c *Client, path string, shape func(any) (T, error)) (T, error) {
	var zero T

	if err := c.acquire(); err != nil {
		return zero, err
	}
	defer c.inflight.Done()

	u := c.baseURL.JoinPath(path)

	ctx, span := c.tracer.Start(ctx, "bittrex GET "+path,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", http.MethodGet),
			attribute.String("url.path", u.Path),
		),
	)
	defer span.End()

	start := time.Now()
	v, status, err := c.exec(ctx, u)

	var result T
	if err == nil {
		result, err = shape(v)
	}
	c.metrics.observeRequest(path, err, time.Since(start))

	if status != 0 {
		span.SetAttributes(attribute.Int("http.response.status_code", status))
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logger.Debug("bittrex request failed", "path", path, "error", err)

		return zero, fmt.Errorf("get %s: %w", path, err)
	}

	return result, nil
}

// exec waits for gate admission, then runs the request and decodes the
// response. The client timeout starts after admission. The status code
// is reported whenever a response arrived.
func (c *Client) exec(ctx context.Context, u *url.URL) (any, int, error) {
	if err := c.gate.Wait(ctx, u.Path); err != nil {
		return nil, 0, fmt.Errorf("throttle: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, 0, fmt.Errorf("instantiating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.c.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("exec http do: %w", err)
	}

	defer func() {
		if _, err := io.Copy(io.Discard, resp.Body); err != nil {
			c.logger.Error("failed to discard unused body", "error", err)
		}
		if err := resp.Body.Close(); err != nil {
			c.logger.Error("failed to close response body", "error", err)
		}
	}()

	v, err := decode(resp)

	return v, resp.StatusCode, err
}

// decode parses a JSON response and maps exchange error payloads to errors.
// The status code is not consulted; error bodies carry their own code.
func decode(resp *http.Response) (any, error) {
	mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if mediaType != "application/json" {
		b, err := io.ReadAll(io.LimitReader(resp.Body, maxErrBodySize))
		if err != nil {
			b = []byte("unable to read body")
		}

		return nil, &ResponseError{
			StatusCode: resp.StatusCode,
			Body:       string(b),
		}
	}

	d := json.NewDecoder(resp.Body)
	d.UseNumber()

	var v any
	if err := d.Decode(&v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, &RestError{Err: fmt.Errorf("decoding body: %w", err)}
	}

	if _, err := d.Token(); !errors.Is(err, io.EOF) {
		return nil, &RestError{Err: errors.New("decoding body: unexpected data after JSON value")}
	}

	if err := checkResponse(v); err != nil {
		return nil, err
	}

	return v, nil
}
