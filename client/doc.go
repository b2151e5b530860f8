// Package client implements a signed, rate-limited client for the
// Bittrex v3 REST API.
//
// # Building a Client
//
// Use [Build] to create a [Client] with functional options:
//
//	c, err := client.Build(
//		client.WithCredentials(key, secret),
//		client.WithTimeout(10 * time.Second),
//	)
//	defer c.Close()
//
// Public endpoints such as [Client.Markets] and [Client.Tickers] work
// without credentials. Private endpoints return [ErrInvalidAuthentication]
// when the exchange rejects the key.
//
// # Rate Limiting
//
// Every request passes through one shared throttle, 60 requests per
// rolling minute by default. Requests over the limit wait for a free
// slot; they are never rejected. Use [WithRateLimit] to change the limit
// or [WithLimiter] to inject a [throttle.Limiter] of your own.
//
// # Errors
//
// All exchange errors match [ErrRest]. Check the kind with [errors.Is]
// and [errors.As]:
//
//	_, err := c.Account(ctx)
//	var apiErr *client.APIError
//	switch {
//	case errors.Is(err, client.ErrInvalidAuthentication):
//		// prompt for credentials
//	case errors.As(err, &apiErr):
//		log.Println(apiErr.Code, apiErr.Message)
//	}
//
// For request signing details see the
// [github.com/adamwoolhether/bittrex/client/signer] package.
package client
