package client

import "time"

const (
	// DefaultBaseURL is the Bittrex v3 REST API root.
	DefaultBaseURL = "https://api.bittrex.com/v3"
	// DefaultTimeout bounds each request once the throttle admits it.
	DefaultTimeout = 20 * time.Second
	// DefaultRateLimit requests are admitted per DefaultRatePeriod.
	DefaultRateLimit  = 60
	DefaultRatePeriod = 60 * time.Second
	// DefaultCloseDelay is the grace period [Client.Close] waits before shutting down.
	DefaultCloseDelay = 250 * time.Millisecond
)

// maxErrBodySize caps the amount of response body read when
// building a [ResponseError]. This prevents unbounded memory
// usage when a large non-JSON response arrives.
const maxErrBodySize = 4 << 10 // 4KB

const (
	pathMarkets      = "markets"
	pathTickers      = "markets/tickers"
	pathBalances     = "balances"
	pathAccount      = "account"
	pathOpenOrders   = "orders/open"
	pathClosedOrders = "orders/closed"
)

// closeIdler is implemented by transports that pool connections.
type closeIdler interface {
	CloseIdleConnections()
}
