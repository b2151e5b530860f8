// Package bittrex exposes the Bittrex REST client builder.
package bittrex

import (
	"github.com/adamwoolhether/bittrex/client"
)

// NewClient instantiates a new *Client with the provided options.
// If not specified, public-only access, a 60 requests per minute
// throttle and a 20 second timeout are used.
func NewClient(opts ...client.Option) (*client.Client, error) {
	return client.Build(opts...)
}
