package client

import "context"

// Markets returns every market listed on the exchange.
func (c *Client) Markets(ctx context.Context) ([]Object, error) {
	return fetch(ctx, c, pathMarkets, asObjects)
}

// Tickers returns the market tickers keyed by symbol, e.g. "BTC-USDT".
// With no symbols every ticker is returned. Symbols the exchange
// doesn't list are left out of the result.
func (c *Client) Tickers(ctx context.Context, symbols ...string) (map[string]Object, error) {
	tickers, err := fetch(ctx, c, pathTickers, asObjects)
	if err != nil {
		return nil, err
	}

	return indexBy(tickers, "symbol", symbols), nil
}

// Balances returns the account balances keyed by currency symbol, e.g. "BTC".
// With no symbols every balance is returned. Symbols without a balance
// are left out of the result. Requires credentials.
func (c *Client) Balances(ctx context.Context, symbols ...string) (map[string]Object, error) {
	balances, err := fetch(ctx, c, pathBalances, asObjects)
	if err != nil {
		return nil, err
	}

	return indexBy(balances, "currencySymbol", symbols), nil
}

// Account returns the account details. Requires credentials.
func (c *Client) Account(ctx context.Context) (Object, error) {
	return fetch(ctx, c, pathAccount, asObject)
}

// OpenOrders returns the account's open orders. Requires credentials.
func (c *Client) OpenOrders(ctx context.Context) ([]Object, error) {
	return fetch(ctx, c, pathOpenOrders, asObjects)
}

// ClosedOrders returns the account's closed orders. Requires credentials.
func (c *Client) ClosedOrders(ctx context.Context) ([]Object, error) {
	return fetch(ctx, c, pathClosedOrders, asObjects)
}
