// Command bittrex queries the Bittrex v3 REST API from the command line.
//
// Credentials are read from BITTREX_API_KEY and BITTREX_API_SECRET, or a
// .env file in the working directory:
//
//	bittrex markets
//	bittrex tickers BTC-USDT ETH-USDT --format yaml
//	bittrex balances BTC
//	bittrex orders open
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/adamwoolhether/bittrex"
	"github.com/adamwoolhether/bittrex/client"
	"github.com/adamwoolhether/bittrex/cmd/bittrex/internal/config"
)

// settings holds the persistent flag values shared by every command.
type settings struct {
	envFile string
	key     string
	secret  string
	baseURL string
	timeout time.Duration
	format  string
	logFile string
	verbose bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var s settings

	root := &cobra.Command{
		Use:   "bittrex",
		Short: "Query the Bittrex v3 REST API",
		Long: `bittrex issues signed, rate-limited read-only requests against the
Bittrex v3 REST API. Public commands (markets, tickers) work without
credentials; account commands need BITTREX_API_KEY and BITTREX_API_SECRET.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&s.envFile, "env-file", ".env", "Env file to load credentials from, if present")
	flags.StringVar(&s.key, "key", "", "API key (overrides "+config.EnvAPIKey+")")
	flags.StringVar(&s.secret, "secret", "", "API secret (overrides "+config.EnvAPISecret+")")
	flags.StringVar(&s.baseURL, "base-url", "", "API base URL (overrides "+config.EnvBaseURL+")")
	flags.DurationVar(&s.timeout, "timeout", 0, "Per-request timeout (overrides "+config.EnvTimeout+")")
	flags.StringVar(&s.format, "format", "json", "Output format: json, yaml")
	flags.StringVar(&s.logFile, "log-file", "", "Write logs to a rotated file instead of stderr")
	flags.BoolVarP(&s.verbose, "verbose", "v", false, "Log debug output")

	root.AddCommand(
		newQueryCmd(&s, "markets", "List the markets listed on the exchange", cobra.NoArgs,
			func(ctx context.Context, c *client.Client, _ []string) (any, error) {
				return c.Markets(ctx)
			}),
		newQueryCmd(&s, "tickers [SYMBOL...]", "Show market tickers, e.g. BTC-USDT", cobra.ArbitraryArgs,
			func(ctx context.Context, c *client.Client, args []string) (any, error) {
				return c.Tickers(ctx, args...)
			}),
		newQueryCmd(&s, "balances [CURRENCY...]", "Show account balances, e.g. BTC", cobra.ArbitraryArgs,
			func(ctx context.Context, c *client.Client, args []string) (any, error) {
				return c.Balances(ctx, args...)
			}),
		newQueryCmd(&s, "account", "Show account details", cobra.NoArgs,
			func(ctx context.Context, c *client.Client, _ []string) (any, error) {
				return c.Account(ctx)
			}),
		newOrdersCmd(&s),
	)

	return root
}

func newOrdersCmd(s *settings) *cobra.Command {
	orders := &cobra.Command{
		Use:   "orders",
		Short: "List the account's orders",
	}

	orders.AddCommand(
		newQueryCmd(s, "open", "List open orders", cobra.NoArgs,
			func(ctx context.Context, c *client.Client, _ []string) (any, error) {
				return c.OpenOrders(ctx)
			}),
		newQueryCmd(s, "closed", "List closed orders", cobra.NoArgs,
			func(ctx context.Context, c *client.Client, _ []string) (any, error) {
				return c.ClosedOrders(ctx)
			}),
	)

	return orders
}

type queryFn func(ctx context.Context, c *client.Client, args []string) (any, error)

// newQueryCmd wraps fn in a command that builds a client, runs one
// query, prints the result and closes the client.
func newQueryCmd(s *settings, use, short string, args cobra.PositionalArgs, fn queryFn) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := formatter(s.format); err != nil {
				return err
			}

			logger, closeLog := newLogger(s, cmd.ErrOrStderr())
			defer closeLog()

			c, err := newClient(cmd, s, logger)
			if err != nil {
				return err
			}
			defer c.Close()

			result, err := fn(cmd.Context(), c, args)
			if err != nil {
				return describe(err)
			}

			return render(cmd.OutOrStdout(), s.format, result)
		},
	}
}

func newClient(cmd *cobra.Command, s *settings, logger *slog.Logger) (*client.Client, error) {
	cfg, err := config.Read(s.envFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("key") {
		cfg.APIKey = s.key
	}
	if flags.Changed("secret") {
		cfg.APISecret = s.secret
	}
	if flags.Changed("base-url") {
		cfg.BaseURL = s.baseURL
	}
	if flags.Changed("timeout") {
		cfg.Timeout = s.timeout
	}

	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	opts := []client.Option{
		client.WithCredentials(cfg.APIKey, cfg.APISecret),
		client.WithTimeout(cfg.Timeout),
		client.WithRateLimit(cfg.RateLimit, cfg.RatePeriod),
		client.WithLogger(logger),
		client.WithUserAgent("bittrex-cli"),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, client.WithBaseURL(cfg.BaseURL))
	}

	c, err := bittrex.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("building client: %w", err)
	}

	return c, nil
}

// newLogger writes JSON records to stderr, or to a rotated file when
// --log-file is set.
func newLogger(s *settings, stderr io.Writer) (*slog.Logger, func()) {
	level := slog.LevelInfo
	if s.verbose {
		level = slog.LevelDebug
	}

	w := stderr
	closeFn := func() {}
	if s.logFile != "" {
		lj := &lumberjack.Logger{
			Filename:   s.logFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}
		w = lj
		closeFn = func() { lj.Close() }
	}

	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})), closeFn
}

// describe adds a hint for the error kinds a user can act on.
func describe(err error) error {
	var respErr *client.ResponseError

	switch {
	case errors.Is(err, client.ErrInvalidAuthentication):
		return fmt.Errorf("invalid authentication, please provide a correct API key and secret: %w", err)
	case errors.As(err, &respErr):
		return fmt.Errorf("invalid response: %w", err)
	}

	return err
}
