package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/AmmannChristian/go-pandago/apierr"
	"github.com/AmmannChristian/go-pandago/client"
	"github.com/AmmannChristian/go-pandago/config"
	"github.com/AmmannChristian/go-pandago/internal/logging"
	"github.com/AmmannChristian/go-pandago/oauth2client"
	"github.com/AmmannChristian/go-pandago/orders"
	"github.com/AmmannChristian/go-pandago/outlets"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

var errUsage = errors.New("usage")

// overrides replaces the network endpoints in tests.
type overrides struct {
	tokenHTTP  *http.Client
	apiHTTP    client.Doer
	apiBaseURL string
}

type app struct {
	stdout io.Writer
	tokens *oauth2client.TokenManager
	api    *client.Client
}

// tokenOutput is printed by the token command.
type tokenOutput struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// cancelOutput is printed by the order cancel command.
type cancelOutput struct {
	OrderID   string              `json:"order_id"`
	Reason    orders.CancelReason `json:"reason"`
	Cancelled bool                `json:"cancelled"`
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	return runWith(ctx, args, stdout, stderr, overrides{})
}

func runWith(ctx context.Context, args []string, stdout, stderr io.Writer, ov overrides) int {
	fs := flag.NewFlagSet("pandago", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { printUsage(fs) }

	configPath := fs.String("config", "", "path to a YAML, JSON or TOML config file")
	envFile := fs.String("env", "", "dotenv file loaded before reading PANDAGO_* variables")
	verbose := fs.Bool("v", false, "enable debug logging")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return exitUsage
	}

	var envFiles []string
	if *envFile != "" {
		envFiles = append(envFiles, *envFile)
	}
	cfg, err := config.Load(*configPath, envFiles...)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, apierr.Describe(err))
		return exitError
	}

	logger := logging.New(stderr, cfg.Environment(), *verbose)
	defer func() { _ = logger.Sync() }()

	a, err := newApp(cfg, logger, stdout, ov)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, apierr.Describe(err))
		return exitError
	}

	if err := a.dispatch(ctx, fs.Args()); err != nil {
		if errors.Is(err, errUsage) {
			_, _ = fmt.Fprintln(stderr, err)
			fs.Usage()
			return exitUsage
		}
		logger.Debug("command failed", zap.String("kind", apierr.KindOf(err).String()), zap.Error(err))
		_, _ = fmt.Fprintln(stderr, apierr.Describe(err))
		return exitError
	}
	return exitOK
}

func newApp(cfg *config.Config, logger *zap.Logger, stdout io.Writer, ov overrides) (*app, error) {
	tokenOpts := []oauth2client.Option{oauth2client.WithLogger(logger)}
	if ov.tokenHTTP != nil {
		tokenOpts = append(tokenOpts, oauth2client.WithHTTPClient(ov.tokenHTTP))
	}
	tokens, err := oauth2client.NewTokenManager(cfg, tokenOpts...)
	if err != nil {
		return nil, err
	}

	clientOpts := []client.Option{client.WithLogger(logger)}
	if ov.apiHTTP != nil {
		clientOpts = append(clientOpts, client.WithHTTPClient(ov.apiHTTP))
	}
	if ov.apiBaseURL != "" {
		clientOpts = append(clientOpts, client.WithBaseURL(ov.apiBaseURL))
	}
	api, err := client.New(cfg, tokens, clientOpts...)
	if err != nil {
		return nil, err
	}

	return &app{stdout: stdout, tokens: tokens, api: api}, nil
}

func (a *app) dispatch(ctx context.Context, args []string) error {
	switch args[0] {
	case "token":
		if len(args) != 1 {
			return usageError("token takes no arguments")
		}
		return a.token(ctx)
	case "order":
		return a.order(ctx, args[1:])
	case "outlet":
		return a.outlet(ctx, args[1:])
	default:
		return usageError("unknown command %q", args[0])
	}
}

func (a *app) token(ctx context.Context) error {
	tok, err := a.tokens.Token(ctx)
	if err != nil {
		return err
	}
	return a.print(tokenOutput{AccessToken: tok.AccessToken, ExpiresAt: tok.ExpiresAt.UTC()})
}

func (a *app) order(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("order requires a subcommand")
	}
	svc := orders.NewService(a.api)

	switch sub, rest := args[0], args[1:]; sub {
	case "get":
		if len(rest) != 1 {
			return usageError("order get <order-id>")
		}
		order, err := svc.Get(ctx, rest[0])
		if err != nil {
			return err
		}
		return a.print(order)
	case "cancel":
		if len(rest) != 2 {
			return usageError("order cancel <order-id> <reason>")
		}
		reason := orders.CancelReason(rest[1])
		if err := svc.Cancel(ctx, rest[0], reason); err != nil {
			return err
		}
		return a.print(cancelOutput{OrderID: rest[0], Reason: reason, Cancelled: true})
	case "coordinates":
		if len(rest) != 1 {
			return usageError("order coordinates <order-id>")
		}
		coords, err := svc.Coordinates(ctx, rest[0])
		if err != nil {
			return err
		}
		return a.print(coords)
	default:
		return usageError("unknown order subcommand %q", sub)
	}
}

func (a *app) outlet(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("outlet requires a subcommand")
	}
	svc := outlets.NewService(a.api)

	switch sub, rest := args[0], args[1:]; sub {
	case "get":
		if len(rest) != 1 {
			return usageError("outlet get <client-vendor-id>")
		}
		outlet, err := svc.Get(ctx, rest[0])
		if err != nil {
			return err
		}
		return a.print(outlet)
	case "list":
		list, err := svc.List(ctx)
		if err != nil {
			return err
		}
		return a.print(list)
	default:
		return usageError("unknown outlet subcommand %q", sub)
	}
}

func (a *app) print(v any) error {
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func usageError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errUsage, fmt.Sprintf(format, args...))
}

func printUsage(fs *flag.FlagSet) {
	out := fs.Output()
	_, _ = fmt.Fprintln(out, "Usage: pandago [flags] <command> [args]")
	_, _ = fmt.Fprintln(out, "")
	_, _ = fmt.Fprintln(out, "Commands:")
	_, _ = fmt.Fprintln(out, "  token                                 fetch an access token")
	_, _ = fmt.Fprintln(out, "  order get <order-id>                  show an order")
	_, _ = fmt.Fprintln(out, "  order cancel <order-id> <reason>      cancel an order")
	_, _ = fmt.Fprintln(out, "  order coordinates <order-id>          show the rider position")
	_, _ = fmt.Fprintln(out, "  outlet get <client-vendor-id>         show an outlet")
	_, _ = fmt.Fprintln(out, "  outlet list                           list outlets")
	_, _ = fmt.Fprintln(out, "")
	_, _ = fmt.Fprintln(out, "Flags:")
	fs.PrintDefaults()
}
