// Command pact-stub-server serves HTTP responses recorded in consumer
// contract ("pact") documents, for exercising a consumer against a
// provider that does not yet exist or is inconvenient to run.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pact-foundation/pact-stub-server/internal/cli"
	"github.com/pact-foundation/pact-stub-server/internal/match"
	"github.com/pact-foundation/pact-stub-server/internal/obslog"
	"github.com/pact-foundation/pact-stub-server/internal/registry"
	"github.com/pact-foundation/pact-stub-server/internal/source"
	"github.com/pact-foundation/pact-stub-server/internal/stub"
	"github.com/pact-foundation/pact-stub-server/internal/watch"
)

// version is overridden at link time via -ldflags "-X main.version=...".
var version = "dev"

var flags cli.Flags

var rootCmd = &cobra.Command{
	Use:           "pact-stub-server",
	Short:         "Stub HTTP responses recorded in pact contract documents",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion, _ := cmd.Flags().GetBool("version"); showVersion {
			fmt.Println(version)
			return nil
		}
		cfg, err := cli.BuildConfig(flags)
		if err != nil {
			return exitCode{code: 2, err: err}
		}
		return run(cmd.Context(), cfg)
	},
}

func init() {
	f := rootCmd.Flags()
	f.StringVarP(&flags.LogLevel, "loglevel", "l", "info", "one of error|warn|info|debug|trace|none")
	f.StringArrayVarP(&flags.Files, "file", "f", nil, "add a File source (repeatable)")
	f.StringArrayVarP(&flags.Dirs, "dir", "d", nil, "add a Dir source (repeatable)")
	f.StringVarP(&flags.Extension, "extension", "e", "", "file-extension filter for Dir sources (default json); requires --dir")
	f.StringArrayVarP(&flags.URLs, "url", "u", nil, "add a URL source (repeatable)")
	f.StringVarP(&flags.BrokerURL, "broker-url", "b", "", "add a Broker source (default from PACT_BROKER_BASE_URL)")
	f.StringVar(&flags.User, "user", "", "user[:pass] Basic auth for URL/Broker; conflicts with --token")
	f.StringVarP(&flags.Token, "token", "t", "", "Bearer auth for URL/Broker; conflicts with --user")
	f.IntVarP(&flags.Port, "port", "p", 0, "listen port (default OS-assigned)")
	f.BoolVarP(&flags.CORS, "cors", "o", false, "enable CORS preflight auto-reply")
	f.BoolVar(&flags.CORSReferer, "cors-referer", false, "use Referer as the injected origin; requires --cors")
	f.BoolVar(&flags.InsecureTLS, "insecure-tls", false, "disable TLS cert validation on outbound fetches")
	f.StringVarP(&flags.ProviderState, "provider-state", "s", "", "provider-state filter regex")
	f.StringVar(&flags.ProviderStateHeaderName, "provider-state-header-name", "", "per-request header overriding the provider-state regex")
	f.BoolVar(&flags.EmptyProviderState, "empty-provider-state", false, "include interactions with empty/absent states; requires --provider-state")
	f.StringArrayVar(&flags.ConsumerNamePatterns, "consumer-name", nil, "broker consumer-name filter regex (repeatable); requires --broker-url")
	f.StringArrayVar(&flags.ProviderNamePatterns, "provider-name", nil, "broker provider-name filter regex (repeatable); requires --broker-url")
	f.BoolVarP(&flags.Watch, "watch", "w", false, "enable hot-reload on file/dir changes")

	rootCmd.Flags().BoolP("version", "v", false, "print version and exit")
}

// exitCode pins a process exit code to an error, per spec 6's exit-code
// table (0 success, 2 CLI parse error, 3 pact load error, other nonzero
// on bind/accept failure).
type exitCode struct {
	code int
	err  error
}

func (e exitCode) Error() string { return e.err.Error() }

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	rootCmd.SetArgs(os.Args[1:])
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		var ec exitCode
		if e, ok := err.(exitCode); ok {
			ec = e
		} else {
			ec = exitCode{code: 2, err: err}
		}
		fmt.Fprintln(os.Stderr, "pact-stub-server:", ec.err)
		os.Exit(ec.code)
	}
}

// run wires the validated configuration into the loader, registry,
// matching engine, optional watcher, and server, and blocks until ctx
// is canceled or the server fails to bind.
func run(ctx context.Context, cfg cli.Config) error {
	logger, err := obslog.New(cfg.LogLevel)
	if err != nil {
		return exitCode{code: 2, err: err}
	}
	defer func() { _ = logger.Sync() }()

	entries, loadErr := source.Load(ctx, logger, cfg.Sources, cfg.InsecureTLS, cfg.Extension)
	if loadErr != nil {
		logger.Error("failed to load pacts", zap.Error(loadErr))
		return exitCode{code: 3, err: loadErr}
	}
	logger.Info("loaded pacts", zap.Int("count", len(entries)))

	reg := registry.New(entries)

	engine := match.New(match.Config{
		AutoCORS:                cfg.AutoCORS,
		CORSRefererOrigin:       cfg.CORSRefererOrigin,
		ProviderStateRegex:      cfg.ProviderStateRegex,
		EmptyProviderStates:     cfg.EmptyProviderState,
		ProviderStateHeaderName: cfg.ProviderStateHeaderName,
	}, logger)

	var watcher *watch.Watcher
	if cfg.Watch {
		watcher, err = watch.New(logger, cfg.Sources, func() {
			reloaded, err := source.Load(ctx, logger, cfg.Sources, cfg.InsecureTLS, cfg.Extension)
			if err != nil {
				logger.Warn("reload failed, keeping previous snapshot", zap.Error(err))
				return
			}
			reg.Publish(reloaded)
			logger.Info("reloaded pacts", zap.Int("count", len(reloaded)))
		})
		if err != nil {
			logger.Error("failed to start watcher", zap.Error(err))
			return exitCode{code: 1, err: err}
		}
		watcher.Start()
		defer watcher.Stop()
	}

	srv := stub.New(engine, reg, logger, cfg.AutoCORS)
	if err := stub.Run(ctx, srv, cfg.Port, logger); err != nil {
		return exitCode{code: 1, err: err}
	}
	return nil
}
