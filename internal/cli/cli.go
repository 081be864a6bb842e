// Package cli implements the bucketcache command: one cache operation per
// invocation against the configured bucket, with string values.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/unkn0wn-root/bucketcache"
	"github.com/unkn0wn-root/bucketcache/codec"
	"github.com/unkn0wn-root/bucketcache/config"
	zaplog "github.com/unkn0wn-root/bucketcache/log/zap"
)

const (
	ExitOK    = 0
	ExitFalse = 1 // operation reported false / absent
	ExitUsage = 2 // bad flags, config or construction failure
)

// BackendFactory opens the backend the command operates on.
type BackendFactory func(ctx context.Context, cfg *config.Config, log bucketcache.Logger) (bucketcache.Backend[string], error)

// DefaultFactory builds the store named in the config.
func DefaultFactory(ctx context.Context, cfg *config.Config, log bucketcache.Logger) (bucketcache.Backend[string], error) {
	return bucketcache.NewFromConfig[string](ctx, cfg, codec.String{}, func(o *bucketcache.Options[string]) {
		o.Logger = log
	})
}

// errFalse marks a clean run whose operation answered false.
var errFalse = errors.New("false")

// Run executes args and returns the process exit code.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer, factory BackendFactory) int {
	if factory == nil {
		factory = DefaultFactory
	}
	root := newRootCmd(stdout, stderr, factory)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, errFalse):
		return ExitFalse
	default:
		fmt.Fprintf(stderr, "error: %v\n", err)
		return ExitUsage
	}
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "bucketcache.toml"
	}
	return filepath.Join(dir, "bucketcache", "config.toml")
}

type app struct {
	configPath string
	stdout     io.Writer
	stderr     io.Writer
	factory    BackendFactory
}

func newRootCmd(stdout, stderr io.Writer, factory BackendFactory) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr, factory: factory}

	root := &cobra.Command{
		Use:           "bucketcache",
		Short:         "Inspect and edit an object-storage backed cache",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", defaultConfigPath(), "path to config file")

	root.AddCommand(
		a.keyCmd("get KEY", "Print the cached value", a.get),
		a.keyCmd("has KEY", "Report whether KEY exists", a.has),
		a.keyCmd("exists KEY", "Report whether KEY exists (raw probe)", a.exists),
		a.keyCmd("delete KEY", "Delete KEY", a.delete),
		a.keyValueCmd("set KEY VALUE", "Store VALUE under KEY, overwriting", a.set),
		a.keyValueCmd("add KEY VALUE", "Store VALUE under KEY unless it exists", a.add),
		&cobra.Command{
			Use:   "clear",
			Short: "Clear the cache (unsupported, always false)",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.withBackend(cmd.Context(), func(ctx context.Context, b bucketcache.Backend[string]) error {
					return boolResult(a.stdout, b.Clear(ctx))
				})
			},
		},
	)
	return root
}

func (a *app) keyCmd(use, short string, fn func(context.Context, bucketcache.Backend[string], string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withBackend(cmd.Context(), func(ctx context.Context, b bucketcache.Backend[string]) error {
				return fn(ctx, b, args[0])
			})
		},
	}
}

func (a *app) keyValueCmd(use, short string, fn func(context.Context, bucketcache.Backend[string], string, string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withBackend(cmd.Context(), func(ctx context.Context, b bucketcache.Backend[string]) error {
				return fn(ctx, b, args[0], args[1])
			})
		},
	}
}

func (a *app) withBackend(ctx context.Context, fn func(context.Context, bucketcache.Backend[string]) error) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	zl, err := newZap(cfg.LogLevel, a.stderr)
	if err != nil {
		return err
	}
	defer func() { _ = zl.Sync() }()

	b, err := a.factory(ctx, cfg, zaplog.New(zl))
	if err != nil {
		return fmt.Errorf("open backend: %w", err)
	}
	defer func() { _ = b.Close(ctx) }()

	return fn(ctx, b)
}

func (a *app) get(ctx context.Context, b bucketcache.Backend[string], key string) error {
	v, ok := b.Get(ctx, key)
	if !ok {
		return errFalse
	}
	fmt.Fprintln(a.stdout, v)
	return nil
}

func (a *app) has(ctx context.Context, b bucketcache.Backend[string], key string) error {
	return boolResult(a.stdout, b.Has(ctx, key))
}

func (a *app) exists(ctx context.Context, b bucketcache.Backend[string], key string) error {
	return boolResult(a.stdout, b.Exists(ctx, key))
}

func (a *app) delete(ctx context.Context, b bucketcache.Backend[string], key string) error {
	return boolResult(a.stdout, b.Delete(ctx, key))
}

func (a *app) set(ctx context.Context, b bucketcache.Backend[string], key, value string) error {
	ok, err := b.Set(ctx, key, value, b.DefaultTimeout())
	if err != nil {
		return err
	}
	return boolResult(a.stdout, ok)
}

func (a *app) add(ctx context.Context, b bucketcache.Backend[string], key, value string) error {
	ok, err := b.Add(ctx, key, value, b.DefaultTimeout())
	if err != nil {
		return err
	}
	return boolResult(a.stdout, ok)
}

func boolResult(w io.Writer, ok bool) error {
	fmt.Fprintln(w, ok)
	if !ok {
		return errFalse
	}
	return nil
}

func newZap(level string, w io.Writer) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	enc := zap.NewDevelopmentEncoderConfig()
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(w), lvl)
	return zap.New(core), nil
}
