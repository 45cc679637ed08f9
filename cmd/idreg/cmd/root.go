// Package cmd implements the idreg command tree.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/randalmurphal/idregistry/pkg/idregistry"
	"github.com/randalmurphal/idregistry/pkg/idregistry/config"
	"github.com/randalmurphal/idregistry/pkg/idregistry/observability"
)

// app holds state shared by subcommands for a single invocation.
type app struct {
	cfgFile string
	verbose bool
	trace   bool

	registry *idregistry.Registry
	tp       *sdktrace.TracerProvider
}

// NewRootCommand builds the idreg command tree.
func NewRootCommand(version string) *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:          "idreg",
		Short:        "Look up labels by numeric id",
		Long:         `idreg reads a registry of id/label pairs from a config file and an optional SQLite store.`,
		Version:      version,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "",
		"config file (.yaml, .yml or .json)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false,
		"write debug logs to stderr")
	root.PersistentFlags().BoolVar(&a.trace, "trace", false,
		"write trace spans to stderr")

	root.AddCommand(
		newGetCommand(a),
		newListCommand(a),
		newSetCommand(a),
	)
	return root
}

// withRegistry opens the configured registry around fn and always closes it.
func (a *app) withRegistry(fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
			cmd.SetContext(ctx)
		}
		if err := a.open(ctx, cmd); err != nil {
			return err
		}
		defer func() {
			err = errors.Join(err, a.close(ctx))
		}()
		return fn(cmd, args)
	}
}

func (a *app) open(ctx context.Context, cmd *cobra.Command) error {
	level := slog.LevelWarn
	if a.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	opts := []idregistry.Option{idregistry.WithLogger(logger)}
	if a.trace {
		exporter, err := stdouttrace.New(stdouttrace.WithWriter(cmd.ErrOrStderr()))
		if err != nil {
			return fmt.Errorf("create trace exporter: %w", err)
		}
		a.tp = sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
		opts = append(opts, idregistry.WithSpanManager(observability.NewSpanManagerFor(a.tp)))
	}

	cfg := config.New(nil)
	if a.cfgFile != "" {
		var err error
		cfg, err = config.FromFile(a.cfgFile)
		if err != nil {
			_ = a.close(ctx)
			return err
		}
	}

	r, err := idregistry.FromConfig(ctx, cfg, opts...)
	if err != nil {
		_ = a.close(ctx)
		return err
	}
	a.registry = r
	return nil
}

func (a *app) close(ctx context.Context) error {
	var errs []error
	if a.registry != nil {
		errs = append(errs, a.registry.Close())
		a.registry = nil
	}
	if a.tp != nil {
		errs = append(errs, a.tp.Shutdown(ctx))
		a.tp = nil
	}
	return errors.Join(errs...)
}
