package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kanolab/patternshop/internal/store"
	"github.com/kanolab/patternshop/internal/web"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Addr          string
	Database      string
	CategoriesDir string
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the checkout flow",
		Long: `Serve the category index and the three-step flow over HTTP.

Without --db the funnel event log is disabled and the server is fully
stateless. With --db, step views are appended to a SQLite event log
keyed by an anonymous session cookie.

Examples:
  patternshop serve --addr :8080
  patternshop serve --addr :8080 --db ./funnel.db
  patternshop serve --categories ./categories --verbose`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite funnel event log (empty disables recording)")
	cmd.Flags().StringVar(&opts.CategoriesDir, "categories", "", "directory of .cue category definitions (default: embedded)")
	return cmd
}

func runServe(opts *ServeOptions, cmd *cobra.Command) error {
	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(log)

	reg, err := loadRegistry(opts.CategoriesDir)
	if err != nil {
		return WrapExitError(ExitCommandError, "load categories", err)
	}
	log.Info("categories compiled", "ids", reg.IDs())

	var events *store.Store
	if opts.Database != "" {
		events, err = store.Open(opts.Database)
		if err != nil {
			return WrapExitError(ExitCommandError, "open event log", err)
		}
		defer func() {
			if closeErr := events.Close(); closeErr != nil {
				log.Error("closing event log", "err", closeErr)
			}
		}()
		log.Info("event log ready", "path", opts.Database)
	}

	handler, err := web.New(web.Config{
		Registry: reg,
		Events:   events,
		Log:      log,
	})
	if err != nil {
		return WrapExitError(ExitCommandError, "build server", err)
	}

	srv := &http.Server{
		Addr:              opts.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, stop := signal.NotifyContext(parentCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("serving", "addr", opts.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return WrapExitError(ExitCommandError, "serve", err)
		}
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return WrapExitError(ExitCommandError, "shutdown", err)
		}
	}
	return nil
}
