package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-formwizard/pkg/renderers/vanilla"
	"github.com/goliatone/go-formwizard/pkg/server"
)

func newServeCommand(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the wizard over HTTP",
		Long: `Serves a login page and the form wizard as server-rendered HTML.
Each browser session keeps its own progress; completed forms are posted to
the submit URL or printed to stdout as JSON.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("addr") {
				a.cfg.Server.Addr = addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	return cmd
}

func (a *app) newServer() (*server.Server, error) {
	p, auth, err := a.schemaProvider()
	if err != nil {
		return nil, err
	}
	sink, err := a.sink(os.Stdout)
	if err != nil {
		return nil, err
	}

	opts := []server.Option{
		server.WithLogger(a.logger),
		server.WithSink(sink),
	}
	if auth != nil {
		opts = append(opts, server.WithAuthenticator(auth))
	}
	if manifest := a.cfg.Theme.Manifest; manifest != "" {
		th, err := vanilla.LoadTheme(manifest, a.cfg.Theme.Variant)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to load theme", goerr.V("manifest", manifest))
		}
		opts = append(opts, server.WithTheme(th))
	}
	return server.New(p, opts...)
}

// serve runs the HTTP server until ctx ends, then drains it within the
// configured shutdown timeout.
func (a *app) serve(ctx context.Context) error {
	srv, err := a.newServer()
	if err != nil {
		return err
	}
	defer srv.Close()

	httpServer := &http.Server{
		Addr:              a.cfg.Server.Addr,
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return goerr.Wrap(err, "server stopped", goerr.V("addr", httpServer.Addr))
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return goerr.Wrap(err, "graceful shutdown failed")
		}
		return nil
	})
	return g.Wait()
}
