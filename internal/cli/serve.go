package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/archdraw/internal/server"
	"github.com/matzehuels/archdraw/pkg/config"
	"github.com/matzehuels/archdraw/pkg/observability"
)

// shutdownTimeout bounds how long in-flight requests may finish after the
// server is asked to stop.
const shutdownTimeout = 10 * time.Second

type serveOpts struct {
	pipelineFlags
	addr    string
	timeout time.Duration
	maxBody int64
}

// serveCommand runs the HTTP render API.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the render API over HTTP",
		Long: `Serve accepts diagram documents on POST /render and returns the drawn
artifact. The style file given with --config is the base for every request;
the format, engine, order and scale come from the query string.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", ":8080", "listen address")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "per-request render timeout (0 disables)")
	cmd.Flags().Int64Var(&opts.maxBody, "max-body", server.DefaultMaxBody, "maximum document size in bytes")
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "TOML file with style options")
	opts.bindCache(cmd)

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts *serveOpts) error {
	logger := loggerFromContext(ctx)

	values, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	if _, err := config.ResolveStyle(values); err != nil {
		return fmt.Errorf("config %s: %w", opts.configPath, err)
	}
	runner, err := c.newRunner(ctx, &opts.pipelineFlags)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	hooks := observability.NewLogHooks(logger)
	observability.SetHTTPHooks(hooks)
	observability.SetCacheHooks(hooks)
	defer observability.Reset()

	srv := server.New(runner, server.Options{
		Config:  values,
		MaxBody: opts.maxBody,
		Timeout: opts.timeout,
		Logger:  logger,
	})
	httpServer := &http.Server{
		Addr:              opts.addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- httpServer.ListenAndServe()
	}()
	printInfo("Listening on %s", opts.addr)

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
