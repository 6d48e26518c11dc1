package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	cerrors "github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/bisgardo/reification/internal/cli"
	"github.com/bisgardo/reification/internal/server"
)

// shutdownTimeout bounds how long active requests may finish after a signal
const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	var (
		configPath string
		addr       string
		jsonLogs   bool
		verbose    bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP playground",
		Long: `Starts an HTTP server that runs one processing round per request:

  POST /v1/reify   body {"sources": {"Box.rdecl": "..."}}, optional query
                   format=java|json, separator=$, strict=true|false
  GET  /healthz

Generated files are returned in the response and never written to disk.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := cli.LoadConfig(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				config.Server.Addr = addr
				if err := config.Validate(); err != nil {
					return err
				}
			}

			logger, err := server.NewLogger(jsonLogs, verbose)
			if err != nil {
				return cerrors.Wrap(err, "create logger")
			}
			defer func() { _ = logger.Sync() }()

			srv := server.New(server.Options{
				Reifier: config.ReifierOptions(),
				Format:  config.Format,
			}, logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				return srv.Start(config.Server.Addr)
			})
			g.Go(func() error {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			})
			return g.Wait()
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&configPath, "config", "c", "", "configuration file")
	flags.StringVar(&addr, "addr", "", "listen address (default from configuration, :8080)")
	flags.BoolVar(&jsonLogs, "json-logs", false, "write request logs as JSON")
	flags.BoolVarP(&verbose, "verbose", "v", false, "log debug details")
	return cmd
}
