package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vburojevic/registrar/internal/server"
	"github.com/vburojevic/registrar/internal/store"
)

// -------------------------
// serve
// -------------------------

func (c *cli) newServeCmd() *cobra.Command {
	var (
		addr      string
		rateLimit string
		origins   []string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the local data directory over the registrar REST API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") {
				addr = c.cfg.Addr
			}
			if !cmd.Flags().Changed("rate-limit") {
				rateLimit = c.cfg.RateLimit
			}
			logger, closeLog, err := c.logger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() { _ = closeLog() }()

			srv, err := newServer(c.cfg, server.Options{
				Logger:          logger,
				AllowedOrigins:  origins,
				DefaultPageSize: c.cfg.PageSize,
				RateLimit:       rateLimit,
			})
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.ListenAndServe(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", c.base.Addr, "Listen address")
	cmd.Flags().StringVar(&rateLimit, "rate-limit", c.base.RateLimit, "Per-client rate limit, e.g. 100-S or 5000-H (empty: off)")
	cmd.Flags().StringSliceVar(&origins, "cors-origin", nil, "Allowed CORS origins (repeatable)")
	return cmd
}

// newServer opens the data directory and registers every entity.
func newServer(cfg Config, opts server.Options) (*server.Server, error) {
	st, err := store.Open(cfg.DataDir)
	if err != nil {
		return nil, err
	}
	opts.Store = st
	srv, err := server.New(opts)
	if err != nil {
		return nil, err
	}
	for _, b := range bindings() {
		b.Register(srv)
	}
	return srv, nil
}
