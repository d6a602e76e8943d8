package cli

import (
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"blogsearch/internal/content"
	"blogsearch/internal/eventbus"
	"blogsearch/internal/logging"
	"blogsearch/internal/metrics"
	"blogsearch/internal/server"
)

type serveOptions struct {
	addr    string
	noWatch bool
}

func newServeCmd(g *globalOptions) *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the search API over HTTP",
		Long: `Serve GET /api/search, /api/posts, /healthz and /metrics.

The content directory is watched and reloaded on change unless watching
is disabled in the config or with --no-watch.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, g, opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address, overrides server.addr")
	cmd.Flags().BoolVar(&opts.noWatch, "no-watch", false, "do not reload content on change")

	return cmd
}

func runServe(cmd *cobra.Command, g *globalOptions, opts *serveOptions) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	if opts.addr != "" {
		cfg.Server.Addr = opts.addr
	}
	cleanup, err := setupLogging(cfg, false, cmd)
	if err != nil {
		return err
	}
	defer cleanup()
	logger := logging.WithComponent("serve")

	ctx := cmd.Context()
	bus := eventbus.New()
	defer bus.Close()

	m := metrics.New()
	unsub := m.Subscribe(bus)
	defer unsub()

	cat, err := openCatalog(ctx, cfg, bus)
	if err != nil {
		return err
	}
	cat.SetObserver(m)
	m.SetCorpusSize(cat.Counts())
	for _, p := range cat.Problems() {
		logger.Warn("skipped post", "error", p)
	}

	srv := server.New(cat, m, server.Options{
		Addr: cfg.Server.Addr,
		Limits: server.Limits{
			Default: cfg.Server.DefaultLimit,
			Max:     cfg.Server.MaxResults,
		},
		ShutdownTimeout: time.Duration(cfg.Server.ShutdownTimeoutS) * time.Second,
	})

	eg, gctx := errgroup.WithContext(ctx)
	eg.Go(func() error { return srv.Run(gctx) })

	if cfg.Watch.Enabled && !opts.noWatch {
		w, err := content.NewWatcher(cfg.ContentDir, cat, time.Duration(cfg.Watch.DebounceMs)*time.Millisecond)
		if err != nil {
			logger.Warn("content watching disabled", "error", err)
		} else {
			eg.Go(func() error { return w.Run(gctx) })
		}
	}

	logger.Info("serving", "addr", cfg.Server.Addr, "locales", cat.Locales())
	return eg.Wait()
}
