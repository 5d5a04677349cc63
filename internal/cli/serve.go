package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/jsontree/internal/config"
	"github.com/matzehuels/jsontree/pkg/observability"
	"github.com/matzehuels/jsontree/pkg/server"
	"github.com/matzehuels/jsontree/pkg/store"
)

// sweepInterval is how often the memory store drops expired documents.
const sweepInterval = 10 * time.Minute

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		storeKind string
		tracing   bool
		noCache   bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API.

Exposes layout, query and render endpoints plus a document store under
/api/v1. Documents live in memory by default; set --store mongo (and mongo.uri
in the config file) to share them between instances.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.Config.Server
			if cmd.Flags().Changed("addr") || cfg.Addr == "" {
				cfg.Addr = addr
			}
			if cmd.Flags().Changed("store") || cfg.Store == "" {
				cfg.Store = storeKind
			}
			if cmd.Flags().Changed("tracing") {
				cfg.Tracing = tracing
			}
			return c.runServe(cmd.Context(), cfg, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().StringVar(&storeKind, "store", config.StoreMemory, "document store: memory, mongo")
	cmd.Flags().BoolVar(&tracing, "tracing", false, "emit OpenTelemetry spans for pipeline stages")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, cfg config.ServerConfig, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	st, err := c.newStore(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close(context.Background())

	if cfg.Tracing {
		hooks := observability.NewOTelHooks(nil)
		observability.SetPipelineHooks(hooks)
		observability.SetCacheHooks(hooks)
		observability.SetHTTPHooks(hooks)
		defer observability.Reset()
		c.Logger.Info("Tracing enabled", "tracer", observability.TracerName)
	}

	srv := server.New(server.Config{
		Addr:        cfg.Addr,
		DocumentTTL: cfg.DocumentTTL,
	}, runner, st, c.Logger)

	printInfo("Serving on %s", StyleLink.Render("http://"+displayAddr(cfg.Addr)))
	printKeyValue("store", cfg.Store)
	return srv.ListenAndServe(ctx)
}

// newStore opens the configured document store. The memory store is swept
// in the background until ctx ends.
func (c *CLI) newStore(ctx context.Context, kind string) (store.Store, error) {
	if kind == config.StoreMongo {
		m := c.Config.Mongo
		st, err := store.NewMongoStore(ctx, store.MongoConfig{URI: m.URI, Database: m.Database, Collection: m.Collection})
		if err != nil {
			return nil, fmt.Errorf("open mongo store: %w", err)
		}
		return st, nil
	}
	if kind != "" && kind != config.StoreMemory {
		return nil, fmt.Errorf("unknown store %q (must be memory or mongo)", kind)
	}

	st := store.NewMemoryStore()
	go func() {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := st.Cleanup(ctx); n > 0 {
					c.Logger.Debug("swept expired documents", "count", n)
				}
			}
		}
	}()
	return st, nil
}

func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
