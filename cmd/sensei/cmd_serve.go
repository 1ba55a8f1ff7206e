package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/nvandessel/dsa-sensei/internal/mcp"
	"github.com/nvandessel/dsa-sensei/internal/metrics"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server over stdio",
		Long: `Run a Model Context Protocol server over stdio so AI assistants can call
the sensei tools (sensei_chat, sensei_next, sensei_solved, sensei_path,
sensei_process, sensei_validate, sensei_graph).

With --metrics-addr (or metrics.addr in config), Prometheus metrics are
served at http://<addr>/metrics while the MCP server runs.

Example MCP client configuration:
  {"command": "sensei", "args": ["serve"]}`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			metricsAddr, _ := cmd.Flags().GetString("metrics-addr")
			if metricsAddr == "" {
				metricsAddr = a.cfg.Metrics.Addr
			}

			srv, err := mcp.NewServer(&mcp.Config{
				Name:             "dsa-sensei",
				Version:          version,
				Graph:            a.graph,
				ExtractorOptions: a.extractorOptions(),
				RendererOptions:  a.rendererOptions(),
				AuditDir:         a.cfg.DecisionDir(),
				Logger:           a.logger,
				Decisions:        a.decisions,
			})
			if err != nil {
				return fmt.Errorf("create MCP server: %w", err)
			}

			return runServe(cmd.Context(), srv, metricsAddr)
		},
	}

	cmd.Flags().String("metrics-addr", "", "Serve Prometheus metrics on this address (e.g. localhost:9090)")
	return cmd
}

// runServe runs the MCP server and, when addr is set, the metrics endpoint.
// The metrics server stops when the MCP client disconnects.
func runServe(ctx context.Context, srv *mcp.Server, addr string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer cancel()
		return srv.Run(gctx)
	})

	if addr != "" {
		ms := metrics.NewServer(addr)
		g.Go(func() error {
			if err := ms.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
			defer stop()
			return ms.Shutdown(shutdownCtx)
		})
	}

	return g.Wait()
}
