package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/nvandessel/dsa-sensei/internal/coach"
	"github.com/nvandessel/dsa-sensei/internal/config"
	"github.com/nvandessel/dsa-sensei/internal/extraction"
	"github.com/nvandessel/dsa-sensei/internal/knowledge"
	"github.com/nvandessel/dsa-sensei/internal/logging"
	"github.com/nvandessel/dsa-sensei/internal/recommend"
	"github.com/nvandessel/dsa-sensei/internal/respond"
	"github.com/nvandessel/dsa-sensei/internal/store"
)

var (
	version = "0.1.0-dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sensei",
		Short: "DSA sensei - rule-based study recommendations for data structures and algorithms",
		Long: `sensei recommends what to study next in data structures and algorithms.

Tell it what you learned or solved in plain English and it suggests next
concepts, practice problems and learning paths from a curated catalog.`,
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON (for agent consumption)")
	rootCmd.PersistentFlags().String("config", "", "Config file (default ~/.sensei/config.yaml)")
	rootCmd.PersistentFlags().String("catalog", "", "YAML catalog file (overrides config)")
	rootCmd.PersistentFlags().String("catalog-db", "", "SQLite catalog database (overrides config)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: info, debug or trace (overrides config)")

	rootCmd.AddCommand(
		newVersionCmd(),
		newProcessCmd(),
		newNextCmd(),
		newSolvedCmd(),
		newPathCmd(),
		newChatCmd(),
		newGraphCmd(),
		newValidateCmd(),
		newCatalogCmd(),
		newServeCmd(),
	)
	return rootCmd
}

// loadConfig reads the config file and environment, then applies the
// global flag overrides.
func loadConfig(cmd *cobra.Command) (*config.SenseiConfig, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadPath(path)
	if err != nil {
		return nil, err
	}

	if v, _ := cmd.Flags().GetString("catalog"); v != "" {
		cfg.Catalog = config.CatalogConfig{Path: v}
	}
	if v, _ := cmd.Flags().GetString("catalog-db"); v != "" {
		cfg.Catalog = config.CatalogConfig{Database: v}
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.Logging.Level = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// app is the assembled pipeline shared by the subcommands.
type app struct {
	cfg       *config.SenseiConfig
	logger    *slog.Logger
	decisions *logging.DecisionLogger
	graph     *knowledge.Graph
	extractor *extraction.Extractor
	engine    *recommend.Engine
	renderer  *respond.Renderer
	coach     *coach.Coach
}

// newApp loads config and the catalog and wires the pipeline.
func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger := logging.NewLogger(cfg.Logging.Level, cmd.ErrOrStderr())

	graph, err := openGraph(cmd.Context(), cfg)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:       cfg,
		logger:    logger,
		decisions: logging.NewDecisionLogger(cfg.DecisionDir(), cfg.Logging.Level),
		graph:     graph,
	}
	a.extractor = extraction.NewExtractor(graph.ConceptAliases(), graph.ProblemAliases(), a.extractorOptions()...)
	a.engine = recommend.NewEngine(graph, recommend.WithLogger(logger))
	a.renderer = respond.New(a.rendererOptions()...)
	a.coach = coach.New(a.extractor, a.engine, a.renderer,
		coach.WithLogger(logger),
		coach.WithDecisionLogger(a.decisions),
	)
	logger.Debug("catalog loaded", "concepts", len(graph.Concepts()), "problems", len(graph.Problems()))
	return a, nil
}

func (a *app) extractorOptions() []extraction.Option {
	return []extraction.Option{
		extraction.WithLogger(a.logger),
		extraction.WithFuzzy(a.cfg.Extraction.Fuzzy),
		extraction.WithFuzzyThreshold(a.cfg.Extraction.FuzzyThreshold),
	}
}

func (a *app) rendererOptions() []respond.Option {
	opts := []respond.Option{respond.WithTips(a.cfg.Responses.Tips)}
	if a.cfg.Responses.Seed != 0 {
		opts = append(opts, respond.WithPicker(respond.NewSeededPicker(a.cfg.Responses.Seed)))
	}
	return opts
}

// Close flushes the decision log.
func (a *app) Close() {
	a.decisions.Close()
}

// openGraph loads the knowledge graph from the configured catalog source.
func openGraph(ctx context.Context, cfg *config.SenseiConfig) (*knowledge.Graph, error) {
	s, err := store.Open(cfg.Catalog.Path, cfg.Catalog.Database)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer s.Close()

	g, err := store.LoadGraph(ctx, s)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return g, nil
}

// writeJSON pretty-prints v as JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
