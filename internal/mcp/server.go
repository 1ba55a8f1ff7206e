// Package mcp provides an MCP (Model Context Protocol) server for dsa-sensei.
package mcp

import (
	"context"
	"errors"
	"log/slog"
	"os"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/nvandessel/dsa-sensei/internal/coach"
	"github.com/nvandessel/dsa-sensei/internal/extraction"
	"github.com/nvandessel/dsa-sensei/internal/knowledge"
	"github.com/nvandessel/dsa-sensei/internal/logging"
	"github.com/nvandessel/dsa-sensei/internal/ratelimit"
	"github.com/nvandessel/dsa-sensei/internal/recommend"
	"github.com/nvandessel/dsa-sensei/internal/respond"
)

// Server wraps the MCP SDK server and exposes the recommendation pipeline as tools.
type Server struct {
	server    *sdk.Server
	graph     *knowledge.Graph
	extractor *extraction.Extractor
	engine    *recommend.Engine
	renderer  *respond.Renderer
	coach     *coach.Coach
	logger    *slog.Logger

	toolLimiters ratelimit.ToolLimiters
	auditLogger  *AuditLogger
}

// Config holds server configuration.
type Config struct {
	Name    string // Server name (e.g., "dsa-sensei")
	Version string // Server version

	// Graph is the knowledge graph to serve. Required.
	Graph *knowledge.Graph

	ExtractorOptions []extraction.Option
	RendererOptions  []respond.Option

	// AuditDir receives audit.jsonl. Empty disables auditing.
	AuditDir string

	Logger    *slog.Logger
	Decisions *logging.DecisionLogger
}

// NewServer creates a new MCP server with sensei tools.
func NewServer(cfg *Config) (*Server, error) {
	if cfg.Graph == nil {
		return nil, errors.New("mcp: knowledge graph is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	extractorOpts := append([]extraction.Option{extraction.WithLogger(logger)}, cfg.ExtractorOptions...)
	extractor := extraction.NewExtractor(cfg.Graph.ConceptAliases(), cfg.Graph.ProblemAliases(), extractorOpts...)
	engine := recommend.NewEngine(cfg.Graph, recommend.WithLogger(logger))
	renderer := respond.New(cfg.RendererOptions...)

	mcpServer := sdk.NewServer(&sdk.Implementation{
		Name:    cfg.Name,
		Version: cfg.Version,
	}, &sdk.ServerOptions{
		InitializedHandler: func(ctx context.Context, req *sdk.InitializedRequest) {
			logger.Debug("mcp client initialized")
		},
	})

	s := &Server{
		server:    mcpServer,
		graph:     cfg.Graph,
		extractor: extractor,
		engine:    engine,
		renderer:  renderer,
		coach: coach.New(extractor, engine, renderer,
			coach.WithLogger(logger),
			coach.WithDecisionLogger(cfg.Decisions),
		),
		logger:       logger,
		toolLimiters: ratelimit.NewToolLimiters(),
		auditLogger:  NewAuditLogger(cfg.AuditDir, logger),
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Run starts the MCP server over stdio transport.
// This blocks until the client disconnects or the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	notifySignals(sigChan)

	go func() {
		select {
		case <-sigChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	s.logger.Info("mcp server starting", "concepts", len(s.graph.Concepts()), "problems", len(s.graph.Problems()))
	err := s.server.Run(ctx, &sdk.StdioTransport{})

	_ = s.Close()
	return err
}

// Close releases the audit log.
func (s *Server) Close() error {
	return s.auditLogger.Close()
}
