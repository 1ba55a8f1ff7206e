package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/nvandessel/dsa-sensei/internal/knowledge"
	"github.com/nvandessel/dsa-sensei/internal/models"
	"github.com/nvandessel/dsa-sensei/internal/ratelimit"
	"github.com/nvandessel/dsa-sensei/internal/sanitize"
	"github.com/nvandessel/dsa-sensei/internal/visualization"
)

// CatalogURI is the resource exposing the served catalog as YAML.
const CatalogURI = "sensei://catalog"

// registerTools registers all sensei MCP tools with the server.
func (s *Server) registerTools() {
	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "sensei_process",
		Description: "Classify a learner statement and extract the DSA concepts and problems it mentions",
	}, s.handleSenseiProcess)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "sensei_next",
		Description: "Recommend next concepts and practice problems for a set of learned concepts",
	}, s.handleSenseiNext)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "sensei_solved",
		Description: "Recommend similar problems, pattern practice and next concepts after solving a problem",
	}, s.handleSenseiSolved)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "sensei_path",
		Description: "Find a learning path from the concepts a learner knows to a goal concept",
	}, s.handleSenseiPath)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "sensei_chat",
		Description: "Answer a free-text learner statement with a rendered recommendation",
	}, s.handleSenseiChat)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "sensei_validate",
		Description: "Validate the knowledge catalog for dangling references, self-references and prerequisite cycles",
	}, s.handleSenseiValidate)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "sensei_graph",
		Description: "Render the concept graph in DOT (Graphviz) or JSON format for visualization",
	}, s.handleSenseiGraph)
}

// registerResources registers MCP resources.
func (s *Server) registerResources() {
	s.server.AddResource(&sdk.Resource{
		URI:         CatalogURI,
		Name:        "sensei-catalog",
		Description: "The concepts, problems and aliases the recommendations are drawn from.",
		MIMEType:    "application/yaml",
	}, s.handleCatalogResource)
}

// handleCatalogResource returns the served catalog as YAML.
func (s *Server) handleCatalogResource(ctx context.Context, req *sdk.ReadResourceRequest) (*sdk.ReadResourceResult, error) {
	data, err := s.graph.EncodeYAML()
	if err != nil {
		return nil, fmt.Errorf("encode catalog: %w", err)
	}
	return &sdk.ReadResourceResult{
		Contents: []*sdk.ResourceContents{
			{
				URI:      CatalogURI,
				MIMEType: "application/yaml",
				Text:     string(data),
			},
		},
	}, nil
}

// handleSenseiProcess implements the sensei_process tool.
func (s *Server) handleSenseiProcess(ctx context.Context, req *sdk.CallToolRequest, args SenseiProcessInput) (_ *sdk.CallToolResult, _ SenseiProcessOutput, retErr error) {
	start := time.Now()
	defer func() {
		s.auditTool("sensei_process", start, retErr, sanitizeToolParams(map[string]any{
			"text": args.Text,
		}))
	}()

	if err := ratelimit.CheckLimit(s.toolLimiters, "sensei_process"); err != nil {
		return nil, SenseiProcessOutput{}, err
	}
	text := sanitize.LearnerText(args.Text)
	if text == "" {
		return nil, SenseiProcessOutput{}, errors.New("'text' parameter is required")
	}

	result := s.extractor.Process(text)
	return nil, SenseiProcessOutput{
		Intent:           result.Intent,
		Concepts:         result.Concepts,
		ConceptsDetailed: result.ConceptsDetailed,
		Problems:         result.Problems,
		ProblemsDetailed: result.ProblemsDetailed,
		CleanedText:      result.CleanedText,
	}, nil
}

// handleSenseiNext implements the sensei_next tool.
func (s *Server) handleSenseiNext(ctx context.Context, req *sdk.CallToolRequest, args SenseiNextInput) (_ *sdk.CallToolResult, _ SenseiNextOutput, retErr error) {
	start := time.Now()
	defer func() {
		s.auditTool("sensei_next", start, retErr, sanitizeToolParams(map[string]any{
			"concepts": args.Concepts,
		}))
	}()

	if err := ratelimit.CheckLimit(s.toolLimiters, "sensei_next"); err != nil {
		return nil, SenseiNextOutput{}, err
	}

	rec := s.engine.RecommendFromConcepts(sanitize.Names(args.Concepts))
	return nil, SenseiNextOutput{
		Recommendation: rec,
		Message:        s.renderer.Render(rec),
	}, nil
}

// handleSenseiSolved implements the sensei_solved tool. An unknown problem
// is a normal answer carrying NotFound, not a tool error.
func (s *Server) handleSenseiSolved(ctx context.Context, req *sdk.CallToolRequest, args SenseiSolvedInput) (_ *sdk.CallToolResult, _ SenseiSolvedOutput, retErr error) {
	start := time.Now()
	defer func() {
		s.auditTool("sensei_solved", start, retErr, sanitizeToolParams(map[string]any{
			"problem": args.Problem,
		}))
	}()

	if err := ratelimit.CheckLimit(s.toolLimiters, "sensei_solved"); err != nil {
		return nil, SenseiSolvedOutput{}, err
	}
	problem := sanitize.Name(args.Problem)
	if problem == "" {
		return nil, SenseiSolvedOutput{}, errors.New("'problem' parameter is required")
	}

	rec, err := s.engine.RecommendFromProblem(problem)
	if err != nil {
		var nf *models.NotFound
		if !errors.As(err, &nf) {
			return nil, SenseiSolvedOutput{}, fmt.Errorf("recommend from problem: %w", err)
		}
		return nil, SenseiSolvedOutput{NotFound: nf, Message: s.renderer.Render(nf)}, nil
	}
	return nil, SenseiSolvedOutput{
		Recommendation: rec,
		Message:        s.renderer.Render(rec),
	}, nil
}

// handleSenseiPath implements the sensei_path tool.
func (s *Server) handleSenseiPath(ctx context.Context, req *sdk.CallToolRequest, args SenseiPathInput) (_ *sdk.CallToolResult, _ SenseiPathOutput, retErr error) {
	start := time.Now()
	defer func() {
		s.auditTool("sensei_path", start, retErr, sanitizeToolParams(map[string]any{
			"current": args.Current,
			"goal":    args.Goal,
		}))
	}()

	if err := ratelimit.CheckLimit(s.toolLimiters, "sensei_path"); err != nil {
		return nil, SenseiPathOutput{}, err
	}
	goal := sanitize.Name(args.Goal)
	if goal == "" {
		return nil, SenseiPathOutput{}, errors.New("'goal' parameter is required")
	}

	path, err := s.engine.LearningPath(sanitize.Names(args.Current), goal)
	if err != nil {
		var nf *models.NotFound
		if !errors.As(err, &nf) {
			return nil, SenseiPathOutput{}, fmt.Errorf("learning path: %w", err)
		}
		return nil, SenseiPathOutput{NotFound: nf, Message: s.renderer.Render(nf)}, nil
	}
	return nil, SenseiPathOutput{
		Path:    path,
		Message: s.renderer.Render(path),
	}, nil
}

// handleSenseiChat implements the sensei_chat tool.
func (s *Server) handleSenseiChat(ctx context.Context, req *sdk.CallToolRequest, args SenseiChatInput) (_ *sdk.CallToolResult, _ SenseiChatOutput, retErr error) {
	start := time.Now()
	defer func() {
		s.auditTool("sensei_chat", start, retErr, sanitizeToolParams(map[string]any{
			"text":  args.Text,
			"known": args.Known,
		}))
	}()

	if err := ratelimit.CheckLimit(s.toolLimiters, "sensei_chat"); err != nil {
		return nil, SenseiChatOutput{}, err
	}
	text := sanitize.LearnerText(args.Text)
	if text == "" {
		return nil, SenseiChatOutput{}, errors.New("'text' parameter is required")
	}

	reply := s.coach.Reply(text, sanitize.Names(args.Known))
	kind := "clarification"
	if reply.Result != nil {
		kind = string(reply.Result.Kind())
	}
	return nil, SenseiChatOutput{
		RequestID:  reply.RequestID,
		Intent:     reply.Intent,
		ResultKind: kind,
		Difficulty: reply.Difficulty,
		Message:    reply.Message,
	}, nil
}

// handleSenseiValidate implements the sensei_validate tool.
func (s *Server) handleSenseiValidate(ctx context.Context, req *sdk.CallToolRequest, args SenseiValidateInput) (_ *sdk.CallToolResult, _ SenseiValidateOutput, retErr error) {
	start := time.Now()
	defer func() {
		s.auditTool("sensei_validate", start, retErr, nil)
	}()

	if err := ratelimit.CheckLimit(s.toolLimiters, "sensei_validate"); err != nil {
		return nil, SenseiValidateOutput{}, err
	}

	issues := knowledge.Validate(s.graph)
	if issues == nil {
		issues = []knowledge.ValidationError{}
	}
	return nil, SenseiValidateOutput{
		Valid:   len(issues) == 0,
		Errors:  issues,
		Message: summarizeIssues(issues),
	}, nil
}

// summarizeIssues counts validation issues by kind.
func summarizeIssues(issues []knowledge.ValidationError) string {
	if len(issues) == 0 {
		return "Catalog is valid - no issues found"
	}

	var dangling, cycles, selfRefs int
	for _, ve := range issues {
		switch ve.Issue {
		case knowledge.IssueDangling:
			dangling++
		case knowledge.IssueCycle:
			cycles++
		case knowledge.IssueSelfReference:
			selfRefs++
		}
	}

	parts := []string{}
	if dangling > 0 {
		parts = append(parts, fmt.Sprintf("%d dangling reference(s)", dangling))
	}
	if cycles > 0 {
		parts = append(parts, fmt.Sprintf("%d cycle(s)", cycles))
	}
	if selfRefs > 0 {
		parts = append(parts, fmt.Sprintf("%d self-reference(s)", selfRefs))
	}
	return fmt.Sprintf("Found %d issue(s): %s", len(issues), strings.Join(parts, ", "))
}

// handleSenseiGraph implements the sensei_graph tool.
func (s *Server) handleSenseiGraph(ctx context.Context, req *sdk.CallToolRequest, args SenseiGraphInput) (_ *sdk.CallToolResult, _ SenseiGraphOutput, retErr error) {
	start := time.Now()
	defer func() {
		s.auditTool("sensei_graph", start, retErr, sanitizeToolParams(map[string]any{
			"format":           args.Format,
			"include_problems": args.IncludeProblems,
			"highlight":        args.Highlight,
		}))
	}()

	if err := ratelimit.CheckLimit(s.toolLimiters, "sensei_graph"); err != nil {
		return nil, SenseiGraphOutput{}, err
	}

	format := args.Format
	if format == "" {
		format = string(visualization.FormatJSON)
	}
	opts := visualization.Options{IncludeProblems: args.IncludeProblems, Highlight: sanitize.Names(args.Highlight)}

	switch visualization.Format(format) {
	case visualization.FormatDOT:
		graph := visualization.Build(s.graph, opts)
		return nil, SenseiGraphOutput{
			Format:    format,
			Graph:     visualization.RenderDOT(s.graph, opts),
			NodeCount: graph.NodeCount,
			EdgeCount: graph.EdgeCount,
		}, nil

	case visualization.FormatJSON:
		graph := visualization.Build(s.graph, opts)
		return nil, SenseiGraphOutput{
			Format:    format,
			Graph:     graph,
			NodeCount: graph.NodeCount,
			EdgeCount: graph.EdgeCount,
		}, nil

	default:
		return nil, SenseiGraphOutput{}, fmt.Errorf("unsupported format %q (use 'dot' or 'json')", format)
	}
}
