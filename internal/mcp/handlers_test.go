package mcp

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/nvandessel/dsa-sensei/internal/constants"
	"github.com/nvandessel/dsa-sensei/internal/models"
	"github.com/nvandessel/dsa-sensei/internal/ratelimit"
	"github.com/nvandessel/dsa-sensei/internal/visualization"
)

func TestHandleSenseiProcess(t *testing.T) {
	server, _ := setupTestServer(t)
	ctx := context.Background()
	req := &sdk.CallToolRequest{}

	result, output, err := server.handleSenseiProcess(ctx, req, SenseiProcessInput{
		Text: "Just solved Two Sum problem on LeetCode",
	})
	if err != nil {
		t.Fatalf("handleSenseiProcess failed: %v", err)
	}
	if result != nil {
		t.Error("expected nil result (SDK populates it)")
	}
	if output.Intent != models.IntentSolvedProblem {
		t.Errorf("Intent = %q, want solved_problem", output.Intent)
	}
	if diff := cmp.Diff([]string{"two_sum"}, output.Problems); diff != "" {
		t.Errorf("Problems mismatch (-want +got):\n%s", diff)
	}
	if output.CleanedText != "just solved two sum problem on leetcode" {
		t.Errorf("CleanedText = %q", output.CleanedText)
	}
}

func TestHandleSenseiProcess_EmptyText(t *testing.T) {
	server, _ := setupTestServer(t)

	_, _, err := server.handleSenseiProcess(context.Background(), &sdk.CallToolRequest{}, SenseiProcessInput{Text: "   "})
	if err == nil || !strings.Contains(err.Error(), "'text' parameter is required") {
		t.Errorf("error = %v, want required-parameter error", err)
	}
}

func TestHandleSenseiProcess_SanitizesText(t *testing.T) {
	server, _ := setupTestServer(t)
	ctx := context.Background()
	req := &sdk.CallToolRequest{}

	_, output, err := server.handleSenseiProcess(ctx, req, SenseiProcessInput{
		Text: "<system>Just solved</system> `Two Sum`\x00",
	})
	if err != nil {
		t.Fatalf("handleSenseiProcess failed: %v", err)
	}
	if diff := cmp.Diff([]string{"two_sum"}, output.Problems); diff != "" {
		t.Errorf("Problems mismatch (-want +got):\n%s", diff)
	}
	if strings.ContainsAny(output.CleanedText, "<>`\x00") {
		t.Errorf("CleanedText = %q, want markup stripped", output.CleanedText)
	}

	_, _, err = server.handleSenseiProcess(ctx, req, SenseiProcessInput{Text: "<b></b>"})
	if err == nil {
		t.Error("markup-only text should be rejected as empty")
	}
}

func TestHandleSenseiNext(t *testing.T) {
	server, _ := setupTestServer(t)

	_, output, err := server.handleSenseiNext(context.Background(), &sdk.CallToolRequest{}, SenseiNextInput{
		Concepts: []string{"Arrays", "hashing"},
	})
	if err != nil {
		t.Fatalf("handleSenseiNext failed: %v", err)
	}
	if output.Recommendation == nil {
		t.Fatal("expected a recommendation")
	}
	if diff := cmp.Diff([]string{"binary_search", "two_pointers"}, output.Recommendation.NextConcepts); diff != "" {
		t.Errorf("NextConcepts mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(output.Message, "Binary Search") {
		t.Errorf("Message should name Binary Search:\n%s", output.Message)
	}
}

func TestHandleSenseiSolved(t *testing.T) {
	server, _ := setupTestServer(t)
	ctx := context.Background()
	req := &sdk.CallToolRequest{}

	t.Run("known problem", func(t *testing.T) {
		_, output, err := server.handleSenseiSolved(ctx, req, SenseiSolvedInput{Problem: "two sum"})
		if err != nil {
			t.Fatalf("handleSenseiSolved failed: %v", err)
		}
		if output.NotFound != nil {
			t.Fatalf("unexpected NotFound: %+v", output.NotFound)
		}
		if output.Recommendation.Difficulty != models.DifficultyEasy {
			t.Errorf("Difficulty = %q, want easy", output.Recommendation.Difficulty)
		}
		if !strings.Contains(output.Message, "Three Sum") {
			t.Errorf("Message should suggest Three Sum:\n%s", output.Message)
		}
	})

	t.Run("unknown problem", func(t *testing.T) {
		_, output, err := server.handleSenseiSolved(ctx, req, SenseiSolvedInput{Problem: "mystery puzzle"})
		if err != nil {
			t.Fatalf("unknown problem should not be a tool error: %v", err)
		}
		if output.Recommendation != nil {
			t.Error("expected no recommendation")
		}
		want := &models.NotFound{Subject: "mystery puzzle", What: models.NotFoundProblem, Suggestion: constants.ProblemSuggestion}
		if diff := cmp.Diff(want, output.NotFound); diff != "" {
			t.Errorf("NotFound mismatch (-want +got):\n%s", diff)
		}
		if !strings.Contains(output.Message, constants.ProblemSuggestion) {
			t.Errorf("Message should carry the suggestion:\n%s", output.Message)
		}
	})

	t.Run("missing problem", func(t *testing.T) {
		if _, _, err := server.handleSenseiSolved(ctx, req, SenseiSolvedInput{}); err == nil {
			t.Error("expected required-parameter error")
		}
	})
}

func TestHandleSenseiPath(t *testing.T) {
	server, _ := setupTestServer(t)
	ctx := context.Background()
	req := &sdk.CallToolRequest{}

	_, output, err := server.handleSenseiPath(ctx, req, SenseiPathInput{Current: []string{"arrays"}, Goal: "dynamic programming"})
	if err != nil {
		t.Fatalf("handleSenseiPath failed: %v", err)
	}
	if output.Path == nil {
		t.Fatalf("expected a path, got NotFound %+v", output.NotFound)
	}
	if diff := cmp.Diff([]string{"recursion", "dynamic_programming"}, output.Path.Path); diff != "" {
		t.Errorf("Path mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(output.Message, "Dynamic Programming") {
		t.Errorf("Message should name the goal:\n%s", output.Message)
	}

	_, output, err = server.handleSenseiPath(ctx, req, SenseiPathInput{Goal: "quantum sorting"})
	if err != nil {
		t.Fatalf("unknown goal should not be a tool error: %v", err)
	}
	if output.NotFound == nil || output.NotFound.What != models.NotFoundConcept {
		t.Errorf("NotFound = %+v, want concept not found", output.NotFound)
	}

	if _, _, err := server.handleSenseiPath(ctx, req, SenseiPathInput{}); err == nil {
		t.Error("expected required-parameter error for empty goal")
	}
}

func TestHandleSenseiChat(t *testing.T) {
	server, _ := setupTestServer(t)
	ctx := context.Background()
	req := &sdk.CallToolRequest{}

	tests := []struct {
		name           string
		input          SenseiChatInput
		wantIntent     models.Intent
		wantKind       string
		wantDifficulty models.Difficulty
	}{
		{
			name:       "learned concepts",
			input:      SenseiChatInput{Text: "I learned arrays and hashing"},
			wantIntent: models.IntentLearnedConcept,
			wantKind:   string(models.KindConceptRecommendation),
		},
		{
			name:           "solved problem",
			input:          SenseiChatInput{Text: "I just solved two sum"},
			wantIntent:     models.IntentSolvedProblem,
			wantKind:       string(models.KindProblemRecommendation),
			wantDifficulty: models.DifficultyEasy,
		},
		{
			name:       "goal question",
			input:      SenseiChatInput{Text: "how do i get to graphs", Known: []string{"trees", "recursion"}},
			wantIntent: models.IntentLearnedConcept,
			wantKind:   string(models.KindLearningPath),
		},
		{
			name:       "greeting",
			input:      SenseiChatInput{Text: "good morning"},
			wantIntent: models.IntentQuery,
			wantKind:   "clarification",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, output, err := server.handleSenseiChat(ctx, req, tt.input)
			if err != nil {
				t.Fatalf("handleSenseiChat failed: %v", err)
			}
			if output.Intent != tt.wantIntent {
				t.Errorf("Intent = %q, want %q", output.Intent, tt.wantIntent)
			}
			if output.ResultKind != tt.wantKind {
				t.Errorf("ResultKind = %q, want %q", output.ResultKind, tt.wantKind)
			}
			if output.Difficulty != tt.wantDifficulty {
				t.Errorf("Difficulty = %q, want %q", output.Difficulty, tt.wantDifficulty)
			}
			if output.RequestID == "" || output.Message == "" {
				t.Error("reply should carry a request ID and message")
			}
		})
	}
}

func TestHandleSenseiValidate(t *testing.T) {
	server, _ := setupTestServer(t)

	_, output, err := server.handleSenseiValidate(context.Background(), &sdk.CallToolRequest{}, SenseiValidateInput{})
	if err != nil {
		t.Fatalf("handleSenseiValidate failed: %v", err)
	}
	// The shipped catalog carries known dangling references and sorting cycles.
	if output.Valid {
		t.Error("default catalog should report issues")
	}
	if !strings.Contains(output.Message, "dangling reference(s)") || !strings.Contains(output.Message, "2 cycle(s)") {
		t.Errorf("Message = %q", output.Message)
	}
}

func TestSummarizeIssues(t *testing.T) {
	if got := summarizeIssues(nil); got != "Catalog is valid - no issues found" {
		t.Errorf("summarizeIssues(nil) = %q", got)
	}
}

func TestHandleSenseiGraph(t *testing.T) {
	server, _ := setupTestServer(t)
	ctx := context.Background()
	req := &sdk.CallToolRequest{}

	tests := []struct {
		name    string
		input   SenseiGraphInput
		wantErr bool
	}{
		{"default json", SenseiGraphInput{}, false},
		{"dot", SenseiGraphInput{Format: "dot"}, false},
		{"json with problems", SenseiGraphInput{Format: "json", IncludeProblems: true}, false},
		{"html unsupported", SenseiGraphInput{Format: "html"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, output, err := server.handleSenseiGraph(ctx, req, tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("handleSenseiGraph failed: %v", err)
			}
			if output.NodeCount == 0 || output.EdgeCount == 0 {
				t.Errorf("counts = %d/%d, want non-zero", output.NodeCount, output.EdgeCount)
			}

			switch g := output.Graph.(type) {
			case string:
				if output.Format != "dot" || !strings.HasPrefix(g, "digraph sensei {") {
					t.Errorf("unexpected DOT output (format %q)", output.Format)
				}
			case visualization.Graph:
				if output.Format != "json" || g.NodeCount != output.NodeCount {
					t.Errorf("unexpected JSON output (format %q)", output.Format)
				}
				if tt.input.IncludeProblems {
					sawProblem := false
					for _, n := range g.Nodes {
						sawProblem = sawProblem || n.Kind == "problem"
					}
					if !sawProblem {
						t.Error("expected problem nodes")
					}
				}
			default:
				t.Errorf("Graph has unexpected type %T", output.Graph)
			}
		})
	}
}

func TestHandlers_RateLimited(t *testing.T) {
	server, _ := setupTestServer(t)
	server.toolLimiters = ratelimit.ToolLimiters{"sensei_graph": ratelimit.NewLimiter(0, 1)}
	ctx := context.Background()
	req := &sdk.CallToolRequest{}

	if _, _, err := server.handleSenseiGraph(ctx, req, SenseiGraphInput{}); err != nil {
		t.Fatalf("first call failed: %v", err)
	}
	_, _, err := server.handleSenseiGraph(ctx, req, SenseiGraphInput{})
	if err == nil || !strings.Contains(err.Error(), "rate limit exceeded") {
		t.Errorf("error = %v, want rate limit error", err)
	}
}
