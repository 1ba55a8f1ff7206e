package visualization

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/nvandessel/dsa-sensei/internal/knowledge"
	"github.com/nvandessel/dsa-sensei/internal/models"
)

func testGraph(t *testing.T) *knowledge.Graph {
	t.Helper()
	g, err := knowledge.New(knowledge.Catalog{
		Concepts: []models.ConceptNode{
			{ID: "arrays", NextConcepts: []string{"two_pointers", "tries"}, Difficulty: models.DifficultyEasy},
			{ID: "two_pointers", Prerequisites: []string{"arrays"}, Difficulty: models.DifficultyMedium},
		},
		Problems: []models.ProblemNode{
			{ID: "two_sum", Concepts: []string{"arrays"}, Difficulty: models.DifficultyEasy, Pattern: "hashing", Similar: []string{"three_sum", "ghost"}},
			{ID: "three_sum", Concepts: []string{"arrays", "two_pointers"}, Difficulty: models.DifficultyMedium, Pattern: "two_pointers"},
		},
	})
	if err != nil {
		t.Fatalf("knowledge.New() error = %v", err)
	}
	return g
}

func TestBuild_ConceptsOnly(t *testing.T) {
	got := Build(testGraph(t), Options{})

	wantNodes := []Node{
		{ID: "arrays", Label: "arrays", Kind: "concept", Difficulty: models.DifficultyEasy},
		{ID: "two_pointers", Label: "two pointers", Kind: "concept", Difficulty: models.DifficultyMedium},
		{ID: "tries", Label: "tries", Kind: "missing"},
	}
	wantEdges := []Edge{
		{Source: "concept:arrays", Target: "concept:two_pointers", Kind: EdgeNext},
		{Source: "concept:arrays", Target: "concept:tries", Kind: EdgeNext},
		{Source: "concept:arrays", Target: "concept:two_pointers", Kind: EdgePrerequisite},
	}

	if diff := cmp.Diff(wantNodes, got.Nodes); diff != "" {
		t.Errorf("nodes mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(wantEdges, got.Edges); diff != "" {
		t.Errorf("edges mismatch (-want +got):\n%s", diff)
	}
	if got.NodeCount != 3 || got.EdgeCount != 3 {
		t.Errorf("counts = %d/%d, want 3/3", got.NodeCount, got.EdgeCount)
	}
}

func TestBuild_WithProblems(t *testing.T) {
	got := Build(testGraph(t), Options{IncludeProblems: true})

	if got.NodeCount != 5 {
		t.Errorf("NodeCount = %d, want 5", got.NodeCount)
	}
	if got.EdgeCount != 7 {
		t.Errorf("EdgeCount = %d, want 7", got.EdgeCount)
	}

	var similar []Edge
	for _, e := range got.Edges {
		if e.Kind == EdgeSimilar {
			similar = append(similar, e)
		}
	}
	want := []Edge{{Source: "problem:two_sum", Target: "problem:three_sum", Kind: EdgeSimilar}}
	if diff := cmp.Diff(want, similar); diff != "" {
		t.Errorf("similar edges mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_Highlight(t *testing.T) {
	got := Build(testGraph(t), Options{Highlight: []string{"Two Pointers"}})

	for _, n := range got.Nodes {
		if want := n.ID == "two_pointers"; n.Highlight != want {
			t.Errorf("node %s Highlight = %v, want %v", n.ID, n.Highlight, want)
		}
	}
}

func TestRenderDOT(t *testing.T) {
	dot := RenderDOT(testGraph(t), Options{IncludeProblems: true, Highlight: []string{"arrays"}})

	for _, want := range []string{
		"digraph sensei {",
		"rankdir=LR;",
		`"concept:arrays" [label="arrays", fillcolor="palegreen", penwidth=3];`,
		`"concept:two_pointers" [label="two pointers", fillcolor="khaki"];`,
		`"concept:tries" [label="tries", fillcolor="lightgray", style="filled,dashed"];`,
		`"problem:two_sum" [label="two sum", fillcolor="palegreen", shape=ellipse];`,
		`"concept:arrays" -> "concept:two_pointers" [label="next", style=dashed];`,
		`"concept:arrays" -> "concept:two_pointers" [label="prerequisite", style=solid];`,
		`"problem:three_sum" -> "concept:two_pointers" [label="practices", style=dotted];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT output missing %q\n%s", want, dot)
		}
	}
	if !strings.HasSuffix(dot, "}\n") {
		t.Error("DOT output should end with closing brace")
	}
}

func TestRenderDOT_DefaultCatalog(t *testing.T) {
	dot := RenderDOT(knowledge.MustDefault(), Options{})
	if !strings.Contains(dot, `"concept:basics"`) {
		t.Error("expected the basics concept in default catalog rendering")
	}
	if strings.Contains(dot, "problem:") {
		t.Error("problems should be omitted unless requested")
	}
}

func TestGraph_JSON(t *testing.T) {
	data, err := json.Marshal(Build(testGraph(t), Options{}))
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	for _, key := range []string{"nodes", "edges", "node_count", "edge_count"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("JSON missing key %q", key)
		}
	}
	if decoded["node_count"] != float64(3) {
		t.Errorf("node_count = %v, want 3", decoded["node_count"])
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{"short", "hello", 10, "hello"},
		{"exact", "hello", 5, "hello"},
		{"long", "hello world", 8, "hello..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncate(tt.input, tt.maxLen); got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
			}
		})
	}
}
