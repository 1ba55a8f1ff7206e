// Package visualization renders the knowledge graph in various output formats.
package visualization

import (
	"fmt"
	"strings"

	"github.com/nvandessel/dsa-sensei/internal/knowledge"
	"github.com/nvandessel/dsa-sensei/internal/models"
)

// Format specifies the output format for graph rendering.
type Format string

const (
	FormatDOT  Format = "dot"
	FormatJSON Format = "json"
)

// Edge kinds in rendered graphs.
const (
	EdgePrerequisite = "prerequisite"
	EdgeNext         = "next"
	EdgePractices    = "practices"
	EdgeSimilar      = "similar"
)

// nodeColors maps difficulties to DOT colors.
var nodeColors = map[models.Difficulty]string{
	models.DifficultyEasy:   "palegreen",
	models.DifficultyMedium: "khaki",
	models.DifficultyHard:   "salmon",
}

// edgeStyles maps edge kinds to DOT styles.
var edgeStyles = map[string]string{
	EdgePrerequisite: "solid",
	EdgeNext:         "dashed",
	EdgePractices:    "dotted",
	EdgeSimilar:      "dotted",
}

// Options controls what a rendering includes.
type Options struct {
	// IncludeProblems adds problem nodes with their concept and similar edges.
	IncludeProblems bool

	// Highlight outlines these concept identifiers, e.g. a learning path.
	Highlight []string
}

// Node is a rendered graph node.
type Node struct {
	ID         string            `json:"id"`
	Label      string            `json:"label"`
	Kind       string            `json:"kind"` // "concept", "problem" or "missing"
	Difficulty models.Difficulty `json:"difficulty,omitempty"`
	Pattern    string            `json:"pattern,omitempty"`
	Highlight  bool              `json:"highlight,omitempty"`
}

// Edge is a rendered graph edge.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Kind   string `json:"kind"`
}

// Graph is the JSON representation of a rendered knowledge graph.
type Graph struct {
	Nodes     []Node `json:"nodes"`
	Edges     []Edge `json:"edges"`
	NodeCount int    `json:"node_count"`
	EdgeCount int    `json:"edge_count"`
}

// nodeKey namespaces identifiers because a concept and a problem may share one.
func nodeKey(kind, id string) string {
	return kind + ":" + id
}

// Build collects nodes and deduplicated edges in catalog order. Prerequisite
// edges point from the prerequisite to the concept that needs it. References
// to undefined concepts become "missing" nodes.
func Build(g *knowledge.Graph, opts Options) Graph {
	highlight := make(map[string]bool, len(opts.Highlight))
	for _, id := range opts.Highlight {
		highlight[models.NormalizeID(id)] = true
	}

	var out Graph
	seenNodes := make(map[string]bool)
	seenEdges := make(map[string]bool)

	addNode := func(n Node) string {
		key := nodeKey(n.Kind, n.ID)
		if n.Kind == "missing" {
			key = nodeKey("concept", n.ID)
		}
		if !seenNodes[key] {
			seenNodes[key] = true
			out.Nodes = append(out.Nodes, n)
		}
		return key
	}
	addEdge := func(source, target, kind string) {
		key := source + "|" + target + "|" + kind
		if seenEdges[key] {
			return
		}
		seenEdges[key] = true
		out.Edges = append(out.Edges, Edge{Source: source, Target: target, Kind: kind})
	}
	conceptRef := func(id string) string {
		if c, ok := g.Concept(id); ok {
			return addNode(conceptNode(c, highlight))
		}
		return addNode(Node{ID: id, Label: displayLabel(id), Kind: "missing", Highlight: highlight[id]})
	}

	concepts := g.Concepts()
	for _, c := range concepts {
		addNode(conceptNode(c, highlight))
	}
	for _, c := range concepts {
		self := nodeKey("concept", c.ID)
		for _, pre := range c.Prerequisites {
			addEdge(conceptRef(pre), self, EdgePrerequisite)
		}
		for _, next := range c.NextConcepts {
			addEdge(self, conceptRef(next), EdgeNext)
		}
	}

	if opts.IncludeProblems {
		problems := g.Problems()
		for _, p := range problems {
			addNode(Node{ID: p.ID, Label: displayLabel(p.ID), Kind: "problem", Difficulty: p.Difficulty, Pattern: p.Pattern})
		}
		for _, p := range problems {
			self := nodeKey("problem", p.ID)
			for _, c := range p.Concepts {
				addEdge(self, conceptRef(c), EdgePractices)
			}
			for _, s := range p.Similar {
				if g.HasProblem(s) {
					addEdge(self, nodeKey("problem", s), EdgeSimilar)
				}
			}
		}
	}

	out.NodeCount = len(out.Nodes)
	out.EdgeCount = len(out.Edges)
	return out
}

func conceptNode(c models.ConceptNode, highlight map[string]bool) Node {
	return Node{ID: c.ID, Label: displayLabel(c.ID), Kind: "concept", Difficulty: c.Difficulty, Highlight: highlight[c.ID]}
}

// RenderDOT produces a Graphviz DOT representation of the knowledge graph.
func RenderDOT(g *knowledge.Graph, opts Options) string {
	graph := Build(g, opts)

	var b strings.Builder
	b.WriteString("digraph sensei {\n")
	b.WriteString("  rankdir=LR;\n")
	b.WriteString("  node [shape=box, style=filled, fontname=\"Helvetica\"];\n")
	b.WriteString("  edge [fontname=\"Helvetica\", fontsize=10];\n\n")

	for _, n := range graph.Nodes {
		color := nodeColors[n.Difficulty]
		if color == "" {
			color = "lightgray"
		}
		attrs := fmt.Sprintf("label=%q, fillcolor=%q", truncate(n.Label, 40), color)
		switch n.Kind {
		case "problem":
			attrs += ", shape=ellipse"
		case "missing":
			attrs += ", style=\"filled,dashed\""
		}
		if n.Highlight {
			attrs += ", penwidth=3"
		}
		fmt.Fprintf(&b, "  %q [%s];\n", dotID(n), attrs)
	}
	b.WriteString("\n")

	for _, e := range graph.Edges {
		style := edgeStyles[e.Kind]
		if style == "" {
			style = "solid"
		}
		fmt.Fprintf(&b, "  %q -> %q [label=%q, style=%s];\n", e.Source, e.Target, e.Kind, style)
	}

	b.WriteString("}\n")
	return b.String()
}

// dotID returns the namespaced identifier used for n in edges.
func dotID(n Node) string {
	if n.Kind == "missing" {
		return nodeKey("concept", n.ID)
	}
	return nodeKey(n.Kind, n.ID)
}

// displayLabel turns "two_sum" into "two sum".
func displayLabel(id string) string {
	return strings.ReplaceAll(id, "_", " ")
}

// truncate shortens a string to maxLen, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
