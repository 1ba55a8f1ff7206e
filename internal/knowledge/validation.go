package knowledge

import "fmt"

// Validation issue kinds.
const (
	IssueDangling      = "dangling"
	IssueSelfReference = "self-reference"
	IssueCycle         = "cycle"
)

// ValidationError describes a catalog consistency issue. Issues are
// informational: the recommendation engine tolerates all of them.
type ValidationError struct {
	NodeID string   `json:"node_id"`
	Field  string   `json:"field"`  // "prerequisites", "next_concepts", "concepts", "similar"
	RefID  string   `json:"ref_id"` // The problematic reference
	Issue  string   `json:"issue"`  // "dangling", "cycle", "self-reference"
	Cycle  []string `json:"cycle,omitempty"`
}

// String returns a human-readable description of the validation error.
func (e ValidationError) String() string {
	return fmt.Sprintf("%s: %s in %s references %s", e.Issue, e.NodeID, e.Field, e.RefID)
}

// Validate reports dangling references, self-references and prerequisite
// cycles. Results follow catalog order.
func Validate(g *Graph) []ValidationError {
	var errs []ValidationError

	// sameTable is false when refs point into a different identifier space,
	// e.g. a problem's concepts.
	check := func(nodeID, field string, refs []string, exists func(string) bool, sameTable bool) {
		for _, ref := range refs {
			switch {
			case sameTable && ref == nodeID:
				errs = append(errs, ValidationError{NodeID: nodeID, Field: field, RefID: ref, Issue: IssueSelfReference})
			case !exists(ref):
				errs = append(errs, ValidationError{NodeID: nodeID, Field: field, RefID: ref, Issue: IssueDangling})
			}
		}
	}

	prereqGraph := make(map[string][]string, len(g.concepts))
	order := make([]string, 0, len(g.concepts))

	for _, c := range g.concepts {
		check(c.ID, "prerequisites", c.Prerequisites, g.HasConcept, true)
		check(c.ID, "next_concepts", c.NextConcepts, g.HasConcept, true)

		valid := make([]string, 0, len(c.Prerequisites))
		for _, ref := range c.Prerequisites {
			if ref != c.ID && g.HasConcept(ref) {
				valid = append(valid, ref)
			}
		}
		prereqGraph[c.ID] = valid
		order = append(order, c.ID)
	}

	for _, p := range g.problems {
		check(p.ID, "concepts", p.Concepts, g.HasConcept, false)
		check(p.ID, "similar", p.Similar, g.HasProblem, true)
	}

	for _, cycle := range detectCycles(prereqGraph, order) {
		errs = append(errs, ValidationError{
			NodeID: cycle[len(cycle)-2],
			Field:  "prerequisites",
			RefID:  cycle[len(cycle)-1],
			Issue:  IssueCycle,
			Cycle:  cycle,
		})
	}

	return errs
}

// detectCycles finds back edges with a DFS using color marking, visiting
// roots in the given order. Each cycle is returned as a closed path whose
// first and last elements are the same node.
func detectCycles(graph map[string][]string, order []string) [][]string {
	// Color states: 0 = white (unvisited), 1 = gray (on stack), 2 = black (done)
	color := make(map[string]int, len(graph))
	var stack []string
	var cycles [][]string

	var dfs func(node string)
	dfs = func(node string) {
		color[node] = 1
		stack = append(stack, node)

		for _, next := range graph[node] {
			switch color[next] {
			case 1:
				start := len(stack) - 1
				for stack[start] != next {
					start--
				}
				cycle := append([]string(nil), stack[start:]...)
				cycles = append(cycles, append(cycle, next))
			case 0:
				dfs(next)
			}
		}

		stack = stack[:len(stack)-1]
		color[node] = 2
	}

	for _, node := range order {
		if color[node] == 0 {
			dfs(node)
		}
	}
	return cycles
}
