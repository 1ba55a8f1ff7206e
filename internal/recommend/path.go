package recommend

import (
	"slices"
	"strings"

	"github.com/nvandessel/dsa-sensei/internal/constants"
	"github.com/nvandessel/dsa-sensei/internal/models"
)

type pathEntry struct {
	node string
	path []string // goal first, node last
}

// LearningPath searches backward from goal along prerequisite edges and
// returns the route from the first concept reached whose prerequisites are
// all in current, ending at goal. It returns a *models.NotFound error when
// goal is not a known concept.
//
// The search is breadth-first and stops at the first satisfied concept, so the
// path is not guaranteed to cover every unmet prerequisite of goal. When no
// satisfied concept is reachable the result is just [goal] with a note.
func (e *Engine) LearningPath(current []string, goal string) (*models.LearningPath, error) {
	goalID := models.NormalizeID(goal)
	if !e.graph.HasConcept(goalID) {
		e.logger.Debug("goal concept not found", "goal", goal)
		return nil, &models.NotFound{
			Subject:    strings.TrimSpace(goal),
			What:       models.NotFoundConcept,
			Suggestion: constants.ConceptSuggestion,
		}
	}

	learned, sorted := learnedSet(current)

	queue := []pathEntry{{node: goalID, path: []string{goalID}}}
	visited := map[string]bool{goalID: true}

	for len(queue) > 0 {
		entry := queue[0]
		queue = queue[1:]

		node, ok := e.graph.Concept(entry.node)
		if !ok {
			continue
		}

		if allIn(node.Prerequisites, learned) {
			path := slices.Clone(entry.path)
			slices.Reverse(path)
			e.logger.Debug("learning path found", "goal", goalID, "path", path)
			return &models.LearningPath{
				Path:         path,
				CurrentLevel: sorted,
				Goal:         goalID,
			}, nil
		}

		for _, prereq := range node.Prerequisites {
			if visited[prereq] || learned[prereq] {
				continue
			}
			visited[prereq] = true
			queue = append(queue, pathEntry{
				node: prereq,
				path: append(slices.Clone(entry.path), prereq),
			})
		}
	}

	e.logger.Debug("no satisfied ancestor", "goal", goalID)
	return &models.LearningPath{
		Path:         []string{goalID},
		CurrentLevel: sorted,
		Goal:         goalID,
		Note:         constants.LearningPathNote,
	}, nil
}
