package recommend

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/sync/errgroup"

	"github.com/nvandessel/dsa-sensei/internal/constants"
	"github.com/nvandessel/dsa-sensei/internal/knowledge"
	"github.com/nvandessel/dsa-sensei/internal/models"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	g, err := knowledge.Default()
	if err != nil {
		t.Fatalf("knowledge.Default() error = %v", err)
	}
	return NewEngine(g)
}

func summaryIDs(s []models.ProblemSummary) []string {
	ids := make([]string, len(s))
	for i, p := range s {
		ids[i] = p.ID
	}
	return ids
}

func TestRecommendFromConcepts_ArraysAndHashing(t *testing.T) {
	e := newTestEngine(t)

	got := e.RecommendFromConcepts([]string{"arrays", "hashing"})

	if diff := cmp.Diff([]string{"binary_search", "two_pointers"}, got.NextConcepts); diff != "" {
		t.Errorf("NextConcepts mismatch (-want +got):\n%s", diff)
	}
	if got.Difficulty != models.DifficultyMedium {
		t.Errorf("Difficulty = %q, want medium", got.Difficulty)
	}
	if diff := cmp.Diff([]string{"two_sum"}, summaryIDs(got.ProblemsToSolve)); diff != "" {
		t.Errorf("ProblemsToSolve mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"arrays", "hashing"}, got.LearnedConcepts); diff != "" {
		t.Errorf("LearnedConcepts mismatch (-want +got):\n%s", diff)
	}
}

func TestRecommendFromConcepts(t *testing.T) {
	e := newTestEngine(t)

	tests := []struct {
		name         string
		learned      []string
		wantNext     []string
		wantProblems []string
		wantDiff     models.Difficulty
	}{
		{
			name:         "input is normalized",
			learned:      []string{"Linked Lists", "linked-lists"},
			wantNext:     []string{"fast_slow_pointers"},
			wantProblems: []string{"reverse_linked_list"},
			wantDiff:     models.DifficultyMedium,
		},
		{
			name:         "empty prerequisites are satisfied",
			learned:      []string{"basics"},
			wantNext:     []string{"hashing", "linked_lists", "queues", "recursion", "stacks", "trees"},
			wantProblems: []string{},
			wantDiff:     models.DifficultyEasy,
		},
		{
			name:         "problems sorted easy first",
			learned:      []string{"dynamic_programming", "recursion"},
			wantNext:     []string{"backtracking"},
			wantProblems: []string{"climbing_stairs", "coin_change"},
			wantDiff:     models.DifficultyHard,
		},
		{
			name:         "unknown concepts contribute nothing",
			learned:      []string{"quantum_sorting"},
			wantNext:     []string{},
			wantProblems: []string{},
			wantDiff:     "",
		},
		{
			name:         "nothing learned",
			learned:      nil,
			wantNext:     []string{},
			wantProblems: []string{},
			wantDiff:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.RecommendFromConcepts(tt.learned)
			if diff := cmp.Diff(tt.wantNext, got.NextConcepts); diff != "" {
				t.Errorf("NextConcepts mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantProblems, summaryIDs(got.ProblemsToSolve)); diff != "" {
				t.Errorf("ProblemsToSolve mismatch (-want +got):\n%s", diff)
			}
			if got.Difficulty != tt.wantDiff {
				t.Errorf("Difficulty = %q, want %q", got.Difficulty, tt.wantDiff)
			}
		})
	}
}

func TestRecommendFromConcepts_DanglingPrerequisite(t *testing.T) {
	// b declares a prerequisite that is not in the catalog. It stays locked
	// until the learner reports that prerequisite too.
	g, err := knowledge.New(knowledge.Catalog{
		Concepts: []models.ConceptNode{
			{ID: "a", NextConcepts: []string{"b"}, Difficulty: models.DifficultyEasy},
			{ID: "b", Prerequisites: []string{"a", "ghost"}, Difficulty: models.DifficultyMedium},
		},
	})
	if err != nil {
		t.Fatalf("knowledge.New() error = %v", err)
	}
	e := NewEngine(g)

	tests := []struct {
		name     string
		learned  []string
		wantNext []string
		wantDiff models.Difficulty
	}{
		{"undefined prerequisite is unmet", []string{"a"}, []string{}, ""},
		{"undefined prerequisite reported as learned", []string{"a", "ghost"}, []string{"b"}, models.DifficultyMedium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.RecommendFromConcepts(tt.learned)
			if diff := cmp.Diff(tt.wantNext, got.NextConcepts); diff != "" {
				t.Errorf("NextConcepts mismatch (-want +got):\n%s", diff)
			}
			if got.Difficulty != tt.wantDiff {
				t.Errorf("Difficulty = %q, want %q", got.Difficulty, tt.wantDiff)
			}
		})
	}
}

func TestRecommendFromConcepts_ProblemCap(t *testing.T) {
	e := newTestEngine(t)

	var all []string
	for _, c := range e.Graph().Concepts() {
		all = append(all, c.ID)
	}
	all = append(all, "sorting")

	got := e.RecommendFromConcepts(all)
	if len(got.ProblemsToSolve) != constants.MaxProblemsToSolve {
		t.Fatalf("len(ProblemsToSolve) = %d, want %d", len(got.ProblemsToSolve), constants.MaxProblemsToSolve)
	}
	for _, p := range got.ProblemsToSolve {
		if p.Difficulty != models.DifficultyEasy {
			t.Errorf("expected only easy problems in the first five, got %s (%s)", p.ID, p.Difficulty)
		}
	}
	want := []string{"two_sum", "best_time_to_buy_sell_stock", "reverse_linked_list", "linked_list_cycle", "merge_two_sorted_lists"}
	if diff := cmp.Diff(want, summaryIDs(got.ProblemsToSolve)); diff != "" {
		t.Errorf("ties should keep catalog order (-want +got):\n%s", diff)
	}
}

// Every single concept and every pair of concepts is checked against the
// eligibility and prerequisite rules.
func TestRecommendFromConcepts_Properties(t *testing.T) {
	e := newTestEngine(t)
	g := e.Graph()

	var ids []string
	for _, c := range g.Concepts() {
		ids = append(ids, c.ID)
	}

	var sets [][]string
	for i := range ids {
		sets = append(sets, []string{ids[i]})
		for j := i + 1; j < len(ids); j++ {
			sets = append(sets, []string{ids[i], ids[j]})
		}
	}

	for _, learned := range sets {
		set := map[string]bool{}
		for _, id := range learned {
			set[id] = true
		}
		rec := e.RecommendFromConcepts(learned)

		for i, p := range rec.ProblemsToSolve {
			for _, c := range p.Concepts {
				if !set[c] {
					t.Errorf("%v: problem %s needs unlearned concept %s", learned, p.ID, c)
				}
			}
			if i > 0 && rec.ProblemsToSolve[i-1].Difficulty.Rank() > p.Difficulty.Rank() {
				t.Errorf("%v: problems not sorted by difficulty", learned)
			}
		}

		for i, next := range rec.NextConcepts {
			node, ok := g.Concept(next)
			if !ok {
				t.Errorf("%v: next concept %s is not defined", learned, next)
				continue
			}
			for _, pre := range node.Prerequisites {
				if !set[pre] {
					t.Errorf("%v: next concept %s has unmet prerequisite %s", learned, next, pre)
				}
			}
			if i > 0 && rec.NextConcepts[i-1] >= next {
				t.Errorf("%v: next concepts not strictly sorted: %v", learned, rec.NextConcepts)
			}
		}
	}
}

func TestRecommendFromProblem_TwoSum(t *testing.T) {
	e := newTestEngine(t)

	got, err := e.RecommendFromProblem("two sum")
	if err != nil {
		t.Fatalf("RecommendFromProblem() error = %v", err)
	}

	want := &models.ProblemRecommendation{
		Problem:         "two_sum",
		ConceptsLearned: []string{"arrays", "hashing"},
		SimilarProblems: []models.ProblemSummary{
			{ID: "three_sum", Difficulty: models.DifficultyMedium, Concepts: []string{"arrays", "two_pointers", "sorting"}, Pattern: "two_sum_pattern"},
		},
		PatternBasedProblems: []models.ProblemSummary{},
		NextConcepts:         []string{"binary_search", "two_pointers"},
		Pattern:              "two_sum_pattern",
		Difficulty:           models.DifficultyEasy,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("RecommendFromProblem() mismatch (-want +got):\n%s", diff)
	}
}

func TestRecommendFromProblem(t *testing.T) {
	e := newTestEngine(t)

	tests := []struct {
		name        string
		problem     string
		wantSimilar []string
		wantPattern []string
		wantDiff    models.Difficulty
	}{
		{
			name:        "pattern-based excludes declared similars",
			problem:     "maximum_subarray",
			wantSimilar: []string{"best_time_to_buy_sell_stock"},
			wantPattern: []string{},
			wantDiff:    models.DifficultyMedium,
		},
		{
			name:        "pattern-based fills in undeclared siblings",
			problem:     "best-time-to-buy-sell-stock",
			wantSimilar: []string{},
			wantPattern: []string{"maximum_subarray"},
			wantDiff:    models.DifficultyEasy,
		},
		{
			name:        "similar keeps declared order",
			problem:     "Permutations",
			wantSimilar: []string{"subsets"},
			wantPattern: []string{},
			wantDiff:    models.DifficultyMedium,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.RecommendFromProblem(tt.problem)
			if err != nil {
				t.Fatalf("RecommendFromProblem(%q) error = %v", tt.problem, err)
			}
			if diff := cmp.Diff(tt.wantSimilar, summaryIDs(got.SimilarProblems)); diff != "" {
				t.Errorf("SimilarProblems mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantPattern, summaryIDs(got.PatternBasedProblems)); diff != "" {
				t.Errorf("PatternBasedProblems mismatch (-want +got):\n%s", diff)
			}
			if got.Difficulty != tt.wantDiff {
				t.Errorf("Difficulty = %q, want %q", got.Difficulty, tt.wantDiff)
			}
		})
	}
}

func TestRecommendFromProblem_NotFound(t *testing.T) {
	e := newTestEngine(t)

	rec, err := e.RecommendFromProblem("nonexistent_problem_xyz")
	if rec != nil {
		t.Errorf("expected nil recommendation, got %+v", rec)
	}

	var nf *models.NotFound
	if !errors.As(err, &nf) {
		t.Fatalf("error = %v, want *models.NotFound", err)
	}
	if nf.What != models.NotFoundProblem || nf.Subject != "nonexistent_problem_xyz" {
		t.Errorf("NotFound = %+v", nf)
	}
	if nf.Suggestion == "" {
		t.Error("NotFound.Suggestion should not be empty")
	}
}

func TestRecommendFromProblem_Stable(t *testing.T) {
	e := newTestEngine(t)

	for _, p := range e.Graph().Problems() {
		a, err := e.RecommendFromProblem(p.ID)
		if err != nil {
			t.Fatalf("RecommendFromProblem(%s) error = %v", p.ID, err)
		}
		b, _ := e.RecommendFromProblem(p.ID)
		if diff := cmp.Diff(a.ConceptsLearned, b.ConceptsLearned); diff != "" || a.Pattern != b.Pattern {
			t.Errorf("%s: repeated calls disagree", p.ID)
		}
		if len(a.SimilarProblems) > constants.MaxSimilarProblems ||
			len(a.PatternBasedProblems) > constants.MaxPatternProblems ||
			len(a.NextConcepts) > constants.MaxNextConceptsAfterSolve {
			t.Errorf("%s: result exceeds caps", p.ID)
		}
	}
}

func TestEngine_ConcurrentUse(t *testing.T) {
	e := newTestEngine(t)
	want := e.RecommendFromConcepts([]string{"arrays", "hashing"})

	var g errgroup.Group
	for i := 0; i < 32; i++ {
		g.Go(func() error {
			got := e.RecommendFromConcepts([]string{"hashing", "arrays"})
			if diff := cmp.Diff(want, got); diff != "" {
				return errors.New(diff)
			}
			if _, err := e.RecommendFromProblem("two_sum"); err != nil {
				return err
			}
			_, err := e.LearningPath([]string{"arrays"}, "dynamic_programming")
			return err
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("concurrent use failed: %v", err)
	}
}
