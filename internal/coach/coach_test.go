package coach

import (
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"golang.org/x/sync/errgroup"

	"github.com/nvandessel/dsa-sensei/internal/constants"
	"github.com/nvandessel/dsa-sensei/internal/extraction"
	"github.com/nvandessel/dsa-sensei/internal/knowledge"
	"github.com/nvandessel/dsa-sensei/internal/logging"
	"github.com/nvandessel/dsa-sensei/internal/metrics"
	"github.com/nvandessel/dsa-sensei/internal/models"
	"github.com/nvandessel/dsa-sensei/internal/recommend"
	"github.com/nvandessel/dsa-sensei/internal/respond"
)

// newTestCoach builds a coach over g with exact-only extraction so replies
// are deterministic.
func newTestCoach(t *testing.T, g *knowledge.Graph, opts ...Option) *Coach {
	t.Helper()
	ex := extraction.NewExtractor(g.ConceptAliases(), g.ProblemAliases(), extraction.WithFuzzy(false))
	renderer := respond.New(respond.WithPicker(respond.NewSeededPicker(1)))
	return New(ex, recommend.NewEngine(g), renderer, opts...)
}

func TestReply_LearnedConcepts(t *testing.T) {
	c := newTestCoach(t, knowledge.MustDefault())

	reply := c.Reply("I learned arrays and hashing", nil)

	if reply.Intent != models.IntentLearnedConcept {
		t.Fatalf("Intent = %q, want learned_concept", reply.Intent)
	}
	rec, ok := reply.Result.(*models.ConceptRecommendation)
	if !ok {
		t.Fatalf("Result = %T, want *models.ConceptRecommendation", reply.Result)
	}
	if diff := cmp.Diff([]string{"binary_search", "two_pointers"}, rec.NextConcepts); diff != "" {
		t.Errorf("NextConcepts mismatch (-want +got):\n%s", diff)
	}
	if reply.Difficulty != "" {
		t.Errorf("Difficulty = %q, want empty for concept replies", reply.Difficulty)
	}
	for _, name := range []string{"Binary Search", "Two Pointers", "Two Sum"} {
		if !strings.Contains(reply.Message, name) {
			t.Errorf("Message missing %q:\n%s", name, reply.Message)
		}
	}
	if _, err := uuid.Parse(reply.RequestID); err != nil {
		t.Errorf("RequestID %q is not a UUID: %v", reply.RequestID, err)
	}
}

func TestReply_KnownConceptsCount(t *testing.T) {
	c := newTestCoach(t, knowledge.MustDefault())

	reply := c.Reply("I learned hashing", []string{"arrays"})

	rec, ok := reply.Result.(*models.ConceptRecommendation)
	if !ok {
		t.Fatalf("Result = %T, want *models.ConceptRecommendation", reply.Result)
	}
	if diff := cmp.Diff([]string{"arrays", "hashing"}, rec.LearnedConcepts); diff != "" {
		t.Errorf("LearnedConcepts mismatch (-want +got):\n%s", diff)
	}
}

func TestReply_SolvedProblem(t *testing.T) {
	c := newTestCoach(t, knowledge.MustDefault())

	reply := c.Reply("I just solved two sum", nil)

	if reply.Intent != models.IntentSolvedProblem {
		t.Fatalf("Intent = %q, want solved_problem", reply.Intent)
	}
	rec, ok := reply.Result.(*models.ProblemRecommendation)
	if !ok {
		t.Fatalf("Result = %T, want *models.ProblemRecommendation", reply.Result)
	}
	if rec.Problem != "two_sum" {
		t.Errorf("Problem = %q, want two_sum", rec.Problem)
	}
	if reply.Difficulty != models.DifficultyEasy {
		t.Errorf("Difficulty = %q, want easy", reply.Difficulty)
	}
	if !strings.Contains(reply.Message, "Three Sum") {
		t.Errorf("Message should suggest Three Sum:\n%s", reply.Message)
	}
}

func TestReply_SolvedWithoutProblem(t *testing.T) {
	c := newTestCoach(t, knowledge.MustDefault())

	reply := c.Reply("I solved a problem today", nil)

	if reply.Intent != models.IntentSolvedProblem {
		t.Fatalf("Intent = %q, want solved_problem", reply.Intent)
	}
	if reply.Message != ClarifyProblemMessage {
		t.Errorf("Message = %q, want clarification", reply.Message)
	}
	if reply.Result != nil || reply.Difficulty != "" {
		t.Errorf("expected no result, got %+v", reply)
	}
}

func TestReply_UnknownProblem(t *testing.T) {
	g, err := knowledge.New(knowledge.Catalog{
		Concepts: []models.ConceptNode{{ID: "arrays", Difficulty: models.DifficultyEasy}},
		ProblemAliases: models.AliasTable{
			{ID: "mystery", Phrases: []string{"mystery puzzle"}},
		},
	})
	if err != nil {
		t.Fatalf("knowledge.New() error = %v", err)
	}
	c := newTestCoach(t, g)

	reply := c.Reply("I solved mystery puzzle", nil)

	nf, ok := reply.Result.(*models.NotFound)
	if !ok {
		t.Fatalf("Result = %T, want *models.NotFound", reply.Result)
	}
	if nf.Subject != "mystery" || nf.What != models.NotFoundProblem {
		t.Errorf("NotFound = %+v", nf)
	}
	if !strings.Contains(reply.Message, constants.ProblemSuggestion) {
		t.Errorf("Message should carry the suggestion:\n%s", reply.Message)
	}
	if reply.Difficulty != "" {
		t.Errorf("Difficulty = %q, want empty", reply.Difficulty)
	}
}

func TestReply_GoalQuestion(t *testing.T) {
	c := newTestCoach(t, knowledge.MustDefault())

	reply := c.Reply("how do i get to graphs", []string{"trees", "recursion"})

	path, ok := reply.Result.(*models.LearningPath)
	if !ok {
		t.Fatalf("Result = %T, want *models.LearningPath", reply.Result)
	}
	if diff := cmp.Diff([]string{"dfs", "graphs"}, path.Path); diff != "" {
		t.Errorf("Path mismatch (-want +got):\n%s", diff)
	}
	if path.Goal != "graphs" {
		t.Errorf("Goal = %q, want graphs", path.Goal)
	}
}

func TestReply_GoalPrefersExactMatchAfterGoalPhrase(t *testing.T) {
	g := knowledge.MustDefault()
	ex := extraction.NewExtractor(g.ConceptAliases(), g.ProblemAliases())
	renderer := respond.New(respond.WithPicker(respond.NewSeededPicker(1)))
	c := New(ex, recommend.NewEngine(g), renderer)

	tests := []struct {
		name      string
		text      string
		wantGoal  string
		wantKnown []string
	}{
		{"fuzzy neighbour ignored", "teach me tries", "tries", nil},
		{"stated knowledge skipped", "I know arrays, how do I get to graphs?", "graphs", []string{"arrays"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply := c.Reply(tt.text, nil)
			path, ok := reply.Result.(*models.LearningPath)
			if !ok {
				t.Fatalf("Result = %T, want *models.LearningPath", reply.Result)
			}
			if path.Goal != tt.wantGoal {
				t.Errorf("Goal = %q, want %q", path.Goal, tt.wantGoal)
			}
			if last := path.Path[len(path.Path)-1]; last != tt.wantGoal {
				t.Errorf("Path = %v, want it to end at %q", path.Path, tt.wantGoal)
			}
			for _, k := range tt.wantKnown {
				if !slices.Contains(path.CurrentLevel, k) {
					t.Errorf("CurrentLevel = %v, want it to include %q", path.CurrentLevel, k)
				}
			}
		})
	}
}

func TestGoalConcept(t *testing.T) {
	exact := func(id, phrase string) models.ExtractionResult {
		return models.ExtractionResult{ID: id, MatchedText: phrase, Confidence: 1, Method: models.MatchExact}
	}
	fuzzy := func(id, phrase string, score float64) models.ExtractionResult {
		return models.ExtractionResult{ID: id, MatchedText: phrase, Confidence: score, Method: models.MatchFuzzy}
	}

	tests := []struct {
		name       string
		cleaned    string
		detailed   []models.ExtractionResult
		known      []string
		wantGoal   string
		wantStated []string
	}{
		{
			name:     "exact beats earlier fuzzy",
			cleaned:  "teach me tries",
			detailed: []models.ExtractionResult{fuzzy("trees", "tree", 0.8), exact("tries", "tries")},
			wantGoal: "tries",
		},
		{
			name:       "known clause before goal phrase",
			cleaned:    "i know arrays how do i get to graphs",
			detailed:   []models.ExtractionResult{exact("arrays", "arrays"), exact("graphs", "graphs")},
			wantGoal:   "graphs",
			wantStated: []string{"arrays"},
		},
		{
			name:     "earliest mention after goal phrase",
			cleaned:  "teach me graphs after trees",
			detailed: []models.ExtractionResult{exact("trees", "tree"), exact("graphs", "graph")},
			wantGoal: "graphs",
		},
		{
			name:     "skips known",
			cleaned:  "path to arrays or graphs",
			detailed: []models.ExtractionResult{exact("arrays", "arrays"), exact("graphs", "graphs")},
			known:    []string{"Arrays"},
			wantGoal: "graphs",
		},
		{
			name:     "all known",
			cleaned:  "path to arrays",
			detailed: []models.ExtractionResult{exact("arrays", "arrays")},
			known:    []string{"arrays"},
			wantGoal: "arrays",
		},
		{
			name:     "most confident fuzzy",
			cleaned:  "teach me grahps",
			detailed: []models.ExtractionResult{fuzzy("heaps", "heaps", 0.76), fuzzy("graphs", "graphs", 0.83)},
			wantGoal: "graphs",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			processed := models.ProcessResult{CleanedText: tt.cleaned, ConceptsDetailed: tt.detailed}
			for _, r := range tt.detailed {
				processed.Concepts = append(processed.Concepts, r.ID)
			}
			goal, stated := goalConcept(processed, tt.known)
			if goal != tt.wantGoal {
				t.Errorf("goal = %q, want %q", goal, tt.wantGoal)
			}
			if diff := cmp.Diff(tt.wantStated, stated); diff != "" {
				t.Errorf("stated mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReply_Query(t *testing.T) {
	c := newTestCoach(t, knowledge.MustDefault())

	reply := c.Reply("good morning", nil)

	if reply.Intent != models.IntentQuery {
		t.Errorf("Intent = %q, want query", reply.Intent)
	}
	if reply.Message != ClarifyMessage || reply.Result != nil {
		t.Errorf("reply = %+v, want clarification", reply)
	}
}

func TestReply_DecisionLog(t *testing.T) {
	dir := t.TempDir()
	dl := logging.NewDecisionLogger(dir, "debug")
	defer dl.Close()

	c := newTestCoach(t, knowledge.MustDefault(), WithDecisionLogger(dl))
	reply := c.Reply("I just solved two sum", nil)

	data, err := os.ReadFile(filepath.Join(dir, logging.DecisionsFile))
	if err != nil {
		t.Fatalf("read decisions: %v", err)
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(string(data))), &entry); err != nil {
		t.Fatalf("parse decision: %v", err)
	}

	if entry["request_id"] != reply.RequestID {
		t.Errorf("request_id = %v, want %s", entry["request_id"], reply.RequestID)
	}
	if entry["result_kind"] != string(models.KindProblemRecommendation) {
		t.Errorf("result_kind = %v", entry["result_kind"])
	}
	if entry["difficulty"] != "easy" {
		t.Errorf("difficulty = %v, want easy", entry["difficulty"])
	}
	if _, hasText := entry["text"]; hasText {
		t.Error("text should only be logged at trace level")
	}
}

func TestReply_Metrics(t *testing.T) {
	c := newTestCoach(t, knowledge.MustDefault())

	intents := metrics.IntentsTotal.WithLabelValues(string(models.IntentQuery))
	clarifications := metrics.RecommendationsTotal.WithLabelValues("clarification")
	beforeIntent := testutil.ToFloat64(intents)
	beforeKind := testutil.ToFloat64(clarifications)

	c.Reply("good morning", nil)

	if got := testutil.ToFloat64(intents); got != beforeIntent+1 {
		t.Errorf("sensei_intents_total{intent=query} = %v, want %v", got, beforeIntent+1)
	}
	if got := testutil.ToFloat64(clarifications); got != beforeKind+1 {
		t.Errorf("sensei_recommendations_total{kind=clarification} = %v, want %v", got, beforeKind+1)
	}
}

func TestReply_Concurrent(t *testing.T) {
	c := newTestCoach(t, knowledge.MustDefault())
	texts := []string{
		"I learned arrays and hashing",
		"I just solved two sum",
		"how do i get to graphs",
		"good morning",
	}

	var g errgroup.Group
	ids := make([]string, 40)
	for i := range ids {
		g.Go(func() error {
			ids[i] = c.Reply(texts[i%len(texts)], nil).RequestID
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}

	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			t.Fatalf("duplicate request id %s", id)
		}
		seen[id] = true
	}
}

func TestLearnedConcepts(t *testing.T) {
	c := newTestCoach(t, knowledge.MustDefault())

	tests := []struct {
		name  string
		text  string
		known []string
		want  []string
	}{
		{"concept reply", "I learned hashing and arrays", []string{"Recursion"}, []string{"arrays", "hashing", "recursion"}},
		{"solved reply", "I just solved two sum", nil, []string{"arrays", "hashing"}},
		{"clarification", "good morning", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LearnedConcepts(c.Reply(tt.text, tt.known))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("LearnedConcepts() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
