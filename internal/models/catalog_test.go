package models

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNormalizeID(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"two_sum", "two_sum"},
		{"Two Sum", "two_sum"},
		{"two-sum", "two_sum"},
		{"  Two--Sum_ ", "two_sum"},
		{"Dynamic   Programming", "dynamic_programming"},
		{"best time to buy", "best_time_to_buy"},
		{"__", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := NormalizeID(tt.input)
			if got != tt.want {
				t.Errorf("NormalizeID(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if again := NormalizeID(got); again != got {
				t.Errorf("NormalizeID not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestNormalizeIDs(t *testing.T) {
	got := NormalizeIDs([]string{"Arrays", " ", "Hash-Map"})
	if diff := cmp.Diff([]string{"arrays", "hash_map"}, got); diff != "" {
		t.Errorf("NormalizeIDs() mismatch (-want +got):\n%s", diff)
	}
}

func TestDifficultyRank(t *testing.T) {
	tests := []struct {
		d     Difficulty
		rank  int
		valid bool
	}{
		{DifficultyEasy, 0, true},
		{DifficultyMedium, 1, true},
		{DifficultyHard, 2, true},
		{"", 3, false},
		{"expert", 3, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.d), func(t *testing.T) {
			if got := tt.d.Rank(); got != tt.rank {
				t.Errorf("Rank() = %d, want %d", got, tt.rank)
			}
			if got := tt.d.Valid(); got != tt.valid {
				t.Errorf("Valid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestAliasTableIDs(t *testing.T) {
	table := AliasTable{
		{ID: "arrays", Phrases: []string{"array"}},
		{ID: "hashing", Phrases: []string{"hash map", "hashmap"}},
	}
	if diff := cmp.Diff([]string{"arrays", "hashing"}, table.IDs()); diff != "" {
		t.Errorf("IDs() mismatch (-want +got):\n%s", diff)
	}
}
