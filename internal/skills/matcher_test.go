package skills_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fairyhunter13/ai-skill-screener/internal/skills"
)

func TestMatch_Example(t *testing.T) {
	role := []string{"machine learning", "python", "sql"}
	found := skills.Match("i have experience in python and sql", role)
	assert.Equal(t, []string{"python", "sql"}, found)
	assert.Equal(t, []string{"machine learning"}, skills.Missing(role, found))
}

func TestMatch_SubsetOfCandidates(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		candidates []string
	}{
		{"empty text", "", []string{"go", "sql"}},
		{"no candidates", "python", nil},
		{"duplicates", "go go go", []string{"go", "go", "rust"}},
		{"mixed case", "Led a KUBERNETES migration", []string{"Kubernetes", "helm"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := skills.Match(tt.text, tt.candidates)
			for _, s := range got {
				assert.Contains(t, tt.candidates, s)
			}
		})
	}
}

func TestMatch_AbsentSkillNeverMatches(t *testing.T) {
	for _, s := range []string{"rust", "machine learning", "c++"} {
		assert.NotContains(t, skills.Match("python and sql developer", []string{s}), s)
	}
}

func TestMatch_NoWordBoundary(t *testing.T) {
	// substring containment is intentional; "go" is found inside "ego"
	assert.Equal(t, []string{"go"}, skills.Match("a big ego", []string{"go"}))
}

func TestMatch_Deduplicated(t *testing.T) {
	assert.Equal(t, []string{"go"}, skills.Match("go", []string{"go", "go"}))
}

func TestMissing(t *testing.T) {
	assert.Equal(t, []string{}, skills.Missing([]string{"a"}, []string{"a"}))
	assert.Equal(t, []string{"a", "b"}, skills.Missing([]string{"b", "a", "a"}, nil))
}
