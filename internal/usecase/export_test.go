package usecase_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/ai-skill-screener/internal/domain"
	"github.com/fairyhunter13/ai-skill-screener/internal/skills"
	"github.com/fairyhunter13/ai-skill-screener/internal/usecase"
)

func TestWriteRankCSV_RoundsAndTiers(t *testing.T) {
	var buf bytes.Buffer
	ranked := domain.RankedSkills{
		Technical: []domain.ScoredSkill{{Skill: "go", Score: 0.5}, {Skill: "machine learning", Score: 0.96}},
		Soft:      []domain.ScoredSkill{{Skill: "grit", Score: 0.12345}},
	}
	require.NoError(t, usecase.WriteRankCSV(&buf, ranked, skills.DefaultPolicy()))
	assert.Equal(t, "Skill,Type,Relevance Score,Priority\n"+
		"go,Technical,0.5,GOOD TO HAVE\n"+
		"machine learning,Technical,0.96,MUST HAVE\n"+
		"grit,Soft,0.123,NICE TO HAVE\n", buf.String())
}

func TestWriteRankCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, usecase.WriteRankCSV(&buf, domain.RankedSkills{}, skills.DefaultPolicy()))
	assert.Equal(t, "Skill,Type,Relevance Score,Priority\n", buf.String())
}
