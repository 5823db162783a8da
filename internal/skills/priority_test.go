package skills_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/ai-skill-screener/internal/domain"
	"github.com/fairyhunter13/ai-skill-screener/internal/skills"
)

func TestClassify_Boundaries(t *testing.T) {
	tests := []struct {
		score float64
		want  skills.Tier
	}{
		{0, skills.NiceToHave},
		{0.2, skills.NiceToHave},
		{0.4499999, skills.NiceToHave},
		{0.45, skills.GoodToHave},
		{0.5, skills.GoodToHave},
		{0.6499999, skills.GoodToHave},
		{0.65, skills.MustHave},
		{0.96, skills.MustHave},
		{1, skills.MustHave},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, skills.Classify(tt.score), "score %v", tt.score)
	}
}

func TestClassify_PartitionsUnitInterval(t *testing.T) {
	counts := map[skills.Tier]int{}
	for i := 0; i <= 1000; i++ {
		s := float64(i) / 1000
		tier := skills.Classify(s)
		counts[tier]++
		switch tier {
		case skills.MustHave:
			assert.GreaterOrEqual(t, s, 0.65)
		case skills.GoodToHave:
			assert.True(t, s >= 0.45 && s < 0.65, "score %v", s)
		case skills.NiceToHave:
			assert.Less(t, s, 0.45)
		default:
			t.Fatalf("unknown tier %v", tier)
		}
	}
	assert.Equal(t, 1001, counts[skills.MustHave]+counts[skills.GoodToHave]+counts[skills.NiceToHave])
}

func TestTier_Names(t *testing.T) {
	assert.Equal(t, "MUST_HAVE", skills.MustHave.String())
	assert.Equal(t, "GOOD TO HAVE", skills.GoodToHave.Label())
	b, err := json.Marshal(map[string]skills.Tier{"p": skills.NiceToHave})
	require.NoError(t, err)
	assert.JSONEq(t, `{"p":"NICE_TO_HAVE"}`, string(b))
}

func TestTier_UnmarshalText(t *testing.T) {
	var got []skills.Tier
	require.NoError(t, json.Unmarshal([]byte(`["MUST_HAVE","GOOD_TO_HAVE","NICE_TO_HAVE"]`), &got))
	assert.Equal(t, []skills.Tier{skills.MustHave, skills.GoodToHave, skills.NiceToHave}, got)

	var one skills.Tier
	err := json.Unmarshal([]byte(`"SOMETIMES"`), &one)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestBreakdownOf(t *testing.T) {
	ranked := domain.RankedSkills{
		Technical: []domain.ScoredSkill{{Skill: "python", Score: 0.96}, {Skill: "sql", Score: 0.5}, {Skill: "r", Score: 0.2}},
		Soft:      []domain.ScoredSkill{{Skill: "communication", Score: 0.8}},
	}
	b := skills.BreakdownOf(ranked, skills.DefaultPolicy())
	assert.Equal(t, []string{"python", "communication"}, b.MustHave)
	assert.Equal(t, []string{"sql"}, b.GoodToHave)
	assert.Equal(t, []string{"r"}, b.NiceToHave)
	// scores and order are untouched
	assert.Equal(t, "python", ranked.Technical[0].Skill)
	assert.Equal(t, 0.5, ranked.Technical[1].Score)
}

func TestPolicy_Validate(t *testing.T) {
	require.NoError(t, skills.DefaultPolicy().Validate())

	mutate := []func(*skills.Policy){
		func(p *skills.Policy) { p.Threshold = 1.5 },
		func(p *skills.Policy) { p.Leniency = 0 },
		func(p *skills.Policy) { p.ContextWindow = -1 },
		func(p *skills.Policy) { p.MinDescription = -3 },
		func(p *skills.Policy) { p.GoodToHaveCutoff = 0.9 },
		func(p *skills.Policy) { p.Keywords = append(p.Keywords, skills.Keyword{Phrase: "  ", Factor: 1}) },
	}
	for i, m := range mutate {
		p := skills.DefaultPolicy()
		m(&p)
		err := p.Validate()
		require.Error(t, err, "case %d", i)
		assert.True(t, errors.Is(err, domain.ErrInvalidArgument))
	}
}

func TestDefaultPolicy_KeywordTableOrder(t *testing.T) {
	p := skills.DefaultPolicy()
	require.Len(t, p.Keywords, 8)
	assert.Equal(t, "required", p.Keywords[0].Phrase)
	assert.Equal(t, "optional", p.Keywords[7].Phrase)
	// the defaults are copied, not shared
	p.Keywords[0].Factor = 9
	assert.Equal(t, 1.2, skills.DefaultKeywords[0].Factor)
}
