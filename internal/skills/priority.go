package skills

import (
	"fmt"

	"github.com/fairyhunter13/ai-skill-screener/internal/domain"
)

// Tier is the presentation bucket of an importance score.
type Tier int

const (
	NiceToHave Tier = iota
	GoodToHave
	MustHave
)

// String returns the wire name of the tier.
func (t Tier) String() string {
	switch t {
	case MustHave:
		return "MUST_HAVE"
	case GoodToHave:
		return "GOOD_TO_HAVE"
	default:
		return "NICE_TO_HAVE"
	}
}

// Label returns the human label used in exports.
func (t Tier) Label() string {
	switch t {
	case MustHave:
		return "MUST HAVE"
	case GoodToHave:
		return "GOOD TO HAVE"
	default:
		return "NICE TO HAVE"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t Tier) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler for the wire names.
func (t *Tier) UnmarshalText(b []byte) error {
	switch string(b) {
	case "MUST_HAVE":
		*t = MustHave
	case "GOOD_TO_HAVE":
		*t = GoodToHave
	case "NICE_TO_HAVE":
		*t = NiceToHave
	default:
		return fmt.Errorf("%w: unknown priority %q", domain.ErrInvalidArgument, b)
	}
	return nil
}

// Tier maps a score to exactly one tier: [MustHaveCutoff, ∞) is MUST_HAVE,
// [GoodToHaveCutoff, MustHaveCutoff) is GOOD_TO_HAVE, anything lower is
// NICE_TO_HAVE.
func (p Policy) Tier(score float64) Tier {
	switch {
	case score >= p.MustHaveCutoff:
		return MustHave
	case score >= p.GoodToHaveCutoff:
		return GoodToHave
	default:
		return NiceToHave
	}
}

// Classify maps a score to its tier with the default cutoffs.
func Classify(score float64) Tier { return defaultCutoffs.Tier(score) }

var defaultCutoffs = Policy{MustHaveCutoff: DefaultMustHaveCutoff, GoodToHaveCutoff: DefaultGoodToHaveCutoff}

// Breakdown groups ranked skill names by tier. Technical skills come before
// soft skills inside each tier and rank order is preserved.
type Breakdown struct {
	MustHave   []string `json:"mustHave"`
	GoodToHave []string `json:"goodToHave"`
	NiceToHave []string `json:"niceToHave"`
}

// BreakdownOf groups ranked by tier using policy p. It does not change
// scores or ordering.
func BreakdownOf(ranked domain.RankedSkills, p Policy) Breakdown {
	b := Breakdown{MustHave: []string{}, GoodToHave: []string{}, NiceToHave: []string{}}
	add := func(list []domain.ScoredSkill) {
		for _, s := range list {
			switch p.Tier(s.Score) {
			case MustHave:
				b.MustHave = append(b.MustHave, s.Skill)
			case GoodToHave:
				b.GoodToHave = append(b.GoodToHave, s.Skill)
			default:
				b.NiceToHave = append(b.NiceToHave, s.Skill)
			}
		}
	}
	add(ranked.Technical)
	add(ranked.Soft)
	return b
}
