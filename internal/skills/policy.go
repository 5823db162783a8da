package skills

import (
	"fmt"

	"github.com/fairyhunter13/ai-skill-screener/internal/domain"
)

// Scoring policy defaults.
const (
	DefaultThreshold        = 0.4
	DefaultLeniency         = 0.5
	DefaultContextWindow    = 50
	DefaultMinDescription   = 10
	DefaultExactBase        = 0.7
	DefaultExactWeight      = 0.1
	DefaultWordWeight       = 0.05
	DefaultMustHaveCutoff   = 0.65
	DefaultGoodToHaveCutoff = 0.45
	MaxTopN                 = 50
)

// Keyword is a contextual cue near a skill mention and the factor applied
// to the skill score when the cue is present.
type Keyword struct {
	Phrase string  `yaml:"phrase" json:"phrase"`
	Factor float64 `yaml:"factor" json:"factor"`
}

// DefaultKeywords is the canonical importance keyword table. Order matters:
// only the first phrase found in the context window is applied.
var DefaultKeywords = []Keyword{
	{Phrase: "required", Factor: 1.2},
	{Phrase: "must have", Factor: 1.3},
	{Phrase: "mandatory", Factor: 1.4},
	{Phrase: "essential", Factor: 1.2},
	{Phrase: "critical", Factor: 1.3},
	{Phrase: "preferred", Factor: 0.8},
	{Phrase: "nice to have", Factor: 0.6},
	{Phrase: "optional", Factor: 0.5},
}

// Policy holds the tunable constants of importance scoring and tiering.
type Policy struct {
	Threshold        float64   `yaml:"threshold"`
	Leniency         float64   `yaml:"leniency"`
	ContextWindow    int       `yaml:"context_window"`
	MinDescription   int       `yaml:"min_description"`
	ExactBase        float64   `yaml:"exact_base"`
	ExactWeight      float64   `yaml:"exact_weight"`
	WordWeight       float64   `yaml:"word_weight"`
	MustHaveCutoff   float64   `yaml:"must_have_cutoff"`
	GoodToHaveCutoff float64   `yaml:"good_to_have_cutoff"`
	Keywords         []Keyword `yaml:"keywords"`
}

// DefaultPolicy returns the policy used when no override is configured.
func DefaultPolicy() Policy {
	kw := make([]Keyword, len(DefaultKeywords))
	copy(kw, DefaultKeywords)
	return Policy{
		Threshold:        DefaultThreshold,
		Leniency:         DefaultLeniency,
		ContextWindow:    DefaultContextWindow,
		MinDescription:   DefaultMinDescription,
		ExactBase:        DefaultExactBase,
		ExactWeight:      DefaultExactWeight,
		WordWeight:       DefaultWordWeight,
		MustHaveCutoff:   DefaultMustHaveCutoff,
		GoodToHaveCutoff: DefaultGoodToHaveCutoff,
		Keywords:         kw,
	}
}

// Validate checks that the policy constants are usable.
func (p Policy) Validate() error {
	switch {
	case p.Threshold < 0 || p.Threshold > 1:
		return fmt.Errorf("%w: threshold %v outside [0,1]", domain.ErrInvalidArgument, p.Threshold)
	case p.Leniency <= 0 || p.Leniency > 1:
		return fmt.Errorf("%w: leniency %v outside (0,1]", domain.ErrInvalidArgument, p.Leniency)
	case p.ContextWindow < 0:
		return fmt.Errorf("%w: negative context window", domain.ErrInvalidArgument)
	case p.MinDescription < 0:
		return fmt.Errorf("%w: negative min description", domain.ErrInvalidArgument)
	case p.GoodToHaveCutoff > p.MustHaveCutoff:
		return fmt.Errorf("%w: good_to_have_cutoff above must_have_cutoff", domain.ErrInvalidArgument)
	}
	for _, k := range p.Keywords {
		if Normalize(k.Phrase) == "" || k.Factor < 0 {
			return fmt.Errorf("%w: bad keyword %q", domain.ErrInvalidArgument, k.Phrase)
		}
	}
	return nil
}
