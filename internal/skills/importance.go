package skills

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/fairyhunter13/ai-skill-screener/internal/domain"
)

// Scorer estimates how mandatory each vocabulary skill is within a text.
type Scorer struct {
	policy   Policy
	keywords []Keyword
}

// NewScorer returns a Scorer using policy p.
func NewScorer(p Policy) *Scorer {
	kw := make([]Keyword, 0, len(p.Keywords))
	for _, k := range p.Keywords {
		kw = append(kw, Keyword{Phrase: Normalize(k.Phrase), Factor: k.Factor})
	}
	return &Scorer{policy: p, keywords: kw}
}

// Policy returns the scoring policy.
func (s *Scorer) Policy() Policy { return s.policy }

// Rank scores every vocabulary skill against text and keeps those scoring at
// least threshold*Leniency. Each list is ordered by score descending; ties
// keep vocabulary order. Texts with fewer than MinDescription non-whitespace
// characters yield two empty lists.
func (s *Scorer) Rank(text string, vocab Vocabulary, threshold float64) domain.RankedSkills {
	out := domain.RankedSkills{Technical: []domain.ScoredSkill{}, Soft: []domain.ScoredSkill{}}
	if nonSpaceLen(text) < s.policy.MinDescription {
		return out
	}
	doc := newScoredText(strings.ToLower(text))
	cutoff := threshold * s.policy.Leniency
	cache := make(map[string]float64, vocab.Size())
	score := func(skill string) float64 {
		if v, ok := cache[skill]; ok {
			return v
		}
		v := s.scoreSkill(doc, strings.ToLower(skill))
		cache[skill] = v
		return v
	}
	for _, skill := range vocab.Technical {
		if v := score(skill); v >= cutoff {
			out.Technical = append(out.Technical, domain.ScoredSkill{Skill: skill, Score: v})
		}
	}
	for _, skill := range vocab.Soft {
		if v := score(skill); v >= cutoff {
			out.Soft = append(out.Soft, domain.ScoredSkill{Skill: skill, Score: v})
		}
	}
	sortByScore(out.Technical)
	sortByScore(out.Soft)
	return out
}

// Score returns the importance of a single skill in text, without filtering.
func (s *Scorer) Score(text, skill string) float64 {
	return s.scoreSkill(newScoredText(strings.ToLower(text)), strings.ToLower(skill))
}

func (s *Scorer) scoreSkill(doc *scoredText, skill string) float64 {
	if skill == "" {
		return 0
	}
	exact := strings.Count(doc.text, skill)
	var score float64
	if exact > 0 {
		score = s.policy.ExactBase + s.policy.ExactWeight*float64(exact)
	} else {
		words := 0
		// Repeated words are counted once per occurrence in the skill.
		for _, w := range strings.Fields(skill) {
			words += strings.Count(doc.text, w)
		}
		score = s.policy.WordWeight * float64(words)
	}
	score = clamp01(score)
	if exact == 0 {
		return score
	}
	window := doc.window(strings.Index(doc.text, skill), skill, s.policy.ContextWindow)
	for _, k := range s.keywords {
		if strings.Contains(window, k.Phrase) {
			score = clamp01(score * k.Factor)
			break
		}
	}
	return score
}

// scoredText is a lower-cased text with lazily computed rune offsets so the
// context window is measured in characters, not bytes.
type scoredText struct {
	text  string
	runes []rune
}

func newScoredText(text string) *scoredText { return &scoredText{text: text} }

// window returns the text from radius characters before the match at byte
// offset idx to radius characters after its end, clipped to the text.
func (t *scoredText) window(idx int, match string, radius int) string {
	if t.runes == nil {
		t.runes = []rune(t.text)
	}
	start := utf8.RuneCountInString(t.text[:idx])
	end := start + utf8.RuneCountInString(match)
	lo := start - radius
	if lo < 0 {
		lo = 0
	}
	hi := end + radius
	if hi > len(t.runes) {
		hi = len(t.runes)
	}
	return string(t.runes[lo:hi])
}

func nonSpaceLen(s string) int {
	n := 0
	for _, r := range s {
		if !unicode.IsSpace(r) {
			n++
		}
	}
	return n
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func sortByScore(list []domain.ScoredSkill) {
	sort.SliceStable(list, func(i, j int) bool { return list[i].Score > list[j].Score })
}

// Truncate returns the first n entries of list; n <= 0 keeps everything.
func Truncate(list []domain.ScoredSkill, n int) []domain.ScoredSkill {
	if n <= 0 || len(list) <= n {
		return list
	}
	return list[:n]
}
