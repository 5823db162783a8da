package usecase

import (
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/fairyhunter13/ai-skill-screener/internal/adapter/observability"
	"github.com/fairyhunter13/ai-skill-screener/internal/domain"
	"github.com/fairyhunter13/ai-skill-screener/internal/skills"
	"github.com/fairyhunter13/ai-skill-screener/pkg/textx"
)

// RankService ranks the vocabulary skills mentioned in job descriptions.
type RankService struct {
	Vocabulary skills.Vocabulary
	Scorer     *skills.Scorer
}

// NewRankService constructs a RankService with its dependencies.
func NewRankService(v skills.Vocabulary, s *skills.Scorer) RankService {
	return RankService{Vocabulary: v, Scorer: s}
}

// RankReport is a ranking together with its priority breakdown.
type RankReport struct {
	ID        string
	Ranked    domain.RankedSkills
	Breakdown skills.Breakdown
}

// Total returns the number of ranked skills across both lists.
func (r RankReport) Total() int { return len(r.Ranked.Technical) + len(r.Ranked.Soft) }

// DescriptionText returns the text a plain-text job description file is
// ranked on. Line breaks and spacing are kept because the context window
// is measured in characters of the description.
func DescriptionText(data []byte) string { return textx.SanitizeText(string(data)) }

// Policy returns the scoring policy in effect.
func (s RankService) Policy() skills.Policy { return s.Scorer.Policy() }

// RankDescriptionSkills scores the vocabulary against description and keeps
// skills scoring at least threshold*leniency. topN truncates each list
// separately; 0 keeps everything.
func (s RankService) RankDescriptionSkills(ctx domain.Context, description string, threshold float64, topN int) (domain.RankedSkills, error) {
	if strings.TrimSpace(description) == "" {
		return domain.RankedSkills{}, fmt.Errorf("%w: description required", domain.ErrInvalidArgument)
	}
	if math.IsNaN(threshold) || threshold < 0 || threshold > 1 {
		return domain.RankedSkills{}, fmt.Errorf("%w: threshold %v outside [0,1]", domain.ErrInvalidArgument, threshold)
	}
	if topN < 0 || topN > skills.MaxTopN {
		return domain.RankedSkills{}, fmt.Errorf("%w: top_n %d outside [0,%d]", domain.ErrInvalidArgument, topN, skills.MaxTopN)
	}
	if err := ctx.Err(); err != nil {
		return domain.RankedSkills{}, fmt.Errorf("op=usecase.RankDescriptionSkills: %w", err)
	}

	ranked := s.Scorer.Rank(description, s.Vocabulary, threshold)
	ranked.Technical = skills.Truncate(ranked.Technical, topN)
	ranked.Soft = skills.Truncate(ranked.Soft, topN)

	p := s.Scorer.Policy()
	for _, list := range [][]domain.ScoredSkill{ranked.Technical, ranked.Soft} {
		for _, sk := range list {
			observability.ObserveRankedSkill(p.Tier(sk.Score).String())
		}
	}
	observability.LoggerFromContext(ctx).Debug("description ranked",
		slog.Float64("threshold", threshold),
		slog.Int("top_n", topN),
		slog.Int("technical", len(ranked.Technical)),
		slog.Int("soft", len(ranked.Soft)))
	return ranked, nil
}

// Rank runs RankDescriptionSkills and attaches the priority breakdown.
func (s RankService) Rank(ctx domain.Context, description string, threshold float64, topN int) (RankReport, error) {
	ranked, err := s.RankDescriptionSkills(ctx, description, threshold, topN)
	if err != nil {
		return RankReport{}, err
	}
	return RankReport{
		ID:        uuid.NewString(),
		Ranked:    ranked,
		Breakdown: skills.BreakdownOf(ranked, s.Scorer.Policy()),
	}, nil
}
