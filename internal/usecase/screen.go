// Package usecase contains application business logic services.
package usecase

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/fairyhunter13/ai-skill-screener/internal/adapter/observability"
	"github.com/fairyhunter13/ai-skill-screener/internal/domain"
	"github.com/fairyhunter13/ai-skill-screener/internal/similarity"
	"github.com/fairyhunter13/ai-skill-screener/internal/skills"
)

// Screening recommendations.
const (
	RecommendationMatch   = "Resume matches the role well."
	RecommendationUpskill = "Upskill using Coursera, Udemy, or LinkedIn Learning."
)

// ScreenService matches candidate documents against reference roles.
type ScreenService struct {
	Catalog   *skills.Catalog
	Engine    *similarity.Engine
	Extractor domain.TextExtractor
}

// NewScreenService constructs a ScreenService with its dependencies.
func NewScreenService(c *skills.Catalog, e *similarity.Engine, x domain.TextExtractor) ScreenService {
	return ScreenService{Catalog: c, Engine: e, Extractor: x}
}

// ScreenReport is a screening result together with document metadata.
type ScreenReport struct {
	ID          string
	Result      domain.MatchResult
	Pages       int
	PagesFailed int
}

// ScreenDocument scores documentText against the role whose title contains
// roleName. It fails with ErrInvalidArgument on a blank role, ErrRoleNotFound
// when no reference row matches and ErrEmbedding when similarity fails.
func (s ScreenService) ScreenDocument(ctx domain.Context, documentText, roleName string) (domain.MatchResult, error) {
	if strings.TrimSpace(roleName) == "" {
		return domain.MatchResult{}, fmt.Errorf("%w: job role required", domain.ErrInvalidArgument)
	}
	role := s.Catalog.Resolve(roleName)
	if !role.Found() {
		observability.ObserveScreening("role_not_found", 0)
		return domain.MatchResult{}, fmt.Errorf("%w: %q", domain.ErrRoleNotFound, roleName)
	}

	techFound := skills.Match(documentText, role.Technical)
	softFound := skills.Match(documentText, role.Soft)
	res := domain.MatchResult{
		TechFound:   techFound,
		SoftFound:   softFound,
		MissingTech: skills.Missing(role.Technical, techFound),
		MissingSoft: skills.Missing(role.Soft, softFound),
	}

	sim, err := s.Engine.Similarity(ctx, documentText, role.ReferenceText)
	if err != nil {
		observability.ObserveScreening("error", 0)
		return domain.MatchResult{}, fmt.Errorf("op=usecase.ScreenDocument: %w", err)
	}
	res.MatchScore = similarity.Percent(sim)
	res.Recommendation = recommend(res)

	observability.ObserveScreening("ok", res.MatchScore)
	observability.LoggerFromContext(ctx).Info("document screened",
		slog.String("role", strings.TrimSpace(roleName)),
		slog.Float64("match_score", res.MatchScore),
		slog.Int("tech_found", len(res.TechFound)),
		slog.Int("tech_missing", len(res.MissingTech)),
		slog.String("strategy", string(s.Engine.Strategy())))
	return res, nil
}

// ScreenUpload extracts the text of an uploaded document and screens it.
func (s ScreenService) ScreenUpload(ctx domain.Context, fileName string, data []byte, roleName string) (ScreenReport, error) {
	if strings.TrimSpace(roleName) == "" {
		return ScreenReport{}, fmt.Errorf("%w: job role required", domain.ErrInvalidArgument)
	}
	doc, err := s.Extractor.Extract(ctx, fileName, data)
	if err != nil {
		return ScreenReport{}, err
	}
	res, err := s.ScreenDocument(ctx, doc.Text, roleName)
	if err != nil {
		return ScreenReport{}, err
	}
	return ScreenReport{ID: uuid.NewString(), Result: res, Pages: doc.Pages, PagesFailed: len(doc.PageErrors)}, nil
}

func recommend(r domain.MatchResult) string {
	if len(r.MissingTech) > 0 || len(r.MissingSoft) > 0 {
		return RecommendationUpskill
	}
	return RecommendationMatch
}
