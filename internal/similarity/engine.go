package similarity

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/fairyhunter13/ai-skill-screener/internal/domain"
)

// Strategy names the embedding family used by an Engine.
type Strategy string

const (
	StrategyDense  Strategy = "dense"
	StrategySparse Strategy = "sparse"
)

// ParseStrategy validates a configured strategy name.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case StrategyDense:
		return StrategyDense, nil
	case StrategySparse:
		return StrategySparse, nil
	}
	return "", fmt.Errorf("%w: unknown embedding strategy %q", domain.ErrInvalidArgument, s)
}

// Engine scores the closeness of two texts with one embedder.
type Engine struct {
	embedder domain.Embedder
	strategy Strategy
}

// New builds an Engine. The embedder is used as-is; there is no fallback
// to another strategy when it fails.
func New(embedder domain.Embedder, strategy Strategy) *Engine {
	return &Engine{embedder: embedder, strategy: strategy}
}

// Strategy reports the configured embedding strategy.
func (e *Engine) Strategy() Strategy { return e.strategy }

// Similarity returns the cosine similarity of a and b in [-1,1]. Blank text
// on either side scores 0 without calling the embedder.
func (e *Engine) Similarity(ctx domain.Context, a, b string) (float64, error) {
	if strings.TrimSpace(a) == "" || strings.TrimSpace(b) == "" {
		return 0, nil
	}
	vecs, err := e.embedder.Embed(ctx, []string{a, b})
	if err != nil {
		if errors.Is(err, domain.ErrEmbedding) {
			return 0, fmt.Errorf("op=similarity.Similarity: %w", err)
		}
		return 0, fmt.Errorf("op=similarity.Similarity: %w: %w", domain.ErrEmbedding, err)
	}
	if len(vecs) != 2 {
		return 0, fmt.Errorf("op=similarity.Similarity: %w: expected 2 vectors, got %d", domain.ErrEmbedding, len(vecs))
	}
	if len(vecs[0]) != len(vecs[1]) {
		return 0, fmt.Errorf("op=similarity.Similarity: %w: vector length mismatch %d != %d", domain.ErrEmbedding, len(vecs[0]), len(vecs[1]))
	}
	return Cosine(vecs[0], vecs[1]), nil
}

// Percent converts a similarity to a 0-100 match score rounded to two
// decimals. Negative similarities score 0.
func Percent(sim float64) float64 {
	if sim <= 0 || math.IsNaN(sim) {
		return 0
	}
	if sim > 1 {
		sim = 1
	}
	return math.Round(sim*10000) / 100
}
