package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/fairyhunter13/ai-skill-screener/internal/config"
	"github.com/fairyhunter13/ai-skill-screener/internal/similarity"
	"github.com/fairyhunter13/ai-skill-screener/internal/skills"
)

// Pinger is the minimal interface for a backend capable of Ping.
type Pinger interface{ Ping(ctx context.Context) error }

// Readiness holds the backends probed by /readyz. Nil fields for backends the
// configuration requires report as not configured.
type Readiness struct {
	Catalog  *skills.Catalog
	DB       Pinger
	Redis    redis.UniversalClient
	Tika     Pinger
	Embedder Pinger
}

// Checks are the readiness probes; a nil probe is skipped.
type Checks struct {
	Dataset  func(ctx context.Context) error
	DB       func(ctx context.Context) error
	Redis    func(ctx context.Context) error
	Tika     func(ctx context.Context) error
	Embedder func(ctx context.Context) error
}

func pingCheck(name string, p Pinger) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if p == nil {
			return fmt.Errorf("%s not configured", name)
		}
		return p.Ping(ctx)
	}
}

// BuildReadinessChecks returns a probe for the dataset plus one for every
// backend the configuration enables.
func BuildReadinessChecks(cfg config.Config, rd Readiness) Checks {
	var c Checks
	c.Dataset = func(context.Context) error {
		if rd.Catalog == nil || rd.Catalog.Len() == 0 {
			return errors.New("reference dataset empty")
		}
		return nil
	}
	if cfg.UsePostgres() {
		c.DB = pingCheck("db", rd.DB)
	}
	if cfg.RedisURL != "" {
		c.Redis = func(ctx context.Context) error {
			if rd.Redis == nil {
				return errors.New("redis not configured")
			}
			return rd.Redis.Ping(ctx).Err()
		}
	}
	if cfg.UseTika() {
		c.Tika = pingCheck("tika", rd.Tika)
	}
	if st, _ := similarity.ParseStrategy(cfg.EmbeddingStrategy); st == similarity.StrategyDense {
		c.Embedder = pingCheck("embedder", rd.Embedder)
	}
	return c
}
