// Package app wires application components and startup helpers.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/fairyhunter13/ai-skill-screener/internal/adapter/dataset/csvsource"
	"github.com/fairyhunter13/ai-skill-screener/internal/adapter/embedding"
	"github.com/fairyhunter13/ai-skill-screener/internal/adapter/embedding/openai"
	"github.com/fairyhunter13/ai-skill-screener/internal/adapter/repo/postgres"
	"github.com/fairyhunter13/ai-skill-screener/internal/adapter/textextractor/local"
	tikaext "github.com/fairyhunter13/ai-skill-screener/internal/adapter/textextractor/tika"
	"github.com/fairyhunter13/ai-skill-screener/internal/config"
	"github.com/fairyhunter13/ai-skill-screener/internal/domain"
	"github.com/fairyhunter13/ai-skill-screener/internal/similarity"
	"github.com/fairyhunter13/ai-skill-screener/internal/skills"
	"github.com/fairyhunter13/ai-skill-screener/internal/usecase"
)

// Components are the long-lived dependencies built once at startup and
// shared read-only by every request.
type Components struct {
	Cfg       config.Config
	Catalog   *skills.Catalog
	Policy    skills.Policy
	Engine    *similarity.Engine
	Extractor domain.TextExtractor

	pool  *pgxpool.Pool
	rdb   *redis.Client
	tika  *tikaext.Client
	dense *openai.Client
}

// Build loads the reference dataset and scoring policy and constructs the
// embedder and text extractor selected by cfg. When probe is true a dense
// embedder is probed with backoff before Build returns.
func Build(ctx context.Context, cfg config.Config, probe bool) (*Components, error) {
	c := &Components{Cfg: cfg}
	ok := false
	defer func() {
		if !ok {
			c.Close()
		}
	}()

	policy, err := config.LoadPolicy(cfg.ScoringPolicyFile)
	if err != nil {
		return nil, fmt.Errorf("op=app.Build: %w", err)
	}
	c.Policy = policy

	if cfg.UsePostgres() {
		c.pool, err = postgres.NewPool(ctx, cfg.DBURL)
		if err != nil {
			return nil, fmt.Errorf("op=app.Build: db connect: %w", err)
		}
	}
	tbl, err := c.ReferenceSource().Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("op=app.Build: %w", err)
	}
	c.Catalog, err = skills.NewCatalog(tbl)
	if err != nil {
		return nil, fmt.Errorf("op=app.Build: %w", err)
	}
	slog.Info("reference dataset loaded",
		slog.String("source", cfg.DatasetSource),
		slog.Int("rows", c.Catalog.Len()),
		slog.Int("technical_skills", len(c.Catalog.Vocabulary().Technical)),
		slog.Int("soft_skills", len(c.Catalog.Vocabulary().Soft)))

	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("op=app.Build: redis url: %w", err)
		}
		c.rdb = redis.NewClient(opt)
	}

	if c.Engine, err = c.buildEngine(ctx, probe); err != nil {
		return nil, err
	}

	if cfg.UseTika() {
		c.tika = tikaext.New(cfg.TikaURL)
		c.Extractor = c.tika
	} else {
		c.Extractor = local.New()
	}
	ok = true
	return c, nil
}

// ReferenceSource returns the dataset source selected by DATASET_SOURCE.
func (c *Components) ReferenceSource() domain.ReferenceSource {
	if c.Cfg.UsePostgres() && c.pool != nil {
		return postgres.NewReferenceRepo(c.pool)
	}
	return csvsource.New(c.Cfg.DatasetPath)
}

func (c *Components) buildEngine(ctx context.Context, probe bool) (*similarity.Engine, error) {
	strategy, err := similarity.ParseStrategy(c.Cfg.EmbeddingStrategy)
	if err != nil {
		return nil, fmt.Errorf("op=app.Build: %w", err)
	}
	if strategy == similarity.StrategySparse {
		return similarity.New(similarity.NewTFIDF(), strategy), nil
	}

	c.dense = openai.New(c.Cfg)
	if probe {
		if err := c.dense.Probe(ctx, c.Cfg); err != nil {
			return nil, fmt.Errorf("op=app.Build: %w", err)
		}
	}
	var emb domain.Embedder = c.dense
	if c.rdb != nil {
		emb = embedding.NewRedisCache(emb, c.rdb, c.dense.Model(), c.Cfg.EmbedCacheTTL)
	}
	emb = embedding.NewMemoryCache(emb, c.dense.Model(), c.Cfg.EmbedCacheSize)
	slog.Info("dense embedder ready",
		slog.String("model", c.dense.Model()),
		slog.Bool("redis_cache", c.rdb != nil),
		slog.Int("memory_cache", c.Cfg.EmbedCacheSize))
	return similarity.New(emb, strategy), nil
}

// Services returns the screening and ranking use cases.
func (c *Components) Services() (usecase.ScreenService, usecase.RankService) {
	return usecase.NewScreenService(c.Catalog, c.Engine, c.Extractor),
		usecase.NewRankService(c.Catalog.Vocabulary(), skills.NewScorer(c.Policy))
}

// Readiness returns the backends to probe from /readyz.
func (c *Components) Readiness() Readiness {
	rd := Readiness{Catalog: c.Catalog}
	if c.pool != nil {
		rd.DB = c.pool
	}
	if c.rdb != nil {
		rd.Redis = c.rdb
	}
	if c.tika != nil {
		rd.Tika = c.tika
	}
	if c.dense != nil {
		rd.Embedder = c.dense
	}
	return rd
}

// Pool returns the Postgres pool, or nil when the CSV source is used.
func (c *Components) Pool() *pgxpool.Pool { return c.pool }

// Close releases the database pool and Redis client.
func (c *Components) Close() {
	if c.pool != nil {
		c.pool.Close()
	}
	if c.rdb != nil {
		if err := c.rdb.Close(); err != nil {
			slog.Warn("redis close failed", slog.Any("error", err))
		}
	}
}
