package embedding

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fairyhunter13/ai-skill-screener/internal/adapter/observability"
	"github.com/fairyhunter13/ai-skill-screener/internal/domain"
)

const redisKeyPrefix = "skillscreener:emb:"

// redisCache shares embedding vectors between server replicas. Redis
// failures are logged and the base embedder is used directly.
type redisCache struct {
	base  domain.Embedder
	rdb   redis.UniversalClient
	model string
	ttl   time.Duration
}

// NewRedisCache wraps base with a Redis-backed cache. A nil client returns
// base unmodified.
func NewRedisCache(base domain.Embedder, rdb redis.UniversalClient, model string, ttl time.Duration) domain.Embedder {
	if rdb == nil || base == nil {
		return base
	}
	return &redisCache{base: base, rdb: rdb, model: model, ttl: ttl}
}

func (c *redisCache) Embed(ctx domain.Context, texts []string) ([][]float32, error) {
	lg := observability.LoggerFromContext(ctx)
	res := make([][]float32, len(texts))
	keys := make([]string, len(texts))
	for i, t := range texts {
		keys[i] = redisKeyPrefix + keyFor(c.model, t)
	}

	missIdx := make([]int, 0, len(texts))
	cached, err := c.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		lg.Warn("embedding cache read failed", "error", err)
		cached = make([]any, len(texts))
	}
	for i, v := range cached {
		s, ok := v.(string)
		if ok {
			if vec, decErr := decodeVector([]byte(s)); decErr == nil {
				res[i] = vec
				observability.ObserveCacheLookup("redis", true)
				continue
			}
		}
		observability.ObserveCacheLookup("redis", false)
		missIdx = append(missIdx, i)
	}
	if len(missIdx) == 0 {
		return res, nil
	}

	missTexts := make([]string, len(missIdx))
	for j, idx := range missIdx {
		missTexts[j] = texts[idx]
	}
	vecs, err := c.base.Embed(ctx, missTexts)
	if err != nil {
		return nil, err
	}
	if len(vecs) != len(missTexts) {
		return nil, countMismatch(len(missTexts), len(vecs))
	}

	pipe := c.rdb.Pipeline()
	for j, idx := range missIdx {
		res[idx] = vecs[j]
		pipe.Set(ctx, keys[idx], encodeVector(vecs[j]), c.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		lg.Warn("embedding cache write failed", "error", err)
	}
	return res, nil
}

func encodeVector(v []float32) []byte {
	b := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(b[4*i:], math.Float32bits(f))
	}
	return b
}

func decodeVector(b []byte) ([]float32, error) {
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("corrupt vector of %d bytes", len(b))
	}
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[4*i:]))
	}
	return v, nil
}

func countMismatch(want, got int) error {
	return fmt.Errorf("%w: embedder returned %d vectors for %d texts", domain.ErrEmbedding, got, want)
}
