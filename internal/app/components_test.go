package app_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpserver "github.com/fairyhunter13/ai-skill-screener/internal/adapter/httpserver"
	"github.com/fairyhunter13/ai-skill-screener/internal/app"
	"github.com/fairyhunter13/ai-skill-screener/internal/config"
	"github.com/fairyhunter13/ai-skill-screener/internal/domain"
	"github.com/fairyhunter13/ai-skill-screener/internal/similarity"
)

const dataset = "job_title,technical_skills,soft_skills\n" +
	"Data Scientist,\"Python, SQL, Machine Learning\",Communication\n" +
	"Web Developer,\"JavaScript, React\",\"Teamwork, Communication\"\n"

func baseConfig(t *testing.T) config.Config {
	t.Helper()
	p := filepath.Join(t.TempDir(), "jobs.csv")
	require.NoError(t, os.WriteFile(p, []byte(dataset), 0o600))
	return config.Config{
		AppEnv:            "test",
		DatasetSource:     config.DatasetCSV,
		DatasetPath:       p,
		EmbeddingStrategy: "sparse",
		Extractor:         config.ExtractorLocal,
		MaxUploadMB:       1,
		RateLimitPerMin:   1000,
		RequestTimeout:    5 * time.Second,
		EmbedCacheSize:    16,
		EmbedCacheTTL:     time.Hour,
	}
}

func newHandler(t *testing.T, c *app.Components) http.Handler {
	t.Helper()
	screen, rank := c.Services()
	srv := httpserver.NewServer(c.Cfg, screen, rank, c.Catalog)
	app.ApplyChecks(srv, app.BuildReadinessChecks(c.Cfg, c.Readiness()))
	return app.BuildRouter(c.Cfg, srv)
}

func screenRequest(t *testing.T, text, role string) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	require.NoError(t, mw.WriteField("job_role", role))
	fw, err := mw.CreateFormFile("file", "cv.txt")
	require.NoError(t, err)
	_, err = fw.Write([]byte(text))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, "/v1/screen", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestBuild_SparseEndToEnd(t *testing.T) {
	c, err := app.Build(context.Background(), baseConfig(t), true)
	require.NoError(t, err)
	t.Cleanup(c.Close)
	assert.Equal(t, similarity.StrategySparse, c.Engine.Strategy())
	assert.Equal(t, 2, c.Catalog.Len())
	assert.Nil(t, c.Pool())

	h := newHandler(t, c)

	for _, path := range []string{"/healthz", "/readyz", "/metrics", "/v1/vocabulary"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, screenRequest(t, "python sql machine learning communication", "data scientist"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	var resp struct {
		MatchScore     float64 `json:"matchScore"`
		Recommendation string  `json:"recommendation"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 100.0, resp.MatchScore)
	assert.Equal(t, "Resume matches the role well.", resp.Recommendation)
}

func TestBuild_Errors(t *testing.T) {
	ctx := context.Background()

	cfg := baseConfig(t)
	cfg.DatasetPath = filepath.Join(t.TempDir(), "missing.csv")
	_, err := app.Build(ctx, cfg, false)
	assert.ErrorIs(t, err, domain.ErrData)

	cfg = baseConfig(t)
	cfg.EmbeddingStrategy = "quantum"
	_, err = app.Build(ctx, cfg, false)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	cfg = baseConfig(t)
	cfg.ScoringPolicyFile = filepath.Join(t.TempDir(), "nope.yaml")
	_, err = app.Build(ctx, cfg, false)
	assert.Error(t, err)

	cfg = baseConfig(t)
	cfg.RedisURL = "://bad"
	_, err = app.Build(ctx, cfg, false)
	assert.Error(t, err)
}

func embeddingsServer(t *testing.T, calls *int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		var req struct {
			Input []string `json:"input"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		type item struct {
			Index     int       `json:"index"`
			Embedding []float64 `json:"embedding"`
		}
		data := make([]item, len(req.Input))
		for i := range req.Input {
			data[i] = item{Index: i, Embedding: []float64{1, 0, 1}}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"data": data})
	}))
}

func TestBuild_DenseWithCaches(t *testing.T) {
	var calls int32
	ts := embeddingsServer(t, &calls)
	defer ts.Close()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	cfg := baseConfig(t)
	cfg.EmbeddingStrategy = "dense"
	cfg.EmbeddingsBaseURL = ts.URL
	cfg.EmbeddingsModel = "all-MiniLM-L6-v2"
	cfg.EmbeddingTimeout = 2 * time.Second
	cfg.EmbeddingMaxTokens = 256
	cfg.RedisURL = "redis://" + mr.Addr()

	c, err := app.Build(context.Background(), cfg, true)
	require.NoError(t, err)
	t.Cleanup(c.Close)
	assert.Equal(t, similarity.StrategyDense, c.Engine.Strategy())
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "startup probe")

	h := newHandler(t, c)
	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, screenRequest(t, "python developer", "data"))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}
	// the second screening is served from the cache
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	assert.NotEmpty(t, mr.Keys())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"embedder"`)
	assert.Contains(t, rec.Body.String(), `"redis"`)
}

func TestBuild_DenseProbeFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))
	defer ts.Close()

	cfg := baseConfig(t)
	cfg.EmbeddingStrategy = "dense"
	cfg.EmbeddingsBaseURL = ts.URL
	cfg.EmbeddingsModel = "all-MiniLM-L6-v2"
	cfg.EmbeddingTimeout = time.Second
	_, err := app.Build(context.Background(), cfg, true)
	assert.ErrorIs(t, err, domain.ErrEmbedding)
}
