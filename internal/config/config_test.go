package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/ai-skill-screener/internal/domain"
	"github.com/fairyhunter13/ai-skill-screener/internal/skills"
)

func Test_Load_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "sparse", cfg.EmbeddingStrategy)
	assert.Equal(t, "all-MiniLM-L6-v2", cfg.EmbeddingsModel)
	assert.False(t, cfg.UsePostgres())
	assert.False(t, cfg.UseTika())
	assert.Equal(t, int64(10<<20), cfg.MaxUploadBytes())
	assert.True(t, cfg.IsDev())
}

func Test_Load_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("DATASET_SOURCE", "Postgres")
	t.Setenv("EXTRACTOR", "tika")
	t.Setenv("EMBEDDING_TIMEOUT", "5s")
	t.Setenv("MAX_UPLOAD_MB", "2")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProd())
	assert.True(t, cfg.UsePostgres())
	assert.True(t, cfg.UseTika())
	assert.Equal(t, 5*time.Second, cfg.EmbeddingTimeout)
	assert.Equal(t, int64(2<<20), cfg.MaxUploadBytes())
}

func Test_Load_ErrorOnBadDuration(t *testing.T) {
	t.Setenv("HTTP_READ_TIMEOUT", "bad")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "op=config.Load")
}

func Test_Load_RejectsUnknownEnums(t *testing.T) {
	t.Setenv("DATASET_SOURCE", "excel")
	_, err := Load()
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))

	t.Setenv("DATASET_SOURCE", "csv")
	t.Setenv("EXTRACTOR", "ocr")
	_, err = Load()
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))
}

func Test_GetProbeBackoffConfig(t *testing.T) {
	maxElapsed, _, _ := Config{AppEnv: "test"}.GetProbeBackoffConfig()
	assert.Equal(t, 2*time.Second, maxElapsed)
	maxElapsed, initial, _ := Config{AppEnv: "prod", EmbeddingProbeTimeout: time.Minute}.GetProbeBackoffConfig()
	assert.Equal(t, time.Minute, maxElapsed)
	assert.Equal(t, time.Second, initial)
}

func writeFile(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func Test_LoadPolicy_DefaultWhenUnset(t *testing.T) {
	p, err := LoadPolicy("")
	require.NoError(t, err)
	assert.Equal(t, skills.DefaultPolicy(), p)
}

func Test_LoadPolicy_PartialOverride(t *testing.T) {
	path := writeFile(t, "threshold: 0.3\ncontext_window: 80\nkeywords:\n  - phrase: top priority\n    factor: 1.5\n")
	p, err := LoadPolicy(path)
	require.NoError(t, err)
	assert.Equal(t, 0.3, p.Threshold)
	assert.Equal(t, 80, p.ContextWindow)
	assert.Equal(t, []skills.Keyword{{Phrase: "top priority", Factor: 1.5}}, p.Keywords)
	// untouched fields keep their defaults
	assert.Equal(t, skills.DefaultLeniency, p.Leniency)
	assert.Equal(t, skills.DefaultMustHaveCutoff, p.MustHaveCutoff)
}

func Test_LoadPolicy_EmptyFileIsDefault(t *testing.T) {
	p, err := LoadPolicy(writeFile(t, ""))
	require.NoError(t, err)
	assert.Equal(t, skills.DefaultPolicy(), p)
}

func Test_LoadPolicy_Errors(t *testing.T) {
	_, err := LoadPolicy(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = LoadPolicy(writeFile(t, "thresold: 0.3\n"))
	assert.Error(t, err, "unknown fields are rejected")

	_, err = LoadPolicy(writeFile(t, "threshold: 2\n"))
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))
}
