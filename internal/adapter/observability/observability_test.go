package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/ai-skill-screener/internal/config"
)

func TestNewLogger_EnvFieldsAndLevel(t *testing.T) {
	var buf bytes.Buffer
	lg := newLogger(&buf, config.Config{AppEnv: "dev", OTELServiceName: "svc"})
	lg.Debug("hello")
	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "svc", rec["service"])
	assert.Equal(t, "dev", rec["env"])

	buf.Reset()
	newLogger(&buf, config.Config{AppEnv: "prod"}).Debug("hidden")
	assert.Empty(t, buf.String())
	assert.NotNil(t, SetupLogger(config.Config{AppEnv: "prod"}))
}

func TestLoggerAndRequestIDContext(t *testing.T) {
	base := context.Background()
	assert.Equal(t, slog.Default(), LoggerFromContext(base))
	assert.Equal(t, base, ContextWithLogger(base, nil))

	lg := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	assert.Same(t, lg, LoggerFromContext(ContextWithLogger(base, lg)))

	assert.Equal(t, "", RequestIDFromContext(base))
	assert.Equal(t, base, ContextWithRequestID(base, ""))
	assert.Equal(t, "01J", RequestIDFromContext(ContextWithRequestID(base, "01J")))
}

func TestHTTPMetricsMiddleware_Basic(t *testing.T) {
	InitMetrics()
	InitMetrics()
	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/x", nil)
	before := value(HTTPRequestsTotal.WithLabelValues("/x", http.MethodGet, "No Content"))
	mw := HTTPMetricsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) }))
	mw.ServeHTTP(rec, r)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, before+1, value(HTTPRequestsTotal.WithLabelValues("/x", http.MethodGet, "No Content")))
}

func TestDomainMetricHelpers(t *testing.T) {
	ok := value(EmbeddingRequestsTotal.WithLabelValues("dense", "ok"))
	bad := value(EmbeddingRequestsTotal.WithLabelValues("dense", "error"))
	ObserveEmbedding("dense", 10*time.Millisecond, nil)
	ObserveEmbedding("dense", 10*time.Millisecond, errors.New("x"))
	assert.Equal(t, ok+1, value(EmbeddingRequestsTotal.WithLabelValues("dense", "ok")))
	assert.Equal(t, bad+1, value(EmbeddingRequestsTotal.WithLabelValues("dense", "error")))

	hits := value(EmbedCacheLookupsTotal.WithLabelValues("memory", "hit"))
	ObserveCacheLookup("memory", true)
	assert.Equal(t, hits+1, value(EmbedCacheLookupsTotal.WithLabelValues("memory", "hit")))

	pages := value(ExtractionPageFailuresTotal.WithLabelValues("pdf"))
	ObservePageFailures("pdf", 0)
	ObservePageFailures("pdf", 3)
	assert.Equal(t, pages+3, value(ExtractionPageFailuresTotal.WithLabelValues("pdf")))

	screens := value(ScreeningsTotal.WithLabelValues("ok"))
	ObserveScreening("ok", 87.5)
	ObserveScreening("ok", 120)
	assert.Equal(t, screens+2, value(ScreeningsTotal.WithLabelValues("ok")))

	must := value(RankedSkillsTotal.WithLabelValues("MUST_HAVE"))
	ObserveRankedSkill("MUST_HAVE")
	assert.Equal(t, must+1, value(RankedSkillsTotal.WithLabelValues("MUST_HAVE")))
}

func value(c prometheus.Counter) float64 {
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		return -1
	}
	return m.GetCounter().GetValue()
}
