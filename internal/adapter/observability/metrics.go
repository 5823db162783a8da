package observability

import (
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"route", "method"},
	)

	EmbeddingRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "embedding_requests_total",
			Help: "Total number of embedding requests by strategy and outcome",
		},
		[]string{"strategy", "outcome"},
	)
	EmbeddingRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "embedding_request_duration_seconds",
			Help:    "Embedding request duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"strategy"},
	)
	EmbedCacheLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "embedding_cache_lookups_total",
			Help: "Embedding cache lookups by backend and result",
		},
		[]string{"backend", "result"},
	)

	ScreeningsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "screenings_total",
			Help: "Total number of document screenings by outcome",
		},
		[]string{"outcome"},
	)
	MatchScoreHistogram = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "screening_match_score",
			Help:    "Distribution of screening match scores ([0,100])",
			Buckets: []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		},
	)
	RankedSkillsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ranked_skills_total",
			Help: "Skills returned by description ranking, by priority tier",
		},
		[]string{"tier"},
	)
	ExtractionPageFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "extraction_page_failures_total",
			Help: "Document pages whose text could not be extracted",
		},
		[]string{"format"},
	)
)

var registerOnce sync.Once

// InitMetrics registers the collectors with the default registry. It is
// safe to call more than once.
func InitMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(HTTPRequestsTotal)
		prometheus.MustRegister(HTTPRequestDuration)
		prometheus.MustRegister(EmbeddingRequestsTotal)
		prometheus.MustRegister(EmbeddingRequestDuration)
		prometheus.MustRegister(EmbedCacheLookupsTotal)
		prometheus.MustRegister(ScreeningsTotal)
		prometheus.MustRegister(MatchScoreHistogram)
		prometheus.MustRegister(RankedSkillsTotal)
		prometheus.MustRegister(ExtractionPageFailuresTotal)
	})
}

// HTTPMetricsMiddleware records Prometheus metrics for each request.
func HTTPMetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		dur := time.Since(start).Seconds()
		// Route pattern may be unavailable outside chi router; guard nil
		var route string
		if rc := chi.RouteContext(r.Context()); rc != nil {
			route = rc.RoutePattern()
		}
		if route == "" {
			route = r.URL.Path
		}
		HTTPRequestsTotal.WithLabelValues(route, r.Method, http.StatusText(ww.Status())).Inc()
		HTTPRequestDuration.WithLabelValues(route, r.Method).Observe(dur)
	})
}

// ObserveEmbedding records one embedding call.
func ObserveEmbedding(strategy string, d time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	EmbeddingRequestsTotal.WithLabelValues(strategy, outcome).Inc()
	EmbeddingRequestDuration.WithLabelValues(strategy).Observe(d.Seconds())
}

// ObserveCacheLookup records a cache hit or miss.
func ObserveCacheLookup(backend string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	EmbedCacheLookupsTotal.WithLabelValues(backend, result).Inc()
}

// ObserveScreening records a finished screening. Scores outside [0,100]
// are counted but not observed.
func ObserveScreening(outcome string, matchScore float64) {
	ScreeningsTotal.WithLabelValues(outcome).Inc()
	if outcome == "ok" && matchScore >= 0 && matchScore <= 100 {
		MatchScoreHistogram.Observe(matchScore)
	}
}

// ObserveRankedSkill counts one ranked skill in tier.
func ObserveRankedSkill(tier string) {
	RankedSkillsTotal.WithLabelValues(tier).Inc()
}

// ObservePageFailures counts failed pages of a document.
func ObservePageFailures(format string, n int) {
	if n > 0 {
		ExtractionPageFailuresTotal.WithLabelValues(format).Add(float64(n))
	}
}
