// Package openai implements a dense embedder against an OpenAI-compatible
// /embeddings endpoint, such as a self-hosted sentence-transformers server.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/fairyhunter13/ai-skill-screener/internal/adapter/embedding/tokencount"
	"github.com/fairyhunter13/ai-skill-screener/internal/adapter/observability"
	"github.com/fairyhunter13/ai-skill-screener/internal/config"
	"github.com/fairyhunter13/ai-skill-screener/internal/domain"
)

const strategyLabel = "dense"

// Client implements domain.Embedder. Requests are not retried; a failed
// call surfaces as domain.ErrEmbedding.
type Client struct {
	baseURL   string
	apiKey    string
	model     string
	maxTokens int
	hc        *http.Client
	counter   *tokencount.Counter
}

var _ domain.Embedder = (*Client)(nil)

// New constructs a dense embedding client from configuration.
func New(cfg config.Config) *Client {
	return &Client{
		baseURL:   strings.TrimRight(cfg.EmbeddingsBaseURL, "/"),
		apiKey:    cfg.EmbeddingsAPIKey,
		model:     cfg.EmbeddingsModel,
		maxTokens: cfg.EmbeddingMaxTokens,
		hc:        &http.Client{Timeout: cfg.EmbeddingTimeout, Transport: otelhttp.NewTransport(http.DefaultTransport)},
		counter:   tokencount.DefaultCounter,
	}
}

// Model returns the configured model id.
func (c *Client) Model() string { return c.model }

// readSnippet reads up to n bytes from r.
func readSnippet(r io.Reader, n int64) string {
	b, _ := io.ReadAll(io.LimitReader(r, n))
	return string(b)
}

// statusError is returned for non-2xx responses.
type statusError struct {
	Status int
	Body   string
}

func (e *statusError) Error() string { return fmt.Sprintf("embed status %d: %s", e.Status, e.Body) }

// Embed calls the embeddings endpoint and returns one vector per text, in
// input order.
func (c *Client) Embed(ctx domain.Context, texts []string) ([][]float32, error) {
	start := time.Now()
	vecs, err := c.embed(ctx, texts)
	observability.ObserveEmbedding(strategyLabel, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("op=openai.Embed: %w: %w", domain.ErrEmbedding, err)
	}
	return vecs, nil
}

func (c *Client) embed(ctx domain.Context, texts []string) ([][]float32, error) {
	lg := observability.LoggerFromContext(ctx)
	if c.model == "" {
		return nil, errors.New("EMBEDDINGS_MODEL missing")
	}
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	input := make([]string, len(texts))
	for i, t := range texts {
		out, cut, err := c.counter.Truncate(t, c.model, c.maxTokens)
		if err != nil {
			lg.Warn("token count failed; sending text unmodified", slog.String("model", c.model), slog.Any("error", err))
			out = t
		}
		if cut {
			lg.Debug("embedding input truncated", slog.Int("index", i), slog.Int("max_tokens", c.maxTokens))
		}
		input[i] = out
	}

	b, err := json.Marshal(map[string]any{"model": c.model, "input": input})
	if err != nil {
		return nil, err
	}
	endpoint := c.baseURL + "/embeddings"
	r, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	if c.apiKey != "" {
		r.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	r.Header.Set("Content-Type", "application/json")
	resp, err := c.hc.Do(r)
	if err != nil {
		if isTimeout(ctx, err) {
			return nil, fmt.Errorf("%w: %w", domain.ErrUpstreamTimeout, err)
		}
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body := readSnippet(resp.Body, 512)
		lg.Warn("embedding provider non-2xx",
			slog.String("op", "embed"),
			slog.Int("status", resp.StatusCode),
			slog.String("model", c.model),
			slog.String("endpoint", endpoint),
			slog.String("x_request_id", resp.Header.Get("X-Request-Id")),
			slog.String("body", body))
		return nil, &statusError{Status: resp.StatusCode, Body: body}
	}

	var out struct {
		Data []struct {
			Index     int       `json:"index"`
			Embedding []float64 `json:"embedding"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(out.Data) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(out.Data))
	}
	res := make([][]float32, len(out.Data))
	for i, d := range out.Data {
		idx := d.Index
		if idx < 0 || idx >= len(res) || res[idx] != nil {
			idx = i
		}
		v := make([]float32, len(d.Embedding))
		for j, f := range d.Embedding {
			v[j] = float32(f)
		}
		res[idx] = v
	}
	for i, v := range res {
		if v == nil {
			return nil, fmt.Errorf("missing embedding for input %d", i)
		}
	}
	return res, nil
}

// Probe checks that the endpoint answers, retrying with exponential backoff
// until the configured deadline. Client errors (4xx) stop the retries.
func (c *Client) Probe(ctx domain.Context, cfg config.Config) error {
	maxElapsed, initial, maxInterval := cfg.GetProbeBackoffConfig()
	expo := backoff.NewExponentialBackOff()
	expo.MaxElapsedTime = maxElapsed
	expo.InitialInterval = initial
	expo.MaxInterval = maxInterval

	op := func() error {
		_, err := c.embed(ctx, []string{"probe"})
		var se *statusError
		if errors.As(err, &se) && se.Status >= 400 && se.Status < 500 && se.Status != http.StatusTooManyRequests {
			return backoff.Permanent(err)
		}
		if err != nil {
			slog.Warn("embedding endpoint not ready", slog.String("endpoint", c.baseURL), slog.Any("error", err))
		}
		return err
	}
	if err := backoff.Retry(op, backoff.WithContext(expo, ctx)); err != nil {
		return fmt.Errorf("op=openai.Probe: %w: %w", domain.ErrEmbedding, err)
	}
	return nil
}

// Ping makes one uncached embedding call, for readiness checks.
func (c *Client) Ping(ctx domain.Context) error {
	if _, err := c.embed(ctx, []string{"ping"}); err != nil {
		return fmt.Errorf("op=openai.Ping: %w: %w", domain.ErrEmbedding, err)
	}
	return nil
}

// isTimeout reports whether a transport error came from the caller's deadline
// or from the client's own EMBEDDING_TIMEOUT.
func isTimeout(ctx context.Context, err error) bool {
	if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
