// Package tika provides Apache Tika integration for text extraction.
//
// It extracts text content from PDF, Word and plain text uploads through
// the Tika server REST API.
package tika

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/fairyhunter13/ai-skill-screener/internal/domain"
	"github.com/fairyhunter13/ai-skill-screener/pkg/textx"
)

// Client is a minimal Apache Tika HTTP client implementing domain.TextExtractor.
// It performs PUT /tika with Accept: text/plain to retrieve extracted text.
// See: https://tika.apache.org/server/ for API details.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

var _ domain.TextExtractor = (*Client)(nil)

// New constructs a Tika client with a default timeout.
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = "http://localhost:9998"
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second, Transport: otelhttp.NewTransport(http.DefaultTransport)},
	}
}

// Extract uploads data to the Tika server and returns its plain text. Tika
// does not report per-page failures, so the document counts as one page.
func (c *Client) Extract(ctx domain.Context, fileName string, data []byte) (domain.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+"/tika", bytes.NewReader(data))
	if err != nil {
		return domain.Document{}, fmt.Errorf("op=tika.Extract: %w", err)
	}
	req.Header.Set("Accept", "text/plain")
	if ct := contentTypeFromExt(filepath.Ext(fileName)); ct != "" {
		req.Header.Set("Content-Type", ct)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return domain.Document{}, fmt.Errorf("op=tika.Extract: %w: %w", domain.ErrUpstreamTimeout, err)
		}
		return domain.Document{}, fmt.Errorf("op=tika.Extract: %w: %w", domain.ErrExtraction, err)
	}
	defer func() { _ = resp.Body.Close() }()
	switch {
	case resp.StatusCode == http.StatusUnsupportedMediaType:
		return domain.Document{}, fmt.Errorf("op=tika.Extract: %w: unsupported document %q", domain.ErrInvalidArgument, fileName)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return domain.Document{}, fmt.Errorf("op=tika.Extract: %w: tika status %d", domain.ErrExtraction, resp.StatusCode)
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.Document{}, fmt.Errorf("op=tika.Extract: %w: %w", domain.ErrExtraction, err)
	}
	return domain.Document{Text: textx.CleanDocument(string(b)), Pages: 1}, nil
}

// Ping checks that the Tika server answers.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/version", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("tika status %d", resp.StatusCode)
	}
	return nil
}

func contentTypeFromExt(ext string) string {
	ext = strings.ToLower(ext)
	switch ext {
	case ".pdf":
		return "application/pdf"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case ".txt":
		return "text/plain"
	default:
		if ext != "" {
			return mime.TypeByExtension(ext)
		}
	}
	return ""
}
