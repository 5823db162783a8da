// Package local extracts document text in process from PDF, DOCX and plain
// text uploads.
package local

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"

	"github.com/fairyhunter13/ai-skill-screener/internal/adapter/observability"
	"github.com/fairyhunter13/ai-skill-screener/internal/domain"
	"github.com/fairyhunter13/ai-skill-screener/pkg/textx"
)

// Supported formats.
const (
	FormatPDF  = "pdf"
	FormatDOCX = "docx"
	FormatText = "txt"
)

// Extractor implements domain.TextExtractor without external services.
type Extractor struct{}

var _ domain.TextExtractor = Extractor{}

// New returns a local extractor.
func New() Extractor { return Extractor{} }

// Format resolves the document format from the file extension, falling back
// to content sniffing. It returns "" for unsupported documents.
func Format(fileName string, data []byte) string {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".pdf":
		return FormatPDF
	case ".docx":
		return FormatDOCX
	case ".txt":
		return FormatText
	}
	mt := mimetype.Detect(data)
	switch {
	case mt.Is("application/pdf"):
		return FormatPDF
	case mt.Is("application/vnd.openxmlformats-officedocument.wordprocessingml.document"):
		return FormatDOCX
	case mt.Is("text/plain"):
		return FormatText
	}
	return ""
}

// Extract returns the cleaned text of the document. Pages that cannot be
// read are recorded on the Document and skipped; only a document that
// cannot be opened at all is an error.
func (Extractor) Extract(ctx domain.Context, fileName string, data []byte) (domain.Document, error) {
	format := Format(fileName, data)
	var (
		doc domain.Document
		err error
	)
	switch format {
	case FormatPDF:
		doc, err = extractPDF(data)
	case FormatDOCX:
		doc, err = extractDOCX(data)
	case FormatText:
		doc, err = extractText(data)
	default:
		return domain.Document{}, fmt.Errorf("op=local.Extract: %w: unsupported document %q", domain.ErrInvalidArgument, fileName)
	}
	if err != nil {
		return domain.Document{}, fmt.Errorf("op=local.Extract: %w: %w", domain.ErrExtraction, err)
	}
	if n := len(doc.PageErrors); n > 0 {
		observability.ObservePageFailures(format, n)
		lg := observability.LoggerFromContext(ctx)
		for _, pe := range doc.PageErrors {
			lg.Warn("page extraction failed", slog.String("file", fileName), slog.Any("error", pe))
		}
	}
	doc.Text = textx.CleanDocument(doc.Text)
	return doc, nil
}

func extractPDF(data []byte) (domain.Document, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return domain.Document{}, fmt.Errorf("read pdf: %w", err)
	}
	doc := domain.Document{Pages: r.NumPage()}
	parts := make([]string, 0, doc.Pages)
	for i := 1; i <= doc.Pages; i++ {
		text, err := pageText(r, i)
		if err != nil {
			doc.PageErrors = append(doc.PageErrors, fmt.Errorf("%w: page %d: %w", domain.ErrExtraction, i, err))
			continue
		}
		if text != "" {
			parts = append(parts, text)
		}
	}
	doc.Text = strings.Join(parts, " ")
	return doc, nil
}

// pageText extracts one page. The pdf reader panics on some malformed
// content streams; that is reported as a page error.
func pageText(r *pdf.Reader, i int) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("malformed page: %v", rec)
		}
	}()
	page := r.Page(i)
	if page.V.IsNull() {
		return "", nil
	}
	return page.GetPlainText(nil)
}

func extractDOCX(data []byte) (domain.Document, error) {
	d, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return domain.Document{}, fmt.Errorf("read docx: %w", err)
	}
	defer func() { _ = d.Close() }()
	text, err := wordText(d.Editable().GetContent())
	if err != nil {
		return domain.Document{}, fmt.Errorf("parse docx body: %w", err)
	}
	return domain.Document{Text: text, Pages: 1}, nil
}

// wordText returns the text runs of a WordprocessingML body, one line per
// paragraph.
func wordText(body string) (string, error) {
	dec := xml.NewDecoder(strings.NewReader(body))
	dec.Strict = false
	var b strings.Builder
	inText := false
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				b.WriteByte(' ')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				b.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		}
	}
	return b.String(), nil
}

func extractText(data []byte) (domain.Document, error) {
	if !utf8.Valid(data) {
		data = bytes.ToValidUTF8(data, []byte(" "))
	}
	return domain.Document{Text: string(data), Pages: 1}, nil
}
