package local

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/ai-skill-screener/internal/domain"
)

// buildPDF returns a minimal single-font PDF with one page per entry.
func buildPDF(pages ...string) []byte {
	var objs []string
	// 1 catalog, 2 pages, 3 font, then page/content pairs
	kids := ""
	for i := range pages {
		kids += fmt.Sprintf("%d 0 R ", 4+2*i)
	}
	objs = append(objs,
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", kids, len(pages)),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	)
	for i, text := range pages {
		stream := fmt.Sprintf("BT /F1 12 Tf 72 712 Td (%s) Tj ET", text)
		objs = append(objs,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", 5+2*i),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream),
		)
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objs))
	for i, o := range objs {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, o)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objs)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objs)+1, xref)
	return buf.Bytes()
}

func buildDOCX(t *testing.T, paragraphs ...string) []byte {
	t.Helper()
	body := ""
	for _, p := range paragraphs {
		body += `<w:p><w:r><w:t xml:space="preserve">` + p + `</w:t></w:r></w:p>`
	}
	doc := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		body + `</w:body></w:document>`
	rels := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range map[string]string{
		"word/document.xml":            doc,
		"word/_rels/document.xml.rels": rels,
	} {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestExtract_PlainText(t *testing.T) {
	doc, err := New().Extract(context.Background(), "resume.txt", []byte("  Python\x00 and\n\nSQL  "))
	require.NoError(t, err)
	assert.Equal(t, "Python and SQL", doc.Text)
	assert.Equal(t, 1, doc.Pages)
	assert.Empty(t, doc.PageErrors)
}

func TestExtract_LineBreaksJoinWords(t *testing.T) {
	doc, err := New().Extract(context.Background(), "resume.txt", []byte("applied machine\nlearning"))
	require.NoError(t, err)
	assert.Contains(t, doc.Text, "machine learning")
}

func TestExtract_InvalidUTF8(t *testing.T) {
	doc, err := New().Extract(context.Background(), "a.txt", []byte("go\xffdocker"))
	require.NoError(t, err)
	assert.Equal(t, "go docker", doc.Text)
}

func TestExtract_PDFPages(t *testing.T) {
	doc, err := New().Extract(context.Background(), "cv.pdf", buildPDF("python developer", "sql and docker"))
	require.NoError(t, err)
	assert.Equal(t, 2, doc.Pages)
	assert.Empty(t, doc.PageErrors)
	assert.Contains(t, doc.Text, "python")
	assert.Contains(t, doc.Text, "docker")
}

func TestExtract_CorruptPDF(t *testing.T) {
	_, err := New().Extract(context.Background(), "cv.pdf", []byte("%PDF-1.4 garbage"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrExtraction))
}

func TestExtract_DOCX(t *testing.T) {
	data := buildDOCX(t, "Kubernetes &amp; Go", "Team player")
	doc, err := New().Extract(context.Background(), "cv.docx", data)
	require.NoError(t, err)
	assert.Equal(t, "Kubernetes & Go Team player", doc.Text)
}

func TestExtract_Unsupported(t *testing.T) {
	_, err := New().Extract(context.Background(), "photo.png", []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'})
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))
}

func TestFormat_SniffsWithoutExtension(t *testing.T) {
	assert.Equal(t, FormatPDF, Format("upload", buildPDF("x")))
	assert.Equal(t, FormatText, Format("upload", []byte("plain words")))
	assert.Equal(t, FormatDOCX, Format("CV.DOCX", nil))
}

func TestWordText(t *testing.T) {
	got, err := wordText(`<w:body><w:p><w:r><w:t>a</w:t><w:tab/><w:t>b</w:t></w:r></w:p><w:p><w:r><w:instrText>IGNORED</w:instrText></w:r></w:p></w:body>`)
	require.NoError(t, err)
	assert.Equal(t, "a b\n\n", got)
}
