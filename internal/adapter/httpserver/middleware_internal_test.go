package httpserver

import (
	"net/http/httptest"
	"os"
	"testing"
)

func Test_allowedExt(t *testing.T) {
	t.Run("accepts", func(t *testing.T) {
		for _, n := range []string{"cv.txt", "doc.PDF", "report.Docx"} {
			if !allowedExt(n) {
				t.Fatalf("should allow %s", n)
			}
		}
	})
	t.Run("rejects", func(t *testing.T) {
		for _, n := range []string{"evil.exe", "img.png", "cv"} {
			if allowedExt(n) {
				t.Fatalf("should reject %s", n)
			}
		}
	})
}

func Test_allowedMIMEFor(t *testing.T) {
	cases := []struct {
		mime, file string
		want       bool
	}{
		{"text/plain", "cv.txt", true},
		{"text/plain; charset=utf-8", "cv.pdf", true},
		{"text/html; charset=utf-8", "cv.txt", true},
		{"text/html; charset=utf-8", "cv.pdf", false},
		{"application/pdf", "cv.pdf", true},
		{"application/vnd.openxmlformats-officedocument.wordprocessingml.document", "cv.docx", true},
		{"application/zip", "cv.docx", true},
		{"application/zip", "cv.pdf", false},
		{"application/octet-stream", "cv.pdf", false},
	}
	for _, c := range cases {
		if got := allowedMIMEFor(c.mime, c.file); got != c.want {
			t.Fatalf("allowedMIMEFor(%q, %q) = %v, want %v", c.mime, c.file, got, c.want)
		}
	}
}

func Test_OpenAPIServe(t *testing.T) {
	s := &Server{}
	rw := httptest.NewRecorder()
	s.OpenAPIServe()(rw, httptest.NewRequest("GET", "/openapi.yaml", nil))
	if rw.Result().StatusCode != 404 {
		t.Fatalf("want 404 without spec file, got %d", rw.Result().StatusCode)
	}

	// Ensure api/openapi.yaml exists relative to test working dir
	if err := os.MkdirAll("api", 0o750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	t.Cleanup(func() { _ = os.RemoveAll("api") })
	if err := os.WriteFile("api/openapi.yaml", []byte("openapi: 3.0.0\ninfo:\n  title: test\n  version: 1.0.0\n"), 0o600); err != nil {
		t.Fatalf("write openapi: %v", err)
	}
	rw = httptest.NewRecorder()
	s.OpenAPIServe()(rw, httptest.NewRequest("GET", "/openapi.yaml", nil))
	if rw.Result().StatusCode != 200 {
		t.Fatalf("want 200, got %d", rw.Result().StatusCode)
	}
}

func Test_newReqID(t *testing.T) {
	t.Parallel()

	// Test that newReqID generates unique IDs
	ids := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := newReqID()
		if id == "" {
			t.Fatal("newReqID returned empty string")
		}
		if ids[id] {
			t.Fatalf("duplicate ID generated: %s", id)
		}
		ids[id] = true
	}
}

func Test_newReqID_Format(t *testing.T) {
	t.Parallel()

	id := newReqID()
	// ULID is 26 characters
	if len(id) != 26 {
		// If not ULID, it should be timestamp format
		if len(id) < 20 {
			t.Fatalf("unexpected ID format: %s (len=%d)", id, len(id))
		}
	}
}
