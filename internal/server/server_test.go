package server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const animalSource = `
abstract class Animal {
  protected name: string;
  abstract speak(): string;
}

class Dog extends Animal {
  speak(): string { return "Woof"; }
}
`

func multipartBody(t *testing.T, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for name, content := range files {
		part, err := w.CreateFormFile("files", name)
		if err != nil {
			t.Fatalf("CreateFormFile() error = %v", err)
		}
		if _, err := part.Write([]byte(content)); err != nil {
			t.Fatalf("writing part: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("closing writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func TestHealthz(t *testing.T) {
	srv := New(Config{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}
}

func TestRenderSVG(t *testing.T) {
	srv := New(Config{})

	body, contentType := multipartBody(t, map[string]string{"zoo.ts": animalSource})
	req := httptest.NewRequest(http.MethodPost, "/api/render?format=svg", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q, want image/svg+xml", ct)
	}
	if rec.Header().Get("X-Diagram-Hash") == "" {
		t.Error("missing X-Diagram-Hash header")
	}
	if !strings.Contains(rec.Body.String(), `id="class-Dog"`) {
		t.Error("svg missing Dog class")
	}
}

func TestRenderBadFormat(t *testing.T) {
	srv := New(Config{})

	body, contentType := multipartBody(t, map[string]string{"zoo.ts": animalSource})
	req := httptest.NewRequest(http.MethodPost, "/api/render?format=pdf", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding error body: %v", err)
	}
	if resp["code"] != "INVALID_FORMAT" {
		t.Errorf("code = %q, want INVALID_FORMAT", resp["code"])
	}
}

func TestRenderNoFiles(t *testing.T) {
	srv := New(Config{})

	body, contentType := multipartBody(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/render", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestRenderEmptySources(t *testing.T) {
	srv := New(Config{})

	body, contentType := multipartBody(t, map[string]string{"util.ts": "const x = 1;"})
	req := httptest.NewRequest(http.MethodPost, "/api/render", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
}

func TestParseEndpoint(t *testing.T) {
	srv := New(Config{})

	body, contentType := multipartBody(t, map[string]string{"zoo.ts": animalSource})
	req := httptest.NewRequest(http.MethodPost, "/api/parse", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var diagram struct {
		Classes []struct {
			Name string `json:"name"`
		} `json:"classes"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &diagram); err != nil {
		t.Fatalf("decoding diagram: %v", err)
	}
	if len(diagram.Classes) != 2 {
		t.Errorf("classes = %d, want 2", len(diagram.Classes))
	}
}

func TestRequestIDPropagated(t *testing.T) {
	srv := New(Config{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "test-id-123")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != "test-id-123" {
		t.Errorf("X-Request-ID = %q, want test-id-123", got)
	}
}
