package remote

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	perr "mapaclim/internal/platform/errors"
	kit "mapaclim/internal/platform/testkit"
)

func TestEndpointFor(t *testing.T) {
	cases := []struct {
		base string
		want string
	}{
		{"http://x", "http://x/api/procesar/"},
		{"http://x/", "http://x/api/procesar/"},
		{"http://x//", "http://x/api/procesar/"},
		{"  http://x/ ", "http://x/api/procesar/"},
		{"https://maps.example.com:8443", "https://maps.example.com:8443/api/procesar/"},
	}
	for _, c := range cases {
		if got := EndpointFor(c.base); got != c.want {
			t.Fatalf("EndpointFor(%q) = %q, want %q", c.base, got, c.want)
		}
	}
}

func twoFiles(t *testing.T) (string, string) {
	t.Helper()
	doc := kit.WriteFile(t, "informe.pdf", []byte("%PDF-1.4 fake"))
	geom := kit.WriteFile(t, "zonas.zip", []byte("PK\x03\x04 fake"))
	return doc, geom
}

func TestProcessSuccess(t *testing.T) {
	png := []byte{0x89, 'P', 'N', 'G', 0}

	var gotPDF, gotSHP string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if r.URL.Path != "/api/procesar/" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if _, fh, err := r.FormFile("pdf"); err == nil {
			gotPDF = fh.Filename
		}
		if _, fh, err := r.FormFile("shp"); err == nil {
			gotSHP = fh.Filename
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(png)
	}))
	defer srv.Close()

	doc, geom := twoFiles(t)
	c := NewClient(Options{})
	got, endpoint, err := c.Process(context.Background(), srv.URL, doc, geom)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if endpoint != srv.URL+"/api/procesar/" {
		t.Fatalf("endpoint = %q", endpoint)
	}
	if string(got) != string(png) {
		t.Fatalf("png bytes mismatch: %v", got)
	}
	if gotPDF != "informe.pdf" || gotSHP != "zonas.zip" {
		t.Fatalf("part filenames = %q / %q", gotPDF, gotSHP)
	}
}

func TestProcessServiceDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"detail":"invalid geometry"}`))
	}))
	defer srv.Close()

	doc, geom := twoFiles(t)
	c := NewClient(Options{})
	_, endpoint, err := c.Process(context.Background(), srv.URL, doc, geom)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !perr.IsCode(err, perr.ErrorCodeService) {
		t.Fatalf("code = %v, want service", perr.CodeOf(err))
	}
	kit.MustContain(t, err.Error(), "invalid geometry")
	kit.MustContain(t, err.Error(), endpoint)
}

func TestProcessServiceUnparseableBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("<html>gateway sadness</html>"))
	}))
	defer srv.Close()

	doc, geom := twoFiles(t)
	c := NewClient(Options{})
	_, _, err := c.Process(context.Background(), srv.URL, doc, geom)
	if err == nil {
		t.Fatalf("expected error")
	}
	// falls back to the HTTP status text
	kit.MustContain(t, err.Error(), http.StatusText(http.StatusInternalServerError))
}

func TestProcessTransportFailure(t *testing.T) {
	// a server that is already closed gives a connection error
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := srv.URL
	srv.Close()

	doc, geom := twoFiles(t)
	c := NewClient(Options{})
	_, endpoint, err := c.Process(context.Background(), base, doc, geom)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !perr.IsCode(err, perr.ErrorCodeNetwork) {
		t.Fatalf("code = %v, want network", perr.CodeOf(err))
	}
	kit.MustContain(t, err.Error(), endpoint)
}

func TestProcessMissingLocalFile(t *testing.T) {
	geom := kit.WriteFile(t, "zonas.zip", []byte("PK"))
	c := NewClient(Options{})
	_, _, err := c.Process(context.Background(), "http://localhost:0", "/does/not/exist.pdf", geom)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("code = %v, want not found", perr.CodeOf(err))
	}
}
