package manifest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func TestFetchRemote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"p1": {"title": "Page One", "uri": "pages/p1.html"}}`))
	}))
	defer srv.Close()

	l := NewLoader(srv.URL, 0)
	m, err := l.FetchRemote(context.Background())
	if err != nil {
		t.Fatalf("FetchRemote failed: %v", err)
	}
	if m.Len() != 1 {
		t.Fatalf("Len: got %d, want 1", m.Len())
	}
	item, ok := m.Get("p1")
	if !ok || item.Title != "Page One" {
		t.Errorf("p1 entry: got %+v ok=%v", item, ok)
	}
}

func TestFetchRemoteNonOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	l := NewLoader(srv.URL, 0)
	if _, err := l.FetchRemote(context.Background()); err == nil {
		t.Error("expected error for 404 manifest")
	}
}

func TestFetchRemoteBadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	l := NewLoader(srv.URL, 0)
	if _, err := l.FetchRemote(context.Background()); err == nil {
		t.Error("expected parse error")
	}
}

func TestLoadPrefersLocalMirror(t *testing.T) {
	remoteHits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		remoteHits++
		w.Write([]byte(`{"remote": {"title": "Remote", "uri": "r.html"}}`))
	}))
	defer srv.Close()

	dir := t.TempDir()
	local := filepath.Join(dir, "manifest.json")
	writeTestFile(t, local, `{"local": {"title": "Local", "uri": "l.html"}}`)

	l := NewLoader(srv.URL, 0)
	l.LocalPath = local

	m := l.Load(context.Background())
	if !m.Has("local") {
		t.Error("expected local mirror entry")
	}
	if remoteHits != 0 {
		t.Errorf("remote fetched %d times, want 0", remoteHits)
	}
}

func TestLoadFallsThroughCorruptLocal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"remote": {"title": "Remote", "uri": "r.html"}}`))
	}))
	defer srv.Close()

	dir := t.TempDir()
	local := filepath.Join(dir, "manifest.json")
	writeTestFile(t, local, `{{{`)

	l := NewLoader(srv.URL, 0)
	l.LocalPath = local

	m := l.Load(context.Background())
	if !m.Has("remote") {
		t.Error("expected fall-through to remote manifest")
	}
}

func TestLoadNeverErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	l := NewLoader(srv.URL, 0)
	l.LocalPath = filepath.Join(t.TempDir(), "missing.json")

	m := l.Load(context.Background())
	if m == nil {
		t.Fatal("Load returned nil manifest")
	}
	if m.Len() != 0 {
		t.Errorf("Len: got %d, want 0", m.Len())
	}
}
