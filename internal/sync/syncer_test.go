package sync

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/docshell/docshell/internal/content"
	"github.com/docshell/docshell/internal/manifest"
)

// siteServer fakes the remote host: a manifest at /manifest.json and
// pages under /pages/.
func siteServer(t *testing.T, manifestBody string, pages map[string]string) (*httptest.Server, *[]string) {
	t.Helper()
	var requests []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, r.URL.Path)
		if r.URL.Path == "/manifest.json" {
			w.Write([]byte(manifestBody))
			return
		}
		if body, ok := pages[r.URL.Path]; ok {
			w.Write([]byte(body))
			return
		}
		http.NotFound(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, &requests
}

func newTestSyncer(srv *httptest.Server, siteDir string) *Syncer {
	return &Syncer{
		Loader:   manifest.NewLoader(srv.URL+"/manifest.json", 0),
		Fetcher:  content.NewFetcher(0),
		SiteDir:  siteDir,
		PagesDir: "pages",
	}
}

func listFiles(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("reading %s: %v", dir, err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestRunMirrorsPages(t *testing.T) {
	srv, _ := siteServer(t,
		`{"p1": {"title": "T", "uri": "pages/p1.html"}}`,
		map[string]string{"/pages/p1.html": "<html>page one</html>"},
	)
	siteDir := t.TempDir()

	result, err := newTestSyncer(srv, siteDir).Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(result.Synced) != 1 || result.Synced[0] != "p1" {
		t.Errorf("Synced: got %v", result.Synced)
	}
	if len(result.Skipped) != 0 {
		t.Errorf("Skipped: got %v", result.Skipped)
	}

	files := listFiles(t, filepath.Join(siteDir, "pages"))
	if len(files) != 1 || files[0] != "p1.html" {
		t.Fatalf("pages dir: got %v, want exactly [p1.html]", files)
	}

	data, err := os.ReadFile(filepath.Join(siteDir, "pages", "p1.html"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "<html>page one</html>" {
		t.Errorf("page body: got %q", data)
	}

	// The ordered manifest mirror lands next to the pages dir.
	mirror, err := os.ReadFile(filepath.Join(siteDir, "manifest.json"))
	if err != nil {
		t.Fatalf("manifest mirror missing: %v", err)
	}
	if !strings.Contains(string(mirror), `"p1"`) {
		t.Errorf("mirror content: got %q", mirror)
	}
}

func TestRunPageFailureIsSkippedNotFatal(t *testing.T) {
	srv, _ := siteServer(t,
		`{"p1": {"title": "T", "uri": "pages/p1.html"}}`,
		nil, // every page request 404s
	)
	siteDir := t.TempDir()

	result, err := newTestSyncer(srv, siteDir).Run(context.Background())
	if err != nil {
		t.Fatalf("page failure must not fail the run: %v", err)
	}

	if len(result.Skipped) != 1 || result.Skipped[0].Key != "p1" {
		t.Errorf("Skipped: got %v", result.Skipped)
	}

	// Directory exists but contains zero files.
	files := listFiles(t, filepath.Join(siteDir, "pages"))
	if len(files) != 0 {
		t.Errorf("pages dir: got %v, want empty", files)
	}
}

func TestRunManifestFailureIsFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	s := newTestSyncer(srv, t.TempDir())
	if _, err := s.Run(context.Background()); err == nil {
		t.Error("expected manifest fetch failure to be fatal")
	}
}

func TestRunRecreatesPagesDir(t *testing.T) {
	srv, _ := siteServer(t,
		`{"p1": {"title": "T", "uri": "pages/p1.html"}}`,
		map[string]string{"/pages/p1.html": "fresh"},
	)
	siteDir := t.TempDir()

	// A stale file from a previous sync must not survive.
	pagesDir := filepath.Join(siteDir, "pages")
	if err := os.MkdirAll(pagesDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(pagesDir, "stale.html"), []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := newTestSyncer(srv, siteDir).Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	files := listFiles(t, pagesDir)
	if len(files) != 1 || files[0] != "p1.html" {
		t.Errorf("pages dir: got %v, want exactly [p1.html]", files)
	}
}

func TestRunFetchesInManifestOrder(t *testing.T) {
	srv, requests := siteServer(t,
		`{
			"zz": {"title": "Z", "uri": "pages/zz.html"},
			"aa": {"title": "A", "uri": "pages/aa.html"},
			"mm": {"title": "M", "uri": "pages/mm.html"}
		}`,
		map[string]string{
			"/pages/zz.html": "z", "/pages/aa.html": "a", "/pages/mm.html": "m",
		},
	)

	if _, err := newTestSyncer(srv, t.TempDir()).Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	want := []string{"/manifest.json", "/pages/zz.html", "/pages/aa.html", "/pages/mm.html"}
	got := *requests
	if len(got) != len(want) {
		t.Fatalf("requests: got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("requests[%d]: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRunConvertsMarkdown(t *testing.T) {
	srv, _ := siteServer(t,
		`{"readme": {"title": "Readme", "uri": "pages/readme.md"}}`,
		map[string]string{"/pages/readme.md": "# Hello\n\nBody text.\n"},
	)
	siteDir := t.TempDir()

	if _, err := newTestSyncer(srv, siteDir).Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(siteDir, "pages", "readme.html"))
	if err != nil {
		t.Fatalf("converted page missing: %v", err)
	}
	if !strings.Contains(string(data), ">Hello</h1>") {
		t.Errorf("markdown not rendered: %q", data)
	}
}

func TestRunHonorsExcludes(t *testing.T) {
	srv, _ := siteServer(t,
		`{
			"draft-wip": {"title": "WIP", "uri": "pages/draft-wip.html"},
			"published": {"title": "Done", "uri": "pages/published.html"}
		}`,
		map[string]string{
			"/pages/draft-wip.html": "w", "/pages/published.html": "d",
		},
	)
	siteDir := t.TempDir()

	s := newTestSyncer(srv, siteDir)
	s.Exclude = []string{"draft-*"}

	result, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(result.Synced) != 1 || result.Synced[0] != "published" {
		t.Errorf("Synced: got %v", result.Synced)
	}
	if len(result.Skipped) != 1 || result.Skipped[0].Key != "draft-wip" || result.Skipped[0].Err != ErrExcluded {
		t.Errorf("Skipped: got %v", result.Skipped)
	}

	files := listFiles(t, filepath.Join(siteDir, "pages"))
	if len(files) != 1 || files[0] != "published.html" {
		t.Errorf("pages dir: got %v", files)
	}
}

func TestExcluded(t *testing.T) {
	tests := []struct {
		key      string
		patterns []string
		want     bool
	}{
		{"draft-intro", []string{"draft-*"}, true},
		{"intro", []string{"draft-*"}, false},
		{"anything", nil, false},
		{"deep/key", []string{"**/key"}, true},
		{"intro", []string{"guide", "intro"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := Excluded(tt.key, tt.patterns); got != tt.want {
				t.Errorf("Excluded(%q, %v): got %v, want %v", tt.key, tt.patterns, got, tt.want)
			}
		})
	}
}
