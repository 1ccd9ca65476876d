package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/docshell/docshell/internal/manifest"
)

const testManifest = `{
  "intro": {"title": "Intro", "uri": "pages/intro.html"},
  "guide": {"title": "User Guide", "uri": "pages/guide.html"},
  "ghost": {"title": "Ghost", "uri": "pages/ghost.html"}
}`

// newTestSite builds a mirrored site on disk: a manifest plus the intro
// and guide pages. The ghost page is deliberately missing.
func newTestSite(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeTestFile(t, filepath.Join(dir, "manifest.json"), testManifest)
	writeTestFile(t, filepath.Join(dir, "pages", "intro.html"), "<h1>Intro</h1>")
	writeTestFile(t, filepath.Join(dir, "pages", "guide.html"), "<h1>Guide</h1>")
	return dir
}

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func newTestServer(t *testing.T, liveReload bool) (*Server, *httptest.Server, string) {
	t.Helper()
	dir := newTestSite(t)
	s := New(Config{SiteDir: dir, PagesDir: "pages", LiveReload: liveReload})
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return s, srv, dir
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, string(body)
}

// navLine returns the rendered nav entry for the given key.
func navLine(t *testing.T, body, key string) string {
	t.Helper()
	for _, line := range strings.Split(body, "\n") {
		if strings.Contains(line, `data-key="`+key+`"`) {
			return line
		}
	}
	t.Fatalf("no nav entry for %q in:\n%s", key, body)
	return ""
}

func TestIndexDefaultsToFirstKey(t *testing.T) {
	_, srv, _ := newTestServer(t, false)

	status, body := get(t, srv.URL+"/")
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if !strings.Contains(navLine(t, body, "intro"), `aria-current="page"`) {
		t.Error("first key should be active when id is absent")
	}
	if !strings.Contains(body, "&lt;h1&gt;Intro&lt;/h1&gt;") {
		t.Error("intro page should be embedded in srcdoc")
	}
}

func TestIndexSelectsByQueryParam(t *testing.T) {
	_, srv, _ := newTestServer(t, false)

	_, body := get(t, srv.URL+"/?id=guide")
	if !strings.Contains(navLine(t, body, "guide"), `aria-current="page"`) {
		t.Error("guide should be active")
	}
	if strings.Contains(navLine(t, body, "intro"), "aria-current") {
		t.Error("intro should not be active")
	}
	if !strings.Contains(body, "User Guide") {
		t.Error("page title should appear")
	}
}

func TestIndexUnknownKeyFallsBack(t *testing.T) {
	_, srv, _ := newTestServer(t, false)

	_, body := get(t, srv.URL+"/?id=no-such-page")
	if !strings.Contains(navLine(t, body, "intro"), `aria-current="page"`) {
		t.Error("unknown id should fall back to the first key")
	}
}

func TestIndexMissingPageShowsInlineError(t *testing.T) {
	_, srv, _ := newTestServer(t, false)

	_, body := get(t, srv.URL+"/?id=ghost")
	if !strings.Contains(body, "Failed to load page") {
		t.Error("missing page should render the inline error")
	}
	if strings.Contains(body, "srcdoc") {
		t.Error("no iframe should render on a load failure")
	}
	// The key still highlights even though the load failed.
	if !strings.Contains(navLine(t, body, "ghost"), `aria-current="page"`) {
		t.Error("ghost should still be the active key")
	}
}

func TestIndexWithoutManifest(t *testing.T) {
	tests := []struct {
		name     string
		manifest string // empty means no file at all
	}{
		{name: "missing"},
		{name: "corrupt", manifest: "{not json"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if tt.manifest != "" {
				writeTestFile(t, filepath.Join(dir, "manifest.json"), tt.manifest)
			}
			s := New(Config{SiteDir: dir, PagesDir: "pages"})
			srv := httptest.NewServer(s.Handler())
			defer srv.Close()

			status, body := get(t, srv.URL+"/")
			if status != http.StatusOK {
				t.Fatalf("status = %d", status)
			}
			if strings.Contains(body, "menuitem") {
				t.Error("no nav entries should render without a manifest")
			}
		})
	}
}

func TestNavHTML(t *testing.T) {
	m := manifest.New()
	m.Set("zz", manifest.Item{Title: "Last <First>", URI: "pages/zz.html"})
	m.Set("aa", manifest.Item{Title: "Aardvark", URI: "pages/aa.html"})
	m.Set("mm", manifest.Item{Title: "Middle", URI: "pages/mm.html"})

	out := NavHTML(m, "aa")

	// Entries appear in manifest order, not sorted.
	zz := strings.Index(out, `data-key="zz"`)
	aa := strings.Index(out, `data-key="aa"`)
	mm := strings.Index(out, `data-key="mm"`)
	if zz < 0 || aa < 0 || mm < 0 {
		t.Fatalf("missing nav entries:\n%s", out)
	}
	if !(zz < aa && aa < mm) {
		t.Errorf("nav order should follow the manifest, got zz=%d aa=%d mm=%d", zz, aa, mm)
	}

	if got := strings.Count(out, `aria-current="page"`); got != 1 {
		t.Errorf("exactly one entry should be current, got %d", got)
	}
	if got := strings.Count(out, `role="menuitem"`); got != 3 {
		t.Errorf("every entry should have role=menuitem, got %d", got)
	}
	if got := strings.Count(out, `tabindex="0"`); got != 3 {
		t.Errorf("every entry should be focusable, got %d", got)
	}
	if !strings.Contains(out, "Last &lt;First&gt;") {
		t.Error("titles should be HTML-escaped")
	}
}

func TestHealthz(t *testing.T) {
	_, srv, _ := newTestServer(t, false)

	status, body := get(t, srv.URL+"/healthz")
	if status != http.StatusOK {
		t.Errorf("status = %d", status)
	}
	if body != `{"status":"ok"}` {
		t.Errorf("body = %q", body)
	}
}

func TestStaticFiles(t *testing.T) {
	_, srv, _ := newTestServer(t, false)

	status, body := get(t, srv.URL+"/pages/guide.html")
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if body != "<h1>Guide</h1>" {
		t.Errorf("static page = %q", body)
	}
}

func dialReload(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/reload"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", wsURL, err)
	}
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForClients(t *testing.T, hub *reloadHub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if hub.clientCount() == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("hub never reached %d clients", want)
}

func TestReloadBroadcast(t *testing.T) {
	s, srv, _ := newTestServer(t, true)

	conn := dialReload(t, srv)
	waitForClients(t, s.hub, 1)

	s.hub.broadcast("reload")

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(msg) != "reload" {
		t.Errorf("message = %q, want reload", msg)
	}
}

func TestWatcherBroadcastsAfterChange(t *testing.T) {
	s, srv, dir := newTestServer(t, true)

	w, err := newSiteWatcher(s.hub, 20*time.Millisecond, dir, filepath.Join(dir, "pages"))
	if err != nil {
		t.Fatalf("newSiteWatcher: %v", err)
	}
	defer w.Close()

	conn := dialReload(t, srv)
	waitForClients(t, s.hub, 1)

	writeTestFile(t, filepath.Join(dir, "pages", "intro.html"), "<h1>Changed</h1>")

	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("no reload after change: %v", err)
	}
	if string(msg) != "reload" {
		t.Errorf("message = %q, want reload", msg)
	}
}
