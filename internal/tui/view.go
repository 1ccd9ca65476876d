package tui

import (
	"sync"

	"github.com/docshell/docshell/internal/content"
	"github.com/docshell/docshell/internal/manifest"
)

// NavEntry is one row of the navigation listing.
type NavEntry struct {
	Key   string
	Title string
}

// ViewState is an immutable copy of the rendered view.
type ViewState struct {
	Entries []NavEntry
	Active  string
	Title   string
	Text    string
	LoadErr string
	Alert   string
}

// termView is the terminal view surface. The controller calls it from
// command goroutines, so access is locked; the App copies a ViewState
// out after each command completes and renders only from that copy.
type termView struct {
	mu    sync.Mutex
	state ViewState
}

func (v *termView) RenderNav(m *manifest.Manifest, activeID string) {
	entries := make([]NavEntry, 0, m.Len())
	for _, key := range m.Keys() {
		item, _ := m.Get(key)
		entries = append(entries, NavEntry{Key: key, Title: item.Title})
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.Entries = entries
	v.state.Active = activeID
}

func (v *termView) ShowContent(id, title, html string) {
	text := content.Text(html)

	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.Title = title
	v.state.Text = text
	v.state.LoadErr = ""
}

func (v *termView) ShowError(id string, err error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.Title = ""
	v.state.Text = ""
	v.state.LoadErr = "Failed to load page: " + err.Error()
}

func (v *termView) Alert(msg string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.Alert = msg
}

func (v *termView) snapshot() ViewState {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := v.state
	out.Entries = make([]NavEntry, len(v.state.Entries))
	copy(out.Entries, v.state.Entries)
	return out
}

func (v *termView) clearAlert() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.Alert = ""
}
