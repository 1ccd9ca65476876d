package shell

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"github.com/docshell/docshell/internal/manifest"
)

// State is the controller's session state. The manifest is loaded once
// and never mutated; ActiveID is always a manifest key or empty;
// CurrentHTML/CurrentTitle cache the most recently successfully loaded
// page for download and are cleared when a load fails.
type State struct {
	Manifest     *manifest.Manifest
	ActiveID     string
	CurrentHTML  string
	CurrentTitle string
}

// Options configures a Controller. Manifest, Nav, View, and Fetch are
// required; BaseURL, when set, is the resolution base for relative URIs.
type Options struct {
	Manifest *manifest.Manifest
	Nav      NavigationSurface
	View     ViewSurface
	Fetch    FetchFunc
	BaseURL  string
}

// Controller drives page selection. Calls are serialized by a mutex:
// when selections race, the last one to complete wins, the same
// last-write-wins outcome the event-loop original had, minus the data
// race. In-flight fetches are not canceled by a superseding selection.
type Controller struct {
	mu    sync.Mutex
	state State
	nav   NavigationSurface
	view  ViewSurface
	fetch FetchFunc
	base  *url.URL
}

// New validates the injected dependencies and builds a Controller.
// A missing surface fails fast, the way the original failed on a missing
// DOM container.
func New(opts Options) (*Controller, error) {
	if opts.Manifest == nil {
		return nil, fmt.Errorf("manifest is required")
	}
	if opts.Nav == nil {
		return nil, fmt.Errorf("navigation surface is required")
	}
	if opts.View == nil {
		return nil, fmt.Errorf("view surface is required")
	}
	if opts.Fetch == nil {
		return nil, fmt.Errorf("fetch function is required")
	}

	var base *url.URL
	if opts.BaseURL != "" {
		u, err := url.Parse(opts.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("parsing base URL: %w", err)
		}
		base = u
	}

	return &Controller{
		state: State{Manifest: opts.Manifest},
		nav:   opts.Nav,
		view:  opts.View,
		fetch: opts.Fetch,
		base:  base,
	}, nil
}

// Select loads the page for id and makes it active. Re-selecting the
// active key is a no-op: no fetch, no history entry. An unknown key
// returns *UnknownKeyError without touching state or surfaces. A fetch
// failure is not an error to the caller: the view shows an inline error
// panel, the content cache is cleared, and the highlight, history entry,
// and active id still advance.
func (c *Controller) Select(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if id == c.state.ActiveID {
		return nil
	}
	if !c.state.Manifest.Has(id) {
		return &UnknownKeyError{Key: id}
	}

	c.load(ctx, id, false)
	return nil
}

// Restore activates the navigation surface's current key, or the
// manifest's first key when the surface has none (or an unknown one).
// The load replaces the current history entry instead of pushing, which
// covers both startup and back/forward traversal.
func (c *Controller) Restore(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nav.CurrentID()
	if !c.state.Manifest.Has(id) {
		first, ok := c.state.Manifest.First()
		if !ok {
			c.view.RenderNav(c.state.Manifest, "")
			return
		}
		id = first
	}

	c.load(ctx, id, true)
}

// load is the shared selection path. Callers hold c.mu.
func (c *Controller) load(ctx context.Context, id string, replace bool) {
	item, _ := c.state.Manifest.Get(id)
	target := c.resolve(item.URI)

	html, err := c.fetch(ctx, target)
	if err != nil {
		c.view.ShowError(id, err)
		c.state.CurrentHTML = ""
		c.state.CurrentTitle = ""
	} else {
		c.view.ShowContent(id, item.Title, html)
		c.state.CurrentHTML = html
		c.state.CurrentTitle = item.Title
	}

	// Highlight, history, and active id advance regardless of outcome.
	c.view.RenderNav(c.state.Manifest, id)
	if replace {
		c.nav.Replace(id)
	} else {
		c.nav.Push(id)
	}
	c.state.ActiveID = id
}

// resolve makes an entry URI absolute. Absolute URIs pass through; with
// no base configured, relative URIs also pass through for the fetch
// function to interpret (the local-mirror case).
func (c *Controller) resolve(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return uri
	}
	if u.IsAbs() || c.base == nil {
		return uri
	}
	return c.base.ResolveReference(u).String()
}

// State returns a snapshot of the session state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}
