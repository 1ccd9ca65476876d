// Package shell implements the navigation/content controller: an explicit
// state object driven through injected surfaces, so the same selection
// logic backs both the terminal UI and the built-in server's index page,
// and tests run against fakes.
package shell

import (
	"context"

	"github.com/docshell/docshell/internal/manifest"
)

// NavigationSurface is the location/history analog: it answers what the
// current key is and records navigation as either a new history entry
// (Push) or an in-place update (Replace).
type NavigationSurface interface {
	CurrentID() string
	Push(id string)
	Replace(id string)
}

// ViewSurface is the display analog. RenderNav repopulates the navigation
// listing with the active entry marked; ShowContent and ShowError fill the
// content pane; Alert surfaces a message outside the content pane.
type ViewSurface interface {
	RenderNav(m *manifest.Manifest, activeID string)
	ShowContent(id, title, html string)
	ShowError(id string, err error)
	Alert(msg string)
}

// FetchFunc retrieves the document at a resolved target. The controller
// does not care whether that means HTTP, a local mirror file, or a test
// fake.
type FetchFunc func(ctx context.Context, target string) (string, error)

// Saver persists a downloaded page and returns where it was written.
// Returning ErrCanceled means the user aborted, which is not a failure.
type Saver interface {
	Save(filename, html string) (string, error)
}
