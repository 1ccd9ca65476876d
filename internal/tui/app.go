// Package tui is the terminal shell: a navigation list plus a content
// pane, driven by the same controller that backs the built-in server.
package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/docshell/docshell/internal/manifest"
	"github.com/docshell/docshell/internal/session"
	"github.com/docshell/docshell/internal/shell"
)

// Mode represents the current UI mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModeSaving
)

const (
	navWidth     = 26
	fetchTimeout = 30 * time.Second
)

type selectDoneMsg struct {
	err error
}

type restoreDoneMsg struct{}

type saveDoneMsg struct {
	path string
	err  error
}

// App is the main bubbletea model for the shell.
type App struct {
	ctrl    *shell.Controller
	view    *termView
	history *session.Store
	saver   shell.Saver
	keys    KeyMap
	styles  Styles

	// Navigation state
	cursor int
	state  ViewState

	// Content pane
	viewport viewport.Model

	// Save prompt state
	mode          Mode
	filenameInput textinput.Model

	loading bool
	status  string
	err     error
	help    help.Model

	// Window dimensions
	width  int
	height int
}

// AppParams holds parameters for creating a new App.
type AppParams struct {
	Manifest *manifest.Manifest
	Fetch    shell.FetchFunc
	BaseURL  string
	Session  *session.Store
	Saver    shell.Saver
	Keys     *KeyMap // optional, uses default if nil
	Styles   *Styles // optional, uses default if nil
}

// NewApp creates a new App with the given parameters.
func NewApp(params AppParams) (App, error) {
	view := &termView{}

	ctrl, err := shell.New(shell.Options{
		Manifest: params.Manifest,
		Nav:      params.Session,
		View:     view,
		Fetch:    params.Fetch,
		BaseURL:  params.BaseURL,
	})
	if err != nil {
		return App{}, err
	}

	keys := DefaultKeyMap()
	if params.Keys != nil {
		keys = *params.Keys
	}

	styles := DefaultStyles()
	if params.Styles != nil {
		styles = *params.Styles
	}

	filename := textinput.New()
	filename.Placeholder = "filename.html"
	filename.CharLimit = 120
	filename.Width = 40

	vp := viewport.New(60, 20)
	// The nav list owns j/k; the content pane scrolls by page only.
	vp.KeyMap = viewport.KeyMap{
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
	}

	return App{
		ctrl:          ctrl,
		view:          view,
		history:       params.Session,
		saver:         params.Saver,
		keys:          keys,
		styles:        styles,
		viewport:      vp,
		mode:          ModeNormal,
		filenameInput: filename,
		loading:       true,
		help:          help.New(),
		width:         80,
		height:        24,
	}, nil
}

// Cursor returns the current cursor position in the navigation list.
func (a App) Cursor() int { return a.cursor }

// ActiveID returns the key of the currently displayed page.
func (a App) ActiveID() string { return a.state.Active }

// Entries returns the navigation entries in display order.
func (a App) Entries() []NavEntry { return a.state.Entries }

// Mode returns the current UI mode.
func (a App) Mode() Mode { return a.mode }

// Status returns the status line text.
func (a App) Status() string { return a.status }

// Err returns the last operation error, if any.
func (a App) Err() error { return a.err }

// ContentText returns the plain-text rendering of the current page.
func (a App) ContentText() string { return a.state.Text }

// LoadError returns the content pane's load failure text, if any.
func (a App) LoadError() string { return a.state.LoadErr }

// FilenameValue returns the save prompt's current input.
func (a App) FilenameValue() string { return a.filenameInput.Value() }

// Init implements tea.Model. Startup restores the session's current
// page, falling back to the first manifest entry.
func (a App) Init() tea.Cmd {
	return restoreCmd(a.ctrl)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		a.viewport.Width = max(msg.Width-navWidth-2, 20)
		a.viewport.Height = max(msg.Height-7, 5)
		return a, nil

	case tea.KeyMsg:
		if a.mode == ModeSaving {
			return a.updateSavePrompt(msg)
		}
		return a.updateNormal(msg)

	case selectDoneMsg:
		a.loading = false
		a.err = msg.err
		a.refresh(true)
		a.viewport.GotoTop()
		return a, nil

	case restoreDoneMsg:
		a.loading = false
		a.err = nil
		a.refresh(true)
		a.viewport.GotoTop()
		return a, nil

	case saveDoneMsg:
		if msg.err != nil {
			a.err = msg.err
		} else if msg.path != "" {
			a.err = nil
			a.status = "Saved " + msg.path
		} else {
			a.refresh(false)
		}
		return a, nil
	}

	return a, nil
}

// updateNormal handles key events in normal mode.
func (a App) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, a.keys.Down):
		if len(a.state.Entries) > 0 && a.cursor < len(a.state.Entries)-1 {
			a.cursor++
		}
		return a, nil

	case key.Matches(msg, a.keys.Up):
		if a.cursor > 0 {
			a.cursor--
		}
		return a, nil

	case key.Matches(msg, a.keys.Select):
		if len(a.state.Entries) == 0 || a.cursor >= len(a.state.Entries) {
			return a, nil
		}
		id := a.state.Entries[a.cursor].Key
		if id == a.state.Active {
			return a, nil
		}
		a.loading = true
		a.status = ""
		return a, selectCmd(a.ctrl, id)

	case key.Matches(msg, a.keys.Back):
		if !a.history.Back() {
			return a, nil
		}
		a.loading = true
		a.status = ""
		return a, restoreCmd(a.ctrl)

	case key.Matches(msg, a.keys.Forward):
		if !a.history.Forward() {
			return a, nil
		}
		a.loading = true
		a.status = ""
		return a, restoreCmd(a.ctrl)

	case key.Matches(msg, a.keys.Reload):
		a.loading = true
		a.status = ""
		return a, restoreCmd(a.ctrl)

	case key.Matches(msg, a.keys.Download):
		snap := a.ctrl.State()
		if snap.CurrentHTML == "" {
			// The controller raises the nothing-loaded alert.
			_, _ = a.ctrl.Download(a.saver)
			a.refresh(false)
			return a, nil
		}
		a.mode = ModeSaving
		a.filenameInput.SetValue(shell.DownloadFilename(snap.CurrentTitle))
		a.filenameInput.CursorEnd()
		return a, a.filenameInput.Focus()

	case key.Matches(msg, a.keys.Help):
		a.help.ShowAll = !a.help.ShowAll
		return a, nil
	}

	var cmd tea.Cmd
	a.viewport, cmd = a.viewport.Update(msg)
	return a, cmd
}

// updateSavePrompt handles key events while the save prompt is open.
// Esc cancels without saving, which is not an error.
func (a App) updateSavePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		a.mode = ModeNormal
		a.filenameInput.Blur()
		return a, nil

	case tea.KeyEnter:
		name := strings.TrimSpace(a.filenameInput.Value())
		if name == "" {
			return a, nil
		}
		a.mode = ModeNormal
		a.filenameInput.Blur()
		return a, saveCmd(a.ctrl, a.saver, name)
	}

	var cmd tea.Cmd
	a.filenameInput, cmd = a.filenameInput.Update(msg)
	return a, cmd
}

// refresh copies the view surface's state into the model. Alerts move to
// the status line.
func (a *App) refresh(syncCursor bool) {
	snap := a.view.snapshot()
	if snap.Alert != "" {
		a.status = snap.Alert
		a.view.clearAlert()
		snap.Alert = ""
	}
	a.state = snap

	if syncCursor {
		for i, e := range snap.Entries {
			if e.Key == snap.Active {
				a.cursor = i
				break
			}
		}
	}

	if snap.LoadErr != "" {
		a.viewport.SetContent(a.styles.Error.Render(snap.LoadErr))
	} else {
		a.viewport.SetContent(snap.Text)
	}
}

// View implements tea.Model.
func (a App) View() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("docshell"))
	b.WriteString("\n\n")

	if a.mode == ModeSaving {
		b.WriteString(a.styles.Prompt.Render("Save page as:"))
		b.WriteString("\n")
		b.WriteString(a.filenameInput.View())
		b.WriteString("\n\n")
		b.WriteString(a.styles.Help.Render("enter: save | esc: cancel"))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, a.renderNav(), a.renderContent()))
	b.WriteString("\n")

	if a.err != nil {
		b.WriteString(a.styles.Error.Render(a.err.Error()))
		b.WriteString("\n")
	} else if a.status != "" {
		b.WriteString(a.styles.Alert.Render(a.status))
		b.WriteString("\n")
	}

	b.WriteString(a.help.View(a.keys))
	b.WriteString("\n")
	return b.String()
}

func (a App) renderNav() string {
	col := lipgloss.NewStyle().Width(navWidth)
	if len(a.state.Entries) == 0 {
		return col.Render(a.styles.Status.Render("(no pages)"))
	}

	var b strings.Builder
	for i, e := range a.state.Entries {
		marker := "  "
		if i == a.cursor {
			marker = "> "
		}
		line := marker + e.Title
		if e.Key == a.state.Active {
			b.WriteString(a.styles.NavActive.Render(line))
		} else {
			b.WriteString(a.styles.NavItem.Render(line))
		}
		b.WriteString("\n")
	}
	return col.Render(b.String())
}

func (a App) renderContent() string {
	if a.loading {
		return "Loading..."
	}

	var b strings.Builder
	if a.state.LoadErr == "" && a.state.Title != "" {
		b.WriteString(a.styles.PageTitle.Render(a.state.Title))
		b.WriteString("\n\n")
	}
	b.WriteString(a.viewport.View())
	return b.String()
}

// renameSaver overrides the derived filename with the prompt answer.
type renameSaver struct {
	name  string
	inner shell.Saver
}

func (s renameSaver) Save(_, html string) (string, error) {
	return s.inner.Save(s.name, html)
}

func restoreCmd(ctrl *shell.Controller) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		ctrl.Restore(ctx)
		return restoreDoneMsg{}
	}
}

func selectCmd(ctrl *shell.Controller, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		return selectDoneMsg{err: ctrl.Select(ctx, id)}
	}
}

func saveCmd(ctrl *shell.Controller, saver shell.Saver, name string) tea.Cmd {
	return func() tea.Msg {
		path, err := ctrl.Download(renameSaver{name: name, inner: saver})
		return saveDoneMsg{path: path, err: err}
	}
}
