// Package session persists the shell's navigation state between runs:
// the visited-key history and a cursor into it. It is the terminal
// analog of the browser's URL query string and history stack, so
// relaunching the shell preselects the last active page.
package session

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Store holds the navigation history. Mutating calls persist to disk
// best-effort; the session is disposable state and a failed write never
// interrupts navigation.
type Store struct {
	path string
	data sessionData
}

type sessionData struct {
	History []string `json:"history"`
	Cursor  int      `json:"cursor"`
}

// DefaultPath returns the per-user session file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "docshell", "session.json"), nil
}

// Load reads the session from disk. A missing or unparseable file yields
// a fresh empty session rather than an error.
func Load(path string) (*Store, error) {
	store := &Store{path: path}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return store, nil
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(data, &store.data); err != nil {
		store.data = sessionData{}
		return store, nil
	}

	// Clamp a cursor that no longer fits the recorded history.
	if store.data.Cursor < 0 || store.data.Cursor >= len(store.data.History) {
		store.data.Cursor = len(store.data.History) - 1
		if store.data.Cursor < 0 {
			store.data.Cursor = 0
		}
	}
	return store, nil
}

// CurrentID returns the key at the history cursor, or "" for a fresh
// session.
func (s *Store) CurrentID() string {
	if len(s.data.History) == 0 {
		return ""
	}
	return s.data.History[s.data.Cursor]
}

// Push records a new navigation entry, discarding any forward tail, and
// moves the cursor to it.
func (s *Store) Push(id string) {
	if len(s.data.History) == 0 {
		s.data.History = []string{id}
		s.data.Cursor = 0
	} else {
		s.data.History = append(s.data.History[:s.data.Cursor+1], id)
		s.data.Cursor = len(s.data.History) - 1
	}
	_ = s.save()
}

// Replace overwrites the entry at the cursor without growing history,
// the equivalent of history.replaceState.
func (s *Store) Replace(id string) {
	if len(s.data.History) == 0 {
		s.data.History = []string{id}
		s.data.Cursor = 0
	} else {
		s.data.History[s.data.Cursor] = id
	}
	_ = s.save()
}

// Back moves the cursor one entry backwards. It reports whether a move
// happened.
func (s *Store) Back() bool {
	if s.data.Cursor <= 0 {
		return false
	}
	s.data.Cursor--
	_ = s.save()
	return true
}

// Forward moves the cursor one entry forwards. It reports whether a move
// happened.
func (s *Store) Forward() bool {
	if s.data.Cursor >= len(s.data.History)-1 {
		return false
	}
	s.data.Cursor++
	_ = s.save()
	return true
}

// CanBack reports whether Back would move.
func (s *Store) CanBack() bool {
	return s.data.Cursor > 0
}

// CanForward reports whether Forward would move.
func (s *Store) CanForward() bool {
	return s.data.Cursor < len(s.data.History)-1
}

// Len returns the number of history entries.
func (s *Store) Len() int {
	return len(s.data.History)
}

func (s *Store) save() error {
	if s.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0644)
}
