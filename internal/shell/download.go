package shell

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Download hands the cached page to the saver. With nothing loaded it
// alerts the user and succeeds without calling the saver; a canceled
// save dialog is likewise success. The returned path is empty in both of
// those cases.
func (c *Controller) Download(saver Saver) (string, error) {
	c.mu.Lock()
	html := c.state.CurrentHTML
	title := c.state.CurrentTitle
	c.mu.Unlock()

	if html == "" {
		c.view.Alert("Nothing to download yet. Select a page first.")
		return "", nil
	}

	path, err := saver.Save(DownloadFilename(title), html)
	if errors.Is(err, ErrCanceled) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("saving page: %w", err)
	}
	return path, nil
}

// DownloadFilename derives the saved filename from a page title:
// path-hostile characters become dashes and the .html extension is
// appended.
func DownloadFilename(title string) string {
	name := strings.TrimSpace(title)
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '-'
		}
		if r < 0x20 {
			return '-'
		}
		return r
	}, name)
	if name == "" {
		name = "page"
	}
	return name + ".html"
}

// DirSaver writes pages straight into Dir, the fallback used when no
// interactive save dialog is available.
type DirSaver struct {
	Dir string
}

func (s DirSaver) Save(filename, html string) (string, error) {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(s.Dir, filename)
	if err := os.WriteFile(path, []byte(html), 0644); err != nil {
		return "", err
	}
	return path, nil
}
