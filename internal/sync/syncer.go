// Package sync mirrors the remote manifest and its pages to local disk:
// the manifest to <site>/manifest.json and each page to
// <site>/<pages>/<key>.html.
package sync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/docshell/docshell/internal/content"
	"github.com/docshell/docshell/internal/manifest"
	"github.com/docshell/docshell/internal/progress"
)

// ErrExcluded marks a page skipped because its key matched an exclude
// pattern, as opposed to a fetch or write failure.
var ErrExcluded = errors.New("excluded by configuration")

// SkipRecord names a page that was not synced and why.
type SkipRecord struct {
	Key string
	Err error
}

// Result summarizes a sync run.
type Result struct {
	Synced  []string
	Skipped []SkipRecord
}

// Syncer mirrors remote state into SiteDir. The manifest fetch is the
// only fatal step; per-page failures are recorded and skipped, so
// partial success is the accepted outcome for the page loop.
type Syncer struct {
	Loader   *manifest.Loader
	Fetcher  *content.Fetcher
	SiteDir  string
	PagesDir string // relative to SiteDir
	Exclude  []string
	Reporter progress.Reporter
	Verbose  bool
}

// Run performs the mirror and reports what was synced and what was
// skipped. A nil error does not mean every page landed; check
// Result.Skipped.
func (s *Syncer) Run(ctx context.Context) (*Result, error) {
	m, err := s.Loader.FetchRemote(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.writeManifest(m); err != nil {
		return nil, err
	}

	// Recreate the pages directory from scratch.
	pagesPath := filepath.Join(s.SiteDir, s.PagesDir)
	if err := os.RemoveAll(pagesPath); err != nil {
		return nil, fmt.Errorf("clearing pages dir: %w", err)
	}
	if err := os.MkdirAll(pagesPath, 0755); err != nil {
		return nil, fmt.Errorf("creating pages dir: %w", err)
	}

	base, _ := url.Parse(s.Loader.URL)

	reporter := s.Reporter
	if reporter == nil {
		reporter = nopReporter{}
	}

	result := &Result{}
	keys := m.Keys()
	reporter.Start(len(keys))

	// Pages are fetched and written one at a time, in manifest order.
	for i, key := range keys {
		item, _ := m.Get(key)

		if Excluded(key, s.Exclude) {
			if s.Verbose {
				fmt.Fprintf(os.Stderr, "Skipping %s (excluded)\n", key)
			}
			result.Skipped = append(result.Skipped, SkipRecord{Key: key, Err: ErrExcluded})
			reporter.Update(i+1, key)
			continue
		}

		if err := s.syncPage(ctx, pagesPath, base, key, item); err != nil {
			reporter.Skip(key, err)
			result.Skipped = append(result.Skipped, SkipRecord{Key: key, Err: err})
			reporter.Update(i+1, key)
			continue
		}

		result.Synced = append(result.Synced, key)
		reporter.Update(i+1, key)
	}

	reporter.Finish(len(result.Synced), len(result.Skipped))
	return result, nil
}

// syncPage fetches one entry and writes it as <key>.html.
func (s *Syncer) syncPage(ctx context.Context, pagesPath string, base *url.URL, key string, item manifest.Item) error {
	target := resolveURI(base, item.URI)

	body, err := s.Fetcher.Fetch(ctx, target)
	if err != nil {
		return err
	}

	page, err := content.Prepare(item.URI, body, item.Title)
	if err != nil {
		return err
	}

	outPath := filepath.Join(pagesPath, key+".html")
	if err := os.WriteFile(outPath, []byte(page), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}
	return nil
}

// writeManifest writes the ordered manifest mirror into the site dir.
func (s *Syncer) writeManifest(m *manifest.Manifest) error {
	if err := os.MkdirAll(s.SiteDir, 0755); err != nil {
		return fmt.Errorf("creating site dir: %w", err)
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding manifest mirror: %w", err)
	}
	path := filepath.Join(s.SiteDir, "manifest.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing manifest mirror: %w", err)
	}
	return nil
}

// resolveURI makes an entry URI absolute against the manifest URL;
// absolute URIs pass through.
func resolveURI(base *url.URL, uri string) string {
	u, err := url.Parse(uri)
	if err != nil || u.IsAbs() || base == nil {
		return uri
	}
	return base.ResolveReference(u).String()
}

type nopReporter struct{}

func (nopReporter) Start(int)          {}
func (nopReporter) Update(int, string) {}
func (nopReporter) Skip(string, error) {}
func (nopReporter) Finish(int, int)    {}
