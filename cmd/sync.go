package cmd

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/docshell/docshell/internal/config"
	"github.com/docshell/docshell/internal/content"
	"github.com/docshell/docshell/internal/manifest"
	"github.com/docshell/docshell/internal/progress"
	docsync "github.com/docshell/docshell/internal/sync"
)

var (
	syncedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	skippedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

// runSync mirrors the remote manifest and its pages into the site
// directory. A manifest failure is fatal; page failures are reported
// and skipped.
func runSync(cfg *config.Config) error {
	syncer := &docsync.Syncer{
		Loader:   manifest.NewLoader(cfg.ManifestURL, cfg.FetchTimeout()),
		Fetcher:  content.NewFetcher(cfg.FetchTimeout()),
		SiteDir:  cfg.SiteDir,
		PagesDir: cfg.PagesDir,
		Exclude:  cfg.Exclude,
		Reporter: progress.NewReporter(),
		Verbose:  verbose,
	}

	fmt.Printf("Syncing pages from %s\n", cfg.ManifestURL)

	result, err := syncer.Run(context.Background())
	if err != nil {
		return err
	}

	fmt.Println(syncedStyle.Render(fmt.Sprintf("Synced %d pages to %s", len(result.Synced), cfg.PagesPath())))
	if len(result.Skipped) > 0 {
		fmt.Println(skippedStyle.Render(fmt.Sprintf("Skipped %d pages (see warnings above)", len(result.Skipped))))
	}
	return nil
}
