package cmd

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/docshell/docshell/internal/content"
	"github.com/docshell/docshell/internal/manifest"
	"github.com/docshell/docshell/internal/session"
	"github.com/docshell/docshell/internal/shell"
	"github.com/docshell/docshell/internal/tui"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Browse the site in an interactive terminal shell",
	Long: `Opens the site in a terminal UI: a navigation list on the left, the
selected page on the right, with history, reload, and page download.
Pages come from the synced local mirror when one exists, otherwise
straight from their source URLs.`,
	RunE: runShell,
}

func init() {
	shellCmd.Flags().String("id", "", "page key to open at startup")
	rootCmd.AddCommand(shellCmd)
}

func runShell(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	loader := manifest.NewLoader(cfg.ManifestURL, cfg.FetchTimeout())
	usingMirror := false
	if _, statErr := os.Stat(cfg.ManifestPath()); statErr == nil {
		loader.LocalPath = cfg.ManifestPath()
		usingMirror = true
	}
	m := loader.Load(context.Background())

	baseURL := cfg.ManifestURL
	if usingMirror {
		m = mirrorManifest(m, cfg.PagesDir)
		baseURL = ""
	}

	sessionPath := cfg.SessionFile
	if sessionPath == "" {
		defaultPath, pathErr := session.DefaultPath()
		if pathErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: session state will not persist: %v\n", pathErr)
		} else {
			sessionPath = defaultPath
		}
	}
	store, err := session.Load(sessionPath)
	if err != nil {
		return fmt.Errorf("loading session: %w", err)
	}

	if id, _ := cmd.Flags().GetString("id"); id != "" {
		// An unknown key falls back to the first manifest entry.
		store.Replace(id)
	}

	app, err := tui.NewApp(tui.AppParams{
		Manifest: m,
		Fetch:    pageFetch(cfg.SiteDir, content.NewFetcher(cfg.FetchTimeout())),
		BaseURL:  baseURL,
		Session:  store,
		Saver:    shell.DirSaver{Dir: cfg.DownloadDir},
	})
	if err != nil {
		return err
	}

	program := tea.NewProgram(app, tea.WithAltScreen())
	_, err = program.Run()
	return err
}

// mirrorManifest rewrites entry URIs to point at the synced page files,
// so the shell reads from disk instead of refetching sources.
func mirrorManifest(m *manifest.Manifest, pagesDir string) *manifest.Manifest {
	out := manifest.New()
	for _, key := range m.Keys() {
		item, _ := m.Get(key)
		out.Set(key, manifest.Item{
			Title: item.Title,
			URI:   path.Join(pagesDir, key+".html"),
		})
	}
	return out
}

// pageFetch loads absolute targets over HTTP and anything else from the
// site directory, then prepares the document for display.
func pageFetch(siteDir string, fetcher *content.Fetcher) shell.FetchFunc {
	return func(ctx context.Context, target string) (string, error) {
		if u, err := url.Parse(target); err == nil && u.IsAbs() {
			body, err := fetcher.Fetch(ctx, target)
			if err != nil {
				return "", err
			}
			return content.Prepare(target, body, "")
		}

		data, err := os.ReadFile(filepath.Join(siteDir, filepath.FromSlash(target)))
		if err != nil {
			return "", err
		}
		return content.Prepare(target, string(data), "")
	}
}
