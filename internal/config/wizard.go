package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/docshell/docshell/internal/manifest"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to .docshell.yml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to docshell! Let's configure your site.")
	fmt.Println()

	defaults := DefaultConfig()

	// 1. Manifest URL.
	urlPrompt := promptui.Prompt{
		Label:   "Remote manifest URL",
		Default: manifest.DefaultURL,
		Validate: func(s string) error {
			u, err := url.Parse(s)
			if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
				return fmt.Errorf("must be an http(s) URL")
			}
			return nil
		},
	}
	manifestURL, err := urlPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("manifest URL: %w", err)
	}

	// 2. Site directory (manifest mirror + pages live under it).
	sitePrompt := promptui.Prompt{
		Label:   "Site directory",
		Default: defaults.SiteDir,
	}
	siteDir, err := sitePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("site dir: %w", err)
	}

	// 3. Pages directory, relative to the site directory.
	pagesPrompt := promptui.Prompt{
		Label:   "Pages directory (under the site directory)",
		Default: defaults.PagesDir,
	}
	pagesDir, err := pagesPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("pages dir: %w", err)
	}

	// 4. Download directory.
	downloadPrompt := promptui.Prompt{
		Label:   "Download directory",
		Default: defaults.DownloadDir,
	}
	downloadDir, err := downloadPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("download dir: %w", err)
	}

	// 5. Server mode.
	serverPrompt := promptui.Select{
		Label: "Static server for serve mode",
		Items: []string{
			"http-server (external binary)",
			"builtin    (docshell's own server, with live reload)",
		},
	}
	serverIdx, _, err := serverPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("server selection: %w", err)
	}
	builtin := serverIdx == 1

	// 6. Port.
	portPrompt := promptui.Prompt{
		Label:   "Server port",
		Default: strconv.Itoa(defaults.Server.Port),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n < 1 || n > 65535 {
				return fmt.Errorf("must be a port number")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	port, _ := strconv.Atoi(portStr)

	// 7. Exclude patterns.
	excludePrompt := promptui.Prompt{
		Label:   "Keys to exclude from sync (comma-separated globs, blank for none)",
		Default: "",
	}
	excludeStr, err := excludePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("exclude patterns: %w", err)
	}

	cfg := &Config{
		ManifestURL:      manifestURL,
		SiteDir:          siteDir,
		PagesDir:         pagesDir,
		DownloadDir:      downloadDir,
		Exclude:          splitAndTrim(excludeStr),
		FetchTimeoutSecs: defaults.FetchTimeoutSecs,
		Server: ServerConfig{
			Command:    defaults.Server.Command,
			Builtin:    builtin,
			Port:       port,
			LiveReload: defaults.Server.LiveReload,
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	// Save to .docshell.yml.
	configPath := ".docshell.yml"
	if err := cfg.Save(configPath); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", configPath)
	if !builtin {
		fmt.Printf("Serve mode will spawn %q; make sure it is installed and on PATH.\n", cfg.Server.Command)
	}
	return cfg, nil
}

// splitAndTrim splits a comma-separated string and trims whitespace,
// dropping empty tokens.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if token := strings.TrimSpace(part); token != "" {
			result = append(result, token)
		}
	}
	return result
}
