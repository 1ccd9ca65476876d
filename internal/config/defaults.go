package config

import "github.com/docshell/docshell/internal/manifest"

// DefaultConfig returns the configuration used when no .docshell.yml exists.
// No keys are excluded from sync by default.
func DefaultConfig() *Config {
	return &Config{
		ManifestURL:      manifest.DefaultURL,
		SiteDir:          ".",
		PagesDir:         "pages",
		DownloadDir:      "downloads",
		FetchTimeoutSecs: 30,
		Server: ServerConfig{
			Command:    "http-server",
			Port:       8080,
			LiveReload: true,
		},
	}
}
