package config

import (
	"path/filepath"
	"time"
)

// Config is the top-level docshell configuration, corresponding to .docshell.yml.
type Config struct {
	ManifestURL      string       `yaml:"manifest_url" koanf:"manifest_url"`
	SiteDir          string       `yaml:"site_dir" koanf:"site_dir"`
	PagesDir         string       `yaml:"pages_dir" koanf:"pages_dir"`
	DownloadDir      string       `yaml:"download_dir" koanf:"download_dir"`
	SessionFile      string       `yaml:"session_file" koanf:"session_file"`
	Exclude          []string     `yaml:"exclude" koanf:"exclude"`
	FetchTimeoutSecs int          `yaml:"fetch_timeout_secs" koanf:"fetch_timeout_secs"`
	Server           ServerConfig `yaml:"server" koanf:"server"`
}

// ServerConfig holds the serve-mode settings: the external static-server
// binary to spawn, or the built-in server as an alternative.
type ServerConfig struct {
	Command    string `yaml:"command" koanf:"command"`
	Builtin    bool   `yaml:"builtin" koanf:"builtin"`
	Port       int    `yaml:"port" koanf:"port"`
	Open       bool   `yaml:"open" koanf:"open"`
	LiveReload bool   `yaml:"live_reload" koanf:"live_reload"`
}

// ManifestPath returns the location of the synced local manifest mirror.
func (c *Config) ManifestPath() string {
	return filepath.Join(c.SiteDir, "manifest.json")
}

// PagesPath returns the directory the synced pages are written to.
func (c *Config) PagesPath() string {
	return filepath.Join(c.SiteDir, c.PagesDir)
}

// FetchTimeout returns the page-fetch timeout as a duration.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSecs) * time.Second
}
