package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (DOCSHELL_*). A double underscore in a
// variable name maps to a nesting level: DOCSHELL_SERVER__PORT sets
// server.port.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// Overlay environment variables: DOCSHELL_SITE_DIR -> site_dir, etc.
	if err := k.Load(env.Provider("DOCSHELL_", ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, "DOCSHELL_"))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.ManifestURL == "" {
		return fmt.Errorf("manifest_url is required")
	}
	u, err := url.Parse(c.ManifestURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("invalid manifest_url %q: must be an http(s) URL", c.ManifestURL)
	}

	if c.SiteDir == "" {
		return fmt.Errorf("site_dir is required")
	}
	if c.PagesDir == "" {
		return fmt.Errorf("pages_dir is required")
	}
	if c.DownloadDir == "" {
		return fmt.Errorf("download_dir is required")
	}

	if c.FetchTimeoutSecs < 0 {
		return fmt.Errorf("fetch_timeout_secs must be non-negative")
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if !c.Server.Builtin && c.Server.Command == "" {
		return fmt.Errorf("server.command is required unless server.builtin is set")
	}

	return nil
}
