package cmd

import (
	"fmt"

	"github.com/docshell/docshell/internal/config"
)

// loadConfig loads and validates the config, providing a user-friendly
// error. A missing config file is fine: defaults apply.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `docshell init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}
