package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// The renderer is a run-in-place tool: without an explicit -config flag it
// looks for one file in the working directory and nothing else.
const defaultConfigFile = "voxelgard.yaml"

// Load resolves the effective configuration: compiled defaults, then an
// optional YAML file, then CLI flag overrides, validated as a whole.
// A missing default file is fine; a missing -config file is an error.
func Load() (*Config, error) {
	cfg := Default()

	path := ConfigPath()
	explicit := path != ""
	if !explicit {
		path = defaultConfigFile
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	case explicit || !os.IsNotExist(err):
		return nil, fmt.Errorf("reading config: %w", err)
	}

	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
