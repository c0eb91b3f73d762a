// Package config loads optional default Hamming parameters from a
// YAML file, following the single-source-of-truth pattern: a path
// named explicitly via --hamming-config or the HAMARC_CONFIG
// environment variable, never auto-discovered.
//
// Unlike a deployment config, this one is genuinely optional: hamarc
// already defines standalone CLI defaults (8 data bits, 4 parity
// bits). Absence of both the flag and the environment variable is not
// an error; it just means the CLI's own defaults stand unchanged.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the optional defaults this file can supply.
type Config struct {
	Hamming HammingDefaults `yaml:"hamming"`
}

// HammingDefaults mirrors hamming.Options but as config-file fields;
// zero means "not set, fall back to the CLI default".
type HammingDefaults struct {
	DataBits   int `yaml:"data_bits"`
	ParityBits int `yaml:"parity_bits"`
}

// EnvVar is the environment variable naming a config file path, used
// when --hamming-config is not passed.
const EnvVar = "HAMARC_CONFIG"

// Resolve returns the config file path to load: flagPath if
// non-empty, otherwise the HAMARC_CONFIG environment variable, or ""
// if neither is set.
func Resolve(flagPath string) string {
	if flagPath != "" {
		return flagPath
	}
	return os.Getenv(EnvVar)
}

// Load reads and parses the YAML file at path. An empty path is not
// valid; callers should check Resolve's result first and skip Load
// entirely when it returns "".
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return &cfg, nil
}
