// Package config loads benchmark defaults from an optional YAML file. Values
// it provides sit below CLI flags in precedence: a flag the user actually
// typed always wins.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// File mirrors the CLI's tunable flags, all optional so an absent key falls
// through to the flag's own default.
type File struct {
	Warmup        *int     `yaml:"warmup"`
	MinRuns       *int     `yaml:"min_runs"`
	MaxRuns       *int     `yaml:"max_runs"`
	MinTotalTime  *float64 `yaml:"min_total_time"`
	Prepare       *string  `yaml:"prepare"`
	Conclude      *string  `yaml:"conclude"`
	Setup         *string  `yaml:"setup"`
	Cleanup       *string  `yaml:"cleanup"`
	IgnoreFailure *bool    `yaml:"ignore_failure"`
	Perf          *bool    `yaml:"perf"`
	PerfMetrics   []string `yaml:"perf_metrics"`
	Shell         *string  `yaml:"shell"`
}

// Load reads and parses path. A missing path is the caller's error to make,
// not this package's — callers should only call Load when a --config flag
// was actually given.
func Load(path string) (*File, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	var f File
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return &f, nil
}
