// Package config holds the run settings and loads them from an optional YAML file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/paulstuart/macver/pkg/classify"
	"github.com/paulstuart/macver/pkg/scraper"
	"github.com/paulstuart/macver/pkg/version"
)

// Config controls a single scrape-and-classify run.
type Config struct {
	URL       string `yaml:"url"`
	Platform  string `yaml:"platform"`
	OutputDir string `yaml:"output_dir"`
	Ordering  string `yaml:"ordering"`
	Supported int    `yaml:"supported"`
	CacheDir  string `yaml:"cache_dir"`
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		URL:       scraper.DefaultURL,
		Platform:  classify.DefaultPlatform,
		Ordering:  string(version.Semver),
		Supported: classify.DefaultSupported,
	}
}

// Load reads path over the defaults. Keys missing from the file keep their
// default values.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate reports settings that would make the run meaningless.
func (c Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("url must not be empty")
	}
	if c.Platform == "" {
		return fmt.Errorf("platform must not be empty")
	}
	if c.Supported < 1 {
		return fmt.Errorf("supported must be at least 1, got %d", c.Supported)
	}
	if _, err := version.ParseOrdering(c.Ordering); err != nil {
		return err
	}
	return nil
}

// VersionOrdering returns the parsed Ordering; call Validate first.
func (c Config) VersionOrdering() version.Ordering {
	o, err := version.ParseOrdering(c.Ordering)
	if err != nil {
		return version.Semver
	}
	return o
}
