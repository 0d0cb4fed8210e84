// Package macver builds macOS version information by scraping Apple's
// security releases page.
package macver

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/iancoleman/orderedmap"

	"github.com/paulstuart/macver/pkg/classify"
	"github.com/paulstuart/macver/pkg/config"
	"github.com/paulstuart/macver/pkg/model"
	"github.com/paulstuart/macver/pkg/output"
	"github.com/paulstuart/macver/pkg/scraper"
)

// Fetcher returns the rows of the security releases table, newest first.
type Fetcher interface {
	Fetch() ([]model.RawRelease, error)
}

// Result is the classified release data and its two output views.
type Result struct {
	Catalog       *classify.Catalog
	ByReleaseDate *orderedmap.OrderedMap
	ByVersion     *orderedmap.OrderedMap
}

// Scrape fetches the page named by cfg and classifies its releases.
func Scrape(cfg config.Config, logger *log.Logger) (*Result, error) {
	s := &scraper.Scraper{
		URL:      cfg.URL,
		CacheDir: cfg.CacheDir,
		Logger:   logger,
	}
	return Run(s, cfg, logger)
}

// Run fetches releases from f and classifies them per cfg.
func Run(f Fetcher, cfg config.Config, logger *log.Logger) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if logger == nil {
		logger = log.Default()
	}

	releases, err := f.Fetch()
	if err != nil {
		return nil, fmt.Errorf("error scraping security releases: %w", err)
	}

	platform := classify.FilterPlatform(releases, cfg.Platform)
	logger.Info("Filtered releases", "platform", cfg.Platform, "kept", len(platform), "total", len(releases))

	ordering := cfg.VersionOrdering()
	cl := &classify.Classifier{
		Ordering:  ordering,
		Supported: cfg.Supported,
		Logger:    logger,
	}
	catalog := cl.Classify(platform)
	logger.Info("Classified versions", "versions", catalog.Len(), "supported", cl.SupportedMajors(catalog))

	return &Result{
		Catalog:       catalog,
		ByReleaseDate: classify.ByReleaseDate(catalog),
		ByVersion:     classify.ByVersion(catalog, ordering),
	}, nil
}

// Write stores both views in dir and returns the paths in the order written.
func (r *Result) Write(dir string) ([]string, error) {
	byDate, err := output.WriteFile(dir, output.ByReleaseDateFile, r.ByReleaseDate)
	if err != nil {
		return nil, err
	}
	byVersion, err := output.WriteFile(dir, output.ByVersionFile, r.ByVersion)
	if err != nil {
		return []string{byDate}, err
	}
	return []string{byDate, byVersion}, nil
}
