package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/paulstuart/macver"
	"github.com/paulstuart/macver/pkg/config"
)

type options struct {
	configFile string
	verbose    bool
	cfg        config.Config
}

func newRootCmd() *cobra.Command {
	opts := &options{cfg: config.Default()}

	cmd := &cobra.Command{
		Use:           "macver",
		Short:         "Classify macOS releases from Apple's security releases page",
		Long:          `Scrape Apple's security releases page, group macOS releases by version and write them as JSON sorted by release date and by version number.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.configFile, "config", "", "YAML config file")
	f.StringVar(&opts.cfg.URL, "url", opts.cfg.URL, "Security releases page URL")
	f.StringVar(&opts.cfg.Platform, "platform", opts.cfg.Platform, "Release name prefix to keep")
	f.StringVar(&opts.cfg.OutputDir, "output-dir", opts.cfg.OutputDir, "Directory for the JSON files")
	f.StringVar(&opts.cfg.Ordering, "ordering", opts.cfg.Ordering, "Version ordering: semver or lexical")
	f.IntVar(&opts.cfg.Supported, "supported", opts.cfg.Supported, "Number of newest major versions that are supported")
	f.StringVar(&opts.cfg.CacheDir, "cache-dir", opts.cfg.CacheDir, "Cache page responses in this directory")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	return cmd
}

func run(cmd *cobra.Command, opts *options) error {
	level := log.InfoLevel
	if opts.verbose {
		level = log.DebugLevel
	}
	logger := newLogger(cmd.ErrOrStderr(), level)

	cfg, err := resolveConfig(cmd, opts)
	if err != nil {
		return err
	}

	result, err := macver.Scrape(cfg, logger)
	if err != nil {
		return err
	}

	paths, err := result.Write(cfg.OutputDir)
	if err != nil {
		return err
	}
	for _, p := range paths {
		fmt.Fprintf(cmd.OutOrStdout(), "Output written to %s\n", p)
	}
	return nil
}

// resolveConfig loads the config file, if any, and lets explicitly set flags
// override its values.
func resolveConfig(cmd *cobra.Command, opts *options) (config.Config, error) {
	if opts.configFile == "" {
		return opts.cfg, opts.cfg.Validate()
	}
	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return cfg, err
	}
	f := cmd.Flags()
	if f.Changed("url") {
		cfg.URL = opts.cfg.URL
	}
	if f.Changed("platform") {
		cfg.Platform = opts.cfg.Platform
	}
	if f.Changed("output-dir") {
		cfg.OutputDir = opts.cfg.OutputDir
	}
	if f.Changed("ordering") {
		cfg.Ordering = opts.cfg.Ordering
	}
	if f.Changed("supported") {
		cfg.Supported = opts.cfg.Supported
	}
	if f.Changed("cache-dir") {
		cfg.CacheDir = opts.cfg.CacheDir
	}
	return cfg, cfg.Validate()
}

func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
