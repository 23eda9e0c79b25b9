package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"tagcheck/internal/diag"
	"tagcheck/internal/driver"
	"tagcheck/internal/project"
	"tagcheck/internal/rules"
)

// checkSettings is the merge of tagcheck.toml and command-line flags.
type checkSettings struct {
	config  *project.Config
	policy  diag.SeverityPolicy
	options driver.Options
}

// addCheckFlags registers the flags shared by check and watch.
func addCheckFlags(cmd *cobra.Command) {
	cmd.Flags().String("config", "", "path to tagcheck.toml (default: search upwards from the target)")
	cmd.Flags().Int("jobs", -1, "max parallel workers (0 = auto, -1 = from config)")
	cmd.Flags().Bool("no-warnings", false, "drop warnings from the output")
	cmd.Flags().Bool("warnings-as-errors", false, "treat warnings as errors")
	cmd.Flags().Bool("incremental", false, "reuse cached results for unchanged files")
	cmd.Flags().StringSlice("exclude", nil, "additional exclude globs")
}

func loadSettings(cmd *cobra.Command, target string) (*checkSettings, error) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return nil, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	noWarnings, err := cmd.Flags().GetBool("no-warnings")
	if err != nil {
		return nil, fmt.Errorf("failed to get no-warnings flag: %w", err)
	}
	warningsAsErrors, err := cmd.Flags().GetBool("warnings-as-errors")
	if err != nil {
		return nil, fmt.Errorf("failed to get warnings-as-errors flag: %w", err)
	}
	if noWarnings && warningsAsErrors {
		return nil, fmt.Errorf("no-warnings and warnings-as-errors flags cannot be used together")
	}
	incremental, err := cmd.Flags().GetBool("incremental")
	if err != nil {
		return nil, fmt.Errorf("failed to get incremental flag: %w", err)
	}
	excludes, err := cmd.Flags().GetStringSlice("exclude")
	if err != nil {
		return nil, fmt.Errorf("failed to get exclude flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return nil, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return nil, fmt.Errorf("failed to get timings flag: %w", err)
	}

	var cfg *project.Config
	if configPath != "" {
		cfg, err = project.Load(configPath)
	} else {
		cfg, err = project.LoadFor(target)
	}
	if err != nil {
		return nil, err
	}

	if jobs >= 0 {
		cfg.Check.Jobs = jobs
	}
	if maxDiagnostics >= 0 {
		cfg.Check.MaxDiagnostics = maxDiagnostics
	}
	cfg.Check.Exclude = append(cfg.Check.Exclude, excludes...)

	policy, err := cfg.Policy()
	if err != nil {
		return nil, err
	}

	fallback := target
	if !isDir(target) {
		fallback = filepath.Dir(target)
	}
	base := cfg.Root()
	if base == "" {
		base = fallback
	}

	opts := driver.Options{
		Jobs:             cfg.Check.Jobs,
		MaxDiagnostics:   cfg.Check.MaxDiagnostics,
		Rules:            rules.Options{DefaultPackageExemption: cfg.Check.DefaultPackageExemption},
		Policy:           policy,
		Filter:           cfg.Filter(fallback),
		WarningsAsErrors: warningsAsErrors,
		NoWarnings:       noWarnings,
		Timings:          showTimings,
		Fingerprint:      cfg.Fingerprint(),
		BaseDir:          base,
		Catalog:          diag.NewCatalog(),
	}
	if incremental {
		cache, err := driver.OpenDiskCache("tagcheck")
		if err != nil {
			return nil, fmt.Errorf("failed to open cache: %w", err)
		}
		opts.Cache = cache
	}
	return &checkSettings{config: cfg, policy: policy, options: opts}, nil
}
