package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"tagcheck/internal/diag"
)

// ErrInvalidSeverity is returned when a [severity] entry names an unknown level.
var ErrInvalidSeverity = errors.New("invalid severity")

// Config mirrors tagcheck.toml.
type Config struct {
	Check    CheckConfig    `toml:"check"`
	Severity SeverityConfig `toml:"severity"`

	// Path is the file the config was read from, empty for defaults.
	Path string `toml:"-"`
}

type CheckConfig struct {
	Include                 []string `toml:"include"`
	Exclude                 []string `toml:"exclude"`
	Jobs                    int      `toml:"jobs"`
	MaxDiagnostics          int      `toml:"max_diagnostics"`
	DefaultPackageExemption bool     `toml:"default_package_exemption"`
}

type SeverityConfig struct {
	UnsupportedTag string `toml:"unsupported_tag"`
	DuplicateTag   string `toml:"duplicate_tag"`
	Syntax         string `toml:"syntax"`
}

// Default returns the configuration used when no tagcheck.toml exists.
func Default() *Config {
	return &Config{
		Check: CheckConfig{
			Include:                 []string{"**/*.java"},
			MaxDiagnostics:          1000,
			DefaultPackageExemption: true,
		},
		Severity: SeverityConfig{
			UnsupportedTag: "error",
			DuplicateTag:   "error",
			Syntax:         "warning",
		},
	}
}

// Load decodes path on top of Default. Keys absent from the file keep their
// default values.
func Load(path string) (*Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}
	if meta.IsDefined("check", "jobs") && cfg.Check.Jobs < 0 {
		return nil, fmt.Errorf("%s: [check].jobs must be >= 0", path)
	}
	if meta.IsDefined("check", "include") && len(cfg.Check.Include) == 0 {
		return nil, fmt.Errorf("%s: [check].include must not be empty", path)
	}
	cfg.Path = path
	if _, err := cfg.Policy(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadFor finds tagcheck.toml above startDir and loads it. Without one it
// returns Default.
func LoadFor(startDir string) (*Config, error) {
	path, ok, err := FindConfig(startDir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// Root is the directory include/exclude globs are relative to.
func (c *Config) Root() string {
	if c.Path == "" {
		return ""
	}
	return filepath.Dir(c.Path)
}

// Policy converts the [severity] table into a diag.SeverityPolicy.
func (c *Config) Policy() (diag.SeverityPolicy, error) {
	p := diag.DefaultPolicy()
	entries := []struct {
		key  string
		val  string
		kind diag.Kind
	}{
		{"unsupported_tag", c.Severity.UnsupportedTag, diag.UnsupportedTagUse},
		{"duplicate_tag", c.Severity.DuplicateTag, diag.DuplicateTag},
		{"syntax", c.Severity.Syntax, diag.Syntax},
	}
	for _, e := range entries {
		if e.val == "" {
			continue
		}
		a, ok := diag.ParseAction(e.val)
		if !ok {
			return nil, fmt.Errorf("%w %q for [severity].%s", ErrInvalidSeverity, e.val, e.key)
		}
		p[e.kind] = a
	}
	return p, nil
}

// DefaultTOML is what `tagcheck init` writes.
const DefaultTOML = `[check]
include = ["**/*.java"]
exclude = []
jobs = 0
max_diagnostics = 1000
default_package_exemption = true

[severity]
unsupported_tag = "error"
duplicate_tag = "error"
syntax = "warning"
`

// WriteDefault creates dir/tagcheck.toml. It refuses to overwrite an
// existing file.
func WriteDefault(dir string) (string, error) {
	if dir == "" {
		dir = "."
	}
	path := filepath.Join(dir, ConfigName)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("%s already exists", path)
		}
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	if _, err := f.WriteString(DefaultTOML); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", path, err)
	}
	return path, nil
}
