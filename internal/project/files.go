package project

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// skipDirs are never descended into, whatever the include globs say.
var skipDirs = map[string]bool{
	"build":        true,
	"target":       true,
	"out":          true,
	"node_modules": true,
}

// FileFilter selects the .java files a check covers. Globs use doublestar
// syntax and are matched against slash-separated paths relative to Base.
type FileFilter struct {
	Base    string
	Include []string
	Exclude []string
}

// Filter builds the FileFilter for c, rooted at the config directory or at
// fallback when c came from defaults.
func (c *Config) Filter(fallback string) FileFilter {
	base := c.Root()
	if base == "" {
		base = fallback
	}
	return FileFilter{Base: base, Include: c.Check.Include, Exclude: c.Check.Exclude}
}

// Validate reports the first malformed glob.
func (f FileFilter) Validate() error {
	for _, p := range append(append([]string(nil), f.Include...), f.Exclude...) {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("invalid glob %q", p)
		}
	}
	return nil
}

// Match reports whether path (absolute or relative to the working
// directory) is selected.
func (f FileFilter) Match(path string) bool {
	if !strings.HasSuffix(path, ".java") {
		return false
	}
	rel := f.rel(path)
	if len(f.Include) > 0 && !matchAny(f.Include, rel) {
		return false
	}
	return !matchAny(f.Exclude, rel)
}

func (f FileFilter) rel(path string) string {
	if f.Base == "" {
		return filepath.ToSlash(path)
	}
	absBase, err := filepath.Abs(f.Base)
	if err != nil {
		return filepath.ToSlash(path)
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(absBase, absPath)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(absPath)
	}
	return filepath.ToSlash(rel)
}

func matchAny(patterns []string, rel string) bool {
	for _, p := range patterns {
		if ok, err := doublestar.Match(p, rel); err == nil && ok {
			return true
		}
	}
	return false
}

// SkipDir reports whether a directory is pruned during listing.
func SkipDir(name string) bool {
	return skipDirs[name] || (len(name) > 1 && strings.HasPrefix(name, "."))
}

// ListFiles returns the selected .java files under target in lexical order.
// A target that is a file is returned as is, without consulting the globs.
func ListFiles(target string, f FileFilter) ([]string, error) {
	info, err := os.Stat(target)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %q: %w", target, err)
	}
	if !info.IsDir() {
		return []string{target}, nil
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	var files []string
	err = filepath.WalkDir(target, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if path != target && SkipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if f.Match(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list %q: %w", target, err)
	}
	sort.Strings(files)
	return files, nil
}
