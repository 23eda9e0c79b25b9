// Package fix removes restriction tags that the validator rejected.
package fix

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"tagcheck/internal/diag"
	"tagcheck/internal/source"
)

// ErrNoFixes is returned when no fixes were applied.
var ErrNoFixes = errors.New("no applicable fixes found")

// ApplyOptions configures Apply.
type ApplyOptions struct {
	// DryRun computes the result without writing files.
	DryRun bool
}

// AppliedFix records a successfully applied fix.
type AppliedFix struct {
	ID          string
	Title       string
	Code        diag.Code
	PrimaryPath string
	EditCount   int
}

// SkippedFix captures a skipped or failed fix with a reason.
type SkippedFix struct {
	ID     string
	Title  string
	Reason string
}

// FileChange summarises modifications performed on a file.
type FileChange struct {
	Path      string
	EditCount int
}

// ApplyResult aggregates applied fixes, skipped ones, and file changes.
type ApplyResult struct {
	Applied     []AppliedFix
	Skipped     []SkippedFix
	FileChanges []FileChange
}

// Apply removes the tags behind every fixable diagnostic and rewrites the
// affected files, restoring their BOM and line endings.
func Apply(fs *source.FileSet, diagnostics []diag.Diagnostic, opts ApplyOptions) (*ApplyResult, error) {
	result := &ApplyResult{
		Applied:     make([]AppliedFix, 0),
		Skipped:     make([]SkippedFix, 0),
		FileChanges: make([]FileChange, 0),
	}
	if fs == nil {
		return result, fmt.Errorf("fix: FileSet is nil")
	}

	fixes := make([]Fix, 0, len(diagnostics))
	seen := make(map[string]bool)
	for i := range diagnostics {
		d := &diagnostics[i]
		if !Fixable(d) {
			continue
		}
		fx, err := ForDiagnostic(fs, d)
		if err != nil {
			result.Skipped = append(result.Skipped, SkippedFix{Title: d.Message, Reason: err.Error()})
			continue
		}
		if seen[fx.ID] {
			result.Skipped = append(result.Skipped, SkippedFix{ID: fx.ID, Title: fx.Title, Reason: "duplicate fix id"})
			continue
		}
		seen[fx.ID] = true
		fixes = append(fixes, fx)
	}
	if len(fixes) == 0 {
		return result, ErrNoFixes
	}
	sort.SliceStable(fixes, func(i, j int) bool {
		a, b := fixes[i].Edits[0].Span, fixes[j].Edits[0].Span
		if a.File != b.File {
			return a.File < b.File
		}
		return a.Start < b.Start
	})

	accepted := make(map[source.FileID][]Edit)
	for _, fx := range fixes {
		f := fs.Get(fx.Edits[0].Span.File)
		switch {
		case f.Flags&source.FileVirtual != 0:
			result.Skipped = append(result.Skipped, SkippedFix{ID: fx.ID, Title: fx.Title, Reason: "target file is virtual"})
			continue
		case !editsFit(accepted[f.ID], fx.Edits):
			result.Skipped = append(result.Skipped, SkippedFix{ID: fx.ID, Title: fx.Title, Reason: "conflicts with a previous edit"})
			continue
		}
		accepted[f.ID] = append(accepted[f.ID], fx.Edits...)
		result.Applied = append(result.Applied, AppliedFix{
			ID:          fx.ID,
			Title:       fx.Title,
			Code:        fx.Code,
			PrimaryPath: f.FormatPath("auto", fs.BaseDir()),
			EditCount:   len(fx.Edits),
		})
	}
	if len(result.Applied) == 0 {
		return result, ErrNoFixes
	}

	ids := make([]source.FileID, 0, len(accepted))
	for id := range accepted {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		f := fs.Get(id)
		out, err := applyEdits(f.Content, accepted[id])
		if err != nil {
			return result, fmt.Errorf("fix %s: %w", f.Path, err)
		}
		if !opts.DryRun {
			if err := writeBack(f, out); err != nil {
				return result, err
			}
		}
		result.FileChanges = append(result.FileChanges, FileChange{
			Path:      f.FormatPath("relative", fs.BaseDir()),
			EditCount: len(accepted[id]),
		})
	}
	return result, nil
}

// applyEdits deletes non-overlapping spans, last first so earlier offsets
// stay valid.
func applyEdits(content []byte, edits []Edit) ([]byte, error) {
	sorted := append([]Edit(nil), edits...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Span.Start > sorted[j].Span.Start })
	out := append([]byte(nil), content...)
	for _, e := range sorted {
		start, end := int(e.Span.Start), int(e.Span.End)
		if start < 0 || end < start || end > len(out) {
			return nil, fmt.Errorf("edit span %v out of range", e.Span)
		}
		if string(out[start:end]) != e.OldText {
			return nil, fmt.Errorf("existing text at %v does not match expected content", e.Span)
		}
		out = append(out[:start], out[end:]...)
	}
	return out, nil
}

// writeBack refuses to touch a file that changed since it was checked.
func writeBack(f *source.File, content []byte) error {
	// #nosec G304 -- path comes from the checked file set
	current, err := os.ReadFile(f.Path)
	if err != nil {
		return fmt.Errorf("read %s: %w", f.Path, err)
	}
	normalized := bytes.TrimPrefix(current, []byte("\xEF\xBB\xBF"))
	normalized = bytes.ReplaceAll(normalized, []byte("\r\n"), []byte("\n"))
	if sha256.Sum256(normalized) != f.Hash {
		return fmt.Errorf("%s changed on disk since it was checked", f.Path)
	}

	if f.Flags&source.FileNormalizedCRLF != 0 {
		content = bytes.ReplaceAll(content, []byte("\n"), []byte("\r\n"))
	}
	if f.Flags&source.FileHadBOM != 0 {
		content = append([]byte("\xEF\xBB\xBF"), content...)
	}

	mode := os.FileMode(0o644)
	if info, err := os.Stat(f.Path); err == nil {
		mode = info.Mode()
	}
	tmp, err := os.CreateTemp(filepath.Dir(f.Path), ".tagcheck-fix-*")
	if err != nil {
		return fmt.Errorf("write %s: %w", f.Path, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", f.Path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", f.Path, err)
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", f.Path, err)
	}
	if err := os.Rename(tmpName, f.Path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", f.Path, err)
	}
	return nil
}

// editsFit reports whether edits overlap neither existing nor each other.
func editsFit(existing, edits []Edit) bool {
	for i, e := range edits {
		if conflictsWithExisting(existing, e) || conflictsWithExisting(edits[:i], e) {
			return false
		}
	}
	return true
}

func conflictsWithExisting(existing []Edit, edit Edit) bool {
	for _, prev := range existing {
		if spansConflict(prev.Span, edit.Span) {
			return true
		}
	}
	return false
}

// spansConflict reports whether two half-open spans overlap.
func spansConflict(a, b source.Span) bool {
	return a.Start < b.End && b.Start < a.End
}
