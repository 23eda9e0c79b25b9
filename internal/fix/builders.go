package fix

import (
	"fmt"

	"tagcheck/internal/diag"
	"tagcheck/internal/source"
)

// Edit deletes Span from its file. OldText guards against stale offsets.
type Edit struct {
	Span    source.Span
	OldText string
}

// Fix is one removal derived from a tag diagnostic.
type Fix struct {
	ID    string
	Title string
	Code  diag.Code
	Edits []Edit
}

// Fixable reports whether d has a mechanical removal.
func Fixable(d *diag.Diagnostic) bool {
	return d.Code == diag.TagUnsupported || d.Code == diag.TagDuplicate
}

// ForDiagnostic builds the removal of the tag occurrences d points at: the
// primary one plus, for duplicates, every later repeat. A tag alone on a doc
// comment line takes the whole line with it; otherwise only the tag and the
// blanks after it are removed.
func ForDiagnostic(fs *source.FileSet, d *diag.Diagnostic) (Fix, error) {
	if !Fixable(d) {
		return Fix{}, fmt.Errorf("fix: %s has no removal", d.Code.ID())
	}
	f := fs.Get(d.Primary.File)
	if f == nil {
		return Fix{}, fmt.Errorf("fix: unknown file id %d", d.Primary.File)
	}
	edits := make([]Edit, 0, 1+len(d.Repeats))
	for _, sp := range append([]source.Span{d.Primary}, d.Repeats...) {
		if sp.File != f.ID {
			return Fix{}, fmt.Errorf("fix: span %v is outside %s", sp, f.Path)
		}
		e, err := removalEdit(f, sp)
		if err != nil {
			return Fix{}, err
		}
		edits = append(edits, e)
	}

	loc, _ := fs.Resolve(d.Primary)
	title := fmt.Sprintf("remove %s", d.Tag)
	if d.Code == diag.TagDuplicate {
		title = fmt.Sprintf("remove duplicate %s", d.Tag)
	}
	return Fix{
		ID:    fmt.Sprintf("%s@%s:%d:%d", d.Code.ID(), f.Path, loc.Line, loc.Col),
		Title: title,
		Code:  d.Code,
		Edits: edits,
	}, nil
}

func removalEdit(f *source.File, sp source.Span) (Edit, error) {
	start, end := int(sp.Start), int(sp.End)
	content := f.Content
	if start < 0 || end <= start || end > len(content) || content[start] != '@' {
		return Edit{}, fmt.Errorf("fix: span %v does not cover a tag", sp)
	}
	span := removalSpan(content, start, end)
	return Edit{
		Span:    source.Span{File: f.ID, Start: uint32(span[0]), End: uint32(span[1])}, // #nosec G115 -- bounded by a uint32 span
		OldText: string(content[span[0]:span[1]]),
	}, nil
}

func removalSpan(content []byte, start, end int) [2]int {
	lineStart := start
	for lineStart > 0 && content[lineStart-1] != '\n' {
		lineStart--
	}
	lineEnd := end
	for lineEnd < len(content) && content[lineEnd] != '\n' {
		lineEnd++
	}

	if onlyLeader(content[lineStart:start]) && !closesComment(content[end:lineEnd]) {
		if lineEnd < len(content) {
			lineEnd++
		}
		return [2]int{lineStart, lineEnd}
	}

	for end < lineEnd && (content[end] == ' ' || content[end] == '\t') {
		end++
	}
	return [2]int{start, end}
}

// onlyLeader matches the "   * " prefix of a doc comment continuation line.
func onlyLeader(prefix []byte) bool {
	stars := 0
	for _, c := range prefix {
		switch c {
		case ' ', '\t', '\r':
		case '*':
			stars++
		default:
			return false
		}
	}
	return stars <= 1
}

func closesComment(rest []byte) bool {
	for i := 0; i+1 < len(rest); i++ {
		if rest[i] == '*' && rest[i+1] == '/' {
			return true
		}
	}
	return false
}
