package diagfmt

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"

	"tagcheck/internal/diag"
	"tagcheck/internal/source"
)

// LocationJSON is a position in a file.
type LocationJSON struct {
	File      string `json:"file" yaml:"file"`
	StartByte uint32 `json:"start_byte" yaml:"start_byte"`
	EndByte   uint32 `json:"end_byte" yaml:"end_byte"`
	StartLine uint32 `json:"start_line,omitempty" yaml:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty" yaml:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty" yaml:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty" yaml:"end_col,omitempty"`
}

type NoteJSON struct {
	Message  string        `json:"message" yaml:"message"`
	Location *LocationJSON `json:"location,omitempty" yaml:"location,omitempty"`
}

// DiagnosticJSON is one diagnostic in machine-readable form. The tag fields
// are set only for restriction-tag findings.
type DiagnosticJSON struct {
	Severity      string        `json:"severity" yaml:"severity"`
	Code          string        `json:"code" yaml:"code"`
	Kind          string        `json:"kind" yaml:"kind"`
	Message       string        `json:"message" yaml:"message"`
	Tag           string        `json:"tag,omitempty" yaml:"tag,omitempty"`
	Element       string        `json:"element,omitempty" yaml:"element,omitempty"`
	DeclaringKind string        `json:"declaring_kind,omitempty" yaml:"declaring_kind,omitempty"`
	Name          string        `json:"name,omitempty" yaml:"name,omitempty"`
	Reason        string        `json:"reason,omitempty" yaml:"reason,omitempty"`
	Location      *LocationJSON `json:"location,omitempty" yaml:"location,omitempty"`
	Notes         []NoteJSON    `json:"notes,omitempty" yaml:"notes,omitempty"`
}

type SummaryJSON struct {
	Errors   int `json:"errors" yaml:"errors"`
	Warnings int `json:"warnings" yaml:"warnings"`
	Infos    int `json:"infos" yaml:"infos"`
	Dropped  int `json:"dropped,omitempty" yaml:"dropped,omitempty"`
}

// DiagnosticsOutput is the root document of JSON and YAML output.
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics" yaml:"diagnostics"`
	Count       int              `json:"count" yaml:"count"`
	Summary     SummaryJSON      `json:"summary" yaml:"summary"`
}

func makeLocation(span source.Span, fs *source.FileSet, pathMode PathMode, includePositions bool) *LocationJSON {
	f := fs.Get(span.File)
	if f == nil {
		return nil
	}
	loc := &LocationJSON{
		File:      formatPath(fs, f, pathMode),
		StartByte: span.Start,
		EndByte:   span.End,
	}
	if includePositions {
		startPos, endPos := fs.Resolve(span)
		loc.StartLine = startPos.Line
		loc.StartCol = startPos.Col
		loc.EndLine = endPos.Line
		loc.EndCol = endPos.Col
	}
	return loc
}

// BuildDiagnosticsOutput builds the output document without serializing it.
func BuildDiagnosticsOutput(bag *diag.Bag, fs *source.FileSet, opts JSONOpts) DiagnosticsOutput {
	items := bag.Items()
	maxItems := len(items)
	if opts.Max > 0 && opts.Max < maxItems {
		maxItems = opts.Max
	}

	diagnostics := make([]DiagnosticJSON, 0, maxItems)
	for i := range maxItems {
		d := &items[i]
		dj := DiagnosticJSON{
			Severity: d.Severity.String(),
			Code:     d.Code.ID(),
			Kind:     d.Kind.String(),
			Message:  d.Message,
			Name:     d.Name,
		}
		if d.Located() {
			dj.Location = makeLocation(d.Primary, fs, opts.PathMode, opts.IncludePositions)
		}
		if d.Kind == diag.UnsupportedTagUse || d.Kind == diag.DuplicateTag {
			dj.Tag = d.Tag.String()
			dj.Element = d.Element.String()
			if d.DeclaringKind.Valid() {
				dj.DeclaringKind = d.DeclaringKind.String()
			}
		}
		if d.HasReason {
			dj.Reason = d.Reason.String()
		}

		includeNotes := opts.IncludeNotes || d.Code == diag.ObsTimings
		if includeNotes && len(d.Notes) > 0 {
			dj.Notes = make([]NoteJSON, len(d.Notes))
			for j, note := range d.Notes {
				nj := NoteJSON{Message: note.Msg}
				if d.Located() {
					nj.Location = makeLocation(note.Span, fs, opts.PathMode, opts.IncludePositions)
				}
				dj.Notes[j] = nj
			}
		}
		diagnostics = append(diagnostics, dj)
	}

	counts := bag.Counts()
	return DiagnosticsOutput{
		Diagnostics: diagnostics,
		Count:       len(diagnostics),
		Summary: SummaryJSON{
			Errors:   counts.Errors,
			Warnings: counts.Warnings,
			Infos:    counts.Infos,
			Dropped:  bag.Dropped(),
		},
	}
}

// JSON writes the diagnostics document as indented JSON.
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildDiagnosticsOutput(bag, fs, opts))
}

// YAML writes the same document as JSON.
func YAML(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(BuildDiagnosticsOutput(bag, fs, opts)); err != nil {
		return err
	}
	return enc.Close()
}
