package diag

import (
	"tagcheck/internal/facts"
	"tagcheck/internal/rules"
	"tagcheck/internal/source"
)

type Note struct {
	Span source.Span
	Msg  string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Kind     Kind

	Tag           facts.Tag
	Element       facts.ElementKind
	DeclaringKind facts.ElementKind
	Name          string // qualified element name, empty for file-level findings
	Reason        rules.Reason
	HasReason     bool

	Primary source.Span
	// Repeats holds the occurrences of a duplicated tag after Primary.
	Repeats []source.Span
	Message string
	Notes   []Note
}

// Unsupported builds an UnsupportedTagUse diagnostic for tag at pos.
func Unsupported(tag facts.TagUse, f *facts.ElementFact, reason rules.Reason) Diagnostic {
	return Diagnostic{
		Severity:      SevError,
		Code:          TagUnsupported,
		Kind:          UnsupportedTagUse,
		Tag:           tag.Tag,
		Element:       f.Kind,
		DeclaringKind: f.DeclaringTypeKind,
		Name:          f.QualifiedName(),
		Reason:        reason,
		HasReason:     true,
		Primary:       tag.Pos,
	}
}

// Duplicate builds a DuplicateTag diagnostic positioned at the repeated occurrence.
func Duplicate(tag facts.TagUse, f *facts.ElementFact) Diagnostic {
	return Diagnostic{
		Severity:      SevError,
		Code:          TagDuplicate,
		Kind:          DuplicateTag,
		Tag:           tag.Tag,
		Element:       f.Kind,
		DeclaringKind: f.DeclaringTypeKind,
		Name:          f.QualifiedName(),
		Primary:       tag.Pos,
	}
}

func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}

// Located reports whether Primary points into a file. Run-level findings
// such as timings carry a zero span.
func (d *Diagnostic) Located() bool {
	return d.Code != ObsTimings
}
