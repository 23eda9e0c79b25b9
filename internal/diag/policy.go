package diag

// Action is what a SeverityPolicy does with one kind of diagnostic.
type Action struct {
	Severity Severity
	Ignore   bool
}

// SeverityPolicy maps diagnostic kinds to severities. Kinds not in the map keep
// the severity they were reported with.
type SeverityPolicy map[Kind]Action

func DefaultPolicy() SeverityPolicy {
	return SeverityPolicy{
		UnsupportedTagUse: {Severity: SevError},
		DuplicateTag:      {Severity: SevError},
		Syntax:            {Severity: SevWarning},
		LoadError:         {Severity: SevError},
		Internal:          {Severity: SevError},
	}
}

// ParseAction accepts a severity name or "ignore".
func ParseAction(s string) (Action, bool) {
	if s == "ignore" || s == "off" {
		return Action{Ignore: true}, true
	}
	sev, ok := ParseSeverity(s)
	return Action{Severity: sev}, ok
}

// Apply rewrites severities in b and drops ignored kinds.
func (p SeverityPolicy) Apply(b *Bag) {
	if b == nil || len(p) == 0 {
		return
	}
	b.Filter(func(d *Diagnostic) bool {
		a, ok := p[d.Kind]
		return !ok || !a.Ignore
	})
	b.Transform(func(d *Diagnostic) {
		if a, ok := p[d.Kind]; ok {
			d.Severity = a.Severity
		}
	})
}

// PromoteWarnings turns every warning into an error.
func PromoteWarnings(b *Bag) {
	b.Transform(func(d *Diagnostic) {
		if d.Severity == SevWarning {
			d.Severity = SevError
		}
	})
}

// DropBelow removes diagnostics less severe than min.
func DropBelow(b *Bag, min Severity) {
	b.Filter(func(d *Diagnostic) bool { return d.Severity >= min })
}
