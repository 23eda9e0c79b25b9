package validate

import (
	"fmt"

	"tagcheck/internal/diag"
	"tagcheck/internal/facts"
	"tagcheck/internal/rules"
)

// Options configure a Validator.
type Options struct {
	Rules rules.Options
	// Catalog renders messages; NewCatalog is used when nil.
	Catalog *diag.Catalog
}

// Validator maps element facts to diagnostics. It holds only immutable
// configuration and may be shared between goroutines.
type Validator struct {
	opts    rules.Options
	catalog *diag.Catalog
}

func New(opts Options) *Validator {
	c := opts.Catalog
	if c == nil {
		c = diag.NewCatalog()
	}
	return &Validator{opts: opts.Rules, catalog: c}
}

// Default returns a Validator with the default rule options.
func Default() *Validator {
	return New(Options{Rules: rules.DefaultOptions()})
}

// Validate returns the diagnostics for one unit's facts. Per fact, duplicate
// findings come first, then unsupported uses in first-occurrence tag order.
// Malformed facts panic; see ValidateUnits for the recovering variant.
func (v *Validator) Validate(fs []*facts.ElementFact) []diag.Diagnostic {
	var out []diag.Diagnostic
	v.each(fs, func(d diag.Diagnostic) {
		out = append(out, d)
	})
	return out
}

// Report streams the diagnostics of fs into r.
func (v *Validator) Report(r diag.Reporter, fs []*facts.ElementFact) {
	v.each(fs, r.Report)
}

func (v *Validator) each(fs []*facts.ElementFact, emit func(diag.Diagnostic)) {
	resolver := rules.NewResolver(v.opts)
	for _, f := range fs {
		if f == nil || !f.Tagged() {
			continue
		}
		if !f.Kind.Valid() {
			panic(fmt.Errorf("%w: %s on %q", rules.ErrUnknownKind, f.Kind, f.Name))
		}
		for _, d := range DetectDuplicates(f) {
			d.Message = v.catalog.Message(&d)
			emit(d)
		}
		ctx := resolver.Resolve(f)
		for _, use := range primaryUses(f) {
			reason, invalid := rules.Lookup(use.Tag, ctx).Reason()
			if !invalid {
				continue
			}
			d := diag.Unsupported(use, f, reason)
			d.DeclaringKind = ctx.DeclaringTypeKind
			d.Message = v.catalog.Message(&d)
			d = d.WithNote(f.Pos, fmt.Sprintf("%s %s declared here", f.Kind, f.Name))
			emit(d)
		}
	}
}

// Validate runs the default Validator over fs.
func Validate(fs []*facts.ElementFact) []diag.Diagnostic {
	return Default().Validate(fs)
}

// Report runs the default Validator over fs into r.
func Report(r diag.Reporter, fs []*facts.ElementFact) {
	Default().Report(r, fs)
}
