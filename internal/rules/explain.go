package rules

import "tagcheck/internal/facts"

// Verdict pairs an element kind with the table's answer for it.
type Verdict struct {
	Kind          facts.ElementKind
	Applicability Applicability
}

// DefaultContext is the context of a public, unmodified element of kind k
// declared in a public type of a named package.
func DefaultContext(k facts.ElementKind) EffectiveContext {
	ctx := EffectiveContext{
		Kind:               k,
		DeclaringTypeKind:  k,
		Own:                facts.Public,
		Effective:          facts.Public,
		EnclosingEffective: facts.Public,
	}
	switch k {
	case facts.EnumConstant:
		ctx.DeclaringTypeKind = facts.Enum
	case facts.AnnotationField, facts.AnnotationMethod:
		ctx.DeclaringTypeKind = facts.Annotation
	case facts.Field, facts.Method, facts.Constructor:
		ctx.DeclaringTypeKind = facts.Class
	}
	return ctx
}

// Row returns the verdict of tag for every element kind in its default context.
func Row(tag facts.Tag) []Verdict {
	out := make([]Verdict, 0, len(facts.AllKinds))
	for _, k := range facts.AllKinds {
		out = append(out, Verdict{Kind: k, Applicability: Lookup(tag, DefaultContext(k))})
	}
	return out
}
