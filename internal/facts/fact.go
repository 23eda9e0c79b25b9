package facts

import (
	"strings"

	"tagcheck/internal/source"
)

// ElementFact is the unit the validator consumes. Enclosing is a reference
// to the container's fact, which must outlive this one within a unit.
type ElementFact struct {
	Kind              ElementKind
	Name              string
	OwnVisibility     Visibility
	Modifiers         Modifiers
	Enclosing         *ElementFact
	DeclaringTypeKind ElementKind
	Package           string
	Pos               source.Span
	Tags              []TagUse
}

func (f *ElementFact) Has(flag Modifiers) bool {
	return f.Modifiers.Has(flag)
}

// Tagged reports whether the fact carries at least one restriction tag.
func (f *ElementFact) Tagged() bool {
	return len(f.Tags) > 0
}

// TopLevel reports whether the fact is a type with no container.
func (f *ElementFact) TopLevel() bool {
	return f.Enclosing == nil
}

// QualifiedName joins the names along the enclosing chain with '.', prefixed
// by the package. Members render as Type.member.
func (f *ElementFact) QualifiedName() string {
	var parts []string
	seen := 0
	for cur := f; cur != nil; cur = cur.Enclosing {
		parts = append(parts, cur.Name)
		// a cyclic chain is reported by the resolver, not here
		seen++
		if seen > maxDepth {
			break
		}
	}
	if root := f.root(); root != nil && root.Package != "" {
		parts = append(parts, root.Package)
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, ".")
}

func (f *ElementFact) root() *ElementFact {
	cur := f
	for i := 0; cur.Enclosing != nil && i < maxDepth; i++ {
		cur = cur.Enclosing
	}
	return cur
}

// maxDepth bounds enclosing-chain walks that must not diverge on malformed input.
const maxDepth = 1 << 12

// Unit groups the facts of one compilation unit in declaration order.
type Unit struct {
	Path  string
	File  source.FileID
	Facts []*ElementFact
}

// Tagged returns the facts that carry at least one tag.
func (u *Unit) Tagged() []*ElementFact {
	out := make([]*ElementFact, 0, len(u.Facts))
	for _, f := range u.Facts {
		if f.Tagged() {
			out = append(out, f)
		}
	}
	return out
}
