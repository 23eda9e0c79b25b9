package diag

import (
	"fmt"

	"tagcheck/internal/facts"
	"tagcheck/internal/rules"
)

type phraseFunc func(kind, declaring facts.ElementKind) string

// Catalog renders tag diagnostics into human-readable messages. It holds no
// global state; construct one with NewCatalog and hand it to the sinks.
type Catalog struct {
	phrases map[rules.Reason]phraseFunc
}

func NewCatalog() *Catalog {
	return &Catalog{
		phrases: map[rules.Reason]phraseFunc{
			rules.PrivateMember: func(k, _ facts.ElementKind) string {
				return "a private " + k.String()
			},
			rules.PackageDefaultMember: func(k, _ facts.ElementKind) string {
				return "a package default " + k.String()
			},
			rules.NotVisibleMember: func(k, _ facts.ElementKind) string {
				return withArticle(k) + " that is not visible"
			},
			rules.FinalMethod: func(facts.ElementKind, facts.ElementKind) string {
				return "a final method"
			},
			rules.FinalClass: func(k, d facts.ElementKind) string {
				if k.IsMember() {
					return withArticle(k) + " in a final " + d.String()
				}
				return "a final " + k.String()
			},
			rules.StaticMethod: func(facts.ElementKind, facts.ElementKind) string {
				return "a static method"
			},
			rules.AbstractType: func(k, _ facts.ElementKind) string {
				return "an abstract " + k.String()
			},
			rules.NonDefaultInterfaceMethod: func(facts.ElementKind, facts.ElementKind) string {
				return "a non-default interface method"
			},
			rules.ConstantField: func(facts.ElementKind, facts.ElementKind) string {
				return "a constant field"
			},
			rules.WrongElementKind: func(k, d facts.ElementKind) string {
				if k == facts.Method && d == facts.Interface {
					return "an interface method"
				}
				return withArticle(k)
			},
		},
	}
}

// Phrase describes the element the way an unsupported-use message names it,
// for example "a method in a final class".
func (c *Catalog) Phrase(reason rules.Reason, kind, declaring facts.ElementKind) string {
	if fn, ok := c.phrases[reason]; ok {
		return fn(kind, declaring)
	}
	return withArticle(kind)
}

func (c *Catalog) Unsupported(tag facts.Tag, kind, declaring facts.ElementKind, reason rules.Reason) string {
	return fmt.Sprintf("%s is not supported on %s", tag, c.Phrase(reason, kind, declaring))
}

func (c *Catalog) Duplicate(tag facts.Tag) string {
	return fmt.Sprintf("Duplicate tag: %s is already defined on this element", tag)
}

// Message returns the rendered message of d. Free-form kinds keep their own
// message and fall back to the code title.
func (c *Catalog) Message(d *Diagnostic) string {
	switch d.Kind {
	case UnsupportedTagUse:
		return c.Unsupported(d.Tag, d.Element, d.DeclaringKind, d.Reason)
	case DuplicateTag:
		return c.Duplicate(d.Tag)
	}
	if d.Message != "" {
		return d.Message
	}
	return d.Code.Title()
}

func withArticle(k facts.ElementKind) string {
	return k.Article() + " " + k.String()
}
