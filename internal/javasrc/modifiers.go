package javasrc

import (
	sitter "github.com/smacker/go-tree-sitter"

	"tagcheck/internal/facts"
)

type access uint8

const (
	accessNone access = iota
	accessPrivate
	accessProtected
	accessPublic
)

type modifiers struct {
	access     access
	isFinal    bool
	isStatic   bool
	isAbstract bool
	isDefault  bool
}

// readModifiers collects the keyword children of a declaration's modifiers node.
func readModifiers(decl *sitter.Node) modifiers {
	var m modifiers
	for i := 0; i < int(decl.ChildCount()); i++ {
		child := decl.Child(i)
		if child.Type() != "modifiers" {
			continue
		}
		for j := 0; j < int(child.ChildCount()); j++ {
			switch child.Child(j).Type() {
			case "public":
				m.access = accessPublic
			case "protected":
				m.access = accessProtected
			case "private":
				m.access = accessPrivate
			case "final":
				m.isFinal = true
			case "static":
				m.isStatic = true
			case "abstract":
				m.isAbstract = true
			case "default":
				m.isDefault = true
			}
		}
	}
	return m
}

func (m modifiers) visibility(def facts.Visibility) facts.Visibility {
	switch m.access {
	case accessPublic:
		return facts.Public
	case accessProtected:
		return facts.Protected
	case accessPrivate:
		return facts.Private
	}
	return def
}

func (m modifiers) flags() facts.Modifiers {
	var out facts.Modifiers
	if m.isFinal {
		out |= facts.Final
	}
	if m.isStatic {
		out |= facts.Static
	}
	if m.isAbstract {
		out |= facts.Abstract
	}
	return out
}
