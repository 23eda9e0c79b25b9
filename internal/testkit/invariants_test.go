package testkit

import (
	"strings"
	"testing"

	"tagcheck/internal/facts"
	"tagcheck/internal/source"
)

func TestCheckUnitInvariants(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("A.java", []byte("class A { int f; }"))
	sf := fs.Get(id)

	outer := &facts.ElementFact{Kind: facts.Class, Name: "A", DeclaringTypeKind: facts.Class, Pos: source.Span{File: id, Start: 6, End: 7}}
	field := &facts.ElementFact{Kind: facts.Field, Name: "f", DeclaringTypeKind: facts.Class, Enclosing: outer, Pos: source.Span{File: id, Start: 14, End: 15}}

	good := &facts.Unit{File: id, Facts: []*facts.ElementFact{outer, field}}
	if err := CheckUnitInvariants(good, sf); err != nil {
		t.Fatalf("valid unit rejected: %v", err)
	}

	reordered := &facts.Unit{File: id, Facts: []*facts.ElementFact{field, outer}}
	if err := CheckUnitInvariants(reordered, sf); err == nil || !strings.Contains(err.Error(), "not declared before") {
		t.Fatalf("err = %v, want ordering error", err)
	}

	badSpan := *field
	badSpan.Pos.End = 99
	if err := CheckUnitInvariants(&facts.Unit{Facts: []*facts.ElementFact{outer, &badSpan}}, sf); err == nil {
		t.Fatalf("out-of-bounds span accepted")
	}

	wrongDecl := *field
	wrongDecl.DeclaringTypeKind = facts.Interface
	if err := CheckUnitInvariants(&facts.Unit{Facts: []*facts.ElementFact{outer, &wrongDecl}}, sf); err == nil {
		t.Fatalf("mismatched declaring kind accepted")
	}
}
