package rules

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"tagcheck/internal/facts"
)

func pkgClass(mods facts.Modifiers) *facts.ElementFact {
	return &facts.ElementFact{Kind: facts.Class, Name: "C", OwnVisibility: facts.Public, Modifiers: mods, Package: "p"}
}

func member(kind facts.ElementKind, vis facts.Visibility, mods facts.Modifiers, parent *facts.ElementFact) *facts.ElementFact {
	return &facts.ElementFact{Kind: kind, Name: "m", OwnVisibility: vis, Modifiers: mods, Enclosing: parent, DeclaringTypeKind: parent.Kind, Package: parent.Package}
}

func TestLookupScenarios(t *testing.T) {
	iface := &facts.ElementFact{Kind: facts.Interface, Name: "I", OwnVisibility: facts.Public, Package: "p"}
	annotation := &facts.ElementFact{Kind: facts.Annotation, Name: "A", OwnVisibility: facts.Public, Package: "p"}

	tests := []struct {
		name string
		tag  facts.Tag
		fact *facts.ElementFact
		want Applicability
	}{
		{"private field noreference", facts.NoReference, member(facts.Field, facts.Private, 0, pkgClass(0)), Valid},
		{"method in final class nooverride", facts.NoOverride, member(facts.Method, facts.Public, 0, pkgClass(facts.Final)), InvalidBecause(FinalClass)},
		{"non-default interface method nooverride", facts.NoOverride, member(facts.Method, facts.Public, facts.Abstract, iface), InvalidBecause(NonDefaultInterfaceMethod)},
		{"default interface method nooverride", facts.NoOverride, member(facts.Method, facts.Public, facts.DefaultMethod, iface), Valid},
		{"annotation nooverride", facts.NoOverride, annotation, InvalidBecause(WrongElementKind)},
		{"constant field noreference", facts.NoReference, member(facts.Field, facts.Public, facts.Static|facts.Final|facts.ConstantField, pkgClass(0)), InvalidBecause(ConstantField)},
		{"class noextend", facts.NoExtend, pkgClass(0), Valid},
		{"final class noextend", facts.NoExtend, pkgClass(facts.Final), InvalidBecause(FinalClass)},
		{"abstract class noinstantiate", facts.NoInstantiate, pkgClass(facts.Abstract), InvalidBecause(AbstractType)},
		{"interface noinstantiate", facts.NoInstantiate, iface, InvalidBecause(WrongElementKind)},
		{"class noimplement", facts.NoImplement, pkgClass(0), InvalidBecause(WrongElementKind)},
		{"interface noimplement", facts.NoImplement, iface, Valid},
		{"field noextend", facts.NoExtend, member(facts.Field, facts.Public, 0, pkgClass(0)), InvalidBecause(WrongElementKind)},
		{"static method nooverride", facts.NoOverride, member(facts.Method, facts.Public, facts.Static, pkgClass(0)), InvalidBecause(StaticMethod)},
		{"final method nooverride", facts.NoOverride, member(facts.Method, facts.Public, facts.Final, pkgClass(0)), InvalidBecause(FinalMethod)},
		{"private method nooverride", facts.NoOverride, member(facts.Method, facts.Private, 0, pkgClass(0)), InvalidBecause(PrivateMember)},
		{"package method nooverride", facts.NoOverride, member(facts.Method, facts.Package, 0, pkgClass(0)), InvalidBecause(PackageDefaultMember)},
		{"protected method nooverride", facts.NoOverride, member(facts.Method, facts.Protected, 0, pkgClass(0)), Valid},
		{"constructor nooverride", facts.NoOverride, member(facts.Constructor, facts.Public, 0, pkgClass(0)), InvalidBecause(WrongElementKind)},
		{"constructor noreference", facts.NoReference, member(facts.Constructor, facts.Public, 0, pkgClass(0)), Valid},
		{"enum noextend", facts.NoExtend, &facts.ElementFact{Kind: facts.Enum, OwnVisibility: facts.Public, Modifiers: facts.Final, Package: "p"}, InvalidBecause(WrongElementKind)},
		{"record noinstantiate", facts.NoInstantiate, &facts.ElementFact{Kind: facts.Record, OwnVisibility: facts.Public, Modifiers: facts.Final, Package: "p"}, InvalidBecause(WrongElementKind)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Lookup(tt.tag, Resolve(tt.fact))
			if got != tt.want {
				t.Fatalf("Lookup(%s) = %s, want %s", tt.tag, got, tt.want)
			}
		})
	}
}

func TestLookupTypeVisibilityPrecheck(t *testing.T) {
	outer := pkgClass(0)
	privateNested := &facts.ElementFact{Kind: facts.Class, OwnVisibility: facts.Private, Enclosing: outer, Package: "p"}
	packageNested := &facts.ElementFact{Kind: facts.Interface, OwnVisibility: facts.Package, Enclosing: outer, Package: "p"}
	hidden := &facts.ElementFact{Kind: facts.Class, OwnVisibility: facts.Package, Package: "p"}
	publicInHidden := &facts.ElementFact{Kind: facts.Class, OwnVisibility: facts.Public, Enclosing: hidden, Package: "p"}
	enumInHidden := &facts.ElementFact{Kind: facts.Enum, OwnVisibility: facts.Public, Enclosing: hidden, Package: "p"}

	tests := []struct {
		tag  facts.Tag
		fact *facts.ElementFact
		want Applicability
	}{
		{facts.NoExtend, privateNested, InvalidBecause(PrivateMember)},
		{facts.NoImplement, packageNested, InvalidBecause(PackageDefaultMember)},
		{facts.NoInstantiate, publicInHidden, InvalidBecause(NotVisibleMember)},
		{facts.NoExtend, enumInHidden, InvalidBecause(NotVisibleMember)},
		{facts.NoReference, privateNested, InvalidBecause(PrivateMember)},
		{facts.NoReference, hidden, InvalidBecause(PackageDefaultMember)},
		{facts.NoReference, member(facts.Field, facts.Public, 0, hidden), InvalidBecause(NotVisibleMember)},
		{facts.NoOverride, member(facts.Method, facts.Public, 0, privateNested), InvalidBecause(NotVisibleMember)},
		{facts.NoOverride, member(facts.Method, facts.Public, 0, hidden), InvalidBecause(PackageDefaultMember)},
	}
	for _, tt := range tests {
		if got := Lookup(tt.tag, Resolve(tt.fact)); got != tt.want {
			t.Fatalf("Lookup(%s, %s) = %s, want %s", tt.tag, tt.fact.Kind, got, tt.want)
		}
	}
}

func TestLookupDefaultPackage(t *testing.T) {
	top := &facts.ElementFact{Kind: facts.Class, Name: "T", OwnVisibility: facts.Package}
	field := member(facts.Field, facts.Public, 0, top)

	exempt := NewResolver(Options{DefaultPackageExemption: true})
	if got := Lookup(facts.NoExtend, exempt.Resolve(top)); !got.IsValid() {
		t.Fatalf("exempt noextend = %s", got)
	}
	if got := Lookup(facts.NoReference, exempt.Resolve(field)); !got.IsValid() {
		t.Fatalf("exempt noreference = %s", got)
	}

	strict := NewResolver(Options{})
	if got := Lookup(facts.NoReference, strict.Resolve(field)); got != InvalidBecause(NotVisibleMember) {
		t.Fatalf("strict noreference = %s", got)
	}
}

func TestLookupTotal(t *testing.T) {
	for _, tag := range facts.AllTags {
		for _, k := range facts.AllKinds {
			for _, vis := range []facts.Visibility{facts.Private, facts.Package, facts.Protected, facts.Public} {
				ctx := DefaultContext(k)
				ctx.Own, ctx.Effective = vis, vis
				a := Lookup(tag, ctx)
				if r, bad := a.Reason(); bad && r == ReasonNone {
					t.Fatalf("%s on %s: invalid without reason", tag, k)
				}
			}
		}
	}
}

func TestLookupUnknownPanics(t *testing.T) {
	for _, tc := range []struct {
		tag facts.Tag
		ctx EffectiveContext
	}{
		{facts.Tag(99), DefaultContext(facts.Class)},
		{facts.NoExtend, EffectiveContext{Kind: facts.KindInvalid}},
	} {
		func() {
			defer func() {
				err, ok := recover().(error)
				if !ok || !errors.Is(err, ErrUnknownKind) {
					t.Fatalf("expected ErrUnknownKind panic, got %v", err)
				}
			}()
			Lookup(tc.tag, tc.ctx)
		}()
	}
}

func TestRowNoOverride(t *testing.T) {
	got := Row(facts.NoOverride)
	var valid []facts.ElementKind
	for _, v := range got {
		if v.Applicability.IsValid() {
			valid = append(valid, v.Kind)
		}
	}
	if diff := cmp.Diff([]facts.ElementKind{facts.Method}, valid); diff != "" {
		t.Fatalf("valid kinds mismatch (-want +got):\n%s", diff)
	}
	if len(got) != len(facts.AllKinds) {
		t.Fatalf("row has %d entries, want %d", len(got), len(facts.AllKinds))
	}
}
