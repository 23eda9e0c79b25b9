package facts

import "testing"

func TestParseTag(t *testing.T) {
	tests := []struct {
		in   string
		want Tag
		ok   bool
	}{
		{"@noextend", NoExtend, true},
		{"noimplement", NoImplement, true},
		{"@noinstantiate", NoInstantiate, true},
		{"@nooverride", NoOverride, true},
		{"@noreference", NoReference, true},
		{"@NoExtend", 0, false},
		{"@since", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseTag(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Fatalf("ParseTag(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
	for _, tag := range AllTags {
		back, ok := ParseTag(tag.String())
		if !ok || back != tag {
			t.Fatalf("round trip of %s failed", tag)
		}
	}
}

func TestKindClassification(t *testing.T) {
	types, members := 0, 0
	for _, k := range AllKinds {
		if k.IsType() == k.IsMember() {
			t.Fatalf("%s is both or neither type and member", k)
		}
		if k.IsType() {
			types++
		} else {
			members++
		}
	}
	if types != 5 || members != 6 {
		t.Fatalf("got %d types and %d members, want 5 and 6", types, members)
	}
	if KindInvalid.Valid() {
		t.Fatalf("KindInvalid must not be valid")
	}
}

func TestVisibilityMin(t *testing.T) {
	if Min(Public, Package) != Package || Min(Private, Protected) != Private || Min(Public, Public) != Public {
		t.Fatalf("Min ordering broken")
	}
}

func TestModifiersString(t *testing.T) {
	m := Static | Final | ConstantField
	if got := m.String(); got != "final|static|constant" {
		t.Fatalf("String = %q", got)
	}
	if !m.Has(Static|Final) || m.Has(Abstract) {
		t.Fatalf("Has mismatch")
	}
}

func TestQualifiedName(t *testing.T) {
	outer := &ElementFact{Kind: Class, Name: "Outer", Package: "a.b"}
	inner := &ElementFact{Kind: Interface, Name: "Inner", Enclosing: outer, Package: "a.b"}
	m := &ElementFact{Kind: Method, Name: "run", Enclosing: inner, Package: "a.b"}
	if got := m.QualifiedName(); got != "a.b.Outer.Inner.run" {
		t.Fatalf("QualifiedName = %q", got)
	}
	def := &ElementFact{Kind: Class, Name: "Top"}
	if got := def.QualifiedName(); got != "Top" {
		t.Fatalf("default package QualifiedName = %q", got)
	}
}
