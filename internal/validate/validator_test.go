package validate

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"

	"tagcheck/internal/diag"
	"tagcheck/internal/facts"
	"tagcheck/internal/rules"
	"tagcheck/internal/source"
)

func use(tag facts.Tag, at uint32) facts.TagUse {
	return facts.TagUse{Tag: tag, Pos: source.Span{Start: at, End: at + 1}}
}

func class(mods facts.Modifiers, tags ...facts.TagUse) *facts.ElementFact {
	return &facts.ElementFact{Kind: facts.Class, Name: "C", OwnVisibility: facts.Public, Modifiers: mods, Package: "p", Tags: tags}
}

func memberOf(parent *facts.ElementFact, kind facts.ElementKind, vis facts.Visibility, mods facts.Modifiers, tags ...facts.TagUse) *facts.ElementFact {
	return &facts.ElementFact{
		Kind: kind, Name: "m", OwnVisibility: vis, Modifiers: mods,
		Enclosing: parent, DeclaringTypeKind: parent.Kind, Package: parent.Package, Tags: tags,
	}
}

type summary struct {
	Kind   diag.Kind
	Tag    facts.Tag
	Reason rules.Reason
	At     uint32
}

func summarize(ds []diag.Diagnostic) []summary {
	out := make([]summary, 0, len(ds))
	for _, d := range ds {
		out = append(out, summary{Kind: d.Kind, Tag: d.Tag, Reason: d.Reason, At: d.Primary.Start})
	}
	return out
}

func TestValidateScenarios(t *testing.T) {
	iface := &facts.ElementFact{Kind: facts.Interface, Name: "I", OwnVisibility: facts.Public, Package: "p"}
	tests := []struct {
		name string
		fact *facts.ElementFact
		want []summary
	}{
		{
			name: "private field noreference",
			fact: memberOf(class(0), facts.Field, facts.Private, 0, use(facts.NoReference, 10)),
			want: []summary{},
		},
		{
			name: "method in final class",
			fact: memberOf(class(facts.Final), facts.Method, facts.Public, 0, use(facts.NoOverride, 10)),
			want: []summary{{diag.UnsupportedTagUse, facts.NoOverride, rules.FinalClass, 10}},
		},
		{
			name: "non-default interface method",
			fact: memberOf(iface, facts.Method, facts.Public, facts.Abstract, use(facts.NoOverride, 10)),
			want: []summary{{diag.UnsupportedTagUse, facts.NoOverride, rules.NonDefaultInterfaceMethod, 10}},
		},
		{
			name: "class noextend twice",
			fact: class(0, use(facts.NoExtend, 10), use(facts.NoExtend, 20)),
			want: []summary{{diag.DuplicateTag, facts.NoExtend, rules.ReasonNone, 20}},
		},
		{
			name: "annotation nooverride",
			fact: &facts.ElementFact{Kind: facts.Annotation, Name: "A", OwnVisibility: facts.Public, Package: "p", Tags: []facts.TagUse{use(facts.NoOverride, 10)}},
			want: []summary{{diag.UnsupportedTagUse, facts.NoOverride, rules.WrongElementKind, 10}},
		},
		{
			name: "constant field noreference",
			fact: memberOf(class(0), facts.Field, facts.Public, facts.Static|facts.Final|facts.ConstantField, use(facts.NoReference, 10)),
			want: []summary{{diag.UnsupportedTagUse, facts.NoReference, rules.ConstantField, 10}},
		},
		{
			name: "duplicate invalid tag reported on both axes",
			fact: class(facts.Final, use(facts.NoExtend, 10), use(facts.NoReference, 15), use(facts.NoExtend, 20), use(facts.NoExtend, 30)),
			want: []summary{
				{diag.DuplicateTag, facts.NoExtend, rules.ReasonNone, 20},
				{diag.UnsupportedTagUse, facts.NoExtend, rules.FinalClass, 10},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := summarize(Validate([]*facts.ElementFact{tt.fact}))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("diagnostics mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestValidateMessages(t *testing.T) {
	f := memberOf(class(facts.Final), facts.Method, facts.Public, 0, use(facts.NoOverride, 10), use(facts.NoOverride, 12))
	got := Validate([]*facts.ElementFact{f})
	if len(got) != 2 {
		t.Fatalf("got %d diagnostics, want 2", len(got))
	}
	if got[0].Message != "Duplicate tag: @nooverride is already defined on this element" {
		t.Fatalf("duplicate message = %q", got[0].Message)
	}
	if got[1].Message != "@nooverride is not supported on a method in a final class" {
		t.Fatalf("unsupported message = %q", got[1].Message)
	}
	if len(got[0].Notes) != 1 || got[0].Notes[0].Span.Start != 10 {
		t.Fatalf("duplicate note = %+v", got[0].Notes)
	}
}

func TestDetectDuplicatesOnePerTag(t *testing.T) {
	f := class(0,
		use(facts.NoExtend, 1), use(facts.NoReference, 2), use(facts.NoExtend, 3),
		use(facts.NoReference, 4), use(facts.NoExtend, 5))
	got := summarize(DetectDuplicates(f))
	want := []summary{
		{diag.DuplicateTag, facts.NoExtend, rules.ReasonNone, 3},
		{diag.DuplicateTag, facts.NoReference, rules.ReasonNone, 4},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("duplicates mismatch (-want +got):\n%s", diff)
	}
}

func TestDetectDuplicatesCarriesRepeats(t *testing.T) {
	f := class(0, use(facts.NoExtend, 1), use(facts.NoExtend, 3), use(facts.NoExtend, 5), use(facts.NoExtend, 7))
	got := DetectDuplicates(f)
	if len(got) != 1 {
		t.Fatalf("got %d diagnostics, want 1", len(got))
	}
	if got[0].Primary.Start != 3 {
		t.Fatalf("primary at %d, want 3", got[0].Primary.Start)
	}
	want := []source.Span{{Start: 5, End: 6}, {Start: 7, End: 8}}
	if diff := cmp.Diff(want, got[0].Repeats); diff != "" {
		t.Fatalf("repeats mismatch (-want +got):\n%s", diff)
	}
	notes := make([]string, 0, len(got[0].Notes))
	for _, n := range got[0].Notes {
		notes = append(notes, n.Msg)
	}
	wantNotes := []string{"first @noextend here", "repeated @noextend here", "repeated @noextend here"}
	if diff := cmp.Diff(wantNotes, notes); diff != "" {
		t.Fatalf("notes mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateDeterministic(t *testing.T) {
	outer := class(0, use(facts.NoInstantiate, 1))
	fs := []*facts.ElementFact{
		outer,
		memberOf(outer, facts.Method, facts.Package, 0, use(facts.NoOverride, 5), use(facts.NoExtend, 6)),
		memberOf(outer, facts.Constructor, facts.Public, 0, use(facts.NoReference, 9)),
	}
	first := Validate(fs)
	for i := 0; i < 5; i++ {
		if diff := cmp.Diff(first, Validate(fs)); diff != "" {
			t.Fatalf("run %d differs:\n%s", i, diff)
		}
	}
}

func TestReportStreams(t *testing.T) {
	bag := diag.NewBag(0)
	Report(diag.BagReporter{Bag: bag}, []*facts.ElementFact{class(facts.Final, use(facts.NoExtend, 1))})
	if bag.Len() != 1 || !bag.HasErrors() {
		t.Fatalf("bag = %+v", bag.Items())
	}
}

func TestValidateUnitsIsolatesMalformed(t *testing.T) {
	a := &facts.ElementFact{Kind: facts.Class, Name: "A", Package: "p", Tags: []facts.TagUse{use(facts.NoExtend, 1)}}
	b := &facts.ElementFact{Kind: facts.Class, Name: "B", Package: "p", Enclosing: a, Tags: []facts.TagUse{use(facts.NoExtend, 2)}}
	a.Enclosing = b

	units := []facts.Unit{
		{Path: "Good.java", File: 0, Facts: []*facts.ElementFact{class(facts.Final, use(facts.NoExtend, 3))}},
		{Path: "Bad.java", File: 1, Facts: []*facts.ElementFact{b}},
		{Path: "Unknown.java", File: 2, Facts: []*facts.ElementFact{{Kind: facts.ElementKind(77), Tags: []facts.TagUse{use(facts.NoExtend, 4)}}}},
	}
	res, err := Default().ValidateUnits(context.Background(), units, 2)
	if err != nil {
		t.Fatalf("ValidateUnits: %v", err)
	}
	if res[0].Err != nil || len(res[0].Diagnostics) != 1 || res[0].Diagnostics[0].Reason != rules.FinalClass {
		t.Fatalf("good unit = %+v", res[0])
	}
	for _, r := range res[1:] {
		if !errors.Is(r.Err, ErrMalformedFacts) {
			t.Fatalf("%s: Err = %v, want ErrMalformedFacts", r.Path, r.Err)
		}
		if len(r.Diagnostics) != 1 || r.Diagnostics[0].Code != diag.IntMalformedFacts || r.Diagnostics[0].Primary.File != r.File {
			t.Fatalf("%s: diagnostics = %+v", r.Path, r.Diagnostics)
		}
	}
}

func TestValidateUnitsCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Default().ValidateUnits(ctx, []facts.Unit{{Path: "A.java"}}, 1)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestFanOutVisitsEveryIndex(t *testing.T) {
	seen := make([]int32, 50)
	var calls atomic.Int32
	err := FanOut(context.Background(), len(seen), 4, func(_ context.Context, i int) {
		atomic.AddInt32(&seen[i], 1)
		calls.Add(1)
	})
	if err != nil {
		t.Fatalf("FanOut: %v", err)
	}
	if got := calls.Load(); got != 50 {
		t.Fatalf("calls = %d, want 50", got)
	}
	for i, n := range seen {
		if n != 1 {
			t.Fatalf("index %d visited %d times", i, n)
		}
	}
}

func TestFanOutCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var calls atomic.Int32
	err := FanOut(ctx, 10, 2, func(context.Context, int) { calls.Add(1) })
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if got := calls.Load(); got != 0 {
		t.Fatalf("calls = %d after cancellation, want 0", got)
	}
}
