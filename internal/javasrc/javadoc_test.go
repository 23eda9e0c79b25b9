package javasrc

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"tagcheck/internal/facts"
	"tagcheck/internal/source"
)

func TestScanTags(t *testing.T) {
	doc := "/**\n * Does things.\n * @noextend This class is not intended to be subclassed.\n *   @noreference\n * see {@noinstantiate inline} and @nooverride mid-line\n * @since 3.4\n * @noextend\n */"
	got := scanTags([]byte(doc), 100, 3)

	var tags []facts.Tag
	for _, u := range got {
		tags = append(tags, u.Tag)
		if u.Pos.File != 3 {
			t.Fatalf("span file = %d, want 3", u.Pos.File)
		}
		if text := doc[u.Pos.Start-100 : u.Pos.End-100]; text != u.Tag.String() {
			t.Fatalf("span covers %q, want %q", text, u.Tag)
		}
	}
	want := []facts.Tag{facts.NoExtend, facts.NoReference, facts.NoExtend}
	if diff := cmp.Diff(want, tags); diff != "" {
		t.Fatalf("tags mismatch (-want +got):\n%s", diff)
	}
}

func TestScanTagsSingleLine(t *testing.T) {
	got := scanTags([]byte("/** @nooverride*/"), 0, 0)
	want := []facts.TagUse{{Tag: facts.NoOverride, Pos: source.Span{Start: 4, End: 15}}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
	if got := scanTags([]byte("/** @noextendable */"), 0, 0); len(got) != 0 {
		t.Fatalf("unknown tag accepted: %+v", got)
	}
}
