package validate

import (
	"tagcheck/internal/diag"
	"tagcheck/internal/facts"
)

// DetectDuplicates returns one DuplicateTag diagnostic per tag that occurs
// more than once on f, positioned at the second occurrence and noted at the
// first. Third and later occurrences ride along in Repeats. Diagnostics
// follow the order in which the duplicates appear.
func DetectDuplicates(f *facts.ElementFact) []diag.Diagnostic {
	if len(f.Tags) < 2 {
		return nil
	}
	first := make(map[facts.Tag]facts.TagUse, len(f.Tags))
	reported := make(map[facts.Tag]int)
	var out []diag.Diagnostic
	for _, use := range f.Tags {
		primary, seen := first[use.Tag]
		if !seen {
			first[use.Tag] = use
			continue
		}
		if i, ok := reported[use.Tag]; ok {
			d := &out[i]
			d.Repeats = append(d.Repeats, use.Pos)
			d.Notes = append(d.Notes, diag.Note{Span: use.Pos, Msg: "repeated " + use.Tag.String() + " here"})
			continue
		}
		reported[use.Tag] = len(out)
		d := diag.Duplicate(use, f).WithNote(primary.Pos, "first "+use.Tag.String()+" here")
		out = append(out, d)
	}
	return out
}

// primaryUses returns the first occurrence of every distinct tag, in order.
func primaryUses(f *facts.ElementFact) []facts.TagUse {
	out := make([]facts.TagUse, 0, len(f.Tags))
	var seen [8]bool
	for _, use := range f.Tags {
		if int(use.Tag) < len(seen) {
			if seen[use.Tag] {
				continue
			}
			seen[use.Tag] = true
		}
		out = append(out, use)
	}
	return out
}
