package source

import (
	"fmt"
)

// Span is a half-open byte range [Start, End) inside one file of a FileSet.
// The front end hands spans to the engine as opaque positions; only the
// sinks resolve them to lines and columns.
type Span struct {
	File  FileID
	Start uint32
	End   uint32
}

func (s Span) Empty() bool {
	return s.Start == s.End
}

func (s Span) Len() uint32 {
	return s.End - s.Start
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

// Cover widens s so it also spans other. Spans of different files are not merged.
func (s Span) Cover(other Span) Span {
	if s.File != other.File {
		return s
	}
	if other.Start < s.Start {
		s.Start = other.Start
	}
	if other.End > s.End {
		s.End = other.End
	}
	return s
}

// Rebind returns the same byte range attached to another file ID. The
// incremental cache stores spans without file identity and rebinds them on replay.
func (s Span) Rebind(id FileID) Span {
	s.File = id
	return s
}

// Contains reports whether inner lies fully inside s.
func (s Span) Contains(inner Span) bool {
	return s.File == inner.File && inner.Start >= s.Start && inner.End <= s.End
}
