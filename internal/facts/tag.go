package facts

import (
	"fmt"
	"strings"

	"tagcheck/internal/source"
)

// Tag is one of the API usage restriction tags.
type Tag uint8

const (
	NoExtend Tag = iota + 1
	NoImplement
	NoInstantiate
	NoOverride
	NoReference
)

// AllTags lists the tag vocabulary in declaration order.
var AllTags = []Tag{NoExtend, NoImplement, NoInstantiate, NoOverride, NoReference}

func (t Tag) String() string {
	switch t {
	case NoExtend:
		return "@noextend"
	case NoImplement:
		return "@noimplement"
	case NoInstantiate:
		return "@noinstantiate"
	case NoOverride:
		return "@nooverride"
	case NoReference:
		return "@noreference"
	default:
		return fmt.Sprintf("tag(%d)", uint8(t))
	}
}

// ParseTag recognizes the literal tag vocabulary. The leading '@' is optional;
// matching is case-sensitive like javadoc block tags.
func ParseTag(s string) (Tag, bool) {
	s = strings.TrimPrefix(s, "@")
	switch s {
	case "noextend":
		return NoExtend, true
	case "noimplement":
		return NoImplement, true
	case "noinstantiate":
		return NoInstantiate, true
	case "nooverride":
		return NoOverride, true
	case "noreference":
		return NoReference, true
	}
	return 0, false
}

// TagUse is one literal occurrence of a tag in a documentation comment.
type TagUse struct {
	Tag Tag
	Pos source.Span
}
