package facts

import "strings"

// Modifiers is the set of flags the rule table looks at.
type Modifiers uint8

const (
	Final Modifiers = 1 << iota
	Static
	Abstract
	// DefaultMethod marks an interface method declared with a body via `default`.
	DefaultMethod
	// ConstantField marks a static final field with a compile-time constant initializer.
	ConstantField
)

func (m Modifiers) Has(flag Modifiers) bool {
	return m&flag == flag
}

func (m Modifiers) String() string {
	if m == 0 {
		return "none"
	}
	var parts []string
	names := []struct {
		flag Modifiers
		name string
	}{
		{Final, "final"},
		{Static, "static"},
		{Abstract, "abstract"},
		{DefaultMethod, "default"},
		{ConstantField, "constant"},
	}
	for _, n := range names {
		if m.Has(n.flag) {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}
