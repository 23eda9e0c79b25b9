package facts

// Visibility is ordered from least to most visible.
type Visibility uint8

const (
	Private Visibility = iota
	Package
	Protected
	Public
)

// Min returns the more restrictive of a and b.
func Min(a, b Visibility) Visibility {
	if a < b {
		return a
	}
	return b
}

func (v Visibility) String() string {
	switch v {
	case Private:
		return "private"
	case Package:
		return "package"
	case Protected:
		return "protected"
	case Public:
		return "public"
	default:
		return "visibility(?)"
	}
}
