package rules

import "fmt"

// Reason classifies why a tag cannot have effect on an element.
type Reason uint8

const (
	ReasonNone Reason = iota
	PrivateMember
	PackageDefaultMember
	NotVisibleMember
	FinalMethod
	FinalClass
	StaticMethod
	AbstractType
	NonDefaultInterfaceMethod
	ConstantField
	WrongElementKind
)

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case PrivateMember:
		return "PrivateMember"
	case PackageDefaultMember:
		return "PackageDefaultMember"
	case NotVisibleMember:
		return "NotVisibleMember"
	case FinalMethod:
		return "FinalMethod"
	case FinalClass:
		return "FinalClass"
	case StaticMethod:
		return "StaticMethod"
	case AbstractType:
		return "AbstractType"
	case NonDefaultInterfaceMethod:
		return "NonDefaultInterfaceMethod"
	case ConstantField:
		return "ConstantField"
	case WrongElementKind:
		return "WrongElementKind"
	default:
		return fmt.Sprintf("reason(%d)", uint8(r))
	}
}

// Applicability is either Valid or InvalidBecause(reason).
type Applicability struct {
	reason Reason
}

// Valid is the verdict for a tag that has effect on the element.
var Valid = Applicability{}

func InvalidBecause(r Reason) Applicability {
	if r == ReasonNone {
		panic("rules: InvalidBecause requires a reason")
	}
	return Applicability{reason: r}
}

func (a Applicability) IsValid() bool {
	return a.reason == ReasonNone
}

// Reason returns the rejection category; ok is false for Valid.
func (a Applicability) Reason() (Reason, bool) {
	return a.reason, a.reason != ReasonNone
}

func (a Applicability) String() string {
	if a.IsValid() {
		return "Valid"
	}
	return "InvalidBecause(" + a.reason.String() + ")"
}
