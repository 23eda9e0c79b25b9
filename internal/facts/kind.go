package facts

import "fmt"

// ElementKind is the closed set of declarable elements.
type ElementKind uint8

const (
	KindInvalid ElementKind = iota
	Class
	Interface
	Enum
	Annotation
	Record
	Field
	Method
	Constructor
	EnumConstant
	AnnotationField
	AnnotationMethod
)

// AllKinds lists every valid kind, type-level kinds first.
var AllKinds = []ElementKind{
	Class, Interface, Enum, Annotation, Record,
	Field, Method, Constructor, EnumConstant, AnnotationField, AnnotationMethod,
}

func (k ElementKind) IsType() bool {
	return k >= Class && k <= Record
}

func (k ElementKind) IsMember() bool {
	return k >= Field && k <= AnnotationMethod
}

func (k ElementKind) Valid() bool {
	return k.IsType() || k.IsMember()
}

func (k ElementKind) String() string {
	switch k {
	case Class:
		return "class"
	case Interface:
		return "interface"
	case Enum:
		return "enum"
	case Annotation:
		return "annotation"
	case Record:
		return "record"
	case Field:
		return "field"
	case Method:
		return "method"
	case Constructor:
		return "constructor"
	case EnumConstant:
		return "enum constant"
	case AnnotationField:
		return "annotation field"
	case AnnotationMethod:
		return "annotation method"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Article returns "a" or "an" for the kind's rendered name.
func (k ElementKind) Article() string {
	switch k {
	case Interface, Enum, Annotation, EnumConstant, AnnotationField, AnnotationMethod:
		return "an"
	default:
		return "a"
	}
}
