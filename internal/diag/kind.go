package diag

// Kind says what a diagnostic is about.
type Kind uint8

const (
	KindUnknown Kind = iota
	UnsupportedTagUse
	DuplicateTag
	Syntax
	LoadError
	Internal
)

func (k Kind) String() string {
	switch k {
	case UnsupportedTagUse:
		return "unsupported_tag"
	case DuplicateTag:
		return "duplicate_tag"
	case Syntax:
		return "syntax"
	case LoadError:
		return "load_error"
	case Internal:
		return "internal"
	}
	return "unknown"
}

// Code returns the code diagnostics of this kind are reported with.
func (k Kind) Code() Code {
	switch k {
	case UnsupportedTagUse:
		return TagUnsupported
	case DuplicateTag:
		return TagDuplicate
	case Syntax:
		return SynJavaSyntax
	case LoadError:
		return IOLoadFileError
	case Internal:
		return IntMalformedFacts
	}
	return UnknownCode
}
