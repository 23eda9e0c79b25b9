package diag

import "fmt"

type Code uint16

const (
	UnknownCode Code = 0

	// restriction tag findings
	TagInfo        Code = 1000
	TagUnsupported Code = 1001
	TagDuplicate   Code = 1002

	// Java source problems
	SynInfo       Code = 2000
	SynJavaSyntax Code = 2001
	SynUnreadable Code = 2002

	IOLoadFileError Code = 4001

	ObsInfo    Code = 6000
	ObsTimings Code = 6001

	IntInfo           Code = 9000
	IntMalformedFacts Code = 9001
)

var codeDescription = map[Code]string{
	UnknownCode:       "Unknown error",
	TagInfo:           "Restriction tag information",
	TagUnsupported:    "Restriction tag not supported on element",
	TagDuplicate:      "Duplicate restriction tag",
	SynInfo:           "Java source information",
	SynJavaSyntax:     "Java syntax error",
	SynUnreadable:     "Java source could not be parsed",
	IOLoadFileError:   "I/O load file error",
	ObsInfo:           "Observability information",
	ObsTimings:        "Pipeline timings",
	IntInfo:           "Internal information",
	IntMalformedFacts: "Malformed element facts",
}

// AllCodes lists the codes that can appear in output, in numeric order.
var AllCodes = []Code{TagUnsupported, TagDuplicate, SynJavaSyntax, SynUnreadable, IOLoadFileError, IntMalformedFacts}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("TAG%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	case ic >= 9000 && ic < 10000:
		return fmt.Sprintf("INT%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
