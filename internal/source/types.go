package source

type (
	// FileID identifies a file within a FileSet.
	FileID uint32
	// FileFlags records how a file's content was obtained or normalized.
	FileFlags uint8
)

const (
	// FileVirtual marks content added from memory (tests, stdin, editors).
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	FileNormalizedCRLF
)

// File holds the content of one compilation unit and its line index.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32 // offsets of every '\n'
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol is a 1-based line/column position.
type LineCol struct {
	Line uint32
	Col  uint32
}
