// Package source provides the compiler's source-text model: stable file
// identifiers, byte-range spans, and a string interner shared across later
// phases.
package source

type (
	// FileID uniquely identifies a source file within a FileSet. Stable for
	// the lifetime of the FileSet; never reused.
	FileID uint32
	// FileFlags records how a file's bytes were normalized on load.
	FileFlags uint8
)

const (
	// FileVirtual marks a file added from memory rather than disk (tests,
	// stdin, generated sources).
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	FileNormalizedCRLF
)

// File holds the content and metadata for a single loaded source.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol is a 1-based human-readable source position.
type LineCol struct {
	Line uint32
	Col  uint32
}
