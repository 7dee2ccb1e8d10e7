package source

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"fortio.org/safecast"
)

// FileSet owns every source loaded during one compilation and resolves
// spans back to line/column positions.
type FileSet struct {
	files []File
	index map[string]FileID // normalized path -> latest FileID
}

// NewFileSet returns an empty FileSet.
func NewFileSet() *FileSet {
	return &FileSet{index: make(map[string]FileID)}
}

// Add stores already-normalized bytes under path and returns a fresh FileID.
// Re-adding the same path yields a new id; the index tracks only the latest.
func (fs *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	n, err := safecast.Conv[uint32](len(fs.files))
	if err != nil {
		panic(fmt.Errorf("source: file count overflow: %w", err))
	}
	id := FileID(n)
	np := normalizePath(path)
	fs.files = append(fs.files, File{
		ID:      id,
		Path:    np,
		Content: content,
		LineIdx: buildLineIndex(content),
		Hash:    sha256.Sum256(content),
		Flags:   flags,
	})
	fs.index[np] = id
	return id
}

// Load reads path from disk, normalizing BOM and CRLF, and adds it.
func (fs *FileSet) Load(path string) (FileID, error) {
	content, err := os.ReadFile(path) //nolint:gosec // path is caller-controlled
	if err != nil {
		return 0, err
	}
	content, hadBOM := removeBOM(content)
	content, hadCRLF := normalizeCRLF(content)
	var flags FileFlags
	if hadBOM {
		flags |= FileHadBOM
	}
	if hadCRLF {
		flags |= FileNormalizedCRLF
	}
	return fs.Add(path, content, flags), nil
}

// AddVirtual adds an in-memory source (tests, the loader's load_inline).
func (fs *FileSet) AddVirtual(name string, content []byte) FileID {
	content, hadBOM := removeBOM(content)
	content, hadCRLF := normalizeCRLF(content)
	flags := FileVirtual
	if hadBOM {
		flags |= FileHadBOM
	}
	if hadCRLF {
		flags |= FileNormalizedCRLF
	}
	return fs.Add(name, content, flags)
}

// Get returns the file for id. Panics on an out-of-range id: callers only
// ever hold ids this FileSet issued.
func (fs *FileSet) Get(id FileID) *File {
	return &fs.files[id]
}

// Lookup returns the latest FileID registered for path, if any.
func (fs *FileSet) Lookup(path string) (FileID, bool) {
	id, ok := fs.index[normalizePath(path)]
	return id, ok
}

// Resolve converts a span into start/end line-column positions.
func (fs *FileSet) Resolve(span Span) (start, end LineCol) {
	f := fs.Get(span.File)
	return toLineCol(f.LineIdx, span.Start), toLineCol(f.LineIdx, span.End)
}

// Line returns the 1-based source line, or "" if out of range.
func (f *File) Line(n uint32) string {
	if n == 0 {
		return ""
	}
	lineIdx, err := safecast.Conv[uint32](len(f.LineIdx))
	if err != nil {
		panic(fmt.Errorf("source: line index overflow: %w", err))
	}
	contentLen, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("source: content length overflow: %w", err))
	}
	var start, end uint32
	switch {
	case n == 1:
		start = 0
	case (n - 2) < lineIdx:
		start = f.LineIdx[n-2] + 1
	default:
		return ""
	}
	if (n - 1) < lineIdx {
		end = f.LineIdx[n-1]
	} else {
		end = contentLen
	}
	if start >= contentLen {
		return ""
	}
	if end > contentLen {
		end = contentLen
	}
	return string(f.Content[start:end])
}

func buildLineIndex(content []byte) []uint32 {
	out := make([]uint32, 0, 16)
	for i, b := range content {
		if b == '\n' {
			out = append(out, uint32(i)) //nolint:gosec // i bounded by content length
		}
	}
	return out
}

func toLineCol(lineIdx []uint32, off uint32) LineCol {
	if len(lineIdx) == 0 {
		return LineCol{Line: 1, Col: off + 1}
	}
	i := sort.Search(len(lineIdx), func(k int) bool { return lineIdx[k] > off })
	if i == 0 {
		return LineCol{Line: 1, Col: off + 1}
	}
	last := lineIdx[i-1]
	if off == last {
		var lineStart uint32
		if i > 1 {
			lineStart = lineIdx[i-2] + 1
		}
		return LineCol{Line: uint32(i), Col: last - lineStart + 1} //nolint:gosec
	}
	lineStart := last + 1
	return LineCol{Line: uint32(i + 1), Col: off - lineStart + 1} //nolint:gosec
}

func removeBOM(content []byte) ([]byte, bool) {
	if len(content) >= 3 && content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		return content[3:], true
	}
	return content, false
}

func normalizeCRLF(content []byte) ([]byte, bool) {
	changed := false
	for _, b := range content {
		if b == '\r' {
			changed = true
			break
		}
	}
	if !changed {
		return content, false
	}
	out := make([]byte, 0, len(content))
	for i := 0; i < len(content); i++ {
		if content[i] == '\r' && i+1 < len(content) && content[i+1] == '\n' {
			out = append(out, '\n')
			i++
			continue
		}
		out = append(out, content[i])
	}
	return out, true
}

func normalizePath(p string) string {
	return filepath.ToSlash(filepath.Clean(p))
}
