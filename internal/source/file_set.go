package source

import (
	"crypto/sha256"
	"fmt"
	"os"

	"fortio.org/safecast"
)

// FileID uniquely identifies a source file within a FileSet.
type FileID uint32

// File captures metadata and content for a single source file.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32 // byte offset of the start of each line
	Hash    [32]byte
	Virtual bool // added from memory (test, stdin) rather than disk
}

// LineCol is a human-readable position in a source file (both 1-based).
type LineCol struct {
	Line uint32
	Col  uint32
}

// FileSet manages a collection of source files and resolves spans back to
// line/column positions.
type FileSet struct {
	files []File
	index map[string]FileID
}

// NewFileSet creates a new empty FileSet.
func NewFileSet() *FileSet {
	return &FileSet{
		index: make(map[string]FileID),
	}
}

func (fs *FileSet) add(path string, content []byte, virtual bool) FileID {
	lenFiles, err := safecast.Conv[uint32](len(fs.files))
	if err != nil {
		panic(fmt.Errorf("file count overflow: %w", err))
	}
	id := FileID(lenFiles)
	fs.files = append(fs.files, File{
		ID:      id,
		Path:    path,
		Content: content,
		LineIdx: buildLineIndex(content),
		Hash:    sha256.Sum256(content),
		Virtual: virtual,
	})
	fs.index[path] = id
	return id
}

// Load reads a file from disk, normalizes CRLF, and registers it.
func (fs *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return fs.add(path, normalizeCRLF(content), false), nil
}

// AddVirtual registers an in-memory file (stdin, tests, generated code).
func (fs *FileSet) AddVirtual(name string, content []byte) FileID {
	return fs.add(name, normalizeCRLF(content), true)
}

// Get returns the file metadata for the given ID, or nil if out of range.
func (fs *FileSet) Get(id FileID) *File {
	if int(id) >= len(fs.files) {
		return nil
	}
	return &fs.files[id]
}

// ByPath returns the file registered under path, if any.
func (fs *FileSet) ByPath(path string) (*File, bool) {
	if id, ok := fs.index[path]; ok {
		return &fs.files[id], true
	}
	return nil, false
}

// Len returns the number of registered files.
func (fs *FileSet) Len() int {
	return len(fs.files)
}

// Position resolves a byte offset within a file to a 1-based line/column.
func (fs *FileSet) Position(id FileID, offset uint32) LineCol {
	f := fs.Get(id)
	if f == nil {
		return LineCol{Line: 1, Col: 1}
	}
	return f.Position(offset)
}

// Position resolves a byte offset to a 1-based line/column within the file.
func (f *File) Position(offset uint32) LineCol {
	// Binary search for the last line start <= offset.
	lo, hi := 0, len(f.LineIdx)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if f.LineIdx[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return LineCol{
		Line: uint32(lo) + 1,
		Col:  offset - f.LineIdx[lo] + 1,
	}
}

// Line returns the content of the 1-based line number, without the newline.
func (f *File) Line(line uint32) []byte {
	if line == 0 || int(line) > len(f.LineIdx) {
		return nil
	}
	start := f.LineIdx[line-1]
	end := uint32(len(f.Content))
	if int(line) < len(f.LineIdx) {
		end = f.LineIdx[line] - 1
	}
	return f.Content[start:end]
}

func buildLineIndex(content []byte) []uint32 {
	idx := []uint32{0}
	for i, b := range content {
		if b == '\n' {
			idx = append(idx, uint32(i)+1)
		}
	}
	return idx
}

func normalizeCRLF(content []byte) []byte {
	out := content[:0:len(content)]
	for i := 0; i < len(content); i++ {
		if content[i] == '\r' && i+1 < len(content) && content[i+1] == '\n' {
			continue
		}
		out = append(out, content[i])
	}
	return out
}
