package filesystem

import (
	"io"
	"io/fs"
)

// FileInfo is an alias for fs.FileInfo from the standard library.
type FileInfo = fs.FileInfo

// File is one entry met while walking a directory tree.
type File interface {
	// Path returns the absolute path of the entry.
	Path() string

	// RelativePath returns the path relative to the walked directory.
	RelativePath() string

	// Info returns the entry metadata.
	Info() FileInfo
}

// Directory is a directory tree that can be traversed.
type Directory interface {
	// Path returns the absolute path to the directory
	Path() string

	// Walk visits every entry below the directory, the directory itself
	// included, in lexical order. Returning fs.SkipDir from fn for a directory
	// skips its contents. Any other error stops the walk and is returned.
	Walk(fn func(File, error) error) error
}

// FileSystemProvider gives read access to archival packages.
// Errors for missing paths satisfy errors.Is(err, fs.ErrNotExist).
type FileSystemProvider interface {
	// Open opens a directory at the specified path
	Open(path string) (Directory, error)

	// OpenFile opens a file for streaming reads. Callers close the reader.
	OpenFile(path string) (io.ReadCloser, error)

	// ReadFile reads a specific file at the given path
	ReadFile(path string) ([]byte, error)

	// ReadDir returns the direct entries of a directory sorted by name.
	ReadDir(path string) ([]FileInfo, error)

	// Stat returns file information for the given path
	Stat(path string) (FileInfo, error)
}
