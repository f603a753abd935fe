package filesystem

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// packageEntry is one file or directory found below a package root on disk.
type packageEntry struct {
	absPath string
	relPath string
	info    fs.FileInfo
}

func (e *packageEntry) Path() string         { return e.absPath }
func (e *packageEntry) RelativePath() string { return e.relPath }
func (e *packageEntry) Info() FileInfo       { return e.info }

// packageDir is a package root, or a directory searched for packages.
type packageDir struct {
	root string
}

func (d *packageDir) Path() string { return d.root }

func (d *packageDir) Walk(fn func(File, error) error) error {
	return filepath.WalkDir(d.root, func(p string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return fn(nil, walkErr)
		}
		return d.visit(p, entry, fn)
	})
}

// visit hands one entry to fn. A panicking fn ends the walk with an error
// naming the entry.
func (d *packageDir) visit(p string, entry fs.DirEntry, fn func(File, error) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("visiting %s: panic: %v", p, r)
		}
	}()

	info, err := entry.Info()
	if err != nil {
		return fn(nil, fmt.Errorf("stat %s: %w", p, err))
	}
	rel, err := filepath.Rel(d.root, p)
	if err != nil {
		return fn(nil, fmt.Errorf("%s is outside %s: %w", p, d.root, err))
	}
	return fn(&packageEntry{absPath: p, relPath: filepath.ToSlash(rel), info: info}, nil)
}

// OSFileSystem reads packages from the local disk.
type OSFileSystem struct{}

// NewOSFileSystem creates an OSFileSystem.
func NewOSFileSystem() *OSFileSystem {
	return &OSFileSystem{}
}

// Open resolves path to an absolute directory. Packages are addressed by
// directory, so a regular file is rejected.
func (p *OSFileSystem) Open(path string) (Directory, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("open package directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is a file, expected a package directory", path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	return &packageDir{root: abs}, nil
}

// OpenFile opens a binary for checksumming.
func (p *OSFileSystem) OpenFile(path string) (io.ReadCloser, error) {
	return os.Open(path)
}

func (p *OSFileSystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// ReadDir lists a directory such as objects/ in name order.
func (p *OSFileSystem) ReadDir(path string) ([]FileInfo, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", path, err)
	}

	infos := make([]FileInfo, 0, len(entries))
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", filepath.Join(path, entry.Name()), err)
		}
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name() < infos[j].Name() })
	return infos, nil
}

func (p *OSFileSystem) Stat(path string) (FileInfo, error) {
	return os.Stat(path)
}
