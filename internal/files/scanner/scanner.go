package scanner

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vvka-141/aipx/internal/files/filesystem"
	"github.com/vvka-141/aipx/pkg/aipx"
)

// Scanner locates the manifest and binaries of archival packages.
// Scanner is safe for concurrent use by multiple goroutines as long as
// the provided fsProvider is also thread-safe.
type Scanner struct {
	fsProvider filesystem.FileSystemProvider
}

// NewScanner creates a package scanner over the OS filesystem.
func NewScanner() *Scanner {
	return &Scanner{fsProvider: filesystem.NewOSFileSystem()}
}

// NewScannerWithFS creates a package scanner with a custom filesystem provider.
// This is primarily useful for testing with in-memory filesystems.
// Panics if fsProvider is nil.
func NewScannerWithFS(fsProvider filesystem.FileSystemProvider) *Scanner {
	if fsProvider == nil {
		panic("fsProvider cannot be nil")
	}
	return &Scanner{fsProvider: fsProvider}
}

// IsManifestName reports whether name follows the METS.<uuid>.xml convention.
func IsManifestName(name string) bool {
	return strings.HasPrefix(name, aipx.ManifestPrefix) &&
		strings.HasSuffix(strings.ToLower(name), aipx.ManifestExtension) &&
		len(name) > len(aipx.ManifestPrefix)+len(aipx.ManifestExtension)
}

// LocateManifest returns the path of the single manifest in the package root.
func (s *Scanner) LocateManifest(root string) (string, error) {
	entries, err := s.fsProvider.ReadDir(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: package root %s does not exist", aipx.ErrManifestNotFound, root)
		}
		return "", fmt.Errorf("failed to list package root %s: %w", root, err)
	}

	var found []string
	for _, entry := range entries {
		if !entry.IsDir() && IsManifestName(entry.Name()) {
			found = append(found, entry.Name())
		}
	}

	switch len(found) {
	case 0:
		return "", fmt.Errorf("%w in %s", aipx.ErrManifestNotFound, root)
	case 1:
		return filepath.Join(root, found[0]), nil
	default:
		return "", fmt.Errorf("%w in %s: %s", aipx.ErrMultipleManifests, root, strings.Join(found, ", "))
	}
}

// ReadManifest reads the manifest content.
func (s *Scanner) ReadManifest(path string) ([]byte, error) {
	content, err := s.fsProvider.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	return content, nil
}

// ListObjects returns the file names directly inside root/objects, sorted.
// A package without an objects directory has no binaries.
func (s *Scanner) ListObjects(root string) ([]string, error) {
	entries, err := s.fsProvider.ReadDir(filepath.Join(root, aipx.ObjectsDirectory))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list objects: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// FindPackages returns every directory at or below root that holds a
// manifest, sorted. The contents of a package are not searched further.
func (s *Scanner) FindPackages(root string) ([]string, error) {
	dir, err := s.fsProvider.Open(root)
	if err != nil {
		return nil, fmt.Errorf("failed to open directory: %w", err)
	}

	var packages []string
	err = dir.Walk(func(file filesystem.File, err error) error {
		if err != nil {
			return fmt.Errorf("error walking path: %w", err)
		}
		if !file.Info().IsDir() {
			return nil
		}

		if _, err := s.LocateManifest(file.Path()); err != nil {
			if errors.Is(err, aipx.ErrManifestNotFound) {
				return nil
			}
			return err
		}
		packages = append(packages, file.Path())
		return fs.SkipDir
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(packages)
	return packages, nil
}

// Verify Scanner implements the interface at compile time
var _ aipx.PackageScanner = (*Scanner)(nil)
