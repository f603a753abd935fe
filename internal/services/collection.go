package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vvka-141/aipx/internal/metadata"
	"github.com/vvka-141/aipx/internal/mets"
	"github.com/vvka-141/aipx/internal/tree"
	"github.com/vvka-141/aipx/internal/walker"
	"github.com/vvka-141/aipx/pkg/aipx"
)

// CollectionService implements the CollectionProcessor interface.
// Thread-Safety: safe for concurrent Process() calls. Every call builds its
// own indexes and tree; the service only holds its collaborators.
type CollectionService struct {
	scanner aipx.PackageScanner
	logger  aipx.Logger
}

// NewCollectionService creates a CollectionService.
// Panics on nil dependencies; those are wiring mistakes, not runtime conditions.
func NewCollectionService(scanner aipx.PackageScanner, logger aipx.Logger) *CollectionService {
	if scanner == nil {
		panic("scanner cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &CollectionService{scanner: scanner, logger: logger}
}

// Package is a loaded package before it is walked.
type Package struct {
	Path     string
	Manifest string
	Document *mets.Document
	Index    *metadata.Index
	Tree     *tree.Node
	Objects  []string
	Root     RootDirectory
}

// RootDirectory is the identity of the outermost physical directory.
type RootDirectory struct {
	// ID is the public identifier: the directory name without its "-<id>" suffix.
	ID   string
	Name string
}

// Process converts the package at path. Every failure is returned as an
// *aipx.CollectionError carrying path.
func (s *CollectionService) Process(ctx context.Context, path string, profile aipx.Profile) (aipx.Result, error) {
	result, err := s.process(ctx, path, profile)
	if err != nil {
		return aipx.Result{}, &aipx.CollectionError{Path: path, Err: err}
	}
	return result, nil
}

func (s *CollectionService) process(ctx context.Context, path string, profile aipx.Profile) (aipx.Result, error) {
	if profile == nil {
		profile = aipx.FolderProfile{}
	}
	if cp, ok := customProfile(profile); ok {
		if err := cp.Validate(); err != nil {
			return aipx.Result{}, err
		}
	}

	pkg, err := s.load(ctx, path)
	if err != nil {
		return aipx.Result{}, err
	}

	var customMap *aipx.StructMap
	if cp, ok := customProfile(profile); ok {
		customMap = pkg.Document.StructMapByName(cp.StructMap).View()
		if customMap == nil {
			s.logger.Verbose("structMap %q not found, walking %s as folders", cp.StructMap, path)
		}
	}
	mode := walker.EffectiveMode(profile, customMap)

	rootType := aipx.ItemTypeFolder
	if mode != aipx.ModeFolder {
		rootType = aipx.ItemTypeRoot
	}
	root := aipx.Item{
		ID:           pkg.Root.ID,
		ParentIDs:    []string{},
		CollectionID: pkg.Root.ID,
		Type:         rootType,
		Label:        pkg.Root.ID,
	}

	if err := ctx.Err(); err != nil {
		return aipx.Result{}, err
	}
	out, err := walker.Walk(pkg.Tree, root.ID, walker.Config{
		Index:        pkg.Index,
		Objects:      pkg.Objects,
		ObjectsPath:  filepath.Join(path, aipx.ObjectsDirectory),
		CollectionID: root.ID,
		Profile:      profile,
		CustomMap:    customMap,
		Logger:       s.logger,
	})
	if err != nil {
		return aipx.Result{}, err
	}

	result := aipx.Result{Root: root, Items: out.Items, TextItems: out.TextItems}
	s.logger.Verbose("%s: %s mode, %d items, %d text items", path, mode, len(result.Items), len(result.TextItems))
	return result, nil
}

// Load reads and indexes the package at path without walking it.
func (s *CollectionService) Load(ctx context.Context, path string) (*Package, error) {
	pkg, err := s.load(ctx, path)
	if err != nil {
		return nil, &aipx.CollectionError{Path: path, Err: err}
	}
	return pkg, nil
}

func (s *CollectionService) load(ctx context.Context, path string) (*Package, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	manifestPath, err := s.scanner.LocateManifest(path)
	if err != nil {
		return nil, err
	}
	data, err := s.scanner.ReadManifest(manifestPath)
	if err != nil {
		return nil, err
	}
	doc, err := mets.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(manifestPath), err)
	}

	physical := doc.PhysicalStructMap()
	if physical == nil {
		return nil, aipx.ErrPhysicalStructMapNotFound
	}

	objects, err := s.scanner.ListObjects(path)
	if err != nil {
		return nil, err
	}

	index, err := metadata.Build(doc)
	if err != nil {
		return nil, err
	}
	s.logger.Verbose("%s: %d directories, %d objects, %d files, %d binaries",
		filepath.Base(manifestPath), len(index.Directories), len(index.Objects), len(index.Files), len(objects))

	merged, err := tree.Build(doc.LogicalStructMap(), physical)
	if err != nil {
		return nil, err
	}

	rootDir, err := resolveRoot(physical, index.Directories)
	if err != nil {
		return nil, err
	}

	return &Package{
		Path:     path,
		Manifest: manifestPath,
		Document: doc,
		Index:    index,
		Tree:     merged,
		Objects:  objects,
		Root:     rootDir,
	}, nil
}

// resolveRoot reads the directory metadata of the outermost physical div.
func resolveRoot(physical *mets.StructMap, dirs metadata.DirectoryIndex) (RootDirectory, error) {
	if len(physical.Divs) == 0 {
		return RootDirectory{}, fmt.Errorf("physical structMap %s has no divisions: %w", physical.ID, aipx.ErrRootMetadataNotFound)
	}
	div := physical.Divs[0]
	dir, ok := dirs.Lookup(div.DMDID)
	if !ok {
		return RootDirectory{}, fmt.Errorf("%w for %q (DMDID %q)", aipx.ErrRootMetadataNotFound, div.Label, div.DMDID)
	}
	return RootDirectory{
		ID:   strings.TrimSuffix(dir.Name, "-"+dir.ID),
		Name: dir.Name,
	}, nil
}

func customProfile(p aipx.Profile) (aipx.CustomProfile, bool) {
	switch cp := p.(type) {
	case aipx.CustomProfile:
		return cp, true
	case *aipx.CustomProfile:
		return *cp, true
	}
	return aipx.CustomProfile{}, false
}

// Verify CollectionService implements the interface at compile time
var _ aipx.CollectionProcessor = (*CollectionService)(nil)
