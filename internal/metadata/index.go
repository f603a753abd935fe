package metadata

import (
	"strings"

	"github.com/vvka-141/aipx/internal/mets"
	"github.com/vvka-141/aipx/internal/premis"
	"github.com/vvka-141/aipx/pkg/aipx"
)

// DirectoryIndex maps dmdSec IDs to directory metadata.
type DirectoryIndex map[string]DirectoryMetadata

// ObjectIndex maps amdSec IDs to object metadata.
type ObjectIndex map[string]ObjectMetadata

// FileIndex maps FILEIDs of the original fileGrp to their ADMID.
type FileIndex map[string]string

// Lookup resolves a DMDID attribute. DMDID may list several sections
// separated by whitespace; the first one with directory metadata wins.
func (ix DirectoryIndex) Lookup(dmdID string) (DirectoryMetadata, bool) {
	for _, id := range strings.Fields(dmdID) {
		if d, ok := ix[id]; ok {
			return d, true
		}
	}
	return DirectoryMetadata{}, false
}

// Lookup resolves an ADMID attribute the same way.
func (ix ObjectIndex) Lookup(admID string) (ObjectMetadata, bool) {
	for _, id := range strings.Fields(admID) {
		if o, ok := ix[id]; ok {
			return o, true
		}
	}
	return ObjectMetadata{}, false
}

// Index bundles the three tables of one manifest.
type Index struct {
	Directories DirectoryIndex
	Objects     ObjectIndex
	Files       FileIndex
}

// Build scans the manifest and returns all three tables.
func Build(doc *mets.Document) (*Index, error) {
	dirs, err := BuildDirectoryMetadata(doc)
	if err != nil {
		return nil, err
	}
	objects, err := BuildObjectMetadata(doc)
	if err != nil {
		return nil, err
	}
	return &Index{
		Directories: dirs,
		Objects:     objects,
		Files:       BuildFileToAdministrativeIDMapping(doc),
	}, nil
}

// ObjectForFile follows FILEID -> ADMID -> object metadata.
func (ix *Index) ObjectForFile(fileID string) (ObjectMetadata, bool) {
	admID, ok := ix.Files[fileID]
	if !ok {
		return ObjectMetadata{}, false
	}
	return ix.Objects.Lookup(admID)
}

// BuildDirectoryMetadata indexes every PREMIS dmdSec. dmdSecs carrying
// another metadata type (Dublin Core and the like) are not directories and
// are skipped.
func BuildDirectoryMetadata(doc *mets.Document) (DirectoryIndex, error) {
	index := make(DirectoryIndex, len(doc.DmdSecs))
	for _, sec := range doc.DmdSecs {
		if !isPremis(sec.MdWrap.MDType) {
			continue
		}
		obj, ok := premis.FindObject(&sec.MdWrap.XMLData)
		if !ok {
			return nil, sectionError(sec.ID, aipx.ErrMissingObjectDescription)
		}
		id, name, err := identify(sec.ID, obj)
		if err != nil {
			return nil, err
		}
		index[sec.ID] = DirectoryMetadata{ID: id, Name: name}
	}
	return index, nil
}

func isPremis(mdType string) bool {
	return mdType == "" || strings.HasPrefix(strings.ToUpper(mdType), "PREMIS")
}

// BuildFileToAdministrativeIDMapping records the ADMID of every file in the
// original fileGrp.
func BuildFileToAdministrativeIDMapping(doc *mets.Document) FileIndex {
	files := doc.FileGroup(mets.OriginalFileGroup)
	index := make(FileIndex, len(files))
	for _, f := range files {
		if f.ID != "" && f.ADMID != "" {
			index[f.ID] = f.ADMID
		}
	}
	return index
}
