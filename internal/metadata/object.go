package metadata

import (
	"github.com/vvka-141/aipx/internal/formats"
	"github.com/vvka-141/aipx/internal/mets"
	"github.com/vvka-141/aipx/internal/premis"
	"github.com/vvka-141/aipx/internal/techmd"
	"github.com/vvka-141/aipx/pkg/aipx"
)

// BuildObjectMetadata indexes the PREMIS object of every amdSec.
func BuildObjectMetadata(doc *mets.Document) (ObjectIndex, error) {
	index := make(ObjectIndex, len(doc.AmdSecs))
	for _, sec := range doc.AmdSecs {
		meta, err := buildObject(sec)
		if err != nil {
			return nil, err
		}
		index[sec.ID] = meta
	}
	return index, nil
}

// findTechObject returns the first premis:object among the techMDs of sec.
func findTechObject(sec mets.AmdSec) (premis.Object, bool) {
	for i := range sec.TechMDs {
		if obj, ok := premis.FindObject(&sec.TechMDs[i].MdWrap.XMLData); ok {
			return obj, true
		}
	}
	return premis.Object{}, false
}

func buildObject(sec mets.AmdSec) (ObjectMetadata, error) {
	obj, ok := findTechObject(sec)
	if !ok {
		return ObjectMetadata{}, sectionError(sec.ID, aipx.ErrMissingObjectDescription)
	}
	id, name, err := identify(sec.ID, obj)
	if err != nil {
		return ObjectMetadata{}, err
	}
	chars, ok := obj.Characteristics()
	if !ok {
		return ObjectMetadata{}, sectionError(sec.ID, aipx.ErrMissingObjectCharacteristics)
	}

	meta := ObjectMetadata{
		ID:        id,
		Name:      name,
		Size:      chars.Size(),
		CreatedAt: chars.CreatedAt(),
		PUID:      chars.FormatRegistryKey(premis.PronomRegistry),
		Fixity:    chars.Fixity(),
	}
	meta.Type = formats.TypeForPUID(meta.PUID)

	ext := chars.Extension()
	if meta.Type.IsMedia() && ext == nil {
		return ObjectMetadata{}, sectionError(sec.ID, aipx.ErrMissingTechnicalExtension)
	}
	if ext == nil {
		return meta, nil
	}

	switch meta.Type {
	case aipx.ItemTypeImage:
		probeResolution(ext, &meta)
		if dpi, ok := techmd.ProbeDPI(ext); ok {
			meta.Resolution = &dpi
		}
	case aipx.ItemTypeVideo:
		probeResolution(ext, &meta)
		probeDuration(ext, &meta)
	case aipx.ItemTypeAudio:
		probeDuration(ext, &meta)
	}
	if enc, ok := techmd.ProbeEncoding(ext); ok {
		meta.Encoding = &enc
	}

	return meta, nil
}

func probeResolution(ext *mets.Node, meta *ObjectMetadata) {
	if r, ok := techmd.ProbeResolution(ext); ok {
		meta.Width = aipx.Ptr(r.Width)
		meta.Height = aipx.Ptr(r.Height)
	}
}

func probeDuration(ext *mets.Node, meta *ObjectMetadata) {
	if d, ok := techmd.ProbeDuration(ext); ok {
		meta.Duration = &d
	}
}
