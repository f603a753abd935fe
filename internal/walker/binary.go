package walker

import (
	"fmt"
	"path"
	"strings"

	"github.com/vvka-141/aipx/internal/formats"
	"github.com/vvka-141/aipx/internal/metadata"
	"github.com/vvka-141/aipx/pkg/aipx"
)

// Binaries are the files of objects/ that belong to one object.
// Either name may be empty.
type Binaries struct {
	Original string
	Access   string
}

// MatchBinaries finds the binaries of obj among the names of objects/.
//
// Binaries are named with the object identifier as prefix, followed by
// nothing or by a "-", "_" or "." separator, so "abc-1" never claims the
// binaries of "abc-10". A candidate whose remainder, after the identifier and
// one "-" or "_" separator, equals the original name is the original; any
// other candidate is an access copy.
func MatchBinaries(names []string, obj metadata.ObjectMetadata) (Binaries, error) {
	var originals, access []string
	for _, name := range names {
		rest, ok := strings.CutPrefix(name, obj.ID)
		if !ok {
			continue
		}
		if rest != "" && !strings.ContainsRune("-_.", rune(rest[0])) {
			continue
		}
		if len(rest) > 0 && (rest[0] == '-' || rest[0] == '_') {
			rest = rest[1:]
		}
		if rest == obj.Name {
			originals = append(originals, name)
		} else {
			access = append(access, name)
		}
	}

	if len(originals) == 0 && len(access) == 0 {
		return Binaries{}, fmt.Errorf("object %s (%s): %w starting with %s in %s",
			obj.ID, obj.Name, aipx.ErrBinaryNotFound, obj.ID, aipx.ObjectsDirectory)
	}
	if len(originals) > 1 {
		return Binaries{}, fmt.Errorf("object %s: originals %s: %w", obj.ID, strings.Join(originals, ", "), aipx.ErrAmbiguousBinary)
	}
	if len(access) > 1 {
		return Binaries{}, fmt.Errorf("object %s: access copies %s: %w", obj.ID, strings.Join(access, ", "), aipx.ErrAmbiguousBinary)
	}

	var b Binaries
	if len(originals) == 1 {
		b.Original = originals[0]
	}
	if len(access) == 1 {
		b.Access = access[0]
	}
	return b, nil
}

// refs turns matched binaries into the original and access slots of an item.
// The original keeps the PRONOM key of its metadata; access copies get the
// key of their extension.
func (b Binaries) refs(objectsPath string, obj metadata.ObjectMetadata) (original, access aipx.FileRef) {
	if b.Original != "" {
		original = aipx.FileRef{URI: aipx.Ptr(path.Join(objectsPath, b.Original)), PUID: obj.PUID}
	}
	if b.Access != "" {
		access = aipx.FileRef{URI: aipx.Ptr(path.Join(objectsPath, b.Access)), PUID: formats.PUIDForFile(b.Access)}
	}
	return original, access
}
