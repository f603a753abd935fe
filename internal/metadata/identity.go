package metadata

import (
	"strings"

	"github.com/google/uuid"

	"github.com/vvka-141/aipx/internal/premis"
	"github.com/vvka-141/aipx/pkg/aipx"
)

// Identifier types recognized in objectIdentifierType, compared case-insensitively.
var (
	handleTypes = []string{"hdl", "handle"}
	uuidTypes   = []string{"UUID"}
)

// ResolveIdentifier picks the identifier of an object: the part after the
// first "/" of a handle, else the UUID. UUIDs are returned in canonical
// lowercase form when they parse.
func ResolveIdentifier(ids []premis.Identifier) (string, bool) {
	if v, ok := firstOfType(ids, handleTypes); ok {
		if _, suffix, found := strings.Cut(v, "/"); found {
			if suffix != "" {
				return suffix, true
			}
		} else {
			return v, true
		}
	}

	if v, ok := firstOfType(ids, uuidTypes); ok {
		if parsed, err := uuid.Parse(v); err == nil {
			return parsed.String(), true
		}
		return v, true
	}

	return "", false
}

func firstOfType(ids []premis.Identifier, types []string) (string, bool) {
	for _, id := range ids {
		if id.Value == "" {
			continue
		}
		for _, t := range types {
			if strings.EqualFold(strings.TrimSpace(id.Type), t) {
				return id.Value, true
			}
		}
	}
	return "", false
}

// BaseName returns the last path segment of a PREMIS originalName.
// Directory names end with "/" and keep their last segment.
func BaseName(originalName string) string {
	name := strings.TrimRight(strings.TrimSpace(originalName), "/")
	if i := strings.LastIndex(name, "/"); i >= 0 {
		return name[i+1:]
	}
	return stripLocation(name)
}

// stripLocation drops a leading "%SIPDirectory%"-style location placeholder.
func stripLocation(name string) string {
	if !strings.HasPrefix(name, "%") {
		return name
	}
	end := strings.Index(name[1:], "%")
	if end < 0 || end+2 == len(name) {
		return name
	}
	return name[end+2:]
}

// identify resolves the identifier and name shared by directories and objects.
func identify(section string, obj premis.Object) (id, name string, err error) {
	original, ok := obj.OriginalName()
	if !ok {
		return "", "", sectionError(section, aipx.ErrMissingOriginalName)
	}
	id, ok = ResolveIdentifier(obj.Identifiers())
	if !ok {
		return "", "", sectionError(section, aipx.ErrMissingIdentifier)
	}
	return id, BaseName(original), nil
}
