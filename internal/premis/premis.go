// Package premis reads PREMIS object descriptions embedded in a METS manifest.
//
// Two schema generations are in circulation. The version is resolved once when
// the object is located and every accessor reads within that namespace.
package premis

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/vvka-141/aipx/internal/mets"
	"github.com/vvka-141/aipx/pkg/aipx"
)

// Namespace URIs of the supported PREMIS generations.
const (
	NamespaceV2 = "info:lc/xmlns/premis-v2"
	NamespaceV3 = "http://www.loc.gov/premis/v3"
)

// PronomRegistry is the formatRegistryName of PRONOM format keys.
const PronomRegistry = "PRONOM"

// Version identifies a PREMIS schema generation.
type Version int

const (
	V2 Version = 2
	V3 Version = 3
)

// Namespace returns the namespace URI of the version.
func (v Version) Namespace() string {
	if v == V2 {
		return NamespaceV2
	}
	return NamespaceV3
}

func (v Version) String() string {
	return fmt.Sprintf("PREMIS v%d", int(v))
}

// Object is a located premis:object together with its schema version.
type Object struct {
	Version Version
	node    *mets.Node
}

// Identifier is one objectIdentifier of an object.
type Identifier struct {
	Type  string
	Value string
}

// FindObject locates the premis:object inside an mdWrap payload,
// preferring PREMIS v3 over v2.
func FindObject(payload *mets.Node) (Object, bool) {
	for _, v := range []Version{V3, V2} {
		if n := payload.Descendant(v.Namespace(), "object"); n != nil {
			return Object{Version: v, node: n}, true
		}
	}
	return Object{}, false
}

func (o Object) child(parent *mets.Node, local string) *mets.Node {
	return parent.Child(o.Version.Namespace(), local)
}

// Identifiers returns the objectIdentifiers in document order.
func (o Object) Identifiers() []Identifier {
	ns := o.Version.Namespace()
	var ids []Identifier
	for _, n := range o.node.Children(ns, "objectIdentifier") {
		typ, _ := n.ChildValue(ns, "objectIdentifierType")
		value, _ := n.ChildValue(ns, "objectIdentifierValue")
		ids = append(ids, Identifier{Type: typ, Value: value})
	}
	return ids
}

// OriginalName returns the originalName of the object.
func (o Object) OriginalName() (string, bool) {
	return o.node.ChildValue(o.Version.Namespace(), "originalName")
}

// Characteristics returns the first objectCharacteristics element.
func (o Object) Characteristics() (Characteristics, bool) {
	n := o.child(o.node, "objectCharacteristics")
	if n == nil {
		return Characteristics{}, false
	}
	return Characteristics{ns: o.Version.Namespace(), node: n}, true
}

// Characteristics is a premis:objectCharacteristics element.
type Characteristics struct {
	ns   string
	node *mets.Node
}

// Size returns the byte size, or nil when absent or not a number.
func (c Characteristics) Size() *int64 {
	v, ok := c.node.ChildValue(c.ns, "size")
	if !ok {
		return nil
	}
	size, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil
	}
	return &size
}

// CreatedAt returns the date part (YYYY-MM-DD) of dateCreatedByApplication,
// or nil when absent or unparsable.
func (c Characteristics) CreatedAt() *time.Time {
	for _, app := range c.node.Children(c.ns, "creatingApplication") {
		v, ok := app.ChildValue(c.ns, "dateCreatedByApplication")
		if !ok || len(v) < len("2006-01-02") {
			continue
		}
		t, err := time.Parse("2006-01-02", v[:len("2006-01-02")])
		if err != nil {
			continue
		}
		return &t
	}
	return nil
}

// FormatRegistryKey returns the formatRegistryKey paired with the given
// formatRegistryName, or nil.
func (c Characteristics) FormatRegistryKey(registry string) *string {
	for _, format := range c.node.Children(c.ns, "format") {
		for _, reg := range format.Children(c.ns, "formatRegistry") {
			name, _ := reg.ChildValue(c.ns, "formatRegistryName")
			if !strings.EqualFold(name, registry) {
				continue
			}
			if key, ok := reg.ChildValue(c.ns, "formatRegistryKey"); ok {
				return &key
			}
		}
	}
	return nil
}

// Fixity returns the recorded message digests.
func (c Characteristics) Fixity() []aipx.Fixity {
	var out []aipx.Fixity
	for _, f := range c.node.Children(c.ns, "fixity") {
		alg, okAlg := f.ChildValue(c.ns, "messageDigestAlgorithm")
		digest, okDigest := f.ChildValue(c.ns, "messageDigest")
		if okAlg && okDigest {
			out = append(out, aipx.Fixity{Algorithm: alg, Digest: strings.ToLower(digest)})
		}
	}
	return out
}

// Extension returns the objectCharacteristicsExtension element, or nil.
func (c Characteristics) Extension() *mets.Node {
	return c.node.Child(c.ns, "objectCharacteristicsExtension")
}
