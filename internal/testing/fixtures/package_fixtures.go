package fixtures

import (
	"encoding/xml"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/vvka-141/aipx/internal/files/filesystem"
)

// namespaceFixtures seeds the deterministic identifiers of fixture packages.
var namespaceFixtures = uuid.NewSHA1(uuid.NameSpaceURL, []byte("aipx/fixtures"))

// PREMIS namespaces, duplicated here so fixtures do not depend on the code under test.
const (
	premisV2 = "info:lc/xmlns/premis-v2"
	premisV3 = "http://www.loc.gov/premis/v3"
)

// PackageBuilder provides a fluent API for building in-memory archival
// packages: a METS manifest with PREMIS metadata plus the objects/ binaries.
//
// Example usage:
//
//	pkg := NewPackageBuilder("letters").
//	    Directory("box1", func(d *DirBuilder) {
//	        d.Object(Object{Label: "scan.pdf", PUID: "fmt/276", Size: 1024})
//	    }).
//	    Build()
//	result, err := processor.Process(ctx, pkg.Root, aipx.FolderProfile{})
type PackageBuilder struct {
	name      string
	id        string
	premisNS  string
	root      *DirBuilder
	noLogical bool
	noPhys    bool
	custom    []customMap
	rawAmd    []string
	files     map[string][]byte
	objects   map[string]*Object
	dirs      map[string]*DirBuilder
	fileIDs   map[string]string
	amdIDs    map[string]string
	amdSeq    int
	dmdSeq    int
}

// Object describes one original file of a package.
type Object struct {
	// Label is the div LABEL and the last segment of the PREMIS originalName.
	Label string
	// ID is the object UUID. Derived from Label when empty.
	ID string
	// Handle adds a handle-typed identifier ("prefix/suffix").
	Handle  string
	PUID    string
	Size    int64
	Created string
	// Extension is the raw XML inside objectCharacteristicsExtension; empty omits it.
	Extension string
	Fixity    []Digest
	// Binaries are the file names written to objects/. Nil writes "<ID>-<Label>".
	Binaries []string
	// Content of every binary. Defaults to the label.
	Content []byte

	OmitCharacteristics bool
	OmitOriginalName    bool
	OmitIdentifiers     bool
	// PhysicalOnly leaves the object out of the logical structMap.
	PhysicalOnly bool
}

// Digest is one PREMIS fixity entry.
type Digest struct {
	Algorithm string
	Value     string
}

// DirBuilder builds one directory of the package.
type DirBuilder struct {
	label    string
	handle   string
	dmdID    string
	id       string
	empty    bool
	children []any // *DirBuilder or *Object
}

type customMap struct {
	id    string
	label string
	pages [][]string
}

// NewPackageBuilder creates a builder for a package whose directory is named
// "<name>-<uuid>". Metadata uses PREMIS v3 unless PremisV2 is called.
func NewPackageBuilder(name string) *PackageBuilder {
	b := &PackageBuilder{
		name:     name,
		id:       uuid.NewSHA1(namespaceFixtures, []byte("package/"+name)).String(),
		premisNS: premisV3,
		files:    make(map[string][]byte),
		objects:  make(map[string]*Object),
		dirs:     make(map[string]*DirBuilder),
		fileIDs:  make(map[string]string),
		amdIDs:   make(map[string]string),
	}
	b.root = &DirBuilder{label: "objects"}
	return b
}

// PremisV2 switches every embedded object to the PREMIS v2 namespace.
func (b *PackageBuilder) PremisV2() *PackageBuilder {
	b.premisNS = premisV2
	return b
}

// WithoutLogicalStructMap omits the "Normative Directory" structMap.
func (b *PackageBuilder) WithoutLogicalStructMap() *PackageBuilder {
	b.noLogical = true
	return b
}

// WithoutPhysicalStructMap omits the physical structMap.
func (b *PackageBuilder) WithoutPhysicalStructMap() *PackageBuilder {
	b.noPhys = true
	return b
}

// Object adds an object directly below objects/.
func (b *PackageBuilder) Object(o Object) *PackageBuilder {
	b.root.Object(o)
	return b
}

// Directory adds a directory below objects/.
func (b *PackageBuilder) Directory(label string, fn func(*DirBuilder)) *PackageBuilder {
	b.root.Directory(label, fn)
	return b
}

// CustomStructMap adds a logical structMap with ID id and LABEL label. Each
// page becomes a div with ORDER set to its 1-based position and one fptr per
// object label.
func (b *PackageBuilder) CustomStructMap(id, label string, pages ...[]string) *PackageBuilder {
	b.custom = append(b.custom, customMap{id: id, label: label, pages: pages})
	return b
}

// RawAmdSec appends an amdSec verbatim.
func (b *PackageBuilder) RawAmdSec(xmlText string) *PackageBuilder {
	b.rawAmd = append(b.rawAmd, xmlText)
	return b
}

// AddObjectFile writes an extra binary to objects/.
func (b *PackageBuilder) AddObjectFile(name string, content []byte) *PackageBuilder {
	b.files[name] = content
	return b
}

// Object adds an object to the directory.
func (d *DirBuilder) Object(o Object) *DirBuilder {
	obj := o
	d.children = append(d.children, &obj)
	return d
}

// Directory adds a nested directory.
func (d *DirBuilder) Directory(label string, fn func(*DirBuilder)) *DirBuilder {
	sub := &DirBuilder{label: label}
	if fn != nil {
		fn(sub)
	}
	d.children = append(d.children, sub)
	return d
}

// EmptyDirectory adds a directory that only the logical structMap lists.
func (d *DirBuilder) EmptyDirectory(label string) *DirBuilder {
	d.children = append(d.children, &DirBuilder{label: label, empty: true})
	return d
}

// Handle gives the directory a handle-typed identifier.
func (d *DirBuilder) Handle(handle string) *DirBuilder {
	d.handle = handle
	return d
}

// Package is a built fixture.
type Package struct {
	FS       *filesystem.MemoryFileSystem
	Root     string
	Manifest string

	b *PackageBuilder
}

// RootID is the public identifier the root item is expected to get.
func (p *Package) RootID() string { return p.b.name }

// PackageID is the UUID of the package directory.
func (p *Package) PackageID() string { return p.b.id }

// ObjectID returns the identifier of the object with the given label.
func (p *Package) ObjectID(label string) string { return p.b.objects[label].ID }

// FileID returns the fileSec FILEID of the object with the given label.
func (p *Package) FileID(label string) string { return p.b.fileIDs[label] }

// AmdID returns the amdSec ID of the object with the given label.
func (p *Package) AmdID(label string) string { return p.b.amdIDs[label] }

// DirectoryID returns the identifier of the directory with the given label.
func (p *Package) DirectoryID(label string) string { return p.b.dirs[label].id }

// DmdID returns the dmdSec ID of the directory with the given label.
func (p *Package) DmdID(label string) string { return p.b.dirs[label].dmdID }

// ObjectPath returns the full path of a binary in objects/.
func (p *Package) ObjectPath(name string) string {
	return path.Join(p.Root, "objects", name)
}

// Build renders the manifest and writes the package into a fresh in-memory
// filesystem rooted at /packages.
func (b *PackageBuilder) Build() *Package {
	fs := filesystem.NewMemoryFileSystem("/packages")
	return b.BuildInto(fs)
}

// BuildInto writes the package into fs below its root.
func (b *PackageBuilder) BuildInto(fs *filesystem.MemoryFileSystem) *Package {
	b.assign(b.root, "")

	dirName := b.name + "-" + b.id
	root := path.Join(fs.Root(), dirName)
	manifest := b.render(dirName)

	fs.AddFile(path.Join(root, "METS."+b.id+".xml"), manifest)
	for _, obj := range b.objects {
		content := obj.Content
		if content == nil {
			content = []byte(obj.Label)
		}
		for _, name := range obj.Binaries {
			fs.AddBytes(path.Join(root, "objects", name), content)
		}
	}
	for name, content := range b.files {
		fs.AddBytes(path.Join(root, "objects", name), content)
	}

	return &Package{FS: fs, Root: root, Manifest: manifest, b: b}
}

// assign gives ids to every directory and object in document order.
func (b *PackageBuilder) assign(d *DirBuilder, parentPath string) {
	for _, child := range d.children {
		switch c := child.(type) {
		case *DirBuilder:
			b.dmdSeq++
			c.dmdID = fmt.Sprintf("dmdSec_%d", b.dmdSeq+2)
			c.id = uuid.NewSHA1(namespaceFixtures, []byte("dir/"+parentPath+c.label)).String()
			b.dirs[c.label] = c
			b.assign(c, parentPath+c.label+"/")
		case *Object:
			if c.ID == "" {
				c.ID = uuid.NewSHA1(namespaceFixtures, []byte("object/"+parentPath+c.Label)).String()
			}
			if c.Binaries == nil {
				c.Binaries = []string{c.ID + "-" + c.Label}
			}
			b.amdSeq++
			b.amdIDs[c.Label] = fmt.Sprintf("amdSec_%d", b.amdSeq)
			b.fileIDs[c.Label] = "file-" + c.ID
			c.Created = defaultString(c.Created, "2024-03-01T10:15:00Z")
			b.objects[c.Label] = c
		}
	}
}

func defaultString(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func esc(s string) string {
	var sb strings.Builder
	_ = xml.EscapeText(&sb, []byte(s))
	return sb.String()
}

func (b *PackageBuilder) render(dirName string) string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	fmt.Fprintf(&sb, `<mets:mets xmlns:mets="http://www.loc.gov/METS/" xmlns:premis=%q `+
		`xmlns:xlink="http://www.w3.org/1999/xlink" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">`+"\n", b.premisNS)

	// Package directory and objects/ directory.
	b.writeDirectoryDmd(&sb, "dmdSec_1", b.id, "", dirName+"/")
	b.writeDirectoryDmd(&sb, "dmdSec_2", uuid.NewSHA1(namespaceFixtures, []byte("objects/"+b.name)).String(), "", "%SIPDirectory%objects/")
	b.eachDir(b.root, "%SIPDirectory%objects/", func(d *DirBuilder, original string) {
		b.writeDirectoryDmd(&sb, d.dmdID, d.id, d.handle, original)
	})

	b.eachObject(b.root, "%SIPDirectory%objects/", func(o *Object, original string) {
		b.writeObjectAmd(&sb, o, original)
	})
	for _, raw := range b.rawAmd {
		sb.WriteString(raw + "\n")
	}

	sb.WriteString(`<mets:fileSec><mets:fileGrp USE="original">` + "\n")
	b.eachObject(b.root, "objects/", func(o *Object, original string) {
		fmt.Fprintf(&sb, `<mets:file ID=%q ADMID=%q><mets:FLocat xlink:href=%q LOCTYPE="OTHER"/></mets:file>`+"\n",
			b.fileIDs[o.Label], b.amdIDs[o.Label], esc(original))
	})
	sb.WriteString("</mets:fileGrp></mets:fileSec>\n")

	if !b.noPhys {
		sb.WriteString(`<mets:structMap TYPE="physical" ID="structMap_1" LABEL="Archivematica default">` + "\n")
		fmt.Fprintf(&sb, `<mets:div TYPE="Directory" LABEL=%q DMDID="dmdSec_1">`+"\n", esc(dirName))
		b.writeDiv(&sb, b.root, "dmdSec_2", true)
		sb.WriteString("</mets:div>\n</mets:structMap>\n")
	}

	if !b.noLogical {
		sb.WriteString(`<mets:structMap TYPE="logical" ID="structMap_2" LABEL="Normative Directory">` + "\n")
		fmt.Fprintf(&sb, `<mets:div TYPE="Directory" LABEL=%q DMDID="dmdSec_1">`+"\n", esc(dirName))
		b.writeDiv(&sb, b.root, "dmdSec_2", false)
		sb.WriteString("</mets:div>\n</mets:structMap>\n")
	}

	for _, cm := range b.custom {
		fmt.Fprintf(&sb, `<mets:structMap TYPE="logical" ID=%q LABEL=%q>`+"\n", cm.id, esc(cm.label))
		fmt.Fprintf(&sb, `<mets:div TYPE="Document" LABEL=%q>`+"\n", esc(b.name))
		for i, page := range cm.pages {
			fmt.Fprintf(&sb, `<mets:div TYPE="page" LABEL="Page %d" ORDER="%d">`, i+1, i+1)
			for _, label := range page {
				fmt.Fprintf(&sb, `<mets:fptr FILEID=%q/>`, b.fileIDs[label])
			}
			sb.WriteString("</mets:div>\n")
		}
		sb.WriteString("</mets:div>\n</mets:structMap>\n")
	}

	sb.WriteString("</mets:mets>\n")
	return sb.String()
}

func (b *PackageBuilder) eachDir(d *DirBuilder, prefix string, fn func(*DirBuilder, string)) {
	for _, child := range d.children {
		if c, ok := child.(*DirBuilder); ok {
			fn(c, prefix+c.label+"/")
			b.eachDir(c, prefix+c.label+"/", fn)
		}
	}
}

func (b *PackageBuilder) eachObject(d *DirBuilder, prefix string, fn func(*Object, string)) {
	for _, child := range d.children {
		switch c := child.(type) {
		case *DirBuilder:
			b.eachObject(c, prefix+c.label+"/", fn)
		case *Object:
			fn(c, prefix+c.Label)
		}
	}
}

func (b *PackageBuilder) writeIdentifiers(sb *strings.Builder, id, handle string) {
	if handle != "" {
		fmt.Fprintf(sb, `<premis:objectIdentifier><premis:objectIdentifierType>hdl</premis:objectIdentifierType>`+
			`<premis:objectIdentifierValue>%s</premis:objectIdentifierValue></premis:objectIdentifier>`, esc(handle))
	}
	fmt.Fprintf(sb, `<premis:objectIdentifier><premis:objectIdentifierType>UUID</premis:objectIdentifierType>`+
		`<premis:objectIdentifierValue>%s</premis:objectIdentifierValue></premis:objectIdentifier>`, esc(id))
}

func (b *PackageBuilder) writeDirectoryDmd(sb *strings.Builder, dmdID, id, handle, original string) {
	fmt.Fprintf(sb, `<mets:dmdSec ID=%q><mets:mdWrap MDTYPE="PREMIS:OBJECT"><mets:xmlData>`, dmdID)
	sb.WriteString(`<premis:object xsi:type="premis:intellectualEntity">`)
	b.writeIdentifiers(sb, id, handle)
	fmt.Fprintf(sb, `<premis:originalName>%s</premis:originalName>`, esc(original))
	sb.WriteString("</premis:object></mets:xmlData></mets:mdWrap></mets:dmdSec>\n")
}

func (b *PackageBuilder) writeObjectAmd(sb *strings.Builder, o *Object, original string) {
	fmt.Fprintf(sb, `<mets:amdSec ID=%q><mets:techMD ID="techMD_%s"><mets:mdWrap MDTYPE="PREMIS:OBJECT"><mets:xmlData>`,
		b.amdIDs[o.Label], strings.TrimPrefix(b.amdIDs[o.Label], "amdSec_"))
	sb.WriteString(`<premis:object xsi:type="premis:file">`)
	if !o.OmitIdentifiers {
		b.writeIdentifiers(sb, o.ID, o.Handle)
	}
	if !o.OmitCharacteristics {
		sb.WriteString(`<premis:objectCharacteristics><premis:compositionLevel>0</premis:compositionLevel>`)
		for _, f := range o.Fixity {
			fmt.Fprintf(sb, `<premis:fixity><premis:messageDigestAlgorithm>%s</premis:messageDigestAlgorithm>`+
				`<premis:messageDigest>%s</premis:messageDigest></premis:fixity>`, esc(f.Algorithm), esc(f.Value))
		}
		if o.Size > 0 {
			fmt.Fprintf(sb, `<premis:size>%d</premis:size>`, o.Size)
		}
		if o.PUID != "" {
			fmt.Fprintf(sb, `<premis:format><premis:formatDesignation><premis:formatName>%s</premis:formatName></premis:formatDesignation>`+
				`<premis:formatRegistry><premis:formatRegistryName>PRONOM</premis:formatRegistryName>`+
				`<premis:formatRegistryKey>%s</premis:formatRegistryKey></premis:formatRegistry></premis:format>`, esc(o.Label), esc(o.PUID))
		}
		fmt.Fprintf(sb, `<premis:creatingApplication><premis:dateCreatedByApplication>%s</premis:dateCreatedByApplication></premis:creatingApplication>`, esc(o.Created))
		if o.Extension != "" {
			fmt.Fprintf(sb, `<premis:objectCharacteristicsExtension>%s</premis:objectCharacteristicsExtension>`, o.Extension)
		}
		sb.WriteString(`</premis:objectCharacteristics>`)
	}
	if !o.OmitOriginalName {
		fmt.Fprintf(sb, `<premis:originalName>%s</premis:originalName>`, esc(original))
	}
	sb.WriteString("</premis:object></mets:xmlData></mets:mdWrap></mets:techMD></mets:amdSec>\n")
}

func (b *PackageBuilder) writeDiv(sb *strings.Builder, d *DirBuilder, dmdID string, physical bool) {
	fmt.Fprintf(sb, `<mets:div TYPE="Directory" LABEL=%q DMDID=%q>`+"\n", esc(d.label), dmdID)
	for _, child := range d.children {
		switch c := child.(type) {
		case *DirBuilder:
			if physical && c.empty {
				continue
			}
			b.writeDiv(sb, c, c.dmdID, physical)
		case *Object:
			if physical {
				fmt.Fprintf(sb, `<mets:div TYPE="Item" LABEL=%q><mets:fptr FILEID=%q/></mets:div>`+"\n", esc(c.Label), b.fileIDs[c.Label])
			} else if !c.PhysicalOnly {
				fmt.Fprintf(sb, `<mets:div TYPE="Item" LABEL=%q/>`+"\n", esc(c.Label))
			}
		}
	}
	sb.WriteString("</mets:div>\n")
}

// WriteDir copies the package onto the real filesystem below dir and
// returns the package root there.
func (p *Package) WriteDir(dir string) (string, error) {
	root := filepath.Join(dir, path.Base(p.Root))
	d, err := p.FS.Open(p.Root)
	if err != nil {
		return "", err
	}
	err = d.Walk(func(f filesystem.File, err error) error {
		if err != nil {
			return err
		}
		target := filepath.Join(root, filepath.FromSlash(f.RelativePath()))
		if f.Info().IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		content, err := p.FS.ReadFile(f.Path())
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		return os.WriteFile(target, content, 0o644)
	})
	if err != nil {
		return "", fmt.Errorf("write fixture %s: %w", p.Root, err)
	}
	return root, nil
}
