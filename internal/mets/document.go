package mets

import (
	"encoding/xml"
	"strings"

	"github.com/vvka-141/aipx/pkg/aipx"
)

// Namespace is the METS namespace URI.
const Namespace = "http://www.loc.gov/METS/"

// Structure map types and the labels the transfer pipeline gives its own maps.
const (
	StructMapPhysical = "physical"
	StructMapLogical  = "logical"

	DefaultPhysicalLabel = "Archivematica default"
	DefaultLogicalLabel  = "Normative Directory"

	// DirectoryType marks a div that represents a directory.
	DirectoryType = "Directory"

	// OriginalFileGroup is the fileGrp USE value of the ingested originals.
	OriginalFileGroup = "original"
)

// Document is the subset of a METS manifest this module consumes.
type Document struct {
	XMLName    xml.Name    `xml:"http://www.loc.gov/METS/ mets"`
	DmdSecs    []MdSec     `xml:"http://www.loc.gov/METS/ dmdSec"`
	AmdSecs    []AmdSec    `xml:"http://www.loc.gov/METS/ amdSec"`
	FileSec    FileSec     `xml:"http://www.loc.gov/METS/ fileSec"`
	StructMaps []StructMap `xml:"http://www.loc.gov/METS/ structMap"`
}

// MdSec is a dmdSec or one of the metadata blocks inside an amdSec.
type MdSec struct {
	ID     string `xml:"ID,attr"`
	MdWrap MdWrap `xml:"http://www.loc.gov/METS/ mdWrap"`
}

// MdWrap wraps an embedded metadata payload.
type MdWrap struct {
	MDType  string `xml:"MDTYPE,attr"`
	XMLData Node   `xml:"http://www.loc.gov/METS/ xmlData"`
}

// AmdSec groups the administrative metadata of one object.
type AmdSec struct {
	ID      string  `xml:"ID,attr"`
	TechMDs []MdSec `xml:"http://www.loc.gov/METS/ techMD"`
}

// FileSec lists the file groups of the package.
type FileSec struct {
	FileGrps []FileGrp `xml:"http://www.loc.gov/METS/ fileGrp"`
}

// FileGrp is one USE group of files. Groups may nest.
type FileGrp struct {
	Use      string    `xml:"USE,attr"`
	Files    []File    `xml:"http://www.loc.gov/METS/ file"`
	FileGrps []FileGrp `xml:"http://www.loc.gov/METS/ fileGrp"`
}

// File is one file entry of a fileGrp.
type File struct {
	ID     string   `xml:"ID,attr"`
	ADMID  string   `xml:"ADMID,attr"`
	FLocat []FLocat `xml:"http://www.loc.gov/METS/ FLocat"`
}

// FLocat is the location of a file inside the package.
type FLocat struct {
	Href string `xml:"http://www.w3.org/1999/xlink href,attr"`
}

// StructMap is one structure map of the manifest.
type StructMap struct {
	ID    string `xml:"ID,attr"`
	Type  string `xml:"TYPE,attr"`
	Label string `xml:"LABEL,attr"`
	Divs  []Div  `xml:"http://www.loc.gov/METS/ div"`
}

// Div is a structMap division.
type Div struct {
	ID    string `xml:"ID,attr"`
	Type  string `xml:"TYPE,attr"`
	Label string `xml:"LABEL,attr"`
	Order string `xml:"ORDER,attr"`
	DMDID string `xml:"DMDID,attr"`
	ADMID string `xml:"ADMID,attr"`
	Fptrs []Fptr `xml:"http://www.loc.gov/METS/ fptr"`
	Divs  []Div  `xml:"http://www.loc.gov/METS/ div"`
}

// Fptr is a content pointer from a division to a file.
type Fptr struct {
	FileID string `xml:"FILEID,attr"`
}

// IsDirectory reports whether the division represents a directory.
func (d *Div) IsDirectory() bool {
	return d.Type == DirectoryType
}

// PhysicalStructMap returns the physical structure map, preferring the one
// written by the transfer pipeline over custom physical maps.
func (d *Document) PhysicalStructMap() *StructMap {
	return d.structMapOfType(StructMapPhysical, DefaultPhysicalLabel)
}

// LogicalStructMap returns the directory-shaped logical structure map, or nil.
func (d *Document) LogicalStructMap() *StructMap {
	return d.structMapOfType(StructMapLogical, DefaultLogicalLabel)
}

func (d *Document) structMapOfType(typ, preferredLabel string) *StructMap {
	var first *StructMap
	for i := range d.StructMaps {
		sm := &d.StructMaps[i]
		if !strings.EqualFold(sm.Type, typ) {
			continue
		}
		if sm.Label == preferredLabel {
			return sm
		}
		if first == nil {
			first = sm
		}
	}
	return first
}

// StructMapByName returns the structure map whose ID or LABEL equals name, or nil.
func (d *Document) StructMapByName(name string) *StructMap {
	for i := range d.StructMaps {
		if d.StructMaps[i].ID == name || d.StructMaps[i].Label == name {
			return &d.StructMaps[i]
		}
	}
	return nil
}

// FileGroup returns the files of every fileGrp whose USE matches, in document order.
func (d *Document) FileGroup(use string) []File {
	var files []File
	var collect func(groups []FileGrp)
	collect = func(groups []FileGrp) {
		for _, g := range groups {
			if strings.EqualFold(g.Use, use) {
				files = append(files, g.Files...)
			}
			collect(g.FileGrps)
		}
	}
	collect(d.FileSec.FileGrps)
	return files
}

// View converts the structure map into the read-only form handed to profile hooks.
func (s *StructMap) View() *aipx.StructMap {
	if s == nil {
		return nil
	}
	return &aipx.StructMap{
		ID:    s.ID,
		Type:  s.Type,
		Label: s.Label,
		Divs:  viewDivs(s.Divs),
	}
}

func viewDivs(divs []Div) []aipx.StructDiv {
	if len(divs) == 0 {
		return nil
	}
	out := make([]aipx.StructDiv, 0, len(divs))
	for _, d := range divs {
		view := aipx.StructDiv{
			ID:       d.ID,
			Type:     d.Type,
			Label:    d.Label,
			Order:    d.Order,
			Children: viewDivs(d.Divs),
		}
		for _, f := range d.Fptrs {
			view.FileIDs = append(view.FileIDs, f.FileID)
		}
		out = append(out, view)
	}
	return out
}
