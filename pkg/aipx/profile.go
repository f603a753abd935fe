package aipx

import "fmt"

// Mode is the processing mode of a profile.
type Mode int

const (
	ModeFolder Mode = iota // every directory becomes a folder item
	ModeRoot               // content wrapped in one container directory under the root
	ModeCustom             // like ModeRoot, correlated through a custom structMap
)

// String returns the configuration name of the mode.
func (m Mode) String() string {
	switch m {
	case ModeFolder:
		return "folder"
	case ModeRoot:
		return "root"
	case ModeCustom:
		return "custom"
	default:
		return fmt.Sprintf("Unknown(%d)", m)
	}
}

// ParseMode converts a configuration value into a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "folder":
		return ModeFolder, nil
	case "root":
		return ModeRoot, nil
	case "custom":
		return ModeCustom, nil
	default:
		return ModeFolder, fmt.Errorf("unknown mode %q (want folder, root or custom): %w", s, ErrInvalidConfig)
	}
}

// Profile selects how a package is walked. The concrete profiles are
// FolderProfile, RootProfile and CustomProfile; the set is closed.
type Profile interface {
	Mode() Mode
	sealed()
}

// LabelPredicate decides on a leaf from its label and its ancestor labels,
// nearest ancestor first.
type LabelPredicate func(label string, ancestors []string) bool

// TextClassifier assigns a text-layer type and an optional language ("" for none).
type TextClassifier func(label string, ancestors []string) (TextType, string)

// FileEnrichment holds what a custom structMap adds to a content item.
type FileEnrichment struct {
	Order *int
}

// EnrichFileFunc reads the custom structMap for the content file with the given FILEID.
type EnrichFileFunc func(structMap *StructMap, fileID string) FileEnrichment

// EnrichTextFunc resolves, from the custom structMap, the FILEID of the
// content file that the text file with the given FILEID annotates.
type EnrichTextFunc func(structMap *StructMap, fileID string) (string, bool)

// FolderProfile materializes every directory as a folder item.
type FolderProfile struct{}

func (FolderProfile) Mode() Mode { return ModeFolder }
func (FolderProfile) sealed()    {}

// RootProfile treats the first directory level as a transparent container
// and emits the files below it as direct children of the root.
type RootProfile struct {
	// IsFile filters content files. Nil accepts every leaf.
	IsFile LabelPredicate
}

func (RootProfile) Mode() Mode { return ModeRoot }
func (RootProfile) sealed()    {}

// CustomProfile walks like RootProfile and additionally routes text layers,
// correlating them with content files through a named custom structMap.
type CustomProfile struct {
	// StructMap is matched against the ID or LABEL of a structMap in the manifest.
	StructMap string

	IsFile       LabelPredicate
	IsText       LabelPredicate
	ClassifyText TextClassifier
	EnrichFile   EnrichFileFunc
	EnrichText   EnrichTextFunc
}

func (CustomProfile) Mode() Mode { return ModeCustom }
func (CustomProfile) sealed()    {}

// Validate checks the hooks a custom profile needs to route text layers.
func (p CustomProfile) Validate() error {
	if p.StructMap == "" {
		return fmt.Errorf("custom profile requires a structMap identifier: %w", ErrInvalidConfig)
	}
	if p.IsText != nil && p.EnrichText == nil {
		return fmt.Errorf("custom profile routes text layers but has no text enrichment hook: %w", ErrInvalidConfig)
	}
	return nil
}

// StructMap is the read-only view of a custom structMap handed to enrichment hooks.
type StructMap struct {
	ID    string
	Type  string
	Label string
	Divs  []StructDiv
}

// StructDiv is one division of a StructMap.
type StructDiv struct {
	ID       string
	Type     string
	Label    string
	Order    string
	FileIDs  []string
	Children []StructDiv
}

// Walk visits every division depth-first in document order, passing the
// parent division (nil at the top level). Walk stops when fn returns false.
func (m *StructMap) Walk(fn func(div *StructDiv, parent *StructDiv) bool) {
	if m == nil {
		return
	}
	var visit func(divs []StructDiv, parent *StructDiv) bool
	visit = func(divs []StructDiv, parent *StructDiv) bool {
		for i := range divs {
			if !fn(&divs[i], parent) {
				return false
			}
			if !visit(divs[i].Children, &divs[i]) {
				return false
			}
		}
		return true
	}
	visit(m.Divs, nil)
}
