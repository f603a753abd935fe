// Package walker turns the merged tree of a package into items and text
// layers, following the rules of a profile.
package walker

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"

	"github.com/vvka-141/aipx/internal/metadata"
	"github.com/vvka-141/aipx/internal/tree"
	"github.com/vvka-141/aipx/pkg/aipx"
)

// Config holds everything one walk reads. The walker never mutates it.
type Config struct {
	Index *metadata.Index

	// Objects are the file names in objects/, ObjectsPath the directory itself.
	Objects     []string
	ObjectsPath string

	CollectionID string
	Profile      aipx.Profile

	// CustomMap is the structMap named by a CustomProfile, nil when absent.
	CustomMap *aipx.StructMap

	Logger aipx.Logger
}

// Output is what a walk produces, in tree order.
type Output struct {
	Items     []aipx.Item
	TextItems []aipx.TextItem
}

// EffectiveMode is the mode a profile walks in. A custom profile whose
// structMap is absent from the manifest walks as a folder profile.
func EffectiveMode(p aipx.Profile, customMap *aipx.StructMap) aipx.Mode {
	switch p.(type) {
	case aipx.RootProfile, *aipx.RootProfile:
		return aipx.ModeRoot
	case aipx.CustomProfile, *aipx.CustomProfile:
		if customMap == nil {
			return aipx.ModeFolder
		}
		return aipx.ModeCustom
	default:
		return aipx.ModeFolder
	}
}

// rules is the profile flattened for the walk. Hooks are only set when the
// mode can reach them.
type rules struct {
	mode         aipx.Mode
	isFile       aipx.LabelPredicate
	isText       aipx.LabelPredicate
	classifyText aipx.TextClassifier
	enrichFile   aipx.EnrichFileFunc
	enrichText   aipx.EnrichTextFunc
}

func rulesFor(p aipx.Profile, customMap *aipx.StructMap) rules {
	r := rules{mode: EffectiveMode(p, customMap)}
	switch profile := p.(type) {
	case aipx.RootProfile:
		r.isFile = profile.IsFile
	case *aipx.RootProfile:
		r.isFile = profile.IsFile
	case aipx.CustomProfile:
		r.custom(profile)
	case *aipx.CustomProfile:
		r.custom(*profile)
	}
	return r
}

func (r *rules) custom(p aipx.CustomProfile) {
	if r.mode != aipx.ModeCustom {
		return
	}
	r.isFile = p.IsFile
	r.isText = p.IsText
	r.classifyText = p.ClassifyText
	r.enrichFile = p.EnrichFile
	r.enrichText = p.EnrichText
}

type walk struct {
	cfg   Config
	rules rules
	out   Output
	// seen maps an object identifier to its position in out.Items.
	seen map[string]int
}

// Walk visits the children of root with rootID as their sole ancestor.
func Walk(root *tree.Node, rootID string, cfg Config) (Output, error) {
	if cfg.Index == nil {
		return Output{}, fmt.Errorf("walker needs a metadata index: %w", aipx.ErrInvalidConfig)
	}
	w := &walk{
		cfg:   cfg,
		rules: rulesFor(cfg.Profile, cfg.CustomMap),
		seen:  make(map[string]int),
	}
	if err := w.visit(root.Children(), 0, []string{rootID}, nil); err != nil {
		return Output{}, err
	}
	return w.out, nil
}

// visit walks one level. ancestors and labels are nearest first.
func (w *walk) visit(nodes []*tree.Node, depth int, ancestors, labels []string) error {
	for _, node := range nodes {
		var err error
		if node.IsDir {
			err = w.directory(node, depth, ancestors, labels)
		} else {
			err = w.leaf(node, ancestors, labels)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (w *walk) directory(node *tree.Node, depth int, ancestors, labels []string) error {
	childLabels := prepend(node.Label, labels)

	if w.rules.mode != aipx.ModeFolder {
		if depth > 0 {
			w.verbose("skipping nested directory %q", strings.Join(reverse(childLabels), "/"))
			return nil
		}
		return w.visit(node.Children(), depth+1, ancestors, childLabels)
	}

	dir, ok := w.cfg.Index.Directories.Lookup(node.ID)
	if !ok {
		return fmt.Errorf("directory %q (DMDID %q): %w", node.Label, node.ID, aipx.ErrMissingDirectoryMetadata)
	}
	w.out.Items = append(w.out.Items, aipx.Item{
		ID:           dir.ID,
		ParentID:     aipx.Ptr(ancestors[0]),
		ParentIDs:    clone(ancestors),
		CollectionID: w.cfg.CollectionID,
		Type:         aipx.ItemTypeFolder,
		Label:        dir.Name,
	})
	return w.visit(node.Children(), depth+1, prepend(dir.ID, ancestors), childLabels)
}

func (w *walk) leaf(node *tree.Node, ancestors, labels []string) error {
	if node.ID == "" {
		return nil
	}
	obj, ok := w.cfg.Index.ObjectForFile(node.ID)
	if !ok {
		w.verbose("no object metadata for %s (%q), skipping", node.ID, node.Label)
		return nil
	}

	if w.rules.mode == aipx.ModeFolder {
		return w.content(node, obj, ancestors)
	}
	if w.rules.isText != nil && w.rules.isText(node.Label, labels) {
		return w.text(node, obj, labels)
	}
	if w.rules.isFile == nil || w.rules.isFile(node.Label, labels) {
		return w.content(node, obj, ancestors)
	}
	return nil
}

func (w *walk) content(node *tree.Node, obj metadata.ObjectMetadata, ancestors []string) error {
	binaries, err := MatchBinaries(w.cfg.Objects, obj)
	if err != nil {
		return fmt.Errorf("file %q: %w", node.Label, err)
	}
	original, access := binaries.refs(w.cfg.ObjectsPath, obj)

	if i, ok := w.seen[obj.ID]; ok {
		mergeRefs(&w.out.Items[i], original, access)
		return nil
	}

	item := aipx.Item{
		ID:           obj.ID,
		ParentID:     aipx.Ptr(ancestors[0]),
		ParentIDs:    clone(ancestors),
		CollectionID: w.cfg.CollectionID,
		Type:         obj.Type,
		Label:        obj.Name,
		Size:         obj.Size,
		CreatedAt:    obj.CreatedAt,
		Width:        obj.Width,
		Height:       obj.Height,
		Resolution:   obj.Resolution,
		Duration:     obj.Duration,
		Original:     original,
		Access:       access,
		Fixity:       obj.Fixity,
	}
	if w.rules.enrichFile != nil {
		item.Order = w.rules.enrichFile(w.cfg.CustomMap, node.ID).Order
	}

	w.seen[obj.ID] = len(w.out.Items)
	w.out.Items = append(w.out.Items, item)
	return nil
}

// mergeRefs fills the empty slots of an item reached twice.
func mergeRefs(item *aipx.Item, original, access aipx.FileRef) {
	if item.Original.URI == nil && original.URI != nil {
		item.Original = original
	}
	if item.Access.URI == nil && access.URI != nil {
		item.Access = access
	}
}

func (w *walk) text(node *tree.Node, obj metadata.ObjectMetadata, labels []string) error {
	var contentFileID string
	var ok bool
	if w.rules.enrichText != nil {
		contentFileID, ok = w.rules.enrichText(w.cfg.CustomMap, node.ID)
	}
	if !ok || contentFileID == "" {
		return fmt.Errorf("text file %q (%s): %w", node.Label, node.ID, aipx.ErrMissingTextFileID)
	}
	target, ok := w.cfg.Index.ObjectForFile(contentFileID)
	if !ok {
		return fmt.Errorf("text file %q: %s has no object metadata: %w", node.Label, contentFileID, aipx.ErrMissingTextFileID)
	}

	binaries, err := MatchBinaries(w.cfg.Objects, obj)
	if err != nil {
		return fmt.Errorf("text file %q: %w", node.Label, err)
	}
	original, access := binaries.refs(w.cfg.ObjectsPath, obj)
	uri := original.URI
	if uri == nil {
		uri = access.URI
	}

	textType, lang := aipx.TextTypeTranscription, ""
	if w.rules.classifyText != nil {
		textType, lang = w.rules.classifyText(node.Label, labels)
	}

	w.out.TextItems = append(w.out.TextItems, aipx.TextItem{
		ID:           obj.ID,
		ItemID:       target.ID,
		CollectionID: w.cfg.CollectionID,
		Type:         textType,
		Language:     normalizeLanguage(lang),
		Encoding:     obj.Encoding,
		URI:          *uri,
	})
	return nil
}

// normalizeLanguage returns the canonical BCP 47 form of lang, or lang
// itself when it does not parse.
func normalizeLanguage(lang string) *string {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		return nil
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return &lang
	}
	return aipx.Ptr(tag.String())
}

func (w *walk) verbose(format string, args ...interface{}) {
	if w.cfg.Logger != nil {
		w.cfg.Logger.Verbose(format, args...)
	}
}

func prepend(head string, tail []string) []string {
	out := make([]string, 0, len(tail)+1)
	out = append(out, head)
	return append(out, tail...)
}

func clone(s []string) []string {
	return append([]string(nil), s...)
}

func reverse(s []string) []string {
	out := make([]string, len(s))
	for i, v := range s {
		out[len(s)-1-i] = v
	}
	return out
}
