package tree

import (
	"fmt"
	"strings"

	"github.com/vvka-141/aipx/internal/mets"
	"github.com/vvka-141/aipx/pkg/aipx"
)

type source int

const (
	logical source = iota
	physical
)

func (s source) String() string {
	if s == physical {
		return "physical"
	}
	return "logical"
}

// observation is what one structMap says about a label.
type observation struct {
	from  source
	dir   bool
	id    string
	divID string
}

// placeholder collects the observations of one label before classification.
type placeholder struct {
	label    string
	obs      []observation
	children []*placeholder
	byLabel  map[string]*placeholder
}

func (p *placeholder) child(label string) *placeholder {
	if c, ok := p.byLabel[label]; ok {
		return c
	}
	c := &placeholder{label: label}
	if p.byLabel == nil {
		p.byLabel = make(map[string]*placeholder)
	}
	p.byLabel[label] = c
	p.children = append(p.children, c)
	return c
}

// Build merges the logical structMap (optional) and the physical structMap
// into one tree. Both maps are read below their first two div levels, the
// package directory and its objects directory. The returned root carries no
// label; its children are the package content.
//
// Build validates every division: a missing LABEL fails with
// aipx.ErrMissingLabel and a physical file without exactly one fptr fails
// with aipx.ErrMissingPointer. A label that is a directory in one map and a
// file in the other fails with aipx.ErrConflictingNode.
func Build(logicalMap, physicalMap *mets.StructMap) (*Node, error) {
	if physicalMap == nil {
		return nil, aipx.ErrPhysicalStructMapNotFound
	}

	root := &placeholder{}
	if logicalMap != nil {
		if err := collect(root, ContentDivs(logicalMap), logical); err != nil {
			return nil, err
		}
	}
	if err := collect(root, ContentDivs(physicalMap), physical); err != nil {
		return nil, err
	}

	out := newNode("")
	out.IsDir = true
	if err := resolve(root, out, nil); err != nil {
		return nil, err
	}
	return out, nil
}

// ContentDivs returns the divisions below the package and objects levels of
// a structMap. The objects level is the second-level div labelled "objects",
// or the first second-level div when none carries that label.
func ContentDivs(sm *mets.StructMap) []mets.Div {
	if sm == nil || len(sm.Divs) == 0 {
		return nil
	}
	top := sm.Divs[0].Divs
	if len(top) == 0 {
		return nil
	}
	for i := range top {
		if top[i].Label == aipx.ObjectsDirectory {
			return top[i].Divs
		}
	}
	return top[0].Divs
}

func collect(parent *placeholder, divs []mets.Div, from source) error {
	for i := range divs {
		div := &divs[i]
		if div.Label == "" {
			return fmt.Errorf("%s structMap div %s: %w", from, describeDiv(div), aipx.ErrMissingLabel)
		}

		node := parent.child(div.Label)
		if div.IsDirectory() {
			node.obs = append(node.obs, observation{from: from, dir: true, id: div.DMDID, divID: div.ID})
			if err := collect(node, div.Divs, from); err != nil {
				return err
			}
			continue
		}

		fileID, err := pointer(div, from)
		if err != nil {
			return err
		}
		node.obs = append(node.obs, observation{from: from, id: fileID, divID: div.ID})
	}
	return nil
}

// pointer returns the FILEID of a file division. Physical files need
// exactly one; logical files may have none.
func pointer(div *mets.Div, from source) (string, error) {
	var ids []string
	for _, f := range div.Fptrs {
		if f.FileID != "" {
			ids = append(ids, f.FileID)
		}
	}
	if from == physical && len(ids) != 1 {
		return "", fmt.Errorf("%s structMap div %q has %d pointers: %w", from, div.Label, len(ids), aipx.ErrMissingPointer)
	}
	if len(ids) == 1 {
		return ids[0], nil
	}
	return "", nil
}

func describeDiv(div *mets.Div) string {
	if div.ID != "" {
		return div.ID
	}
	if div.Type != "" {
		return fmt.Sprintf("of type %s", div.Type)
	}
	return "without ID"
}

// resolve classifies every placeholder below p and attaches it to out.
func resolve(p *placeholder, out *Node, path []string) error {
	for _, c := range p.children {
		node, err := classify(c, append(path, c.label))
		if err != nil {
			return err
		}
		if node.IsDir {
			if err := resolve(c, node, append(path, c.label)); err != nil {
				return err
			}
		}
		out.add(node)
	}
	return nil
}

func classify(p *placeholder, path []string) (*Node, error) {
	node := newNode(p.label)
	var dirs, files []observation
	for _, o := range p.obs {
		if o.dir {
			dirs = append(dirs, o)
		} else {
			files = append(files, o)
		}
	}

	if len(dirs) > 0 && len(files) > 0 {
		return nil, fmt.Errorf("%q is a directory in the %s structMap and a file in the %s structMap: %w",
			strings.Join(path, "/"), dirs[0].from, files[0].from, aipx.ErrConflictingNode)
	}

	node.IsDir = len(dirs) > 0
	node.ID = preferredID(dirs, files)
	return node, nil
}

// preferredID takes the physical id when present, else the logical one.
func preferredID(groups ...[]observation) string {
	id := ""
	for _, group := range groups {
		for _, o := range group {
			if o.id == "" {
				continue
			}
			if o.from == physical {
				return o.id
			}
			if id == "" {
				id = o.id
			}
		}
	}
	return id
}
