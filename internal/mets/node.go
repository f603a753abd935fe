package mets

import (
	"encoding/xml"
	"strings"
)

// Node is a generic XML element. Metadata payloads embedded in the manifest
// (PREMIS objects, characterization tool output) keep this form because their
// schemas vary between tool versions.
type Node struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
	Text    string     `xml:",chardata"`
	Nodes   []Node     `xml:",any"`
}

// Is reports whether the element has the given local name and, when space is
// not empty, the given namespace URI.
func (n *Node) Is(space, local string) bool {
	if n == nil || n.XMLName.Local != local {
		return false
	}
	return space == "" || n.XMLName.Space == space
}

// Child returns the first direct child matching space and local, or nil.
func (n *Node) Child(space, local string) *Node {
	if n == nil {
		return nil
	}
	for i := range n.Nodes {
		if n.Nodes[i].Is(space, local) {
			return &n.Nodes[i]
		}
	}
	return nil
}

// Children returns all direct children matching space and local.
func (n *Node) Children(space, local string) []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	for i := range n.Nodes {
		if n.Nodes[i].Is(space, local) {
			out = append(out, &n.Nodes[i])
		}
	}
	return out
}

// Path follows a chain of direct children, each step matching within space.
func (n *Node) Path(space string, locals ...string) *Node {
	cur := n
	for _, local := range locals {
		cur = cur.Child(space, local)
		if cur == nil {
			return nil
		}
	}
	return cur
}

// Descendant returns the first element below n (depth-first, document order)
// matching space and local, or nil. n itself is not considered.
func (n *Node) Descendant(space, local string) *Node {
	if n == nil {
		return nil
	}
	for i := range n.Nodes {
		if n.Nodes[i].Is(space, local) {
			return &n.Nodes[i]
		}
		if found := n.Nodes[i].Descendant(space, local); found != nil {
			return found
		}
	}
	return nil
}

// Descendants returns every element below n matching space and local.
func (n *Node) Descendants(space, local string) []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	for i := range n.Nodes {
		if n.Nodes[i].Is(space, local) {
			out = append(out, &n.Nodes[i])
		}
		out = append(out, n.Nodes[i].Descendants(space, local)...)
	}
	return out
}

// Attr returns the value of the attribute with the given local name,
// ignoring its namespace.
func (n *Node) Attr(local string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attrs {
		if a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

// Value returns the trimmed character data of the element.
func (n *Node) Value() string {
	if n == nil {
		return ""
	}
	return strings.TrimSpace(n.Text)
}

// ChildValue returns the trimmed text of the first matching child and
// whether that child exists with non-empty text.
func (n *Node) ChildValue(space, local string) (string, bool) {
	v := n.Child(space, local).Value()
	return v, v != ""
}
