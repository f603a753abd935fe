// Package tree merges the logical and physical structure maps of a manifest
// into one label-keyed tree of directories and files.
package tree

// Node is one directory or file of the merged tree. Children are keyed by
// label and kept in first-seen order.
type Node struct {
	Label string
	// ID is the DMDID of a directory or the FILEID of a file. It may be empty
	// for entries only the logical structMap lists.
	ID    string
	IsDir bool

	children []*Node
	byLabel  map[string]*Node
}

func newNode(label string) *Node {
	return &Node{Label: label}
}

// Children returns the child nodes in order.
func (n *Node) Children() []*Node {
	if n == nil {
		return nil
	}
	return n.children
}

// Child returns the child with the given label, or nil.
func (n *Node) Child(label string) *Node {
	if n == nil {
		return nil
	}
	return n.byLabel[label]
}

// Len returns the number of nodes below n.
func (n *Node) Len() int {
	total := 0
	for _, c := range n.Children() {
		total += 1 + c.Len()
	}
	return total
}

func (n *Node) add(child *Node) {
	if n.byLabel == nil {
		n.byLabel = make(map[string]*Node)
	}
	n.byLabel[child.Label] = child
	n.children = append(n.children, child)
}
