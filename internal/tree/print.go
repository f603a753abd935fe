package tree

import (
	"github.com/disiqueira/gotree/v3"
)

// Render draws the tree below root with rootLabel at the top. Directories
// end with "/" and files show their FILEID when known.
func Render(root *Node, rootLabel string) string {
	t := gotree.New(rootLabel)
	addChildren(t, root)
	return t.Print()
}

func addChildren(parent gotree.Tree, n *Node) {
	for _, c := range n.Children() {
		if c.IsDir {
			addChildren(parent.Add(c.Label+"/"), c)
			continue
		}
		if c.ID != "" {
			parent.Add(c.Label + " [" + c.ID + "]")
		} else {
			parent.Add(c.Label)
		}
	}
}
