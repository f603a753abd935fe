package tree

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	root := newNode("")
	letters := &Node{Label: "letters", ID: "dmd-1", IsDir: true}
	letters.add(&Node{Label: "1901.txt", ID: "file-1"})
	letters.add(&Node{Label: "1902.txt"})
	root.add(letters)
	root.add(&Node{Label: "README", ID: "file-3"})

	out := Render(root, "archive")

	assert.Contains(t, out, "archive\n")
	assert.Contains(t, out, "letters/")
	assert.Contains(t, out, "1901.txt [file-1]")
	assert.Contains(t, out, "1902.txt\n")
	assert.NotContains(t, out, "1902.txt [")
	assert.Contains(t, out, "README [file-3]")
	assert.Less(t, strings.Index(out, "letters/"), strings.Index(out, "README"))
}

func TestRender_Empty(t *testing.T) {
	assert.Equal(t, "empty\n", Render(newNode(""), "empty"))
}

