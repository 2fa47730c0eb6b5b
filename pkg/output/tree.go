package output

import (
	"sort"
	"strings"
)

// TreeNode is one path segment. Files are nodes without children.
type TreeNode struct {
	Children map[string]*TreeNode
}

// IsLeaf reports whether the node has no children.
func (n *TreeNode) IsLeaf() bool {
	return n == nil || len(n.Children) == 0
}

// BuildTree inserts every slash-separated path into a tree of segments.
// Intermediate directories are created as needed; a file and a directory
// with the same name share one node.
func BuildTree(paths []string) *TreeNode {
	root := &TreeNode{Children: map[string]*TreeNode{}}

	for _, p := range paths {
		current := root
		for _, part := range strings.Split(p, "/") {
			if part == "" {
				continue
			}
			next, ok := current.Children[part]
			if !ok {
				next = &TreeNode{Children: map[string]*TreeNode{}}
				current.Children[part] = next
			}
			current = next
		}
	}

	return root
}

// RenderTree draws the children of node, one per line, in lexicographic
// order. Every line starts with prefix.
func RenderTree(node *TreeNode, prefix string) string {
	var b strings.Builder
	renderTree(&b, node, prefix)
	return b.String()
}

func renderTree(b *strings.Builder, node *TreeNode, prefix string) {
	if node.IsLeaf() {
		return
	}

	names := make([]string, 0, len(node.Children))
	for name := range node.Children {
		names = append(names, name)
	}
	sort.Strings(names)

	for i, name := range names {
		last := i == len(names)-1

		connector, extension := "├── ", "│   "
		if last {
			connector, extension = "└── ", "    "
		}

		b.WriteString(prefix)
		b.WriteString(connector)
		b.WriteString(name)
		b.WriteString("\n")

		if child := node.Children[name]; !child.IsLeaf() {
			renderTree(b, child, prefix+extension)
		}
	}
}
