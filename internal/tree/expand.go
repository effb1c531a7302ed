package tree

import "profview/internal/domain"

// ToggleExpand flips the expand state of a node and returns the new state.
// The root is always expanded.
func (tree *Tree) ToggleExpand(id NodeID) bool {
	node, ok := tree.Node(id)
	if !ok || id == RootID {
		return ok
	}
	node.Expanded = !node.Expanded
	tree.bump()
	return node.Expanded
}

func (tree *Tree) SetExpanded(id NodeID, expanded bool) {
	node, ok := tree.Node(id)
	if !ok || id == RootID || node.Expanded == expanded {
		return
	}
	node.Expanded = expanded
	tree.bump()
}

// ExpandAllOfKind expands every node tagged kind and returns how many matched.
func (tree *Tree) ExpandAllOfKind(kind domain.KindTag) int {
	matched := 0
	changed := false
	for _, node := range tree.nodes[1:] {
		if node.Kind != kind {
			continue
		}
		matched++
		if !node.Expanded {
			node.Expanded = true
			changed = true
		}
	}
	if changed {
		tree.bump()
	}
	return matched
}

// CollapseAll collapses every node below the root.
func (tree *Tree) CollapseAll() {
	for _, node := range tree.nodes[1:] {
		node.Expanded = false
	}
	tree.bump()
}
