package tree

import "profview/internal/store"

type EntryKind int

const (
	EntryHeader EntryKind = iota
	EntrySummary
	EntryCollapsed
	EntryRow
)

// VisibleRow is one vertical band of the layout, positioned in content
// coordinates (0 is the top of the first lane, before scrolling).
type VisibleRow struct {
	Node   *Node
	Row    *store.Row
	Kind   EntryKind
	Y      int
	Height int
}

func (entry VisibleRow) Contains(y int) bool {
	return y >= entry.Y && y < entry.Y+entry.Height
}

func (tree *Tree) TotalHeight() int {
	return tree.Height(RootID)
}

// Height of a node in pixels. Heights are cached until the next structural
// or expand change.
func (tree *Tree) Height(id NodeID) int {
	if tree.heightsGen != tree.generation || len(tree.heights) != len(tree.nodes) {
		tree.heights = make([]int, len(tree.nodes))
		for i := range tree.heights {
			tree.heights[i] = -1
		}
		tree.heightsGen = tree.generation
	}
	return tree.height(id)
}

func (tree *Tree) height(id NodeID) int {
	if cached := tree.heights[id]; cached >= 0 {
		return cached
	}
	node := tree.nodes[id]
	total := 0
	switch {
	case id != RootID && !node.Expanded:
		total = tree.metrics.CollapsedHeight
	case node.IsLeaf():
		for _, row := range node.Rows {
			total += tree.rowHeight(row)
		}
	default:
		if id != RootID {
			total = tree.headerHeight(node)
		}
		for _, child := range node.Children {
			total += tree.height(child)
		}
	}
	tree.heights[id] = total
	return total
}

func (tree *Tree) rowHeight(row *store.Row) int {
	return max(1, row.SubRowCount()) * tree.metrics.RowHeight
}

func (tree *Tree) headerHeight(node *Node) int {
	if node.Summarize {
		return tree.metrics.SummaryHeight
	}
	return tree.metrics.HeaderHeight
}

// VisibleRows walks the tree top-down and returns the bands intersecting the
// content range [top, bottom). Subtrees entirely outside the range are
// skipped using cached heights; collapsed nodes are never descended.
func (tree *Tree) VisibleRows(top, bottom int) []VisibleRow {
	tree.Height(RootID)
	var out []VisibleRow
	tree.walk(RootID, 0, top, bottom, &out)
	return out
}

func (tree *Tree) walk(id NodeID, y, top, bottom int, out *[]VisibleRow) int {
	height := tree.height(id)
	if y+height <= top || y >= bottom {
		return y + height
	}
	node := tree.nodes[id]
	emit := func(entry VisibleRow) {
		if entry.Y+entry.Height > top && entry.Y < bottom {
			*out = append(*out, entry)
		}
	}
	if id != RootID && !node.Expanded {
		emit(VisibleRow{Node: node, Kind: EntryCollapsed, Y: y, Height: height})
		return y + height
	}
	if node.IsLeaf() {
		for _, row := range node.Rows {
			rowHeight := tree.rowHeight(row)
			emit(VisibleRow{Node: node, Row: row, Kind: EntryRow, Y: y, Height: rowHeight})
			y += rowHeight
		}
		return y
	}
	if id != RootID {
		kind := EntryHeader
		if node.Summarize {
			kind = EntrySummary
		}
		header := tree.headerHeight(node)
		emit(VisibleRow{Node: node, Kind: kind, Y: y, Height: header})
		y += header
	}
	for _, child := range node.Children {
		y = tree.walk(child, y, top, bottom, out)
		if y >= bottom {
			break
		}
	}
	return y
}
