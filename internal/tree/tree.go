// Package tree is the hierarchical lane structure of a profile: machines,
// kinds and units stored in an arena addressed by NodeID, with expand state
// and a vertical layout derived from it.
package tree

import (
	"strings"

	"profview/internal/domain"
	"profview/internal/store"
)

type NodeID int

const (
	RootID NodeID = 0
	NoNode NodeID = -1
)

// Node is either a container (children, no rows) or a leaf (rows, no
// children). Summarizable containers draw a utilization header when expanded.
type Node struct {
	ID        NodeID
	Name      string
	Kind      domain.KindTag
	Depth     int
	Parent    NodeID
	Children  []NodeID
	Rows      []*store.Row
	Summarize bool
	Expanded  bool
}

func (node *Node) IsLeaf() bool {
	return len(node.Children) == 0 && len(node.Rows) > 0
}

// Metrics are the pixel heights used for vertical layout.
type Metrics struct {
	RowHeight       int
	CollapsedHeight int
	SummaryHeight   int
	HeaderHeight    int
}

func DefaultMetrics() Metrics {
	return Metrics{RowHeight: 1, CollapsedHeight: 2, SummaryHeight: 1, HeaderHeight: 1}
}

type Tree struct {
	nodes      []*Node
	lookup     map[NodeID]map[string]NodeID
	metrics    Metrics
	generation uint64
	heightsGen uint64
	heights    []int
}

func New(metrics Metrics) *Tree {
	if metrics.RowHeight <= 0 {
		metrics.RowHeight = 1
	}
	if metrics.CollapsedHeight <= 0 {
		metrics.CollapsedHeight = 1
	}
	if metrics.SummaryHeight <= 0 {
		metrics.SummaryHeight = 1
	}
	if metrics.HeaderHeight <= 0 {
		metrics.HeaderHeight = 1
	}
	root := &Node{ID: RootID, Name: "root", Kind: domain.KindRoot, Depth: -1, Parent: NoNode, Expanded: true}
	return &Tree{
		nodes:      []*Node{root},
		lookup:     make(map[NodeID]map[string]NodeID),
		metrics:    metrics,
		generation: 1,
	}
}

type BuildOptions struct {
	KindLevel int
	Metrics   Metrics
	Styles    *domain.StyleTable
}

// Build creates one node per lane path prefix and attaches every row of the
// store to the node named by its full lane path.
func Build(st *store.Store, opts BuildOptions) *Tree {
	tree := New(opts.Metrics)
	styles := opts.Styles
	if styles == nil {
		styles = domain.DefaultStyleTable()
	}
	for _, row := range st.Rows() {
		parent := RootID
		for depth, name := range row.Lane {
			kind := row.Kind
			if depth < opts.KindLevel {
				kind = domain.KindGroup
				if depth == 0 {
					kind = domain.KindMachine
				}
			}
			parent = tree.Add(parent, name, kind)
		}
		tree.AttachRow(parent, row)
	}
	tree.Normalize()
	for _, node := range tree.nodes[1:] {
		if len(node.Children) > 0 {
			node.Summarize = styles.Lookup(node.Kind).Summarize
		}
	}
	tree.bump()
	return tree
}

// Add returns the child of parent with the given name, creating it if needed.
func (tree *Tree) Add(parent NodeID, name string, kind domain.KindTag) NodeID {
	children, ok := tree.lookup[parent]
	if !ok {
		children = make(map[string]NodeID)
		tree.lookup[parent] = children
	}
	if id, ok := children[name]; ok {
		return id
	}
	parentNode := tree.nodes[parent]
	id := NodeID(len(tree.nodes))
	tree.nodes = append(tree.nodes, &Node{
		ID:     id,
		Name:   name,
		Kind:   kind,
		Depth:  parentNode.Depth + 1,
		Parent: parent,
	})
	parentNode.Children = append(parentNode.Children, id)
	children[name] = id
	tree.bump()
	return id
}

func (tree *Tree) AttachRow(id NodeID, row *store.Row) {
	node, ok := tree.Node(id)
	if !ok || id == RootID {
		return
	}
	node.Rows = append(node.Rows, row)
	tree.bump()
}

// Normalize moves rows of nodes that also have children into a "self" leaf
// so every node is either a container or a leaf. A lane already named
// "self" keeps its own rows and receives the parent's.
func (tree *Tree) Normalize() {
	count := len(tree.nodes)
	for i := 0; i < count; i++ {
		node := tree.nodes[i]
		if len(node.Children) == 0 || len(node.Rows) == 0 {
			continue
		}
		rows := node.Rows
		node.Rows = nil
		self := tree.Add(node.ID, "self", node.Kind)
		tree.nodes[self].Rows = append(tree.nodes[self].Rows, rows...)
	}
}

func (tree *Tree) bump() {
	tree.generation++
}

func (tree *Tree) Generation() uint64 {
	return tree.generation
}

func (tree *Tree) Metrics() Metrics {
	return tree.metrics
}

func (tree *Tree) Len() int {
	return len(tree.nodes)
}

func (tree *Tree) Root() *Node {
	return tree.nodes[RootID]
}

func (tree *Tree) Node(id NodeID) (*Node, bool) {
	if id < 0 || int(id) >= len(tree.nodes) {
		return nil, false
	}
	return tree.nodes[id], true
}

// Path returns the lane names from the top level down to id.
func (tree *Tree) Path(id NodeID) []string {
	var path []string
	for id != RootID && id != NoNode {
		node, ok := tree.Node(id)
		if !ok {
			break
		}
		path = append([]string{node.Name}, path...)
		id = node.Parent
	}
	return path
}

func (tree *Tree) LongName(id NodeID) string {
	return strings.Join(tree.Path(id), " / ")
}

// Kinds lists the distinct lane kinds in first-seen order.
func (tree *Tree) Kinds() []domain.KindTag {
	seen := make(map[domain.KindTag]bool)
	var kinds []domain.KindTag
	for _, node := range tree.nodes {
		switch node.Kind {
		case domain.KindRoot, domain.KindMachine, domain.KindGroup:
			continue
		}
		if !seen[node.Kind] {
			seen[node.Kind] = true
			kinds = append(kinds, node.Kind)
		}
	}
	return kinds
}

// RowsUnder collects the rows of every leaf in the subtree rooted at id.
func (tree *Tree) RowsUnder(id NodeID) []*store.Row {
	node, ok := tree.Node(id)
	if !ok {
		return nil
	}
	rows := append([]*store.Row{}, node.Rows...)
	for _, child := range node.Children {
		rows = append(rows, tree.RowsUnder(child)...)
	}
	return rows
}
