// Package dag provides the value types for directed acyclic graphs rendered and parsed by
// [github.com/dagview/asciidag].
package dag

import (
	"fmt"
	"sort"
	"strings"
)

// Node is a single vertex of a [DAG]. Its Label is any run of printable characters excluding the
// reserved glyphs '|', '/', '\\', 'X', space and newline. Successors lists, in order, the indices
// of the nodes this node has an edge to.
type Node struct {
	Label      string
	Successors []int
	// Attrs carries arbitrary key/value properties alongside a node. Attrs are never drawn onto
	// the ASCII canvas; they surface only through [github.com/dagview/asciidag.ToDot].
	Attrs map[string]string
}

// DAG is an ordered sequence of [Node]. By convention the root is node 0, but this is not
// enforced: a DAG may have several sources or none reachable from index 0.
type DAG struct {
	Nodes []Node
}

// New returns an empty DAG.
func New() *DAG {
	return &DAG{}
}

// AddNode appends a node with the given label and returns its index.
func (d *DAG) AddNode(label string) int {
	d.Nodes = append(d.Nodes, Node{Label: label})
	return len(d.Nodes) - 1
}

// AddEdge records an edge from -> to. It is a no-op if the edge already exists. Panics if either
// index is out of range; callers are expected to validate indices that come from untrusted input
// before calling this.
func (d *DAG) AddEdge(from, to int) {
	if from < 0 || from >= len(d.Nodes) || to < 0 || to >= len(d.Nodes) {
		panic(fmt.Sprintf("dag: AddEdge(%d, %d) out of range for %d nodes", from, to, len(d.Nodes)))
	}
	for _, s := range d.Nodes[from].Successors {
		if s == to {
			return
		}
	}
	d.Nodes[from].Successors = append(d.Nodes[from].Successors, to)
}

// NumNodes returns the number of nodes in the DAG.
func (d *DAG) NumNodes() int {
	return len(d.Nodes)
}

// Edges returns every (from, to) pair in the DAG, in node-major, successor order.
func (d *DAG) Edges() [][2]int {
	var edges [][2]int
	for from, n := range d.Nodes {
		for _, to := range n.Successors {
			edges = append(edges, [2]int{from, to})
		}
	}
	return edges
}

// String renders a debug representation of the DAG, one "index:label -> successor labels" line
// per node.
func (d *DAG) String() string {
	var sb strings.Builder
	for i, n := range d.Nodes {
		fmt.Fprintf(&sb, "%d:%s ->", i, n.Label)
		for _, s := range n.Successors {
			fmt.Fprintf(&sb, " %s", d.Nodes[s].Label)
		}
		sb.WriteRune('\n')
	}
	return sb.String()
}

// IsAcyclic reports whether the DAG has no cycles, i.e. whether a topological ordering exists.
func (d *DAG) IsAcyclic() bool {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make([]int, len(d.Nodes))
	var visit func(int) bool
	visit = func(n int) bool {
		switch state[n] {
		case visiting:
			return false
		case done:
			return true
		}
		state[n] = visiting
		for _, s := range d.Nodes[n].Successors {
			if !visit(s) {
				return false
			}
		}
		state[n] = done
		return true
	}
	for n := range d.Nodes {
		if state[n] == unvisited && !visit(n) {
			return false
		}
	}
	return true
}

// IsomorphicTo reports whether d and o represent the same graph up to node renumbering: every
// node in d has a node in o with the same label and the same set of successor labels, and vice
// versa. It requires labels to be unique within each DAG and reports false if either DAG repeats
// a label; the library does not enforce uniqueness elsewhere, but the round-trip property only
// holds for callers who supply unique labels.
func (d *DAG) IsomorphicTo(o *DAG) bool {
	if len(d.Nodes) != len(o.Nodes) {
		return false
	}

	dByLabel := make(map[string]int, len(d.Nodes))
	for i, n := range d.Nodes {
		if _, dup := dByLabel[n.Label]; dup {
			return false
		}
		dByLabel[n.Label] = i
	}
	oByLabel := make(map[string]int, len(o.Nodes))
	for i, n := range o.Nodes {
		if _, dup := oByLabel[n.Label]; dup {
			return false
		}
		oByLabel[n.Label] = i
	}
	for label := range dByLabel {
		if _, ok := oByLabel[label]; !ok {
			return false
		}
	}

	successorLabels := func(g *DAG, byLabel map[string]int, n int) []string {
		labels := make([]string, len(g.Nodes[n].Successors))
		for i, s := range g.Nodes[n].Successors {
			labels[i] = g.Nodes[s].Label
		}
		sort.Strings(labels)
		return labels
	}

	for label, di := range dByLabel {
		oi := oByLabel[label]
		dSucc := successorLabels(d, dByLabel, di)
		oSucc := successorLabels(o, oByLabel, oi)
		if len(dSucc) != len(oSucc) {
			return false
		}
		for i := range dSucc {
			if dSucc[i] != oSucc[i] {
				return false
			}
		}
	}
	return true
}
