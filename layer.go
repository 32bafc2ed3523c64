package asciidag

import (
	"github.com/dagview/asciidag/dag"
	"github.com/dagview/asciidag/internal/assert"
)

// entityKind tags whether a layered entity is one of the caller's nodes or a synthetic waypoint
// inserted so that every edge spans exactly one layer.
type entityKind int

const (
	entityNode entityKind = iota
	entityWaypoint
)

// entity is a single member of a layer: either a real node (node holds its index into the source
// DAG) or a waypoint (node is unused).
type entity struct {
	kind entityKind
	node int
}

// label returns the text the entity draws on the canvas: the node's label for a real node, or
// the empty string for a waypoint, which occupies a single column with no text.
func (e entity) label(d *dag.DAG) string {
	if e.kind == entityWaypoint {
		return ""
	}
	return d.Nodes[e.node].Label
}

// layeredDAG is the source DAG after rank assignment and waypoint insertion: every edge listed
// in out connects an entity in layer k to one in layer k+1.
type layeredDAG struct {
	src      *dag.DAG
	entities []entity
	layers   [][]int // layers[k] holds indices into entities, in insertion order
	rank     []int   // rank[entityIdx] == layer index holding that entity
	out      [][]int // out[entityIdx] -> successor entity indices, one layer down
}

// layerDAG assigns every node of d a layer equal to its longest-path distance from a source,
// then inserts waypoint entities on every edge that would otherwise span more than one layer.
// It returns a [RenderError] with code [RenderErrorCycleDetected] if the relaxation does not
// converge within |V|+1 rounds, which the [dag.DAG] invariant of acyclicity should make
// impossible.
func layerDAG(d *dag.DAG) (*layeredDAG, error) {
	n := len(d.Nodes)
	rank := make([]int, n)

	converged := false
	for round := 0; round <= n; round++ {
		changed := false
		for u, node := range d.Nodes {
			for _, v := range node.Successors {
				if rank[v] < rank[u]+1 {
					rank[v] = rank[u] + 1
					changed = true
				}
			}
		}
		if !changed {
			converged = true
			break
		}
	}
	if !converged {
		return nil, &RenderError{
			Code:   RenderErrorCycleDetected,
			Msg:    "layer assignment did not converge; the DAG is not acyclic",
			NodeID: -1,
		}
	}

	ld := &layeredDAG{src: d}
	nodeEntity := make([]int, n)
	maxRank := 0
	for u := range d.Nodes {
		if rank[u] > maxRank {
			maxRank = rank[u]
		}
	}
	ld.layers = make([][]int, maxRank+1)
	for u := range d.Nodes {
		idx := ld.addEntity(entity{kind: entityNode, node: u}, rank[u])
		nodeEntity[u] = idx
	}

	for u, node := range d.Nodes {
		for _, v := range node.Successors {
			ld.addEdge(nodeEntity[u], rank[u], nodeEntity[v], rank[v])
		}
	}

	ld.rank = make([]int, len(ld.entities))
	for k, es := range ld.layers {
		for _, e := range es {
			ld.rank[e] = k
		}
	}
	return ld, nil
}

// addEntity appends e to layer k and returns its index.
func (ld *layeredDAG) addEntity(e entity, k int) int {
	idx := len(ld.entities)
	ld.entities = append(ld.entities, e)
	ld.layers[k] = append(ld.layers[k], idx)
	ld.out = append(ld.out, nil)
	return idx
}

// addEdge connects entity from (at layer fromRank) to entity to (at layer toRank), inserting one
// waypoint per intermediate layer so the resulting chain spans exactly one layer per hop.
func (ld *layeredDAG) addEdge(from, fromRank, to, toRank int) {
	assert.That(toRank > fromRank, "addEdge: to-rank %d must exceed from-rank %d", toRank, fromRank)

	cur := from
	for k := fromRank + 1; k < toRank; k++ {
		wp := ld.addEntity(entity{kind: entityWaypoint}, k)
		ld.out[cur] = append(ld.out[cur], wp)
		cur = wp
	}
	ld.out[cur] = append(ld.out[cur], to)
}

// numLayers returns the number of layers, including any that hold only waypoints.
func (ld *layeredDAG) numLayers() int { return len(ld.layers) }
