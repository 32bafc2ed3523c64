package asciidag

import (
	"testing"

	"github.com/teleivo/assertive/assert"
	"github.com/teleivo/assertive/require"

	"github.com/dagview/asciidag/dag"
)

// TestMinimizeCrossingsUntangles orders nodes {1,2,3,4} with edges 1->4, 2->3. Drawn in
// insertion order the edges cross; the minimizer must reorder the second layer so that 1 lines
// up over 4 and 2 over 3.
func TestMinimizeCrossingsUntangles(t *testing.T) {
	d := dag.New()
	n1 := d.AddNode("1")
	n2 := d.AddNode("2")
	n3 := d.AddNode("3")
	n4 := d.AddNode("4")
	d.AddEdge(n1, n4)
	d.AddEdge(n2, n3)

	ld, err := layerDAG(d)
	require.NoError(t, err, "layerDAG()")

	o := minimizeCrossings(ld)

	assert.Equals(t, o.totalCrossings(), 0, "totalCrossings() after minimization")

	top := o.rows[0]
	bottom := o.rows[1]
	assert.Equals(t, len(top), 2, "top layer size")
	assert.Equals(t, len(bottom), 2, "bottom layer size")
	// Whichever order the top ends up in, the bottom layer must mirror it since each top node has
	// exactly one successor and no crossings remain.
	for i, from := range top {
		to := ld.out[from][0]
		assert.Equals(t, bottom[i], to, "bottom[%d] should match top[%d]'s successor", i, i)
	}
}

func TestAdjacentSwapNeverWorsens(t *testing.T) {
	d := dag.New()
	a, b := d.AddNode("a"), d.AddNode("b")
	c, e := d.AddNode("c"), d.AddNode("e")
	d.AddEdge(a, e)
	d.AddEdge(b, c)

	ld, err := layerDAG(d)
	require.NoError(t, err, "layerDAG()")

	o := minimizeCrossings(ld)
	before := o.totalCrossings()
	o.adjacentSwapPass()

	assert.True(t, o.totalCrossings() <= before, "adjacentSwapPass should never increase crossings")
}
