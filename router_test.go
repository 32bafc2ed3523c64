package asciidag

import (
	"testing"

	"github.com/teleivo/assertive/assert"

	"github.com/dagview/asciidag/token"
)

// TestRouteEdgeStraightDown draws the simplest edge: a vertical run between two endpoints in
// the same column.
func TestRouteEdgeStraightDown(t *testing.T) {
	c := CanvasFromString("\n.\n \n \n.\n")
	from := token.Position{Line: 1, Column: 1}
	to := token.Position{Line: 4, Column: 1}

	ok := routeEdge(c, from, Straight, to, Straight)

	assert.True(t, ok, "routeEdge(Straight, Straight)")
	assert.Equals(t, c.Get(token.Position{Line: 2, Column: 1}), '|', "row 2")
	assert.Equals(t, c.Get(token.Position{Line: 3, Column: 1}), '|', "row 3")
}

// TestRouteEdgeDiagonal draws a pure three-row diagonal run, one column per row.
func TestRouteEdgeDiagonal(t *testing.T) {
	c := NewCanvas(5, 5, ' ')
	from := token.Position{Line: 1, Column: 5}
	to := token.Position{Line: 5, Column: 1}

	ok := routeEdge(c, from, Left, to, Left)

	assert.True(t, ok, "routeEdge(Left, Left)")
	assert.Equals(t, c.Get(token.Position{Line: 2, Column: 4}), '/', "row 2")
	assert.Equals(t, c.Get(token.Position{Line: 3, Column: 3}), '/', "row 3")
	assert.Equals(t, c.Get(token.Position{Line: 4, Column: 2}), '/', "row 4")
}

// TestRouteEdgeInfeasibleDirection pins a Right exit onto a column delta that can only be
// realized by going left.
func TestRouteEdgeInfeasibleDirection(t *testing.T) {
	c := NewCanvas(3, 3, ' ')
	from := token.Position{Line: 1, Column: 2}
	to := token.Position{Line: 3, Column: 1}

	before := c.Render()
	ok := routeEdge(c, from, Right, to, Right)

	assert.False(t, ok, "routeEdge(Right, Right) with a delta requiring Left")
	assert.Equals(t, c.Render(), before, "canvas must be unchanged on failure")
}

func TestRouteEdgeUpgradesCrossingToX(t *testing.T) {
	c := NewCanvas(5, 5, ' ')
	ok := routeEdge(c, token.Position{Line: 1, Column: 1}, Right, token.Position{Line: 5, Column: 5}, Right)
	assert.True(t, ok, "seed '\\' run")

	ok = routeEdge(c, token.Position{Line: 1, Column: 5}, Left, token.Position{Line: 5, Column: 1}, Left)

	assert.True(t, ok, "crossing '/' run over '\\' run")
	assert.Equals(t, c.Get(token.Position{Line: 3, Column: 3}), 'X', "center cell should be upgraded to X")
	assert.Equals(t, c.Get(token.Position{Line: 2, Column: 2}), '\\', "seed run keeps its glyphs above the crossing")
	assert.Equals(t, c.Get(token.Position{Line: 2, Column: 4}), '/', "crossing run keeps its glyphs above the crossing")
}

func TestRouteEdgeSingleRowMismatch(t *testing.T) {
	c := NewCanvas(2, 2, ' ')

	ok := routeEdge(c, token.Position{Line: 1, Column: 1}, Left, token.Position{Line: 2, Column: 1}, Right)

	assert.False(t, ok, "single-row route whose enter/exit directions disagree must fail")
}
