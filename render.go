// Package asciidag renders directed acyclic graphs as ASCII art and parses such drawings back
// into graphs, forming an approximate round trip: a graph drawn by [Render] and read back by
// [Parse] is isomorphic to the original, up to node numbering.
package asciidag

import "github.com/dagview/asciidag/dag"

// Render lays d out and draws it onto an ASCII canvas, returning the finished drawing with no
// leading newline. It assigns every node a layer by longest path from a source, reorders each
// layer to minimize edge crossings, places nodes and waypoints on a grid, and routes every edge
// through the grid with the edge router ([edgeRouter]).
func Render(d *dag.DAG) (string, error) {
	ld, err := layerDAG(d)
	if err != nil {
		return "", err
	}
	ord := minimizeCrossings(ld)
	l, err := placeLayout(ld, ord)
	if err != nil {
		return "", err
	}
	return l.canvas.Render(), nil
}

// Parse reads an ASCII drawing and reconstructs the [dag.DAG] it depicts. See [Parser] for the
// scanning and reconstruction rules.
func Parse(text string) (*dag.DAG, error) {
	p, err := NewParser(text)
	if err != nil {
		return nil, &ParseError{Code: ParseErrorUnexpectedGlyph, Msg: err.Error()}
	}
	return p.Parse()
}
