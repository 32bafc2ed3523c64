package asciidag

import (
	"sort"

	"github.com/dagview/asciidag/token"
)

// maxLayoutAttempts bounds how often placeLayout retries with a roomier grid before giving up.
const maxLayoutAttempts = 5

// layout is the result of mapping a crossing-minimized layeredDAG onto canvas coordinates:
// where every entity sits, and the finished canvas once every edge has been routed onto it.
type layout struct {
	canvas    *Canvas
	pos       []token.Position // pos[entity] is the entity's own position (top-left of its label)
	anchorCol []int            // anchorCol[entity] is the column edges attach to: the label's middle
}

// entityWidth returns how many columns e occupies: its label length for a node, or 1 for a
// waypoint, which draws no label and passes an edge through a single column.
func entityWidth(ld *layeredDAG, e int) int {
	ent := ld.entities[e]
	if ent.kind == entityWaypoint {
		return 1
	}
	w := len([]rune(ld.src.Nodes[ent.node].Label))
	if w == 0 {
		w = 1
	}
	return w
}

// placeLayout maps the ordered layers onto a canvas and routes every edge. Whether a grid is
// roomy enough for all its edges only becomes apparent while routing, so it starts from the
// tightest spacing and retries with wider columns, taller gaps and more margin until routing
// succeeds or the attempt budget runs out.
func placeLayout(ld *layeredDAG, ord *order) (*layout, error) {
	var lastErr error
	for attempt := 0; attempt < maxLayoutAttempts; attempt++ {
		l, err := tryPlaceLayout(ld, ord, attempt)
		if err == nil {
			return l, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

// tryPlaceLayout assigns every entity a column within its layer (left to right, separated by
// 1+attempt blank columns) and every layer a row (separated by a gap wide enough for the
// sharpest diagonal drift any edge of that boundary requires, plus the attempt's extra slack),
// then draws node labels, stamps waypoints, and routes every edge.
func tryPlaceLayout(ld *layeredDAG, ord *order, attempt int) (*layout, error) {
	numLayers := len(ord.rows)
	spacing := 1 + attempt
	margin := 1 + attempt

	startCol := make([][]int, numLayers) // startCol[k][i] is the 0-based start column of rows[k][i]
	anchor := make([]int, len(ld.entities))
	layerWidth := make([]int, numLayers)
	for k, row := range ord.rows {
		col := margin
		starts := make([]int, len(row))
		for i, e := range row {
			if i > 0 {
				col += spacing
			}
			starts[i] = col
			w := entityWidth(ld, e)
			anchor[e] = col + (w-1)/2
			col += w
		}
		startCol[k] = starts
		layerWidth[k] = col
	}

	maxWidth := 1
	for _, w := range layerWidth {
		if w > maxWidth {
			maxWidth = w
		}
	}
	maxWidth += margin

	layerRow := make([]int, numLayers)
	for k := 1; k < numLayers; k++ {
		gap := 1
		for _, from := range ord.rows[k-1] {
			for _, to := range ld.out[from] {
				// A diagonal run of d rows drifts d+1 columns, so drift d fits in d+1 rows (one
				// row bends straight); the attempt slack buys room for detours around obstacles.
				if d := abs(anchor[to] - anchor[from]); d > 0 && d+1+attempt > gap {
					gap = d + 1 + attempt
				}
			}
		}
		layerRow[k] = layerRow[k-1] + 1 + gap
	}
	height := layerRow[numLayers-1] + 1

	c := NewCanvas(height, maxWidth, ' ')
	pos := make([]token.Position, len(ld.entities))
	for k, row := range ord.rows {
		for i, e := range row {
			p := token.Position{Line: layerRow[k] + 1, Column: startCol[k][i] + 1}
			pos[e] = p
			if ld.entities[e].kind == entityNode {
				writeLabel(c, p, ld.src.Nodes[ld.entities[e].node].Label)
			} else {
				// A waypoint draws a plain '|': it accepts an edge arriving at any angle and
				// releases it at any angle, so multi-layer edges may bend at each waypoint.
				c.Set(p, '|')
			}
		}
	}

	l := &layout{canvas: c, pos: pos, anchorCol: anchor}
	if err := l.routeEdges(ld); err != nil {
		return nil, err
	}
	return l, nil
}

// writeLabel writes each rune of label starting at p, left to right.
func writeLabel(c *Canvas, p token.Position, label string) {
	col := p.Column
	for _, r := range label {
		c.Set(token.Position{Line: p.Line, Column: col}, r)
		col++
	}
}

// anchorPos returns the position the router should treat as e's endpoint: its top row, at its
// anchor column.
func (l *layout) anchorPos(e int) token.Position {
	return token.Position{Line: l.pos[e].Line, Column: l.anchorCol[e] + 1}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// edgeEnd identifies one end of an expanded edge by the entity on the other side.
type edgeEnd struct{ self, other int }

// assignEdgeDirections picks, for every expanded edge, the exit direction at its tail and the
// entry direction at its head. A node column releases (and receives) at most one edge per
// direction — '/' to the left, '|' below, '\' to the right — so when several edges share a side
// the nearer ones are handed the straighter glyphs. More than three edges at one end cannot
// share a single-column anchor at all and is reported as a routing failure; the drawing format
// imposes the same bound when parsing.
func (l *layout) assignEdgeDirections(ld *layeredDAG) (map[edgeEnd]Direction, map[edgeEnd]Direction, error) {
	exits := make(map[edgeEnd]Direction)
	entries := make(map[edgeEnd]Direction)

	ins := make([][]int, len(ld.entities))
	for from, tos := range ld.out {
		for _, to := range tos {
			ins[to] = append(ins[to], from)
		}
	}

	for self := range ld.entities {
		for _, entry := range []bool{false, true} {
			others := ld.out[self]
			if entry {
				others = ins[self]
			}
			if len(others) == 0 {
				continue
			}
			if len(others) > 3 {
				id := -1
				if ld.entities[self].kind == entityNode {
					id = ld.entities[self].node
				}
				return nil, nil, &RenderError{
					Code:   RenderErrorEdgeRoutingFailed,
					Msg:    "a node anchors at most three edges per layer boundary, one per direction",
					NodeID: id,
				}
			}
			sorted := append([]int(nil), others...)
			sort.SliceStable(sorted, func(i, j int) bool { return l.anchorCol[sorted[i]] < l.anchorCol[sorted[j]] })
			dirs := l.slotDirections(self, sorted, entry)
			for i, other := range sorted {
				if entry {
					entries[edgeEnd{self: self, other: other}] = dirs[i]
				} else {
					exits[edgeEnd{self: self, other: other}] = dirs[i]
				}
			}
		}
	}
	return exits, entries, nil
}

// slotDirections resolves the direction of each edge at one entity, with the far ends sorted by
// anchor column. Directions describe the direction of travel, so for entries (far end above) the
// natural direction runs from the far anchor toward self. Ties on one side degrade the nearer
// edge to the next straighter slot.
func (l *layout) slotDirections(self int, others []int, entry bool) []Direction {
	naturals := make([]Direction, len(others))
	for i, other := range others {
		if entry {
			naturals[i] = directionTo(l.anchorCol[other], l.anchorCol[self])
		} else {
			naturals[i] = directionTo(l.anchorCol[self], l.anchorCol[other])
		}
	}
	switch len(naturals) {
	case 1:
		return naturals
	case 2:
		if naturals[0] == naturals[1] {
			if entry {
				// Far ends sorted left to right: the leftmost keeps its slant, the nearer one
				// arrives vertically (and mirrored for two edges from the right).
				if naturals[0] == Right {
					return []Direction{Right, Straight}
				}
				return []Direction{Straight, Left}
			}
			if naturals[0] == Right {
				return []Direction{Straight, Right}
			}
			return []Direction{Left, Straight}
		}
		return naturals
	default:
		if entry {
			return []Direction{Right, Straight, Left}
		}
		return []Direction{Left, Straight, Right}
	}
}

// routeEdges draws every expanded edge of ld in deterministic order — layer-major, then by tail
// column within the layer — so the set of placed glyphs, and thus every collision outcome, is
// reproducible across runs.
func (l *layout) routeEdges(ld *layeredDAG) error {
	exits, entries, err := l.assignEdgeDirections(ld)
	if err != nil {
		return err
	}

	for k := 0; k < len(ld.layers); k++ {
		tails := append([]int(nil), ld.layers[k]...)
		sort.SliceStable(tails, func(i, j int) bool { return l.anchorCol[tails[i]] < l.anchorCol[tails[j]] })
		for _, from := range tails {
			for _, to := range ld.out[from] {
				r := edgeRouter{
					canvas:       l.canvas,
					from:         l.anchorPos(from),
					to:           l.anchorPos(to),
					fromDir:      exits[edgeEnd{self: from, other: to}],
					toDir:        entries[edgeEnd{self: to, other: from}],
					fromWaypoint: ld.entities[from].kind == entityWaypoint,
					toWaypoint:   ld.entities[to].kind == entityWaypoint,
				}
				if !r.route() {
					id := -1
					if ld.entities[from].kind == entityNode {
						id = ld.entities[from].node
					}
					return &RenderError{
						Code:   RenderErrorEdgeRoutingFailed,
						Msg:    "router could not draw a path without colliding with an obstacle",
						NodeID: id,
					}
				}
			}
		}
	}
	return nil
}

// directionTo reports the natural [Direction] from column `from` to column `to`: Left if the
// target is left of the source, Right if right, Straight if the columns match.
func directionTo(from, to int) Direction {
	switch {
	case to < from:
		return Left
	case to > from:
		return Right
	default:
		return Straight
	}
}
