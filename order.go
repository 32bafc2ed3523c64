package asciidag

import "sort"

// order holds, for each layer, the current left-to-right sequence of entity indices. It is
// separate from layeredDAG.layers so the minimizer can freely permute without disturbing the
// insertion-order record used to seed the sweep.
type order struct {
	ld   *layeredDAG
	rows [][]int // rows[k][i] is the entity at position i of layer k
	pos  []int   // pos[entity] is its position within its own layer
}

// minimizeCrossings computes a horizontal ordering for every layer of ld that is a local minimum
// under median sweeps and adjacent-swap improvement: initialize by insertion order, alternate
// down- and up-sweeps sorting by median predecessor or successor position until the crossing
// count stabilizes, then polish with pairwise adjacent swaps, and finally retry with an adjacent
// layer's order perturbed if a fixpoint still leaves residual crossings.
func minimizeCrossings(ld *layeredDAG) *order {
	o := newOrder(ld)

	o.sweepToFixpoint()
	o.adjacentSwapPass()

	if o.totalCrossings() > 0 {
		for k := range ld.layers {
			before := o.totalCrossings()
			saved := append([]int(nil), o.rows[k]...)
			o.permuteLayer(k)
			o.sweepToFixpoint()
			o.adjacentSwapPass()
			if o.totalCrossings() >= before {
				o.setLayer(k, saved)
				o.sweepToFixpoint()
				o.adjacentSwapPass()
			}
		}
	}

	return o
}

func newOrder(ld *layeredDAG) *order {
	o := &order{ld: ld, rows: make([][]int, len(ld.layers)), pos: make([]int, len(ld.entities))}
	for k, layer := range ld.layers {
		o.rows[k] = append([]int(nil), layer...)
	}
	o.reindex()
	return o
}

func (o *order) reindex() {
	for _, row := range o.rows {
		for i, e := range row {
			o.pos[e] = i
		}
	}
}

func (o *order) setLayer(k int, row []int) {
	o.rows[k] = append([]int(nil), row...)
	for i, e := range o.rows[k] {
		o.pos[e] = i
	}
}

// predecessors returns every entity in the layer above that has an edge into e.
func (o *order) predecessors(e int) []int {
	var preds []int
	for from, tos := range o.ld.out {
		for _, to := range tos {
			if to == e {
				preds = append(preds, from)
			}
		}
	}
	return preds
}

func median(positions []int) float64 {
	if len(positions) == 0 {
		return -1
	}
	sorted := append([]int(nil), positions...)
	sort.Ints(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return float64(sorted[mid])
	}
	if len(sorted) == 2 {
		return float64(sorted[0]+sorted[1]) / 2
	}
	left := sorted[mid-1]
	right := sorted[mid]
	return (float64(left) + float64(right)) / 2
}

// sweepDown reorders layer k+1 by the median position of each entity's predecessors in layer k,
// keeping the current order for entities with no predecessors (waypoints newly introduced at
// the top of a chain never lack one, but an isolated root layer might).
func (o *order) sweepDown(k int) {
	next := o.rows[k+1]
	medians := make(map[int]float64, len(next))
	for _, e := range next {
		var preds []int
		for _, p := range o.predecessors(e) {
			if o.ld.rank[p] == k {
				preds = append(preds, o.pos[p])
			}
		}
		m := median(preds)
		if m < 0 {
			m = float64(o.pos[e])
		}
		medians[e] = m
	}
	o.stableSortByMedian(next, medians)
	o.setLayer(k+1, next)
}

// sweepUp reorders layer k by the median position of each entity's successors in layer k+1.
func (o *order) sweepUp(k int) {
	cur := o.rows[k]
	medians := make(map[int]float64, len(cur))
	for _, e := range cur {
		var succPos []int
		for _, s := range o.ld.out[e] {
			succPos = append(succPos, o.pos[s])
		}
		m := median(succPos)
		if m < 0 {
			m = float64(o.pos[e])
		}
		medians[e] = m
	}
	o.stableSortByMedian(cur, medians)
	o.setLayer(k, cur)
}

func (o *order) stableSortByMedian(row []int, medians map[int]float64) {
	orig := make(map[int]int, len(row))
	for i, e := range row {
		orig[e] = i
	}
	sort.SliceStable(row, func(i, j int) bool {
		mi, mj := medians[row[i]], medians[row[j]]
		if mi != mj {
			return mi < mj
		}
		return orig[row[i]] < orig[row[j]]
	})
}

// sweepToFixpoint alternates down- and up-sweeps until the total crossing count stops improving.
func (o *order) sweepToFixpoint() {
	prev := o.totalCrossings()
	for {
		for k := 0; k < len(o.rows)-1; k++ {
			o.sweepDown(k)
		}
		for k := len(o.rows) - 2; k >= 0; k-- {
			o.sweepUp(k)
		}
		cur := o.totalCrossings()
		if cur >= prev {
			break
		}
		prev = cur
	}
}

// adjacentSwapPass repeatedly swaps neighboring entities within each layer whenever doing so
// strictly reduces the crossing count across the layer's two incident boundaries, until no swap
// helps.
func (o *order) adjacentSwapPass() {
	improved := true
	for improved {
		improved = false
		for k := range o.rows {
			row := o.rows[k]
			for i := 0; i+1 < len(row); i++ {
				before := o.boundaryCrossings(k)
				row[i], row[i+1] = row[i+1], row[i]
				o.pos[row[i]], o.pos[row[i+1]] = i, i+1
				after := o.boundaryCrossings(k)
				if after < before {
					improved = true
				} else {
					row[i], row[i+1] = row[i+1], row[i]
					o.pos[row[i]], o.pos[row[i+1]] = i, i+1
				}
			}
		}
	}
}

// permuteLayer reverses layer k's order, giving the fixpoint sweep a different starting point
// when a straightforward sweep and swap pass leaves residual crossings.
func (o *order) permuteLayer(k int) {
	row := o.rows[k]
	for i, j := 0, len(row)-1; i < j; i, j = i+1, j-1 {
		row[i], row[j] = row[j], row[i]
	}
	o.setLayer(k, row)
}

// boundaryCrossings counts crossings on the boundary above layer k plus the boundary below it.
func (o *order) boundaryCrossings(k int) int {
	n := 0
	if k > 0 {
		n += o.crossingsBetween(k - 1)
	}
	if k+1 < len(o.rows) {
		n += o.crossingsBetween(k)
	}
	return n
}

// crossingsBetween counts crossings between layer k and layer k+1.
func (o *order) crossingsBetween(k int) int {
	type edge struct{ a, b int }
	var edges []edge
	for _, from := range o.rows[k] {
		for _, to := range o.ld.out[from] {
			edges = append(edges, edge{o.pos[from], o.pos[to]})
		}
	}
	n := 0
	for i := range edges {
		for j := i + 1; j < len(edges); j++ {
			a, b := edges[i], edges[j]
			if (a.a < b.a && a.b > b.b) || (a.a > b.a && a.b < b.b) {
				n++
			}
		}
	}
	return n
}

// totalCrossings sums crossingsBetween across every layer boundary.
func (o *order) totalCrossings() int {
	n := 0
	for k := 0; k+1 < len(o.rows); k++ {
		n += o.crossingsBetween(k)
	}
	return n
}
