package layout

import (
	"cmp"
	"slices"
)

type direction uint8

const (
	towardIn  direction = iota // average over the layer above
	towardOut                  // average over the layer below
)

// averageX returns the mean x of the given vertices, or false when there
// are none.
func averageX(verts []vertex, ids []int) (float64, bool) {
	if len(ids) == 0 {
		return 0, false
	}
	var sum float64
	for _, id := range ids {
		sum += verts[id].x
	}
	return sum / float64(len(ids)), true
}

// sortLayer returns layer stably sorted by x. Ties keep their order.
func sortLayer(verts []vertex, layer []int) []int {
	sorted := slices.Clone(layer)
	slices.SortStableFunc(sorted, func(p, q int) int { return cmp.Compare(verts[p].x, verts[q].x) })
	return sorted
}

// uncross moves every vertex of the layer to the average x of its
// neighbours in direction dir. Vertices without such neighbours stay put.
func (a *arena) uncross(level int, dir direction) {
	ideal := make([]float64, len(a.layers[level]))
	for i, id := range a.layers[level] {
		v := &a.verts[id]
		nbrs := v.out
		if dir == towardIn {
			nbrs = v.in
		}
		if avg, ok := averageX(a.verts, nbrs); ok {
			ideal[i] = avg
		} else {
			ideal[i] = v.x
		}
	}
	for i, id := range a.layers[level] {
		a.verts[id].x = ideal[i]
	}
}

func (a *arena) sort(level int) {
	a.layers[level] = sortLayer(a.verts, a.layers[level])
}

// spread applies Spread to the layer's current order.
func (a *arena) spread(level int) {
	layer := a.layers[level]
	xs := make([]float64, len(layer))
	widths := make([]float64, len(layer))
	for i, id := range layer {
		xs[i] = a.verts[id].x
		widths[i] = a.verts[id].width
	}
	for i, x := range Spread(xs, widths) {
		a.verts[layer[i]].x = x
	}
}

func (a *arena) sweepUp(from int) {
	for lvl := from; lvl >= 0; lvl-- {
		a.uncross(lvl, towardOut)
		a.sort(lvl)
		a.spread(lvl)
	}
}

func (a *arena) sweepDown(from int) {
	for lvl := from; lvl < len(a.layers); lvl++ {
		a.uncross(lvl, towardIn)
		a.sort(lvl)
		a.spread(lvl)
	}
}

// order runs the crossing-reduction passes: seed the bottom layer, sweep
// up averaging over out-neighbours, re-anchor the top two layers, then
// sweep down averaging over in-neighbours. extra repeats the up/down pair.
func (a *arena) order(extra int) {
	bottom := len(a.layers) - 1
	a.spread(bottom)
	a.sort(bottom)
	a.sweepUp(bottom - 1)

	// The top layer drifts during the upward sweep; pull layer 1 back under
	// it before sweeping down.
	if bottom > 1 {
		a.uncross(1, towardIn)
		a.sort(1)
		a.spread(1)

		a.uncross(0, towardOut)
		a.sort(0)
		a.spread(0)
	}

	a.sweepDown(1)

	for range extra {
		a.sweepUp(bottom - 1)
		a.sweepDown(1)
	}
}
