package layout

import "math"

// spaceVertically assigns each layer a y. Layer 0 sits at 0; every later
// layer moves down by the larger of its steepness term (widest horizontal
// run to an in-neighbour, scaled by DegreeRatio) and the minimum gap plus
// half the tallest box of both layers. Empty layers still take a step.
func (a *arena) spaceVertically(opts Options) {
	y := 0.0
	prevMax := minLayerHeight
	for _, id := range a.layers[0] {
		a.verts[id].y = y
		prevMax = max(prevMax, a.verts[id].height)
	}

	for lvl := 1; lvl < len(a.layers); lvl++ {
		layer := a.layers[lvl]
		maxDelta := 0.0
		layerMax := minLayerHeight
		for _, id := range layer {
			v := &a.verts[id]
			layerMax = max(layerMax, v.height)
			for _, up := range v.in {
				maxDelta = max(maxDelta, math.Abs(a.verts[up].x-v.x))
			}
		}

		steep := maxDelta * opts.DegreeRatio
		gap := opts.MinVerticalGap + prevMax/2 + layerMax/2
		prevMax = layerMax

		y += max(steep, gap)
		for _, id := range layer {
			a.verts[id].y = y
		}
	}
}
