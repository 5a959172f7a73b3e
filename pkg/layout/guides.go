package layout

import "github.com/matzehuels/flowlayout/pkg/dag"

// boundsMargin is the half-size of the initial box placed around the
// first node before every node extends it.
const boundsMargin = 10.0

// guides turns every dummy chain into waypoints. Where the path bends (the
// dummy lies strictly on the same side of both its predecessor and its
// successor) a second point CornerGap lower is added so the line turns
// below the corner instead of cutting across it.
func (a *arena) guides(edges []Edge, opts Options) [][]Point {
	out := make([][]Point, len(edges))
	for ei := range edges {
		chain := a.chains[ei]
		if len(chain) == 0 {
			continue
		}
		last := chain[len(chain)-1]
		src := a.verts[chain[0]].in[0]
		dst := a.verts[last].out[0]

		prevX := a.verts[src].x
		pts := make([]Point, 0, len(chain))
		for j, id := range chain {
			p := Point{X: a.verts[id].x, Y: a.verts[id].y}
			pts = append(pts, p)

			nextX := a.verts[dst].x
			if j < len(chain)-1 {
				nextX = a.verts[chain[j+1]].x
			}
			if p.X != prevX && p.X != nextX && (p.X > prevX) == (p.X > nextX) {
				pts = append(pts, Point{X: p.X, Y: p.Y + opts.CornerGap})
			}
			prevX = p.X
		}
		out[ei] = pts
	}
	return out
}

// bounds returns the box enclosing every node, seeded with a small box
// around the first one. An empty layout has zero bounds.
func bounds(positions []Position) Bounds {
	if len(positions) == 0 {
		return Bounds{}
	}
	first := positions[0]
	b := Bounds{
		MinX: first.X - boundsMargin,
		MinY: first.Y - boundsMargin,
		MaxX: first.X + boundsMargin,
		MaxY: first.Y + boundsMargin,
	}
	for _, p := range positions {
		b.MinX = min(b.MinX, p.X-p.Width/2)
		b.MaxX = max(b.MaxX, p.X+p.Width/2)
		b.MinY = min(b.MinY, p.Y-p.Height/2)
		b.MaxY = max(b.MaxY, p.Y+p.Height/2)
	}
	return b
}

// crossings counts segment crossings between every pair of adjacent
// layers in the final order.
func (a *arena) crossings() int {
	widest := 0
	for _, layer := range a.layers {
		widest = max(widest, len(layer))
	}
	ws := dag.NewCrossingWorkspace(widest)

	pos := make([]int, len(a.verts))
	for _, layer := range a.layers {
		for i, id := range layer {
			pos[id] = i
		}
	}

	total := 0
	for lvl := 0; lvl+1 < len(a.layers); lvl++ {
		upper, lower := a.layers[lvl], a.layers[lvl+1]
		if len(upper) == 0 || len(lower) == 0 {
			continue
		}
		edges := make([][]int, len(upper))
		for i, id := range upper {
			for _, child := range a.verts[id].out {
				edges[i] = append(edges[i], pos[child])
			}
		}
		total += dag.CountCrossingsIdx(edges, dag.Identity(len(upper)), dag.Identity(len(lower)), ws)
	}
	return total
}
