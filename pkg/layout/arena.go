package layout

import (
	"cmp"
	"math"
	"slices"
	"unicode/utf8"

	flowerrors "github.com/matzehuels/flowlayout/pkg/errors"
)

type vertexKind uint8

const (
	kindReal vertexKind = iota
	kindDummy
)

// vertex is a real node or a dummy on a long edge. ref indexes the input
// node slice for real vertices and the input edge slice for dummies.
type vertex struct {
	kind   vertexKind
	ref    int
	level  int
	width  float64 // padded for real vertices
	height float64
	x, y   float64
	in     []int
	out    []int
}

// arena owns every vertex of one layout run. Vertices are addressed by
// their index; layers hold those indices in left-to-right order.
type arena struct {
	verts  []vertex
	layers [][]int
	chains [][]int // dummy indices per input edge, nil for direct edges
	real   []int   // vertex index per input node
}

func (a *arena) add(v vertex) int {
	a.verts = append(a.verts, v)
	return len(a.verts) - 1
}

func (a *arena) link(from, to int) {
	a.verts[from].out = append(a.verts[from].out, to)
	a.verts[to].in = append(a.verts[to].in, from)
}

// boxWidth is the unpadded width of n.
func boxWidth(n Node, opts Options) float64 {
	if n.Width > 0 {
		return n.Width
	}
	label := n.Label
	if label == "" {
		label = n.ID
	}
	return float64(utf8.RuneCountInString(label))*opts.CharWidth + opts.LabelPadding
}

func boxHeight(n Node, opts Options) float64 {
	if n.Height > 0 {
		return n.Height
	}
	return opts.DefaultHeight
}

func validSize(v float64) bool {
	return v >= 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}

// validate checks nodes and edges and returns the node index by ID.
func validate(nodes []Node, edges []Edge) (map[string]int, error) {
	index := make(map[string]int, len(nodes))
	for i, n := range nodes {
		if err := flowerrors.ValidateNodeID(n.ID); err != nil {
			return nil, err
		}
		if _, dup := index[n.ID]; dup {
			return nil, flowerrors.New(flowerrors.ErrCodeInvalidInput, "duplicate node id %q", n.ID)
		}
		if err := flowerrors.ValidateLevel(n.ID, n.Level); err != nil {
			return nil, err
		}
		if !validSize(n.Width) || !validSize(n.Height) {
			return nil, flowerrors.New(flowerrors.ErrCodeInvalidInput, "node %q has invalid size %vx%v", n.ID, n.Width, n.Height)
		}
		index[n.ID] = i
	}

	for i, e := range edges {
		from, ok := index[e.From]
		if !ok {
			return nil, flowerrors.New(flowerrors.ErrCodeInvalidGraphReference, "edge %d (%s): unknown source node %q", i, EdgeKey(e.From, e.To), e.From)
		}
		to, ok := index[e.To]
		if !ok {
			return nil, flowerrors.New(flowerrors.ErrCodeInvalidGraphReference, "edge %d (%s): unknown target node %q", i, EdgeKey(e.From, e.To), e.To)
		}
		if nodes[from].Level >= nodes[to].Level {
			return nil, flowerrors.New(flowerrors.ErrCodeNonMonotonicEdge,
				"edge %d (%s): source level %d is not above target level %d", i, EdgeKey(e.From, e.To), nodes[from].Level, nodes[to].Level)
		}
	}
	return index, nil
}

// buildArena groups real vertices into layers and bridges every edge that
// skips levels with a chain of dummies, one per intermediate layer.
func buildArena(nodes []Node, edges []Edge, index map[string]int, opts Options) *arena {
	maxLevel := 0
	for _, n := range nodes {
		maxLevel = max(maxLevel, n.Level)
	}

	a := &arena{
		verts:  make([]vertex, 0, len(nodes)),
		layers: make([][]int, maxLevel+1),
		chains: make([][]int, len(edges)),
		real:   make([]int, len(nodes)),
	}

	seed := make([]int, len(nodes))
	for i := range seed {
		seed[i] = i
	}
	if opts.SortByID {
		slices.SortStableFunc(seed, func(p, q int) int { return cmp.Compare(nodes[p].ID, nodes[q].ID) })
	}

	for _, i := range seed {
		n := nodes[i]
		v := a.add(vertex{
			kind:   kindReal,
			ref:    i,
			level:  n.Level,
			width:  boxWidth(n, opts) + opts.HorizontalMargin,
			height: boxHeight(n, opts),
		})
		a.real[i] = v
		a.layers[n.Level] = append(a.layers[n.Level], v)
	}

	for ei, e := range edges {
		src, dst := a.real[index[e.From]], a.real[index[e.To]]
		last := src
		for lvl := a.verts[src].level + 1; lvl < a.verts[dst].level; lvl++ {
			d := a.add(vertex{
				kind:   kindDummy,
				ref:    ei,
				level:  lvl,
				width:  opts.DummySize,
				height: opts.DummySize,
				x:      a.verts[last].x,
			})
			a.link(last, d)
			a.layers[lvl] = append(a.layers[lvl], d)
			a.chains[ei] = append(a.chains[ei], d)
			last = d
		}
		a.link(last, dst)
	}
	return a
}

func (a *arena) dummyCount() int {
	n := 0
	for _, v := range a.verts {
		if v.kind == kindDummy {
			n++
		}
	}
	return n
}
