package layout

import "github.com/matzehuels/flowlayout/pkg/dag"

// EdgeKey returns the lookup key for the edge from→to.
func EdgeKey(from, to string) string { return from + ">>" + to }

// Result is a computed layout. Nodes and Guides are parallel to the input
// node and edge slices passed to Compute.
type Result struct {
	Nodes  []Position
	Guides [][]Point // nil entry for an edge between adjacent levels
	Bounds Bounds
	Stats  Stats

	ids    []string
	levels []int
	edges  []Edge
	index  map[string]int
}

// Compute lays out a levelled graph. Every edge must point from a lower
// level to a strictly higher one; edges may skip levels. The result is
// fully determined by the input order of nodes and edges and opts.
//
// Errors carry a pkg/errors code: INVALID_INPUT for bad node IDs, sizes
// or levels, INVALID_GRAPH_REFERENCE for edges naming unknown nodes,
// NON_MONOTONIC_EDGE for edges that do not descend, and INVALID_CONFIG
// for bad options.
func Compute(nodes []Node, edges []Edge, opts Options) (*Result, error) {
	opts = opts.WithDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	index, err := validate(nodes, edges)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Nodes:  make([]Position, len(nodes)),
		Guides: make([][]Point, len(edges)),
		ids:    make([]string, len(nodes)),
		levels: make([]int, len(nodes)),
		edges:  append([]Edge(nil), edges...),
		index:  index,
	}
	for i, n := range nodes {
		res.ids[i] = n.ID
		res.levels[i] = n.Level
	}
	if len(nodes) == 0 {
		return res, nil
	}

	a := buildArena(nodes, edges, index, opts)
	a.order(opts.ExtraSweeps)
	a.spaceVertically(opts)

	for i, n := range nodes {
		v := a.verts[a.real[i]]
		res.Nodes[i] = Position{X: v.x, Y: v.y, Width: boxWidth(n, opts), Height: v.height}
	}
	res.Guides = a.guides(edges, opts)
	res.Bounds = bounds(res.Nodes)
	res.Stats = Stats{
		Layers:    len(a.layers),
		Dummies:   a.dummyCount(),
		Crossings: a.crossings(),
	}
	return res, nil
}

// Node returns the position of the node with the given ID.
func (r *Result) Node(id string) (Position, bool) {
	i, ok := r.index[id]
	if !ok {
		return Position{}, false
	}
	return r.Nodes[i], true
}

// IDs returns node IDs in input order.
func (r *Result) IDs() []string { return r.ids }

// Edges returns the laid-out edges in input order.
func (r *Result) Edges() []Edge { return r.edges }

// Points returns the full polyline of edge i: the bottom centre of the
// source box, the edge's guides, then the top centre of the target box.
func (r *Result) Points(i int) []Point {
	e := r.edges[i]
	src := r.Nodes[r.index[e.From]]
	dst := r.Nodes[r.index[e.To]]
	pts := make([]Point, 0, len(r.Guides[i])+2)
	pts = append(pts, src.Bottom())
	pts = append(pts, r.Guides[i]...)
	return append(pts, dst.Top())
}

// GuideMap returns guides keyed by [EdgeKey]. When several edges share a
// key the first one in input order wins. Direct edges map to nil.
func (r *Result) GuideMap() map[string][]Point {
	m := make(map[string][]Point, len(r.edges))
	for i, e := range r.edges {
		key := EdgeKey(e.From, e.To)
		if _, seen := m[key]; seen {
			continue
		}
		m[key] = r.Guides[i]
	}
	return m
}

// FromDAG converts a workflow graph into Compute's input, preserving
// insertion order.
func FromDAG(g *dag.DAG) ([]Node, []Edge) {
	gn := g.Nodes()
	nodes := make([]Node, len(gn))
	for i, n := range gn {
		nodes[i] = Node{ID: n.ID, Level: n.Level, Label: n.Label, Width: n.Width, Height: n.Height}
	}
	ge := g.Edges()
	edges := make([]Edge, len(ge))
	for i, e := range ge {
		edges[i] = Edge{From: e.From, To: e.To}
	}
	return nodes, edges
}
