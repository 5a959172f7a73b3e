package layout

import (
	"github.com/matzehuels/flowlayout/pkg/dag"
	"github.com/matzehuels/flowlayout/pkg/graph"
)

// Export converts a computed layout into the serialization format.
//
// The DAG is optional; when given, labels, types and status are copied
// from its nodes. Edges carry both their guides (null for direct edges)
// and the full polyline from [Result.Points].
func (r *Result) Export(g *dag.DAG) graph.Layout {
	out := graph.Layout{
		VizType: graph.VizTypeLayered,
		Width:   r.Bounds.Width(),
		Height:  r.Bounds.Height(),
		Bounds: graph.Bounds{
			MinX: r.Bounds.MinX,
			MinY: r.Bounds.MinY,
			MaxX: r.Bounds.MaxX,
			MaxY: r.Bounds.MaxY,
		},
		Nodes: make([]graph.PlacedNode, len(r.Nodes)),
		Edges: make([]graph.PlacedEdge, len(r.edges)),
		Stats: &graph.Stats{
			Layers:    r.Stats.Layers,
			Dummies:   r.Stats.Dummies,
			Crossings: r.Stats.Crossings,
		},
	}

	for i, p := range r.Nodes {
		pn := graph.PlacedNode{
			ID:     r.ids[i],
			Label:  r.ids[i],
			Level:  r.levels[i],
			X:      p.X,
			Y:      p.Y,
			Width:  p.Width,
			Height: p.Height,
		}
		if g != nil {
			if n, ok := g.Node(r.ids[i]); ok {
				pn.Label = n.DisplayLabel()
				pn.Type = n.Type
				if status, ok := n.Meta[graph.MetaStatus].(string); ok {
					pn.Status = status
				}
			}
		}
		out.Nodes[i] = pn
	}

	for i, e := range r.edges {
		out.Edges[i] = graph.PlacedEdge{
			From:   e.From,
			To:     e.To,
			Guides: exportPoints(r.Guides[i]),
			Points: exportPoints(r.Points(i)),
		}
	}
	return out
}

func exportPoints(pts []Point) []graph.Point {
	if pts == nil {
		return nil
	}
	out := make([]graph.Point, len(pts))
	for i, p := range pts {
		out[i] = graph.Point{X: p.X, Y: p.Y}
	}
	return out
}
