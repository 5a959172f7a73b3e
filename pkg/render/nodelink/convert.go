package nodelink

import (
	"fmt"

	"github.com/matzehuels/flowlayout/pkg/dag"
	"github.com/matzehuels/flowlayout/pkg/graph"
)

// Engine names the Graphviz layout program recorded in exported layouts.
const Engine = "dot"

// Export packages DOT source and the graph's nodes and edges as a
// nodelink layout. Positions are left to Graphviz, so placed nodes carry
// only identity, level and status.
func Export(dot string, g *dag.DAG) graph.Layout {
	out := graph.Layout{
		VizType: graph.VizTypeNodelink,
		DOT:     dot,
		Engine:  Engine,
	}
	if g == nil {
		return out
	}
	for _, n := range g.Nodes() {
		pn := graph.PlacedNode{
			ID:    n.ID,
			Label: n.DisplayLabel(),
			Type:  n.Type,
			Level: n.Level,
		}
		if status, ok := n.Meta[graph.MetaStatus].(string); ok {
			pn.Status = status
		}
		out.Nodes = append(out.Nodes, pn)
	}
	for _, e := range g.Edges() {
		out.Edges = append(out.Edges, graph.PlacedEdge{From: e.From, To: e.To})
	}
	return out
}

// Parse returns the DOT source of a nodelink layout.
func Parse(l graph.Layout) (string, error) {
	if l.VizType != "" && l.VizType != graph.VizTypeNodelink {
		return "", fmt.Errorf("invalid viz_type for nodelink layout: %q", l.VizType)
	}
	if l.DOT == "" {
		return "", fmt.Errorf("nodelink layout must contain DOT string")
	}
	return l.DOT, nil
}
