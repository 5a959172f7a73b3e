package graph

import (
	"encoding/json"
	"fmt"
	"maps"

	"github.com/matzehuels/flowlayout/pkg/dag"
)

// =============================================================================
// Constants
// =============================================================================

// Visualization types.
const (
	VizTypeLayered  = "layered"
	VizTypeNodelink = "nodelink"
)

// TypeFlow marks a node that embeds another flow.
const TypeFlow = "flow"

// Metadata keys the console reads from node meta.
const (
	MetaStatus   = "status"
	MetaExpanded = "expanded"
)

// =============================================================================
// Graph - Flow Serialization
// =============================================================================

// Graph is the wire format of a workflow as exported by the scheduler.
//
//	{
//	  "nodes": [{"id": "extract", "level": 0}, {"id": "load", "level": 2}],
//	  "edges": [{"from": "extract", "target": "load"}]
//	}
//
// Dependencies can be given as edges, as "in" lists on the nodes, or both;
// duplicates between the two are merged.
type Graph struct {
	Nodes []Node         `json:"nodes" bson:"nodes"`
	Edges []Edge         `json:"edges,omitempty" bson:"edges,omitempty"`
	Meta  map[string]any `json:"meta,omitempty" bson:"meta,omitempty"`
}

// Node is a job, or an embedded flow when Type is "flow".
type Node struct {
	ID     string         `json:"id" bson:"id"`
	Level  int            `json:"level" bson:"level"`
	Label  string         `json:"label,omitempty" bson:"label,omitempty"`
	Type   string         `json:"type,omitempty" bson:"type,omitempty"`
	Status string         `json:"status,omitempty" bson:"status,omitempty"`
	Width  float64        `json:"width,omitempty" bson:"width,omitempty"`
	Height float64        `json:"height,omitempty" bson:"height,omitempty"`
	In     []string       `json:"in,omitempty" bson:"in,omitempty"`
	Meta   map[string]any `json:"meta,omitempty" bson:"meta,omitempty"`

	// Embedded flow. Only laid out when Expanded is set.
	Expanded bool   `json:"expanded,omitempty" bson:"expanded,omitempty"`
	Flow     *Graph `json:"flow,omitempty" bson:"flow,omitempty"`
}

// IsFlow reports whether n embeds another flow.
func (n *Node) IsFlow() bool { return n.Type == TypeFlow && n.Flow != nil }

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// =============================================================================
// Edge - Directed Dependency
// =============================================================================

// Edge runs From a job To the job that runs after it. The target is written
// as "target"; "to" is accepted on input.
type Edge struct {
	From string `json:"from" bson:"from"`
	To   string `json:"target" bson:"target"`
}

// UnmarshalJSON accepts both {"from","target"} and {"from","to"}.
func (e *Edge) UnmarshalJSON(data []byte) error {
	var raw struct {
		From   string `json:"from"`
		Target string `json:"target"`
		To     string `json:"to"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	e.From = raw.From
	e.To = raw.Target
	if e.To == "" {
		e.To = raw.To
	}
	return nil
}

// AllEdges returns the explicit edges followed by those implied by node
// "in" lists that are not already present.
func (g Graph) AllEdges() []Edge {
	seen := make(map[Edge]bool, len(g.Edges))
	out := make([]Edge, 0, len(g.Edges))
	for _, e := range g.Edges {
		seen[e] = true
		out = append(out, e)
	}
	for _, n := range g.Nodes {
		for _, parent := range n.In {
			e := Edge{From: parent, To: n.ID}
			if !seen[e] {
				seen[e] = true
				out = append(out, e)
			}
		}
	}
	return out
}

// =============================================================================
// DAG ↔ Graph Conversion
// =============================================================================

// ToDAG converts a Graph to a DAG, keeping node and edge order. Status and
// the expanded flag are stored in node metadata. Embedded flows are not
// descended into.
func ToDAG(gj Graph) (*dag.DAG, error) {
	d := dag.New(maps.Clone(gj.Meta))

	for _, nj := range gj.Nodes {
		n := dag.Node{
			ID:     nj.ID,
			Level:  nj.Level,
			Label:  nj.Label,
			Type:   nj.Type,
			Width:  nj.Width,
			Height: nj.Height,
			Meta:   maps.Clone(nj.Meta),
		}
		if n.Meta == nil {
			n.Meta = dag.Metadata{}
		}
		if nj.Status != "" {
			n.Meta[MetaStatus] = nj.Status
		}
		if nj.Expanded {
			n.Meta[MetaExpanded] = true
		}
		if err := d.AddNode(n); err != nil {
			return nil, fmt.Errorf("add node %q: %w", nj.ID, err)
		}
	}

	for _, ej := range gj.AllEdges() {
		if err := d.AddEdge(dag.Edge{From: ej.From, To: ej.To}); err != nil {
			return nil, fmt.Errorf("add edge %s→%s: %w", ej.From, ej.To, err)
		}
	}

	return d, nil
}

// FromDAG converts a DAG to its serialization format in insertion order.
func FromDAG(g *dag.DAG) Graph {
	nodes := g.Nodes()
	edges := g.Edges()
	out := Graph{
		Nodes: make([]Node, len(nodes)),
		Edges: make([]Edge, len(edges)),
		Meta:  cleanMeta(g.Meta()),
	}

	for i, n := range nodes {
		out.Nodes[i] = nodeFromDAG(n)
	}
	for i, e := range edges {
		out.Edges[i] = Edge{From: e.From, To: e.To}
	}
	return out
}

func nodeFromDAG(n *dag.Node) Node {
	node := Node{
		ID:     n.ID,
		Level:  n.Level,
		Label:  n.Label,
		Type:   n.Type,
		Width:  n.Width,
		Height: n.Height,
	}
	if status, ok := n.Meta[MetaStatus].(string); ok {
		node.Status = status
	}
	if expanded, ok := n.Meta[MetaExpanded].(bool); ok {
		node.Expanded = expanded
	}
	node.Meta = cleanMeta(n.Meta)
	return node
}

// cleanMeta returns a copy of m without the keys promoted to Node fields,
// or nil if nothing remains.
func cleanMeta(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if k == MetaStatus || k == MetaExpanded {
			continue
		}
		out[k] = v
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
