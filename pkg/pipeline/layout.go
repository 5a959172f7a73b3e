package pipeline

import (
	"context"
	"fmt"
	"slices"

	"github.com/matzehuels/flowlayout/pkg/dag"
	"github.com/matzehuels/flowlayout/pkg/dag/transform"
	flowerrors "github.com/matzehuels/flowlayout/pkg/errors"
	"github.com/matzehuels/flowlayout/pkg/graph"
	"github.com/matzehuels/flowlayout/pkg/layout"
	"github.com/matzehuels/flowlayout/pkg/render/nodelink"
)

// Box margins around an expanded subflow: the inner drawing sits
// flowSideMargin from the left and right edges, flowTopMargin below the
// top (room for the label) and flowBottomMargin above the bottom.
const (
	flowSideMargin   = 10.0
	flowTopMargin    = 30.0
	flowBottomMargin = 5.0
)

// maxFlowDepth bounds subflow nesting.
const maxFlowDepth = 32

// =============================================================================
// Layout Generation
// =============================================================================

// GenerateLayout lays out g without caching. opts must be validated.
func GenerateLayout(ctx context.Context, g graph.Graph, opts Options) (graph.Layout, error) {
	if opts.Engine == EngineGraphviz {
		return generateNodelinkLayout(g, opts)
	}
	return generateLayered(ctx, g, opts, 0)
}

// generateLayered lays out embedded flows first, sizes their parent boxes
// from the inner bounds, then lays out g itself.
func generateLayered(ctx context.Context, g graph.Graph, opts Options, depth int) (graph.Layout, error) {
	if depth > maxFlowDepth {
		return graph.Layout{}, flowerrors.New(flowerrors.ErrCodeInvalidInput, "subflows nested deeper than %d", maxFlowDepth)
	}
	if err := ctx.Err(); err != nil {
		return graph.Layout{}, err
	}

	work := g
	work.Nodes = slices.Clone(g.Nodes)

	type subflow struct {
		layout graph.Layout
		offset graph.Point
	}
	subs := make(map[int]subflow)
	nested := 0

	for i := range work.Nodes {
		n := &work.Nodes[i]
		if !n.IsFlow() || !(n.Expanded || opts.ExpandFlows) {
			continue
		}
		inner, err := generateLayered(ctx, *n.Flow, opts, depth+1)
		if err != nil {
			return graph.Layout{}, fmt.Errorf("subflow %q: %w", n.ID, err)
		}
		n.Width = inner.Width + 2*flowSideMargin
		n.Height = inner.Height + flowTopMargin + flowBottomMargin
		subs[i] = subflow{
			layout: inner,
			offset: graph.Point{
				X: -inner.Bounds.MinX + flowSideMargin,
				Y: -inner.Bounds.MinY + flowTopMargin,
			},
		}
		nested++
		if inner.Stats != nil {
			nested += inner.Stats.Subflows
		}
	}

	d, removed, err := prepare(work, opts)
	if err != nil {
		return graph.Layout{}, err
	}

	nodes, edges := layout.FromDAG(d)
	res, err := layout.Compute(nodes, edges, opts.Layout)
	if err != nil {
		return graph.Layout{}, err
	}

	out := res.Export(d)
	out.Stats.Subflows = nested
	out.Stats.RemovedEdges = removed
	for i, sub := range subs {
		inner, offset := sub.layout, sub.offset
		out.Nodes[i].Flow = &inner
		out.Nodes[i].Offset = &offset
	}
	return out, nil
}

// prepare converts g to a DAG and assigns levels when needed. It returns
// the number of edges removed to break cycles.
func prepare(g graph.Graph, opts Options) (*dag.DAG, int, error) {
	d, err := graph.ToDAG(g)
	if err != nil {
		return nil, 0, err
	}

	removed := 0
	if opts.BreakCycles {
		removed = transform.BreakCycles(d)
	}
	if opts.AssignLevels || transform.NeedsLevels(d) {
		if !opts.BreakCycles && transform.BreakCycles(d.Clone()) > 0 {
			return nil, 0, fmt.Errorf("assign levels: %w", dag.ErrGraphHasCycle)
		}
		transform.AssignLevels(d)
	}
	return d, removed, nil
}

// =============================================================================
// Graphviz
// =============================================================================

// generateNodelinkLayout packages DOT source with levels pinned to ranks.
// Embedded flows are not expanded; Graphviz draws the top-level graph.
func generateNodelinkLayout(g graph.Graph, opts Options) (graph.Layout, error) {
	d, _, err := prepare(g, opts)
	if err != nil {
		return graph.Layout{}, err
	}
	dot := nodelink.ToDOT(d, nodelink.Options{KeepLevels: true})
	return nodelink.Export(dot, d), nil
}
