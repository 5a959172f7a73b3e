// Package dag provides the levelled workflow graph that flowlayout lays out.
//
// # Overview
//
// A workflow is a set of jobs with "runs after" dependencies. Each job sits
// on a caller-assigned level (0 is the top) and every dependency points from
// a lower level to a strictly higher one. Unlike a strictly layered graph,
// an edge may skip levels; the layout engine bridges the gap with dummy
// vertices of its own.
//
// # Basic Usage
//
// Create a graph with [New], add nodes with [DAG.AddNode], and edges with
// [DAG.AddEdge]:
//
//	g := dag.New(nil)
//	g.AddNode(dag.Node{ID: "extract", Level: 0})
//	g.AddNode(dag.Node{ID: "load", Level: 2})
//	g.AddEdge(dag.Edge{From: "extract", To: "load"})
//
// [DAG.Validate] checks level monotonicity and acyclicity. Graphs whose
// levels have not been assigned yet can be passed through
// [transform.AssignLevels] first.
//
// # Ordering
//
// [DAG.Nodes] and [DAG.Edges] report insertion order. The layout engine
// seeds its layers from that order and breaks sort ties with it, so the
// same input always yields the same coordinates.
//
// # Edge Crossings
//
// [CountCrossingsIdx] counts crossings between two adjacent layers with a
// Fenwick tree in O(E log V). The layout engine reports the total in its
// statistics.
//
// # Concurrency
//
// DAG instances are not safe for concurrent use. Callers must synchronize
// access if multiple goroutines read or modify the same graph.
//
// [transform.AssignLevels]: github.com/matzehuels/flowlayout/pkg/dag/transform
package dag
