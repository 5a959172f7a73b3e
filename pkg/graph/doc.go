// Package graph provides serialization types for workflow graphs and their
// computed layouts.
//
// This package defines the wire format used for JSON files, HTTP request
// and response bodies, and cache entries.
//
// # Architecture
//
// The package sits at the serialization boundary:
//
//   - [Graph], [Layout]: Serialization types (this package)
//   - pkg/dag.DAG: Internal graph representation
//   - pkg/layout.Result: Computed positions
//
// Use [ToDAG]/[FromDAG] to convert graphs, and layout.Result.Export to turn
// a computed layout into a [Layout].
//
// # Graph Serialization
//
// Graphs use the node-link JSON the scheduler exports. Edges name their
// endpoints "from" and "target"; "to" is accepted as well:
//
//	{
//	  "nodes": [
//	    {"id": "extract", "level": 0, "type": "command"},
//	    {"id": "report", "level": 1, "status": "SUCCEEDED", "in": ["extract"]}
//	  ],
//	  "edges": [{"from": "extract", "target": "report"}]
//	}
//
// A node of type "flow" may embed another graph under "flow". When
// "expanded" is set the pipeline lays the embedded graph out first and
// sizes the node to contain it.
//
// # Layout Serialization
//
// Layouts are discriminated by VizType:
//
//	l, _ := graph.UnmarshalLayout(data)
//	if l.IsLayered() {
//	    // Use l.Nodes and l.Edges
//	} else {
//	    // Use l.DOT for Graphviz rendering
//	}
//
// # Concurrency
//
// All functions are safe for concurrent reads but not concurrent writes.
package graph
