// Package pkg provides the libraries behind flowlayout, a layered layout
// engine for workflow graphs.
//
// # Overview
//
// A workflow is a DAG of jobs. Every job sits on a level (0 at the top) and
// every dependency points to a deeper level, possibly skipping several.
// flowlayout places jobs so that few dependencies cross, routes long
// dependencies through the gaps between jobs, and returns coordinates a
// renderer can draw directly.
//
// The directory is organized into four areas:
//
//  1. Model: [dag], [dag/transform], [graph]
//  2. Layout: [layout]
//  3. Rendering: [render/svg], [render/nodelink], [render]
//  4. Service plumbing: [pipeline], [cache], [config], [observability], [api]
//
// # Architecture
//
//	graph.json
//	     ↓
//	[graph] decode, [dag/transform] assign levels / break cycles
//	     ↓
//	[pipeline] expand embedded flows bottom-up
//	     ↓
//	[layout] layers + dummies → ordering → spacing → guides
//	     ↓
//	[render/svg] or [render/nodelink] → SVG/PNG/PDF/JSON/DOT
//
// # Quick Start
//
// Lay out a graph file and draw it:
//
//	g, _ := graph.ReadGraphFile("etl.json")
//	runner := pipeline.NewRunner(nil, nil, nil)
//	res, _ := runner.Execute(ctx, g, pipeline.Options{Format: pipeline.FormatSVG})
//	os.WriteFile("etl.svg", res.Artifact, 0o644)
//
// Or call the engine directly:
//
//	d, _ := graph.ToDAG(g)
//	nodes, edges := layout.FromDAG(d)
//	res, _ := layout.Compute(nodes, edges, layout.DefaultOptions())
//	pos, _ := res.Node("load")
//
// # Testing
//
//	go test ./pkg/...                    # All tests
//	go test -short ./pkg/...             # Skip Graphviz rendering
//	go test -run Example ./pkg/...       # Examples only
//
// Redis and MongoDB cache tests run when FLOWLAYOUT_REDIS_URL and
// FLOWLAYOUT_MONGO_URI are set.
//
// [dag]: https://pkg.go.dev/github.com/matzehuels/flowlayout/pkg/dag
// [dag/transform]: https://pkg.go.dev/github.com/matzehuels/flowlayout/pkg/dag/transform
// [graph]: https://pkg.go.dev/github.com/matzehuels/flowlayout/pkg/graph
// [layout]: https://pkg.go.dev/github.com/matzehuels/flowlayout/pkg/layout
// [render]: https://pkg.go.dev/github.com/matzehuels/flowlayout/pkg/render
// [render/svg]: https://pkg.go.dev/github.com/matzehuels/flowlayout/pkg/render/svg
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/flowlayout/pkg/render/nodelink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/flowlayout/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/flowlayout/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/flowlayout/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/flowlayout/pkg/observability
// [api]: https://pkg.go.dev/github.com/matzehuels/flowlayout/pkg/api
package pkg
