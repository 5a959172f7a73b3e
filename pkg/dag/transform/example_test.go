package transform_test

import (
	"fmt"

	"github.com/matzehuels/flowlayout/pkg/dag"
	"github.com/matzehuels/flowlayout/pkg/dag/transform"
)

func ExampleAssignLevels() {
	// A flow exported without levels
	g := dag.New(nil)
	_ = g.AddNode(dag.Node{ID: "fetch"})
	_ = g.AddNode(dag.Node{ID: "parse"})
	_ = g.AddNode(dag.Node{ID: "publish"})
	_ = g.AddEdge(dag.Edge{From: "fetch", To: "parse"})
	_ = g.AddEdge(dag.Edge{From: "parse", To: "publish"})
	_ = g.AddEdge(dag.Edge{From: "fetch", To: "publish"})

	fmt.Println("Needs levels:", transform.NeedsLevels(g))
	transform.AssignLevels(g)

	for _, n := range g.Nodes() {
		fmt.Println(n.ID, n.Level)
	}
	// Output:
	// Needs levels: true
	// fetch 0
	// parse 1
	// publish 2
}

func ExampleBreakCycles() {
	g := dag.New(nil)
	_ = g.AddNode(dag.Node{ID: "a"})
	_ = g.AddNode(dag.Node{ID: "b"})
	_ = g.AddEdge(dag.Edge{From: "a", To: "b"})
	_ = g.AddEdge(dag.Edge{From: "b", To: "a"})

	fmt.Println("Removed:", transform.BreakCycles(g))
	fmt.Println("Edges left:", g.EdgeCount())
	// Output:
	// Removed: 1
	// Edges left: 1
}
