package transform

import "github.com/matzehuels/flowlayout/pkg/dag"

// AssignLevels assigns every node a level equal to the length of the longest
// path reaching it from a source.
//
// It runs a topological traversal (Kahn's algorithm):
//  1. Place source nodes (in-degree 0) at level 0 and enqueue them
//  2. For each dequeued node, push each child to at least level+1
//  3. Enqueue children whose in-degree reaches zero
//
// Existing level assignments are overwritten. Nodes on a cycle never reach
// in-degree zero and stay at level 0; run [BreakCycles] first when the
// input may be cyclic.
//
// Time complexity is O(V + E).
func AssignLevels(g *dag.DAG) {
	nodes := g.Nodes()
	inDegree := make(map[string]int, len(nodes))
	levels := make(map[string]int, len(nodes))
	queue := make([]string, 0, len(nodes))

	for _, n := range nodes {
		degree := g.InDegree(n.ID)
		inDegree[n.ID] = degree
		levels[n.ID] = 0
		if degree == 0 {
			queue = append(queue, n.ID)
		}
	}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		for _, child := range g.Children(curr) {
			if lvl := levels[curr] + 1; lvl > levels[child] {
				levels[child] = lvl
			}
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	g.SetLevels(levels)
}

// NeedsLevels reports whether g looks like it arrived without level
// assignments: it has edges, yet every node sits on level 0. Such a graph
// can never validate, so callers assign levels instead of failing.
func NeedsLevels(g *dag.DAG) bool {
	if g.EdgeCount() == 0 {
		return false
	}
	for _, n := range g.Nodes() {
		if n.Level != 0 {
			return false
		}
	}
	return true
}
