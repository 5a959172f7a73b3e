package dag

// CrossingWorkspace holds reusable buffers for [CountCrossingsIdx]. Layout
// statistics count crossings for every pair of adjacent layers, so one
// workspace sized to the widest layer serves the whole graph.
//
// The workspace is not safe for concurrent use - each goroutine should have its own.
type CrossingWorkspace struct {
	ft  []int // Fenwick tree for counting inversions
	pos []int // Position lookup buffer
}

// NewCrossingWorkspace creates a workspace for layers of up to maxWidth
// vertices. Using a workspace smaller than the lower layer passed to
// CountCrossingsIdx panics with an index out of range.
func NewCrossingWorkspace(maxWidth int) *CrossingWorkspace {
	return &CrossingWorkspace{
		ft:  make([]int, maxWidth+2),
		pos: make([]int, maxWidth+2),
	}
}

// CountCrossingsIdx counts crossings between two adjacent layers using
// index-based edges and permutations.
//
// edges[i] lists the indices (into the lower layer) of the out-neighbours
// of upper-layer vertex i. upperPerm and lowerPerm give the left-to-right
// order of each layer as permutations of those indices.
//
// Two segments (u1,v1) and (u2,v2) cross if and only if:
//
//	pos(u1) < pos(u2) AND pos(v1) > pos(v2)
//
// which is an inversion count over target positions, computed with a
// Fenwick tree in O(E log V).
func CountCrossingsIdx(edges [][]int, upperPerm, lowerPerm []int, ws *CrossingWorkspace) int {
	if len(upperPerm) == 0 || len(lowerPerm) == 0 {
		return 0
	}

	for pos, origIdx := range lowerPerm {
		ws.pos[origIdx] = pos
	}

	limit := len(lowerPerm) + 1
	for i := 0; i < limit; i++ {
		ws.ft[i] = 0
	}

	crossings, total := 0, 0
	for _, upperIdx := range upperPerm {
		targets := edges[upperIdx]
		// Segments sharing a source never cross each other, so query all
		// of them before updating.
		for _, targetIdx := range targets {
			targetPos := ws.pos[targetIdx]
			lessOrEqual := 0
			for q := targetPos + 1; q > 0; q -= q & (-q) {
				lessOrEqual += ws.ft[q]
			}
			crossings += total - lessOrEqual
		}

		for _, targetIdx := range targets {
			targetPos := ws.pos[targetIdx]
			total++
			for idx := targetPos + 1; idx < limit; idx += idx & (-idx) {
				ws.ft[idx]++
			}
		}
	}
	return crossings
}

// Identity returns the permutation [0, 1, ..., n-1].
func Identity(n int) []int {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	return p
}
