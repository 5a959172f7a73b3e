// Package layout computes layered drawings of workflow graphs.
//
// # Overview
//
// Given jobs with caller-assigned levels and "runs after" edges between
// them, [Compute] returns a centre coordinate for every job and, for every
// edge that skips levels, the waypoints the drawn line should follow. The
// algorithm is a compact Sugiyama-style pipeline:
//
//  1. Layering: jobs are grouped by level. Each edge that spans more than
//     one level gets a chain of small dummy vertices, one per level in
//     between, so every segment joins adjacent layers.
//  2. Ordering: starting from the bottom layer, each layer is placed at the
//     average x of its neighbours below, sorted and spaced. The top two
//     layers are then re-anchored and a final downward sweep averages over
//     the neighbours above. [Options.ExtraSweeps] repeats the sweep pair.
//  3. Horizontal spacing: [Spread] removes overlaps within a layer while
//     moving boxes as little as possible, working outward from the middle.
//  4. Vertical spacing: layers with long diagonal runs get more room, but
//     never less than a minimum gap plus half their box heights.
//  5. Routing: dummy positions become edge guides, with an elbow point
//     added wherever a long edge changes horizontal direction.
//
// # Coordinates
//
// All coordinates are box centres, with y growing downward. Layer 0 sits
// at y = 0. [Result.Points] produces a drawable polyline for an edge, from
// the bottom of its source box to the top of its target box.
//
// # Determinism
//
// The same nodes, edges (in the same order) and [Options] always produce
// identical output. Sorting is stable, so vertices that share an x keep
// their relative order.
//
// # Validation
//
// Input is checked before any work is done. Unknown edge endpoints,
// edges that do not descend, bad IDs and negative levels are reported as
// coded errors from pkg/errors instead of producing undefined geometry.
// Levels with no nodes are valid and simply produce an empty layer.
package layout
