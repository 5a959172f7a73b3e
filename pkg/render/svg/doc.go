// Package svg draws layered flow layouts as standalone SVG documents.
//
// Coordinates in a [graph.Layout] are node centres. Each node becomes a
// group translated to its centre holding a rounded box and its label;
// each edge becomes a polyline through [graph.PlacedEdge.Points], or a
// straight line when an edge has only its two endpoints. The viewBox is
// the layout bounds grown by a margin on every side (25 by default).
//
// Nodes carry their status as a CSS class (READY, RUNNING, SUCCEEDED,
// FAILED, ...) and are filled from a small built-in palette. An expanded
// subflow is drawn recursively inside its parent box, shifted by the
// offset the pipeline recorded for it.
package svg
