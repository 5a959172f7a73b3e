// Package nodelink exports flow graphs to Graphviz for a side-by-side
// comparison with the layered layout.
//
// Convert a DAG to DOT, then render it with the embedded Graphviz:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{KeepLevels: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// With [Options.KeepLevels] every level becomes a Graphviz rank, so both
// drawings stack nodes identically and differ only in ordering and
// spacing. [Export] wraps the DOT source in a [graph.Layout] of viz type
// "nodelink" for caching and the HTTP API.
//
// SVG rendering runs in-process through [github.com/goccy/go-graphviz].
// PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
