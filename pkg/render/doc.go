// Package render turns computed flow layouts into images.
//
// The [svg] subpackage draws a layered layout: node boxes at their centre
// coordinates and edges as polylines through their guide points, with
// expanded subflows nested inside their parent box. The [nodelink]
// subpackage exports the same graph as Graphviz DOT and lets Graphviz lay
// it out for comparison.
//
// [ToPDF] and [ToPNG] convert any SVG through the external rsvg-convert
// tool (librsvg):
//
//	img := svg.Render(l)
//	png, err := render.ToPNG(img, 2.0)
package render
