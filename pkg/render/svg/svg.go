package svg

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/matzehuels/flowlayout/pkg/graph"
)

// DefaultMargin is added around the layout bounds.
const DefaultMargin = 25.0

// minBoxHeight is the smallest box drawn for a node. Layout heights may be
// far smaller than a line of text; the box is centred either way.
const minBoxHeight = 20.0

const style = `
    .edge { stroke: #555; stroke-width: 1.5; fill: none; }
    .border, .flowborder { stroke: #333; stroke-width: 1; }
    .flowborder { stroke-dasharray: 4 2; }
    text { font-family: Helvetica, Arial, sans-serif; font-size: 14px; dominant-baseline: central; text-anchor: middle; }
    .flowlabel { font-size: 11px; text-anchor: start; fill: #666; }`

var statusFill = map[string]string{
	"READY":            "#ffffff",
	"QUEUED":           "#f5f5f5",
	"RUNNING":          "#d9edf7",
	"SUCCEEDED":        "#dff0d8",
	"FAILED":           "#f2dede",
	"FAILED_FINISHING": "#fcd9b6",
	"KILLED":           "#e2c4e8",
	"CANCELLED":        "#e6e6e6",
	"SKIPPED":          "#eeeeee",
	"DISABLED":         "#cccccc",
}

// Option configures Render.
type Option func(*renderer)

type renderer struct {
	margin float64
	title  string
	colors bool
}

// WithMargin sets the margin around the layout bounds.
func WithMargin(m float64) Option { return func(r *renderer) { r.margin = m } }

// WithTitle adds a <title> element.
func WithTitle(t string) Option { return func(r *renderer) { r.title = t } }

// WithoutStatusColors draws every node white.
func WithoutStatusColors() Option { return func(r *renderer) { r.colors = false } }

// Render draws l as an SVG document.
func Render(l graph.Layout, opts ...Option) []byte {
	r := renderer{margin: DefaultMargin, colors: true}
	for _, opt := range opts {
		opt(&r)
	}

	minX := l.Bounds.MinX - r.margin
	minY := l.Bounds.MinY - r.margin
	w := l.Bounds.MaxX - l.Bounds.MinX + 2*r.margin
	h := l.Bounds.MaxY - l.Bounds.MinY + 2*r.margin

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%s %s %s %s" width="%.0f" height="%.0f">`+"\n",
		num(minX), num(minY), num(w), num(h), w, h)
	if r.title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", html.EscapeString(r.title))
	}
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", style)

	buf.WriteString(`  <g class="main graph">` + "\n")
	r.drawGraph(&buf, l, 2)
	buf.WriteString("  </g>\n")
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// drawGraph writes edges first so node boxes cover their endpoints.
func (r *renderer) drawGraph(buf *bytes.Buffer, l graph.Layout, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, e := range l.Edges {
		r.drawEdge(buf, indent, e)
	}
	for _, n := range l.Nodes {
		r.drawNode(buf, indent, n, depth)
	}
}

func (r *renderer) drawEdge(buf *bytes.Buffer, indent string, e graph.PlacedEdge) {
	id := html.EscapeString(e.From + "-" + e.To)
	switch {
	case len(e.Points) == 2:
		a, b := e.Points[0], e.Points[1]
		fmt.Fprintf(buf, `%s<line class="edge" data-edge="%s" x1="%s" y1="%s" x2="%s" y2="%s"/>`+"\n",
			indent, id, num(a.X), num(a.Y), num(b.X), num(b.Y))
	case len(e.Points) > 2:
		pts := make([]string, len(e.Points))
		for i, p := range e.Points {
			pts[i] = num(p.X) + "," + num(p.Y)
		}
		fmt.Fprintf(buf, `%s<polyline class="edge" data-edge="%s" points="%s"/>`+"\n",
			indent, id, strings.Join(pts, " "))
	}
}

func (r *renderer) drawNode(buf *bytes.Buffer, indent string, n graph.PlacedNode, depth int) {
	kind, border := "jobnode", "border"
	if n.Type == graph.TypeFlow {
		kind, border = "flownode", "flowborder"
	}
	class := "node " + kind
	if n.Status != "" {
		class += " " + html.EscapeString(n.Status)
	}

	h := n.Height
	if h < minBoxHeight {
		h = minBoxHeight
	}
	fill := "#ffffff"
	if c, ok := statusFill[n.Status]; ok && r.colors {
		fill = c
	}

	fmt.Fprintf(buf, `%s<g class="%s" id="node-%s" transform="translate(%s,%s)">`+"\n",
		indent, class, html.EscapeString(n.ID), num(n.X), num(n.Y))
	fmt.Fprintf(buf, `%s  <rect class="%s" x="%s" y="%s" width="%s" height="%s" rx="3" ry="3" fill="%s"/>`+"\n",
		indent, border, num(-n.Width/2), num(-h/2), num(n.Width), num(h), fill)

	if n.Flow != nil {
		// Subflow boxes hold their label in the top margin.
		fmt.Fprintf(buf, `%s  <text class="flowlabel" x="%s" y="%s">%s</text>`+"\n",
			indent, num(-n.Width/2+10), num(-h/2+15), html.EscapeString(n.Label))
		var off graph.Point
		if n.Offset != nil {
			off = *n.Offset
		}
		fmt.Fprintf(buf, `%s  <g class="expandedGraph" transform="translate(%s,%s)">`+"\n",
			indent, num(-n.Width/2+off.X), num(-h/2+off.Y))
		r.drawGraph(buf, *n.Flow, depth+2)
		fmt.Fprintf(buf, "%s  </g>\n", indent)
	} else {
		fmt.Fprintf(buf, "%s  <text>%s</text>\n", indent, html.EscapeString(n.Label))
	}
	fmt.Fprintf(buf, "%s</g>\n", indent)
}

// num formats a coordinate with at most two decimals and no trailing zeros.
func num(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}
