package pipeline

import (
	"context"
	"fmt"

	flowerrors "github.com/matzehuels/flowlayout/pkg/errors"
	"github.com/matzehuels/flowlayout/pkg/graph"
	"github.com/matzehuels/flowlayout/pkg/render"
	"github.com/matzehuels/flowlayout/pkg/render/nodelink"
	"github.com/matzehuels/flowlayout/pkg/render/svg"
)

// RenderLayout renders l in opts.Format without caching. The layout's own
// viz type decides the renderer; opts must be validated.
func RenderLayout(ctx context.Context, l graph.Layout, opts Options) ([]byte, error) {
	if opts.Format == FormatJSON {
		return graph.MarshalLayout(l)
	}
	if l.IsNodelink() {
		return renderNodelink(ctx, l, opts)
	}
	return renderLayered(l, opts)
}

func renderLayered(l graph.Layout, opts Options) ([]byte, error) {
	img := svg.Render(l, svg.WithMargin(opts.Margin))
	switch opts.Format {
	case FormatSVG:
		return img, nil
	case FormatPNG:
		return render.ToPNG(img, opts.Scale)
	case FormatPDF:
		return render.ToPDF(img)
	default:
		return nil, flowerrors.New(flowerrors.ErrCodeUnsupported, "format %q needs the graphviz engine", opts.Format)
	}
}

func renderNodelink(ctx context.Context, l graph.Layout, opts Options) ([]byte, error) {
	dot, err := nodelink.Parse(l)
	if err != nil {
		return nil, flowerrors.Wrap(flowerrors.ErrCodeInvalidFormat, err, "nodelink layout")
	}

	var data []byte
	switch opts.Format {
	case FormatDOT:
		return []byte(dot), nil
	case FormatSVG:
		data, err = nodelink.RenderSVG(ctx, dot)
	case FormatPNG:
		data, err = nodelink.RenderPNG(ctx, dot, opts.Scale)
	case FormatPDF:
		data, err = nodelink.RenderPDF(ctx, dot)
	default:
		return nil, flowerrors.New(flowerrors.ErrCodeUnsupported, "unsupported nodelink format: %s", opts.Format)
	}
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", opts.Format, err)
	}
	return data, nil
}
