package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowlayout/pkg/graph"
	"github.com/matzehuels/flowlayout/pkg/pipeline"
)

// renderCommand creates the render command for drawing graphs and layouts.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output     string
		formatsStr string
		margin     float64
		scale      float64
		flags      layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "render [graph.json|layout.json]",
		Short: "Render a flow graph or a saved layout",
		Long: `Render a flow graph or a saved layout.

Graph files are laid out first; layout files (written by 'layout' or
'render -f json') are drawn as they are. Several formats can be given at once
(-f svg,png), in which case one file per format is written next to the input
or to the base path given with -o.

With --engine graphviz the graph is drawn by Graphviz instead, which is
useful as a side-by-side comparison.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formats := parseFormats(formatsStr)
			for _, f := range formats {
				if err := pipeline.ValidateFormat(f); err != nil {
					return err
				}
			}
			opts := c.pipelineOptions()
			flags.apply(cmd.Flags(), &opts)
			opts.Margin = margin
			opts.Scale = scale
			return c.runRender(cmd.Context(), args[0], output, formats, opts, flags.noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, json, dot (comma-separated)")
	cmd.Flags().Float64Var(&margin, "margin", 0, "margin around the drawing (default 25)")
	cmd.Flags().Float64Var(&scale, "scale", 0, "PNG scale factor (default 2)")
	flags.register(cmd.Flags())

	return cmd
}

// runRender loads the input, lays it out if it is a graph, and writes one
// file per requested format.
func (c *CLI) runRender(ctx context.Context, input, output string, formats []string, opts pipeline.Options, noCache bool) error {
	data, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("read %s: %w", input, err)
	}
	if err := opts.Validate(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	p := newProgress(c.Logger)

	var l graph.Layout
	if graph.IsLayout(data) {
		l, err = graph.UnmarshalLayout(data)
		if err != nil {
			return fmt.Errorf("load layout %s: %w", input, err)
		}
		c.Logger.Debug("loaded layout", "path", input, "nodes", len(l.Nodes), "viz_type", l.VizType)
	} else {
		g, err := graph.UnmarshalGraph(data)
		if err != nil {
			return fmt.Errorf("load graph %s: %w", input, err)
		}
		spinner := newSpinnerWithContext(ctx, "Computing layout...")
		spinner.Start()
		var hit bool
		l, hit, err = runner.LayoutWithCacheInfo(ctx, g, opts)
		if err != nil {
			spinner.StopWithError("Layout failed")
			return fmt.Errorf("compute layout: %w", err)
		}
		spinner.Stop()
		c.Logger.Debug("layout ready", "nodes", len(g.Nodes), "cached", hit)
	}

	base := basePath(output, input)
	for _, format := range formats {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		fopts := opts
		fopts.Format = format
		artifact, hit, err := runner.RenderWithCacheInfo(ctx, l, fopts)
		if err != nil {
			return fmt.Errorf("render %s: %w", format, err)
		}

		path := outputPath(base, output, format, len(formats))
		if filepath.Clean(path) == filepath.Clean(input) {
			return fmt.Errorf("refusing to overwrite input %s (use -o)", input)
		}
		if err := os.WriteFile(path, artifact, 0o644); err != nil {
			return fmt.Errorf("write output %s: %w", path, err)
		}
		printFile(path)
		printStats(0, 0, hit)
	}
	p.done(fmt.Sprintf("Rendered %d file(s)", len(formats)))

	return nil
}

// outputPath names the file for one format. JSON output is a layout and
// gets the .layout.json suffix.
func outputPath(base, output, format string, count int) string {
	if output != "" && count == 1 {
		return output
	}
	if format == pipeline.FormatJSON {
		return base + ".layout.json"
	}
	return base + "." + format
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input (and a trailing
// ".layout" so flow.layout.json renders to flow.svg).
// If output has a format extension (.svg, .pdf, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		return strings.TrimSuffix(base, ".layout")
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
