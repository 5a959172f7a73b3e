package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/flowlayout/pkg/graph"
	"github.com/matzehuels/flowlayout/pkg/pipeline"
)

// layoutFlags are the flags shared by every command that computes a layout.
// Only flags the user set override the config file.
type layoutFlags struct {
	noCache bool
	refresh bool

	engine           string
	assignLevels     bool
	breakCycles      bool
	expandFlows      bool
	sortByID         bool
	extraSweeps      int
	horizontalMargin float64
	minVerticalGap   float64
}

func (f *layoutFlags) register(fs *pflag.FlagSet) {
	fs.BoolVar(&f.noCache, "no-cache", false, "disable caching")
	fs.BoolVar(&f.refresh, "refresh", false, "recompute even when a cached result exists")
	fs.StringVar(&f.engine, "engine", pipeline.EngineLayered, "layout engine: layered (default), graphviz")
	fs.BoolVar(&f.assignLevels, "assign-levels", false, "recompute levels from the edges (longest path)")
	fs.BoolVar(&f.breakCycles, "break-cycles", false, "drop back edges before assigning levels")
	fs.BoolVar(&f.expandFlows, "expand-flows", false, "expand every embedded flow, not only those marked expanded")
	fs.BoolVar(&f.sortByID, "sort-by-id", false, "seed every layer in node id order")
	fs.IntVar(&f.extraSweeps, "extra-sweeps", 0, "additional crossing-reduction sweeps")
	fs.Float64Var(&f.horizontalMargin, "horizontal-margin", 0, "margin added to every node width (default 8)")
	fs.Float64Var(&f.minVerticalGap, "vertical-gap", 0, "minimum gap between layers (default 40)")
}

// apply overlays the flags the user changed onto opts.
func (f *layoutFlags) apply(fs *pflag.FlagSet, opts *pipeline.Options) {
	opts.Refresh = f.refresh
	set := func(name string, fn func()) {
		if fs.Changed(name) {
			fn()
		}
	}
	set("engine", func() { opts.Engine = f.engine })
	set("assign-levels", func() { opts.AssignLevels = f.assignLevels })
	set("break-cycles", func() { opts.BreakCycles = f.breakCycles })
	set("expand-flows", func() { opts.ExpandFlows = f.expandFlows })
	set("sort-by-id", func() { opts.Layout.SortByID = f.sortByID })
	set("extra-sweeps", func() { opts.Layout.ExtraSweeps = f.extraSweeps })
	set("horizontal-margin", func() { opts.Layout.HorizontalMargin = f.horizontalMargin })
	set("vertical-gap", func() { opts.Layout.MinVerticalGap = f.minVerticalGap })
}

// layoutCommand creates the layout command for computing layered layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output string
		flags  layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "layout [graph.json]",
		Short: "Compute a layered layout from a flow graph",
		Long: `Compute a layered layout from a flow graph.

The layout command reads a graph.json file (nodes with levels and edges) and
computes node positions and edge guides. The output is a layout.json file
(same format as 'render -f json') that 'render' turns into SVG/PNG/PDF.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.pipelineOptions()
			flags.apply(cmd.Flags(), &opts)
			return c.runLayout(cmd.Context(), args[0], output, opts, flags.noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	flags.register(cmd.Flags())

	return cmd
}

// runLayout loads the graph, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, input, output string, opts pipeline.Options, noCache bool) error {
	g, err := graph.ReadGraphFile(input)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}
	if err := opts.Validate(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Computing %s layout...", opts.Engine))
	spinner.Start()

	l, cacheHit, err := runner.LayoutWithCacheInfo(ctx, g, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		outputPath = layoutPath(input)
	}
	if err := graph.WriteLayoutFile(l, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(len(g.Nodes), len(g.AllEdges()), cacheHit)
	if l.Stats != nil && l.IsLayered() {
		printLayoutStats(l.Stats)
	}
	printNewline()
	printNextStep("Render", appName+" render "+outputPath)

	return nil
}

// layoutPath derives <input>.layout.json from an input file name.
func layoutPath(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".layout.json"
}
