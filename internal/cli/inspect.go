package cli

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/flowlayout/pkg/graph"
	"github.com/matzehuels/flowlayout/pkg/pipeline"
)

// inspectCommand creates the inspect command, an interactive browser of a
// computed layout.
func (c *CLI) inspectCommand() *cobra.Command {
	var flags layoutFlags

	cmd := &cobra.Command{
		Use:   "inspect [graph.json|layout.json]",
		Short: "Browse layers and node details in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.pipelineOptions()
			flags.apply(cmd.Flags(), &opts)
			l, err := c.loadLayout(cmd.Context(), args[0], opts, flags.noCache)
			if err != nil {
				return err
			}
			if !l.IsLayered() {
				return fmt.Errorf("inspect needs a layered layout, got %q", l.VizType)
			}
			_, err = tea.NewProgram(NewInspectModel(l), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}
	flags.register(cmd.Flags())

	return cmd
}

// loadLayout reads a layout file as is, or lays out a graph file.
func (c *CLI) loadLayout(ctx context.Context, input string, opts pipeline.Options, noCache bool) (graph.Layout, error) {
	data, err := os.ReadFile(input)
	if err != nil {
		return graph.Layout{}, fmt.Errorf("read %s: %w", input, err)
	}
	if graph.IsLayout(data) {
		return graph.UnmarshalLayout(data)
	}

	g, err := graph.UnmarshalGraph(data)
	if err != nil {
		return graph.Layout{}, fmt.Errorf("load graph %s: %w", input, err)
	}
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return graph.Layout{}, fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	return runner.Layout(ctx, g, opts)
}
