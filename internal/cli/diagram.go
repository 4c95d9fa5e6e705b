package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/harnesskit/pkg/diagram"
)

// diagramOpts holds the command-line flags for the diagram command.
type diagramOpts struct {
	output   string // output file, "-" for stdout
	format   string // dot or svg
	detailed bool   // show MPN and manufacturer in nodes
	noCache  bool   // bypass the diagram cache
}

// diagramCommand creates the diagram command.
func (c *CLI) diagramCommand() *cobra.Command {
	opts := diagramOpts{format: string(diagram.FormatSVG)}

	cmd := &cobra.Command{
		Use:   "diagram <design>",
		Short: "Draw the connectivity diagram of a design",
		Long: `Draw components as nodes and wires as edges. DOT output is the Graphviz
source; SVG output is rendered with Graphviz and cached.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDiagram(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default <name>.<format>, - for stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: svg, dot")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show part numbers and manufacturers")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "render even if a cached diagram exists")

	return cmd
}

func (c *CLI) runDiagram(ctx context.Context, path string, opts diagramOpts) error {
	format, err := diagram.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	h, err := runner.Load(ctx, path)
	if err != nil {
		return err
	}

	var spinner *Spinner
	if format == diagram.FormatSVG && opts.output != "-" {
		spinner = newSpinner(ctx, "Rendering diagram...")
		spinner.Start()
	}
	data, cached, err := runner.Diagram(ctx, h, format, opts.detailed)
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return err
	}

	if opts.output == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	out := opts.output
	if out == "" {
		out = baseName(path) + "." + string(format)
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}

	printSuccess("Diagram of %s", h.Name())
	if format == diagram.FormatSVG {
		printStats(h.ComponentCount(), h.ConnectionCount(), &cached)
	} else {
		printStats(h.ComponentCount(), h.ConnectionCount(), nil)
	}
	printFile(out)
	return nil
}
