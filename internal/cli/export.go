package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/harnesskit/pkg/errors"
	"github.com/matzehuels/harnesskit/pkg/pipeline"
)

// exportOpts holds the command-line flags for the export command.
type exportOpts struct {
	outDir string // directory for <name>.json files
	strict bool   // refuse designs with validation errors
	jobs   int    // designs processed at once
}

// exportCommand creates the export command.
func (c *CLI) exportCommand() *cobra.Command {
	opts := exportOpts{outDir: ".", jobs: runtime.NumCPU()}

	cmd := &cobra.Command{
		Use:   "export <design>...",
		Short: "Write the exchange document of each design",
		Long: `Serialize each design to <name>.json in the output directory, where <name>
is the design file name without its extension. Designs are exported
concurrently; the first failure cancels the rest.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExport(cmd.Context(), args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.outDir, "output", "o", opts.outDir, "output directory")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "fail on designs with validation errors")
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", opts.jobs, "number of designs exported in parallel")

	return cmd
}

// exported is the outcome of one design.
type exported struct {
	path   string
	result *pipeline.Result
}

func (c *CLI) runExport(ctx context.Context, paths []string, opts exportOpts) error {
	if err := checkOutputNames(paths); err != nil {
		return err
	}
	if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	runner, err := c.newRunner(true)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	results := make([]exported, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	if opts.jobs > 0 {
		g.SetLimit(opts.jobs)
	}
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			h, err := runner.Load(ctx, path)
			if err != nil {
				return err
			}
			res, err := runner.Execute(ctx, h, pipeline.Options{Strict: opts.strict})
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			out := filepath.Join(opts.outDir, baseName(path)+".json")
			if err := os.WriteFile(out, res.JSON, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			results[i] = exported{path: out, result: res}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, e := range results {
		printSuccess("Exported %s", e.result.Harness.Name())
		printStats(e.result.Stats.Components, e.result.Stats.Connections, nil)
		if !e.result.Validation.Valid {
			printWarning("%d validation error(s); run validate for details", len(e.result.Validation.Errors))
		}
		printFile(e.path)
	}
	prog.done(fmt.Sprintf("Exported %d design(s)", len(results)))
	return nil
}

// checkOutputNames rejects designs that would write the same <name>.json.
func checkOutputNames(paths []string) error {
	seen := make(map[string]string, len(paths))
	for _, path := range paths {
		name := baseName(path)
		if prev, ok := seen[name]; ok {
			return errors.New(errors.ErrCodeInvalidInput, "%s and %s both export to %s.json", prev, path, name)
		}
		seen[name] = path
	}
	return nil
}
