package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/harnesskit/pkg/errors"
)

// validateCommand creates the validate command.
func (c *CLI) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <design>...",
		Short: "Check designs for integrity errors and warnings",
		Long: `Load each design and run the integrity checks: unknown designators, pins out
of range, missing cable cores, over-used cores and unconnected pins.

Exits non-zero when any design has errors. Warnings never fail the command.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner, err := c.newRunner(true)
			if err != nil {
				return err
			}
			defer runner.Close()

			invalid := 0
			for _, path := range args {
				h, err := runner.Load(ctx, path)
				if err != nil {
					return err
				}
				res := runner.Validate(ctx, h)
				printDiagnostics(path, res)
				if !res.Valid {
					invalid++
				}
			}
			if invalid > 0 {
				return errors.New(errors.ErrCodeValidationFailed, "%d of %d design(s) invalid", invalid, len(args))
			}
			return nil
		},
	}
}
