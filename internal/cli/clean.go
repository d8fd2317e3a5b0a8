package cli

import (
	"fmt"

	"github.com/forPelevin/viralcut/internal/pipeline"
	"github.com/spf13/cobra"
)

func newCleanCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Empty the workspace directories (tmp, final, subs, subs_ass, burned_sub)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			res, err := pipeline.Clean(*cfg, logger)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Removed %d entries from %s\n", len(res.Removed), cfg.Paths.WorkDir)
			for _, e := range res.Errors {
				fmt.Fprintf(out, "  failed: %s: %v\n", e.Path, e.Error)
			}
			if len(res.Errors) > 0 {
				return fmt.Errorf("clean finished with %d errors", len(res.Errors))
			}
			return nil
		},
	}
}
