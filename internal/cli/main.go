package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func Main() {
	_ = godotenv.Load() // best-effort: load .env if present

	root := newRootCommand()
	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)

	if err := root.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	ctx := &commandContext{}

	root := &cobra.Command{
		Use:           "viralcut",
		Short:         "Cut short viral clips out of a long video",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return ctx.close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	root.PersistentFlags().StringVarP(&ctx.configFlag, "config", "c", "", "Configuration file path")
	root.PersistentFlags().StringVar(&ctx.workDirFlag, "workdir", "", "Workspace directory (overrides paths.work_dir)")
	root.PersistentFlags().StringVar(&ctx.logLevelFlag, "log-level", "", "Log level: debug, info, warn, error")

	root.AddCommand(newRunCommand(ctx))
	root.AddCommand(newSelectCommand(ctx))
	root.AddCommand(newCleanCommand(ctx))
	root.AddCommand(newDoctorCommand(ctx))
	root.AddCommand(newCookiesCommand(ctx))
	root.AddCommand(newConfigCommand(ctx))
	return root
}
