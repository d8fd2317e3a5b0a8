package cli

import (
	"fmt"

	"github.com/forPelevin/viralcut/internal/config"
	"github.com/forPelevin/viralcut/internal/pipeline"
	"github.com/spf13/cobra"
)

func newCookiesCommand(ctx *commandContext) *cobra.Command {
	cookiesCmd := &cobra.Command{
		Use:   "cookies",
		Short: "Browser cookie utilities for authenticated downloads",
	}
	cookiesCmd.AddCommand(newCookiesExportCommand(ctx))
	return cookiesCmd
}

func newCookiesExportCommand(ctx *commandContext) *cobra.Command {
	var browser string
	var outPath string

	cmd := &cobra.Command{
		Use:   "export [url]",
		Short: "Export browser cookies to a cookies.txt file with yt-dlp",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			url := "https://www.youtube.com"
			if len(args) == 1 {
				url = args[0]
			}
			target := cfg.Paths.CookiesFile
			if outPath != "" {
				if target, err = config.ExpandPath(outPath); err != nil {
					return err
				}
			}

			dl := pipeline.NewDownloader(*cfg, logger)
			if err := dl.ExportCookies(cmd.Context(), browser, url, target); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %s cookies to %s\n", browser, target)
			return nil
		},
	}
	cmd.Flags().StringVarP(&browser, "browser", "b", "firefox", "Browser to read cookies from")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Destination file (defaults to paths.cookies_file)")
	return cmd
}
