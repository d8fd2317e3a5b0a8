package cli

import (
	"fmt"
	"strconv"

	"github.com/forPelevin/viralcut/internal/config"
	"github.com/forPelevin/viralcut/internal/pipeline"
	"github.com/forPelevin/viralcut/internal/types"
	"github.com/forPelevin/viralcut/internal/usecase"
	"github.com/spf13/cobra"
)

func newSelectCommand(ctx *commandContext) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "select <transcript.tsv>",
		Short: "Select viral segments from a TSV transcript without cutting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			sel := cfg.Selection
			if err := applySelectionFlags(cmd, &sel); err != nil {
				return err
			}
			settings := *cfg
			settings.Selection = sel
			if err := settings.Validate(); err != nil {
				return err
			}

			opts, err := pipeline.SelectionOptions(sel)
			if err != nil {
				return err
			}
			segs, err := usecase.SelectFromTSV(args[0], opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, segmentsTable(segs))
			if outPath == "" {
				return nil
			}
			p, err := config.ExpandPath(outPath)
			if err != nil {
				return err
			}
			if err := usecase.WriteSegmentsFile(p, segs); err != nil {
				return err
			}
			fmt.Fprintf(out, "Wrote %d segments to %s\n", len(segs), p)
			return nil
		},
	}
	addSelectionFlags(cmd)
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write the segments JSON to this file")
	return cmd
}

func segmentsTable(segs []types.ViralSegment) string {
	rows := make([][]string, 0, len(segs))
	for i, s := range segs {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			s.StartTime,
			s.EndTime,
			strconv.Itoa(s.Duration),
			strconv.Itoa(s.Score),
			yesNo(s.Backfill),
			s.Title,
		})
	}
	return renderTable(segmentColumns, rows)
}

var segmentColumns = []column{
	{title: "#", numeric: true},
	{title: "Start"},
	{title: "End"},
	{title: "Secs", numeric: true},
	{title: "Score", numeric: true},
	{title: "Backfill"},
	{title: "Title"},
}
