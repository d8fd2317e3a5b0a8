package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/forPelevin/viralcut/internal/config"
	"github.com/forPelevin/viralcut/internal/domain/highlights"
	"github.com/forPelevin/viralcut/internal/pipeline"
	"github.com/forPelevin/viralcut/internal/types"
	"github.com/spf13/cobra"
)

const runTimeout = 3 * time.Hour

func newRunCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <url|file>",
		Short: "Download, transcribe, select and cut viral clips",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, ctx, args[0])
		},
	}
	addSelectionFlags(cmd)
	cmd.Flags().Bool("burn", true, "Burn subtitles into a copy of each clip")
	cmd.Flags().String("encoder", "", "Video encoder: auto, libx264 or h264_nvenc")
	return cmd
}

func run(cmd *cobra.Command, ctx *commandContext, input string) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	settings := *cfg
	if err := applySelectionFlags(cmd, &settings.Selection); err != nil {
		return err
	}
	if cmd.Flags().Changed("burn") {
		settings.Render.BurnSubtitles, _ = cmd.Flags().GetBool("burn")
	}
	if cmd.Flags().Changed("encoder") {
		settings.Render.Encoder, _ = cmd.Flags().GetString("encoder")
	}

	source := input
	if _, err := os.Stat(input); err == nil {
		if source, err = filepath.Abs(input); err != nil {
			return err
		}
	}

	pcfg := pipeline.Config{Source: source, Settings: settings}
	if err := pcfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger, err := ctx.ensureLogger()
	if err != nil {
		return err
	}

	runCtx, cancel := context.WithTimeout(cmd.Context(), runTimeout)
	defer cancel()
	runCtx, stop := signal.NotifyContext(runCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	m, err := pipeline.Run(runCtx, pcfg, logger)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), manifestTable(m))
	return nil
}

func addSelectionFlags(cmd *cobra.Command) {
	cmd.Flags().Int("segments", 0, "Number of segments to select")
	cmd.Flags().Float64("min", 0, "Minimum segment duration in seconds")
	cmd.Flags().Float64("max", 0, "Maximum segment duration in seconds")
	cmd.Flags().String("keywords", "", "YAML keyword rules file")
	cmd.Flags().Uint64("seed", 0, "Seed for reproducible score jitter (0 = random)")
}

// applySelectionFlags overlays only the flags the user set.
func applySelectionFlags(cmd *cobra.Command, s *config.Selection) error {
	f := cmd.Flags()
	if f.Changed("segments") {
		s.Segments, _ = f.GetInt("segments")
	}
	if f.Changed("min") {
		s.MinSeconds, _ = f.GetFloat64("min")
	}
	if f.Changed("max") {
		s.MaxSeconds, _ = f.GetFloat64("max")
	}
	if f.Changed("seed") {
		s.Seed, _ = f.GetUint64("seed")
	}
	if f.Changed("keywords") {
		v, _ := f.GetString("keywords")
		p, err := config.ExpandPath(v)
		if err != nil {
			return fmt.Errorf("resolve keywords file: %w", err)
		}
		s.KeywordsFile = p
	}
	return nil
}

func manifestTable(m types.Manifest) string {
	rows := make([][]string, 0, len(m.Clips))
	for _, c := range m.Clips {
		status := "ok"
		if c.Error != "" {
			status = "failed"
		}
		out := c.Burned
		if out == "" {
			out = c.File
		}
		rows = append(rows, []string{
			c.ID,
			highlights.Timestamp(c.StartSec),
			strconv.Itoa(c.Duration),
			strconv.Itoa(c.Score),
			c.Title,
			status,
			out,
		})
	}
	return renderTable(manifestColumns, rows)
}

var manifestColumns = []column{
	{title: "#", numeric: true},
	{title: "Start"},
	{title: "Secs", numeric: true},
	{title: "Score", numeric: true},
	{title: "Title"},
	{title: "Status"},
	{title: "Output"},
}
