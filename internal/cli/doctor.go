package cli

import (
	"fmt"

	"github.com/forPelevin/viralcut/internal/config"
	"github.com/forPelevin/viralcut/internal/deps"
	"github.com/spf13/cobra"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check that external tools and models are installed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			statuses := checkDependencies(cfg)

			out := cmd.OutOrStdout()
			if ctx.configSeen {
				fmt.Fprintf(out, "Config: %s\n", ctx.configPath)
			} else {
				fmt.Fprintln(out, "Config: defaults (no config file found)")
			}
			fmt.Fprintln(out, dependencyTable(statuses))

			if missing := deps.Missing(statuses); len(missing) > 0 {
				return fmt.Errorf("%d required dependencies missing", len(missing))
			}
			return nil
		},
	}
}

// checkDependencies treats whisper models as interchangeable: the first model
// is required and the fallbacks are optional.
func checkDependencies(cfg *config.Config) []deps.Status {
	statuses := deps.CheckBinaries([]deps.Requirement{
		{Name: "yt-dlp", Command: cfg.Download.YtdlpPath, Description: "video download"},
		{Name: "ffmpeg", Command: cfg.Render.FFmpegPath, Description: "audio extraction, cutting, subtitle burn"},
		{Name: "ffprobe", Command: cfg.Render.FFprobePath, Description: "duration probe", Optional: true},
		{Name: "whisper.cpp", Command: cfg.Transcribe.WhisperBin, Description: "transcription"},
	})
	models := make([]deps.Requirement, 0, len(cfg.Transcribe.Models))
	for i, m := range cfg.Transcribe.Models {
		models = append(models, deps.Requirement{
			Name:        fmt.Sprintf("model %d", i+1),
			Command:     m,
			Description: "whisper model",
			Optional:    i > 0,
		})
	}
	return append(statuses, deps.CheckFiles(models)...)
}

func dependencyTable(statuses []deps.Status) string {
	rows := make([][]string, 0, len(statuses))
	for _, s := range statuses {
		rows = append(rows, []string{
			s.Name,
			s.Command,
			yesNo(s.Available),
			yesNo(!s.Optional),
			s.Detail,
		})
	}
	return renderTable(dependencyColumns, rows)
}

var dependencyColumns = []column{
	{title: "Dependency"},
	{title: "Command"},
	{title: "Available"},
	{title: "Required"},
	{title: "Detail"},
}
