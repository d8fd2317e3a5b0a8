package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/forPelevin/viralcut/internal/config"
	"github.com/forPelevin/viralcut/internal/domain/highlights"
	"github.com/forPelevin/viralcut/internal/logging"
	"github.com/forPelevin/viralcut/internal/ports"
	"github.com/forPelevin/viralcut/internal/ports/adapters/ffmpeg"
	"github.com/forPelevin/viralcut/internal/ports/adapters/whispercpp"
	"github.com/forPelevin/viralcut/internal/ports/adapters/ytdlp"
	"github.com/forPelevin/viralcut/internal/types"
	"github.com/forPelevin/viralcut/internal/usecase"
	"github.com/forPelevin/viralcut/internal/workspace"
	"github.com/google/uuid"
)

type Config struct {
	// Source is a video URL or a local file.
	Source   string
	Settings config.Config
}

func (c Config) Validate() error {
	if c.Source == "" {
		return errors.New("input is empty")
	}
	return c.Settings.Validate()
}

// Run executes the full download, transcribe, select, cut and subtitle flow
// inside the configured workspace and writes final/manifest.json.
func Run(ctx context.Context, cfg Config, logger *slog.Logger) (types.Manifest, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := cfg.Settings

	opts, err := SelectionOptions(s.Selection)
	if err != nil {
		return types.Manifest{}, err
	}

	ws := workspace.New(s.Paths.WorkDir)
	unlock, err := ws.Lock()
	if err != nil {
		return types.Manifest{}, err
	}
	defer release(unlock, logger)

	runID := uuid.NewString()
	logger = logger.With(logging.String(logging.FieldRunID, runID))
	logger.Info("run started",
		logging.String("input", cfg.Source),
		logging.String("workspace", ws.Root),
		logging.Int("segments", opts.Count),
	)

	uc := usecase.New(usecase.Deps{
		Downloader: NewDownloader(s, logger),
		Video:      NewVideoTool(s, logger),
		ASR:        NewTranscriber(s, logger),
		Logger:     logger,
	})
	res, err := uc.Run(ctx, usecase.Input{
		Source:        cfg.Source,
		Workspace:     ws,
		Selection:     opts,
		BurnSubtitles: s.Render.BurnSubtitles,
	})
	if err != nil {
		return types.Manifest{}, err
	}

	m := res.Manifest
	m.RunID = runID
	m.Created = time.Now().UTC()
	if err := writeManifest(ws.ManifestFile(), m); err != nil {
		return types.Manifest{}, err
	}
	logger.Info("manifest written",
		logging.Int("clips", len(m.Clips)),
		logging.Int("failed", failedClips(m)),
		logging.String("path", ws.ManifestFile()),
	)
	return m, nil
}

// SelectionOptions turns the selection settings into selector options,
// loading the keyword rules file when one is configured.
func SelectionOptions(s config.Selection) (highlights.SelectOptions, error) {
	opts := highlights.SelectOptions{
		Count:       s.Segments,
		MinDuration: s.MinSeconds,
		MaxDuration: s.MaxSeconds,
		Jitter:      highlights.NewRandomJitter(s.Seed),
	}
	if s.KeywordsFile != "" {
		rules, err := highlights.LoadRules(s.KeywordsFile)
		if err != nil {
			return highlights.SelectOptions{}, err
		}
		opts.Rules = &rules
	}
	return opts, nil
}

func NewDownloader(s config.Config, logger *slog.Logger) *ytdlp.Adapter {
	return ytdlp.New(ytdlp.Options{
		Bin:         s.Download.YtdlpPath,
		Format:      s.Download.Format,
		Browsers:    s.Download.Browsers,
		CookiesFile: s.Paths.CookiesFile,
		Logger:      logging.NewComponentLogger(logger, "ytdlp"),
	})
}

func NewVideoTool(s config.Config, logger *slog.Logger) *ffmpeg.Adapter {
	return ffmpeg.New(ffmpeg.Options{
		FFmpeg:  s.Render.FFmpegPath,
		FFprobe: s.Render.FFprobePath,
		Encoder: s.Render.Encoder,
		Logger:  logging.NewComponentLogger(logger, "ffmpeg"),
	})
}

func NewTranscriber(s config.Config, logger *slog.Logger) *whispercpp.Adapter {
	return whispercpp.New(whispercpp.Options{
		Bin:      s.Transcribe.WhisperBin,
		Models:   s.Transcribe.Models,
		Language: s.Transcribe.Language,
		Threads:  s.Transcribe.Threads,
		Logger:   logging.NewComponentLogger(logger, "whisper"),
	})
}

// Clean empties the workspace directories while holding the workspace lock.
func Clean(s config.Config, logger *slog.Logger) (workspace.CleanResult, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	ws := workspace.New(s.Paths.WorkDir)
	unlock, err := ws.Lock()
	if err != nil {
		return workspace.CleanResult{}, err
	}
	defer release(unlock, logger)
	return ws.Clean(logger), nil
}

func release(unlock func() error, logger *slog.Logger) {
	if err := unlock(); err != nil {
		logger.Warn("failed to release workspace lock", logging.Error(err))
	}
}

func writeManifest(path string, m types.Manifest) error {
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

func failedClips(m types.Manifest) int {
	n := 0
	for _, c := range m.Clips {
		if c.Error != "" {
			n++
		}
	}
	return n
}

// ensure adapters implement ports
var _ ports.Downloader = (*ytdlp.Adapter)(nil)
var _ ports.CookieExporter = (*ytdlp.Adapter)(nil)
var _ ports.VideoTool = (*ffmpeg.Adapter)(nil)
var _ ports.Transcriber = (*whispercpp.Adapter)(nil)
