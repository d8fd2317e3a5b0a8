//go:build integration

package itest

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/forPelevin/viralcut/internal/config"
	"github.com/forPelevin/viralcut/internal/logging"
	"github.com/forPelevin/viralcut/internal/pipeline"
)

const speech = "Você sabia que isso é incrível? Nunca vi nada parecido. " +
	"Cara, a inteligência artificial está mudando tudo. " +
	"Imagine o que vai acontecer nos próximos anos. " +
	"Essa é a verdade que ninguém conta. Será que você acredita?"

func TestE2E(t *testing.T) {
	repoRoot := mustRepoRoot(t)
	whisperBin := filepath.Join(repoRoot, ".cache", "bin", "whisper.cpp")
	model := filepath.Join(repoRoot, ".cache", "models", "ggml-base.bin")
	for _, p := range []string{whisperBin, model} {
		if _, err := os.Stat(p); err != nil {
			t.Fatalf("%s is required for itest: %v", p, err)
		}
	}

	tmp := t.TempDir()
	in := speechMP4(t, tmp, speech)

	s := config.Default()
	s.Paths.WorkDir = filepath.Join(tmp, "ws")
	s.Transcribe.WhisperBin = whisperBin
	s.Transcribe.Models = []string{model}
	s.Render.Encoder = config.EncoderX264
	s.Selection.Segments = 2
	s.Selection.MinSeconds = 3
	s.Selection.MaxSeconds = 20
	s.Selection.Seed = 1

	logger, closeLog, err := logging.New(logging.Options{Level: "debug"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	defer closeLog()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
	defer cancel()

	m, err := pipeline.Run(ctx, pipeline.Config{Source: in, Settings: s}, logger)
	if err != nil {
		t.Fatalf("pipeline failed: %v", err)
	}

	ws := s.Paths.WorkDir
	for _, p := range []string{
		filepath.Join(ws, "final", "manifest.json"),
		filepath.Join(ws, "tmp", "viral_segments.json"),
		filepath.Join(ws, "tmp", "input_video.tsv"),
		filepath.Join(ws, "tmp", "input_video.srt"),
	} {
		if _, err := os.Stat(p); err != nil {
			t.Fatalf("missing %s: %v", p, err)
		}
	}
	if len(m.Clips) == 0 {
		t.Fatalf("expected at least one clip")
	}
	for _, c := range m.Clips {
		if c.Error != "" {
			t.Fatalf("clip %s failed: %s", c.ID, c.Error)
		}
		info, err := probeMedia(filepath.Join(ws, c.File))
		if err != nil {
			t.Fatalf("probe clip %s: %v", c.ID, err)
		}
		want := c.EndSec - c.StartSec
		if info.Duration < want-1 || info.Duration > want+1 {
			t.Fatalf("clip %s duration %.2fs, want about %.2fs", c.ID, info.Duration, want)
		}
		if !info.Video || !info.Audio {
			t.Fatalf("clip %s should keep both streams, got %+v", c.ID, info)
		}
		if _, err := os.Stat(filepath.Join(ws, c.Burned)); err != nil {
			t.Fatalf("missing burned clip for %s: %v", c.ID, err)
		}
	}
}
