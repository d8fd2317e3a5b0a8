package ffmpeg

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/forPelevin/viralcut/internal/logging"
	"github.com/forPelevin/viralcut/internal/ports/adapters/proc"
)

const (
	EncoderAuto  = "auto"
	EncoderX264  = "libx264"
	EncoderNVENC = "h264_nvenc"
)

const nvencProbeTimeout = 10 * time.Second

type Options struct {
	FFmpeg  string
	FFprobe string

	// Encoder is auto, libx264 or h264_nvenc. Auto probes for a working NVENC.
	Encoder string
	Logger  *slog.Logger
}

type Adapter struct {
	ffmpeg  string
	ffprobe string
	logger  *slog.Logger
	run     proc.Runner

	encoderOnce sync.Once
	encoder     string
}

func New(opts Options) *Adapter {
	a := &Adapter{
		ffmpeg:  opts.FFmpeg,
		ffprobe: opts.FFprobe,
		logger:  opts.Logger,
		run:     proc.Exec,
		encoder: opts.Encoder,
	}
	if a.ffmpeg == "" {
		a.ffmpeg = "ffmpeg"
	}
	if a.ffprobe == "" {
		a.ffprobe = "ffprobe"
	}
	if a.encoder == "" {
		a.encoder = EncoderAuto
	}
	if a.logger == nil {
		a.logger = logging.NewNop()
	}
	return a
}

func (a *Adapter) ExtractAudioMono16k(ctx context.Context, inMP4, outWav string) error {
	_, stderr, err := a.run(ctx, a.ffmpeg,
		"-y",
		"-i", inMP4,
		"-vn",
		"-ac", "1",
		"-ar", "16000",
		"-f", "wav",
		outWav,
	)
	if err != nil {
		return fmt.Errorf("ffmpeg extract audio: %w\n%s", err, string(stderr))
	}
	return nil
}

// CutSegment seeks before the input so ffmpeg skips decoding up to startSec.
func (a *Adapter) CutSegment(ctx context.Context, inMP4 string, startSec, durSec float64, outMP4 string) error {
	args := []string{
		"-y",
		"-ss", fmtSeconds(startSec),
		"-i", inMP4,
		"-t", fmtSeconds(durSec),
	}
	args = append(args, videoArgs(a.Encoder(ctx))...)
	args = append(args,
		"-c:a", "aac",
		"-b:a", "128k",
		outMP4,
	)
	_, stderr, err := a.run(ctx, a.ffmpeg, args...)
	if err != nil {
		return fmt.Errorf("ffmpeg cut segment: %w\n%s", err, string(stderr))
	}
	return nil
}

func (a *Adapter) BurnSubtitles(ctx context.Context, inMP4, assPath, outMP4 string) error {
	args := []string{
		"-y",
		"-i", inMP4,
		"-vf", "subtitles=" + escapeFilterPath(assPath),
	}
	args = append(args, videoArgs(a.Encoder(ctx))...)
	args = append(args,
		"-c:a", "copy",
		outMP4,
	)
	_, stderr, err := a.run(ctx, a.ffmpeg, args...)
	if err != nil {
		return fmt.Errorf("ffmpeg burn subtitles: %w\n%s", err, string(stderr))
	}
	return nil
}

func (a *Adapter) ProbeDuration(ctx context.Context, inMP4 string) (time.Duration, error) {
	stdout, stderr, err := a.run(ctx, a.ffprobe,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		inMP4,
	)
	if err != nil {
		return 0, fmt.Errorf("ffprobe duration: %w\n%s", err, string(stderr))
	}
	s := strings.TrimSpace(string(stdout))
	sec, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", s, err)
	}
	return time.Duration(sec * float64(time.Second)), nil
}

// Encoder resolves the video encoder once. With auto, NVENC is used only when
// ffmpeg lists it and a one second test encode succeeds.
func (a *Adapter) Encoder(ctx context.Context) string {
	a.encoderOnce.Do(func() {
		if a.encoder != EncoderAuto {
			return
		}
		if a.nvencWorks(ctx) {
			a.encoder = EncoderNVENC
		} else {
			a.encoder = EncoderX264
		}
		a.logger.Info("video encoder selected", logging.String("encoder", a.encoder))
	})
	return a.encoder
}

func (a *Adapter) nvencWorks(ctx context.Context) bool {
	stdout, _, err := a.run(ctx, a.ffmpeg, "-hide_banner", "-encoders")
	if err != nil || !strings.Contains(string(stdout), EncoderNVENC) {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, nvencProbeTimeout)
	defer cancel()
	_, _, err = a.run(ctx, a.ffmpeg,
		"-hide_banner",
		"-f", "lavfi",
		"-i", "testsrc=duration=1:size=320x240:rate=1",
		"-c:v", EncoderNVENC,
		"-preset", "p1",
		"-f", "null", "-",
	)
	return err == nil
}

func videoArgs(encoder string) []string {
	if encoder == EncoderNVENC {
		return []string{"-c:v", EncoderNVENC, "-preset", "p1", "-b:v", "5M"}
	}
	return []string{"-c:v", EncoderX264, "-preset", "ultrafast", "-crf", "23"}
}

func fmtSeconds(sec float64) string {
	return strconv.FormatFloat(sec, 'f', 3, 64)
}

func escapeFilterPath(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	p = strings.ReplaceAll(p, ":", "\\:")
	p = strings.ReplaceAll(p, "'", "\\'")
	return p
}
