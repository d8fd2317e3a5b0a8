package ports

import (
	"context"
	"time"

	"github.com/forPelevin/viralcut/internal/types"
)

// Downloader fetches a remote video into outPath and returns the file it wrote.
type Downloader interface {
	Download(ctx context.Context, url, outPath string) (string, error)
}

type CookieExporter interface {
	ExportCookies(ctx context.Context, browser, url, outPath string) error
}

type Transcriber interface {
	Transcribe(ctx context.Context, wavPath, workDir string) (types.Transcript, error)
}

type VideoTool interface {
	ExtractAudioMono16k(ctx context.Context, inMP4, outWav string) error
	CutSegment(ctx context.Context, inMP4 string, startSec, durSec float64, outMP4 string) error
	BurnSubtitles(ctx context.Context, inMP4, assPath, outMP4 string) error
	ProbeDuration(ctx context.Context, inMP4 string) (time.Duration, error)
}
