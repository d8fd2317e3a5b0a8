package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
	"unicode"

	"github.com/forPelevin/viralcut/internal/domain/highlights"
	"github.com/forPelevin/viralcut/internal/domain/subtitles"
	"github.com/forPelevin/viralcut/internal/domain/transcript"
	"github.com/forPelevin/viralcut/internal/logging"
	"github.com/forPelevin/viralcut/internal/ports"
	"github.com/forPelevin/viralcut/internal/types"
	"github.com/forPelevin/viralcut/internal/workspace"
)

var ErrNoInput = errors.New("usecase: input is neither a URL nor an existing file")

const maxSlugRunes = 40

type Deps struct {
	Downloader ports.Downloader
	Video      ports.VideoTool
	ASR        ports.Transcriber
	Logger     *slog.Logger
}

type Usecase struct{ d Deps }

func New(d Deps) Usecase {
	if d.Logger == nil {
		d.Logger = logging.NewNop()
	}
	return Usecase{d: d}
}

type Input struct {
	// Source is a video URL or a local file path.
	Source        string
	Workspace     workspace.Layout
	Selection     highlights.SelectOptions
	BurnSubtitles bool
}

type Result struct {
	// Segments are in selection order, as written to the segments file.
	Segments []types.ViralSegment
	Manifest types.Manifest
}

func (u Usecase) Run(ctx context.Context, in Input) (Result, error) {
	ws := in.Workspace
	log := u.d.Logger
	if err := ws.Ensure(); err != nil {
		return Result{}, err
	}

	video, err := u.fetch(ctx, in.Source, ws)
	if err != nil {
		return Result{}, err
	}
	if d, err := u.d.Video.ProbeDuration(ctx, video); err != nil {
		log.Warn("probe source duration failed", logging.Error(err))
	} else {
		log.Info("source ready", logging.String("path", video), logging.Duration("duration", d))
	}

	stamp, err := stampSource(in.Source)
	if err != nil {
		return Result{}, err
	}
	tr, err := u.transcribe(ctx, video, stamp, ws)
	if err != nil {
		return Result{}, err
	}

	log.Info("selecting segments", logging.Int("transcript_segments", len(tr.Segments)))
	segs, err := highlights.Select(tr, in.Selection)
	if err != nil {
		return Result{}, err
	}
	if err := WriteSegmentsFile(ws.SegmentsFile(), segs); err != nil {
		return Result{}, err
	}
	log.Info("segments selected",
		logging.Int("count", len(segs)),
		logging.String("file", ws.SegmentsFile()),
	)

	m := types.Manifest{Input: in.Source}
	for i, seg := range timeline(segs) {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		clip := u.renderClip(ctx, video, tr, ws, i, seg, in.BurnSubtitles)
		m.Clips = append(m.Clips, clip)
	}
	return Result{Segments: segs, Manifest: m}, nil
}

// renderClip cuts one segment and writes its subtitles. Failures are logged
// and recorded on the returned clip; the run carries on with the next one.
func (u Usecase) renderClip(
	ctx context.Context,
	video string,
	tr types.Transcript,
	ws workspace.Layout,
	i int,
	seg types.ViralSegment,
	burn bool,
) types.ManifestClip {
	id := fmt.Sprintf("%03d", i+1)
	name := clipName(id, seg.Title)
	log := u.d.Logger.With(logging.String(logging.FieldClip, name))

	clip := types.ManifestClip{
		ID:          id,
		Title:       seg.Title,
		Description: seg.Description,
		StartSec:    seg.StartSec,
		EndSec:      seg.EndSec,
		Duration:    seg.Duration,
		Score:       seg.Score,
		Backfill:    seg.Backfill,
		Text:        seg.Text,
	}

	log.Info("cutting clip",
		logging.String("start", seg.StartTime),
		logging.Int("duration", seg.Duration),
		logging.Int("score", seg.Score),
	)
	clipPath := ws.ClipFile(name)
	if err := u.d.Video.CutSegment(ctx, video, seg.StartSec, seg.EndSec-seg.StartSec, clipPath); err != nil {
		log.Error("cut failed", logging.Error(err))
		clip.Error = err.Error()
		return clip
	}
	clip.File = rel(ws.Root, clipPath)

	start, end := seg.Span()
	srtPath := ws.SRTFile(name)
	if err := os.WriteFile(srtPath, []byte(subtitles.RenderSRT(tr, start, end)), 0o644); err != nil {
		log.Error("write srt failed", logging.Error(err))
		clip.Error = err.Error()
		return clip
	}
	assPath := ws.ASSFile(name)
	if err := os.WriteFile(assPath, []byte(subtitles.RenderASS(tr, start, end)), 0o644); err != nil {
		log.Error("write ass failed", logging.Error(err))
		clip.Error = err.Error()
		return clip
	}
	clip.Subtitles = rel(ws.Root, assPath)

	if !burn {
		return clip
	}
	burnedPath := ws.BurnedFile(name)
	if err := u.d.Video.BurnSubtitles(ctx, clipPath, assPath, burnedPath); err != nil {
		log.Error("burn subtitles failed", logging.Error(err))
		clip.Error = err.Error()
		return clip
	}
	clip.Burned = rel(ws.Root, burnedPath)
	return clip
}

func (u Usecase) fetch(ctx context.Context, source string, ws workspace.Layout) (string, error) {
	if isURL(source) {
		if u.d.Downloader == nil {
			return "", errors.New("usecase: no downloader configured")
		}
		return u.d.Downloader.Download(ctx, source, ws.InputVideo())
	}
	info, err := os.Stat(source)
	if err != nil || info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrNoInput, source)
	}
	return source, nil
}

// transcribe reuses a transcript left in the workspace by an earlier run of
// the same source.
func (u Usecase) transcribe(ctx context.Context, video string, stamp sourceStamp, ws workspace.Layout) (types.Transcript, error) {
	log := u.d.Logger
	if tr, ok := loadCachedTranscript(ws, stamp); ok {
		log.Info("transcript found, skipping transcription", logging.Int("segments", len(tr.Segments)))
		return tr, nil
	}
	if err := os.Remove(ws.SourceStamp()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return types.Transcript{}, fmt.Errorf("remove source stamp: %w", err)
	}

	log.Info("extracting audio")
	if err := u.d.Video.ExtractAudioMono16k(ctx, video, ws.Audio()); err != nil {
		return types.Transcript{}, err
	}
	tr, err := u.d.ASR.Transcribe(ctx, ws.Audio(), ws.WhisperCache())
	if err != nil {
		return types.Transcript{}, err
	}
	if err := saveTranscript(ws, tr); err != nil {
		return types.Transcript{}, err
	}
	if err := writeSourceStamp(ws.SourceStamp(), stamp); err != nil {
		return types.Transcript{}, err
	}
	log.Info("transcription complete", logging.Int("segments", len(tr.Segments)))
	return tr, nil
}

func loadCachedTranscript(ws workspace.Layout, stamp sourceStamp) (types.Transcript, bool) {
	cached, err := readSourceStamp(ws.SourceStamp())
	if err != nil || !cached.matches(stamp) {
		return types.Transcript{}, false
	}
	if b, err := os.ReadFile(ws.TranscriptJSON()); err == nil {
		var tr types.Transcript
		if json.Unmarshal(b, &tr) == nil {
			return tr, true
		}
	}
	// A TSV without its SRT is a partial write from an interrupted run.
	if _, err := os.Stat(ws.TranscriptSRT()); err != nil {
		return types.Transcript{}, false
	}
	tr, err := transcript.LoadTSV(ws.TranscriptTSV())
	if err != nil {
		return types.Transcript{}, false
	}
	return tr, true
}

func saveTranscript(ws workspace.Layout, tr types.Transcript) error {
	if err := transcript.SaveTSV(ws.TranscriptTSV(), tr); err != nil {
		return err
	}
	srt := subtitles.RenderSRT(tr, 0, subtitles.Full)
	if err := os.WriteFile(ws.TranscriptSRT(), []byte(srt), 0o644); err != nil {
		return fmt.Errorf("write transcript srt: %w", err)
	}
	b, err := json.MarshalIndent(tr, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal transcript: %w", err)
	}
	return os.WriteFile(ws.TranscriptJSON(), b, 0o644)
}

// sourceStamp identifies the input a cached transcript was made from. URLs are
// identified by the URL alone; local files also by size and modification time.
type sourceStamp struct {
	Source  string    `json:"source"`
	Size    int64     `json:"size,omitempty"`
	ModTime time.Time `json:"mod_time"`
}

func stampSource(source string) (sourceStamp, error) {
	if isURL(source) {
		return sourceStamp{Source: strings.TrimSpace(source)}, nil
	}
	abs, err := filepath.Abs(source)
	if err != nil {
		return sourceStamp{}, fmt.Errorf("resolve %s: %w", source, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return sourceStamp{}, fmt.Errorf("%w: %s", ErrNoInput, source)
	}
	return sourceStamp{Source: abs, Size: info.Size(), ModTime: info.ModTime()}, nil
}

func (s sourceStamp) matches(o sourceStamp) bool {
	return s.Source == o.Source && s.Size == o.Size && s.ModTime.Equal(o.ModTime)
}

func readSourceStamp(path string) (sourceStamp, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return sourceStamp{}, err
	}
	var s sourceStamp
	if err := json.Unmarshal(b, &s); err != nil {
		return sourceStamp{}, fmt.Errorf("decode source stamp: %w", err)
	}
	return s, nil
}

func writeSourceStamp(path string, s sourceStamp) error {
	b, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal source stamp: %w", err)
	}
	return os.WriteFile(path, b, 0o644)
}

// SelectFromTSV runs segment selection over a transcript file.
func SelectFromTSV(path string, opts highlights.SelectOptions) ([]types.ViralSegment, error) {
	tr, err := transcript.LoadTSV(path)
	if err != nil {
		return nil, err
	}
	return highlights.Select(tr, opts)
}

// WriteSegmentsFile writes segs as the {"segments": [...]} document the cutter
// consumes.
func WriteSegmentsFile(path string, segs []types.ViralSegment) error {
	if segs == nil {
		segs = []types.ViralSegment{}
	}
	b, err := json.MarshalIndent(types.SegmentsFile{Segments: segs}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal segments: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, append(b, '\n'), 0o644)
}

func timeline(segs []types.ViralSegment) []types.ViralSegment {
	out := slices.Clone(segs)
	slices.SortStableFunc(out, func(a, b types.ViralSegment) int {
		switch {
		case a.StartSec < b.StartSec:
			return -1
		case a.StartSec > b.StartSec:
			return 1
		default:
			return 0
		}
	})
	return out
}

func isURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func clipName(id, title string) string {
	slug := normalizePathSegment(title)
	if r := []rune(slug); len(r) > maxSlugRunes {
		slug = strings.TrimRight(string(r[:maxSlugRunes]), "-")
	}
	if slug == "" {
		return id
	}
	return id + "-" + slug
}

func normalizePathSegment(s string) string {
	var b strings.Builder
	prevDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
			prevDash = false
		default:
			if !prevDash {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

func rel(root, path string) string {
	r, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(r)
}
