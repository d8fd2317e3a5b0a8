package whispercpp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/forPelevin/viralcut/internal/logging"
	"github.com/forPelevin/viralcut/internal/ports/adapters/proc"
	"github.com/forPelevin/viralcut/internal/types"
)

var ErrNoModel = errors.New("whispercpp: no model could transcribe the audio")

type Options struct {
	Bin string

	// Models are tried in order; the first that succeeds wins.
	Models   []string
	Language string
	Threads  int
	Logger   *slog.Logger
}

type Adapter struct {
	bin      string
	models   []string
	language string
	threads  int
	logger   *slog.Logger
	run      proc.Runner
}

func New(opts Options) *Adapter {
	a := &Adapter{
		bin:      opts.Bin,
		models:   opts.Models,
		language: opts.Language,
		threads:  opts.Threads,
		logger:   opts.Logger,
		run:      proc.Exec,
	}
	if a.logger == nil {
		a.logger = logging.NewNop()
	}
	return a
}

func (a *Adapter) args(model, wavPath, outPrefix string) []string {
	args := []string{
		"-m", model,
		"-f", wavPath,
		"-ojf",
		"-of", outPrefix,
	}
	if a.language != "" {
		args = append(args, "-l", a.language)
	}
	if a.threads > 0 {
		args = append(args, "-t", strconv.Itoa(a.threads))
	}
	return args
}

func (a *Adapter) Transcribe(ctx context.Context, wavPath, cacheDir string) (types.Transcript, error) {
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return types.Transcript{}, fmt.Errorf("create whisper cache dir: %w", err)
	}
	outPrefix := filepath.Join(cacheDir, "whisper")

	var errs []error
	for _, model := range a.models {
		if _, err := os.Stat(model); err != nil {
			a.logger.Warn("whisper model unavailable", logging.String("model", model), logging.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", model, err))
			continue
		}

		a.logger.Info("transcribing", logging.String("model", filepath.Base(model)))
		_, stderr, err := a.run(ctx, a.bin, a.args(model, wavPath, outPrefix)...)
		if err != nil {
			if ctx.Err() != nil {
				return types.Transcript{}, ctx.Err()
			}
			a.logger.Warn("whisper model failed", logging.String("model", filepath.Base(model)), logging.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w\n%s", model, err, string(stderr)))
			continue
		}

		jb, err := os.ReadFile(outPrefix + ".json")
		if err != nil {
			return types.Transcript{}, fmt.Errorf("read whisper output: %w", err)
		}
		tr, err := decodeTranscript(jb)
		if err != nil {
			return types.Transcript{}, err
		}
		return tr, nil
	}
	if len(errs) == 0 {
		return types.Transcript{}, fmt.Errorf("%w: no models configured", ErrNoModel)
	}
	return types.Transcript{}, fmt.Errorf("%w: %w", ErrNoModel, errors.Join(errs...))
}

type offsets struct {
	From int64 `json:"from"`
	To   int64 `json:"to"`
}

type token struct {
	Text    string  `json:"text"`
	Offsets offsets `json:"offsets"`
}

type fullSegment struct {
	Offsets offsets `json:"offsets"`
	Text    string  `json:"text"`
	Tokens  []token `json:"tokens"`
}

type output struct {
	Transcription []fullSegment   `json:"transcription"`
	Segments      []types.Segment `json:"segments"`
}

// decodeTranscript accepts whisper.cpp's full JSON output (-ojf) as well as a
// pre-shaped {"segments": [...]} document.
func decodeTranscript(b []byte) (types.Transcript, error) {
	var out output
	if err := json.Unmarshal(b, &out); err != nil {
		return types.Transcript{}, fmt.Errorf("decode whisper output: %w", err)
	}

	tr := types.Transcript{Segments: out.Segments}
	if len(out.Transcription) > 0 {
		tr.Segments = make([]types.Segment, 0, len(out.Transcription))
		for _, s := range out.Transcription {
			tr.Segments = append(tr.Segments, types.Segment{
				Start: ms(s.Offsets.From),
				End:   ms(s.Offsets.To),
				Text:  s.Text,
				Words: joinTokens(s.Tokens),
			})
		}
	}

	for i := range tr.Segments {
		tr.Segments[i].Text = strings.TrimSpace(tr.Segments[i].Text)
		for j := range tr.Segments[i].Words {
			tr.Segments[i].Words[j].Word = strings.TrimSpace(tr.Segments[i].Words[j].Word)
		}
	}
	return tr, nil
}

// joinTokens merges sub-word tokens into words. A token starting with a space
// begins a new word; special tokens like [_BEG_] are dropped.
func joinTokens(tokens []token) []types.Word {
	var words []types.Word
	for _, t := range tokens {
		if t.Text == "" || strings.HasPrefix(t.Text, "[_") {
			continue
		}
		if len(words) == 0 || strings.HasPrefix(t.Text, " ") {
			words = append(words, types.Word{
				Start: ms(t.Offsets.From),
				End:   ms(t.Offsets.To),
				Word:  t.Text,
			})
			continue
		}
		last := &words[len(words)-1]
		last.Word += t.Text
		last.End = ms(t.Offsets.To)
	}
	out := words[:0]
	for _, w := range words {
		if strings.TrimSpace(w.Word) != "" {
			out = append(out, w)
		}
	}
	return out
}

func ms(v int64) float64 { return float64(v) / 1000 }
