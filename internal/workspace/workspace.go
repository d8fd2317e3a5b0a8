// Package workspace owns the on-disk layout of a viralcut run: the tmp,
// final, subs, subs_ass and burned_sub directories under one root.
package workspace

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/forPelevin/viralcut/internal/logging"
	"github.com/gofrs/flock"
)

// ErrBusy reports that another run holds the workspace lock.
var ErrBusy = errors.New("workspace: another run is using this workspace")

const lockName = ".viralcut.lock"

type Layout struct {
	Root      string
	Tmp       string
	Final     string
	Subs      string
	SubsASS   string
	BurnedSub string
}

func New(root string) Layout {
	return Layout{
		Root:      root,
		Tmp:       filepath.Join(root, "tmp"),
		Final:     filepath.Join(root, "final"),
		Subs:      filepath.Join(root, "subs"),
		SubsASS:   filepath.Join(root, "subs_ass"),
		BurnedSub: filepath.Join(root, "burned_sub"),
	}
}

// Dirs lists the managed directories in cleanup order.
func (l Layout) Dirs() []string {
	return []string{l.Tmp, l.Final, l.Subs, l.SubsASS, l.BurnedSub}
}

func (l Layout) Ensure() error {
	for _, d := range l.Dirs() {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", d, err)
		}
	}
	return nil
}

func (l Layout) InputVideo() string     { return filepath.Join(l.Tmp, "input_video.mp4") }
func (l Layout) Audio() string          { return filepath.Join(l.Tmp, "audio.wav") }
func (l Layout) TranscriptTSV() string  { return filepath.Join(l.Tmp, "input_video.tsv") }
func (l Layout) TranscriptSRT() string  { return filepath.Join(l.Tmp, "input_video.srt") }
func (l Layout) TranscriptJSON() string { return filepath.Join(l.Tmp, "input_video.json") }
func (l Layout) SourceStamp() string    { return filepath.Join(l.Tmp, "input_video.source.json") }
func (l Layout) SegmentsFile() string   { return filepath.Join(l.Tmp, "viral_segments.json") }
func (l Layout) WhisperCache() string   { return filepath.Join(l.Tmp, "whisper") }
func (l Layout) ManifestFile() string   { return filepath.Join(l.Final, "manifest.json") }

func (l Layout) ClipFile(name string) string { return filepath.Join(l.Final, name+".mp4") }
func (l Layout) SRTFile(name string) string  { return filepath.Join(l.Subs, name+".srt") }
func (l Layout) ASSFile(name string) string  { return filepath.Join(l.SubsASS, name+".ass") }

func (l Layout) BurnedFile(name string) string {
	return filepath.Join(l.BurnedSub, name+"_subtitled.mp4")
}

// CleanResult contains the outcome of a workspace cleanup.
type CleanResult struct {
	Removed []string
	Errors  []CleanupError
}

// CleanupError pairs a path with its cleanup error.
type CleanupError struct {
	Path  string
	Error error
}

// Clean empties every managed directory and recreates it. Failures are
// collected per path and never stop the sweep.
func (l Layout) Clean(logger *slog.Logger) CleanResult {
	if logger == nil {
		logger = logging.NewNop()
	}
	var result CleanResult
	for _, dir := range l.Dirs() {
		entries, err := os.ReadDir(dir)
		if err != nil && !os.IsNotExist(err) {
			result.Errors = append(result.Errors, CleanupError{Path: dir, Error: err})
			continue
		}
		for _, entry := range entries {
			p := filepath.Join(dir, entry.Name())
			if err := os.RemoveAll(p); err != nil {
				result.Errors = append(result.Errors, CleanupError{Path: p, Error: err})
				logger.Warn("failed to remove workspace entry", logging.String("path", p), logging.Error(err))
				continue
			}
			result.Removed = append(result.Removed, p)
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			result.Errors = append(result.Errors, CleanupError{Path: dir, Error: err})
			continue
		}
		logger.Debug("workspace directory cleaned", logging.String("dir", dir))
	}
	logger.Info("workspace cleaned",
		logging.Int("removed", len(result.Removed)),
		logging.Int("errors", len(result.Errors)),
	)
	return result
}

// Lock takes an exclusive, non-blocking lock on the workspace root.
// The returned func releases it.
func (l Layout) Lock() (func() error, error) {
	if err := os.MkdirAll(l.Root, 0o755); err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}
	fl := flock.New(filepath.Join(l.Root, lockName))
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (%s)", ErrBusy, l.Root)
	}
	return fl.Unlock, nil
}
