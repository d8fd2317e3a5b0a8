// Package transcript reads and writes the tab-separated transcript format
// shared between the transcription step and the segment selector.
package transcript

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/forPelevin/viralcut/internal/types"
)

// ErrNoInput reports a transcript source that is missing or unreadable.
var ErrNoInput = errors.New("transcript: no input")

const header = "start\tend\ttext"

// LoadTSV reads a transcript file from disk.
func LoadTSV(path string) (types.Transcript, error) {
	f, err := os.Open(path)
	if err != nil {
		return types.Transcript{}, fmt.Errorf("%w: %s: %v", ErrNoInput, path, err)
	}
	defer f.Close()
	return ReadTSV(f)
}

// ReadTSV parses start/end/text records. The first line is a header.
// Lines with fewer than three fields or non-numeric times are skipped.
// NaN and infinite times count as non-numeric.
func ReadTSV(r io.Reader) (types.Transcript, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var tr types.Transcript
	first := true
	for sc.Scan() {
		if first {
			first = false
			continue
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		parts := strings.Split(line, "\t")
		if len(parts) < 3 {
			continue
		}
		start, ok := parseTime(parts[0])
		if !ok {
			continue
		}
		end, ok := parseTime(parts[1])
		if !ok {
			continue
		}
		tr.Segments = append(tr.Segments, types.Segment{
			Start: start,
			End:   end,
			Text:  strings.Join(parts[2:], " "),
		})
	}
	if err := sc.Err(); err != nil {
		return types.Transcript{}, fmt.Errorf("read transcript: %w", err)
	}
	return tr, nil
}

func parseTime(field string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// WriteTSV writes tr in the format ReadTSV understands.
func WriteTSV(w io.Writer, tr types.Transcript) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintln(bw, header); err != nil {
		return err
	}
	for _, s := range tr.Segments {
		text := strings.ReplaceAll(strings.TrimSpace(s.Text), "\t", " ")
		text = strings.ReplaceAll(text, "\n", " ")
		if _, err := fmt.Fprintf(bw, "%.3f\t%.3f\t%s\n", s.Start, s.End, text); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// SaveTSV writes tr to path, replacing any existing file.
func SaveTSV(path string, tr types.Transcript) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteTSV(f, tr); err != nil {
		f.Close()
		return fmt.Errorf("write transcript %s: %w", path, err)
	}
	return f.Close()
}
