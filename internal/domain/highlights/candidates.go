package highlights

import (
	"errors"
	"fmt"
	"strings"

	"github.com/forPelevin/viralcut/internal/types"
)

var (
	ErrNoSegments     = errors.New("highlights: no segments found")
	ErrInvalidOptions = errors.New("highlights: invalid selection options")
)

// seedFactor bounds how many top-ranked segments may seed a candidate.
const seedFactor = 3

type SelectOptions struct {
	Count       int
	MinDuration float64
	MaxDuration float64

	// Rules defaults to DefaultRules when nil.
	Rules *Rules
	// Jitter defaults to an unseeded random jitter when nil.
	Jitter Jitter
}

func (o SelectOptions) validate() error {
	if o.Count <= 0 {
		return fmt.Errorf("%w: count must be > 0", ErrInvalidOptions)
	}
	if o.MinDuration < 0 {
		return fmt.Errorf("%w: min duration must be >= 0", ErrInvalidOptions)
	}
	if o.MinDuration > o.MaxDuration {
		return fmt.Errorf("%w: min duration must be <= max duration", ErrInvalidOptions)
	}
	return nil
}

// Select picks up to opts.Count viral segments from tr.
//
// Top-ranked segments seed candidates that are grown forward, then backward,
// until they reach MinDuration and trimmed from the end while they exceed
// MaxDuration. Only candidates within bounds are accepted. If that yields fewer
// than Count segments, the best unused single segments fill the gap without a
// bounds check. No transcript segment is used by more than one output.
func Select(tr types.Transcript, opts SelectOptions) ([]types.ViralSegment, error) {
	segs := tr.Segments
	if len(segs) == 0 {
		return nil, ErrNoSegments
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	rules := DefaultRules()
	if opts.Rules != nil {
		rules = *opts.Rules
	}
	jitter := opts.Jitter
	if jitter == nil {
		jitter = NewRandomJitter(0)
	}

	scored := rules.ScoreAll(segs)
	ranked := Rank(scored)

	seeds := ranked
	if n := seedFactor * opts.Count; n < len(seeds) {
		seeds = seeds[:n]
	}

	used := make([]bool, len(segs))
	out := make([]types.ViralSegment, 0, opts.Count)

	for _, seed := range seeds {
		if len(out) >= opts.Count {
			break
		}
		if used[seed.Index] {
			continue
		}
		first, last, ok := extend(segs, used, seed.Index, opts.MinDuration, opts.MaxDuration)
		if !ok {
			continue
		}
		total := 0
		for i := first; i <= last; i++ {
			used[i] = true
			total += scored[i].Score
		}
		avg := total / (last - first + 1)
		score := clampInt(avg+jitter.Between(10, 30), 30, 100)
		out = append(out, buildSegment(segs, first, last, score, false))
	}

	for _, s := range ranked {
		if len(out) >= opts.Count {
			break
		}
		if used[s.Index] {
			continue
		}
		used[s.Index] = true
		score := clampInt(s.Score+jitter.Between(5, 25), 20, 100)
		out = append(out, buildSegment(segs, s.Index, s.Index, score, true))
	}

	return out, nil
}

// extend grows the range around seed until it covers minDur, then trims it
// back under maxDur. Growth stops at the transcript edges and at segments
// already used by another candidate.
func extend(segs []types.Segment, used []bool, seed int, minDur, maxDur float64) (int, int, bool) {
	first, last := seed, seed
	span := func() float64 { return segs[last].End - segs[first].Start }

	d := span()
	for d < minDur && last+1 < len(segs) && !used[last+1] {
		last++
		d = span()
	}
	for d < minDur && first > 0 && !used[first-1] {
		first--
		d = span()
	}
	for d > maxDur && last > first {
		last--
		d = span()
	}
	return first, last, d >= minDur && d <= maxDur
}

func buildSegment(segs []types.Segment, first, last, score int, backfill bool) types.ViralSegment {
	parts := make([]string, 0, last-first+1)
	for i := first; i <= last; i++ {
		parts = append(parts, segs[i].Text)
	}
	text := strings.Join(parts, " ")
	start, end := segs[first].Start, segs[last].End

	return types.ViralSegment{
		Title:       Title(text),
		StartTime:   Timestamp(start),
		EndTime:     Timestamp(end),
		Description: Description(text),
		Duration:    max(int(end-start), 0),
		Score:       score,
		StartSec:    start,
		EndSec:      end,
		FirstIdx:    first,
		LastIdx:     last,
		Text:        text,
		Backfill:    backfill,
	}
}

func clampInt(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
