package highlights

import (
	"errors"
	"testing"
	"unicode/utf8"

	"github.com/forPelevin/viralcut/internal/types"
)

func TestSelect_WorkedExample(t *testing.T) {
	tr := types.Transcript{Segments: []types.Segment{
		{Start: 0, End: 5, Text: "Isso é incrível!"},
		{Start: 5, End: 9, Text: "Você sabia disso?"},
		{Start: 9, End: 40, Text: "um texto longo sem nada de especial aqui"},
	}}
	got, err := Select(tr, SelectOptions{Count: 2, MinDuration: 3, MaxDuration: 30, Jitter: FixedJitter(10)})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(got))
	}
	// The question scores 25 and ranks first, the exclamation scores 23.
	if got[0].FirstIdx != 1 || got[0].Score != 35 || got[0].Title != "Você sabia disso?" {
		t.Fatalf("unexpected first segment: %+v", got[0])
	}
	if got[1].FirstIdx != 0 || got[1].Score != 33 {
		t.Fatalf("unexpected second segment: %+v", got[1])
	}
	for _, s := range got {
		if s.Backfill {
			t.Fatalf("segment %q should come from the main pass", s.Title)
		}
		if s.Duration < 3 || s.Duration > 30 {
			t.Fatalf("duration out of bounds: %d", s.Duration)
		}
	}
	if got[1].StartTime != "00:00:00" || got[1].EndTime != "00:00:05" || got[1].Duration != 5 {
		t.Fatalf("unexpected timing: %+v", got[1])
	}
}

func TestSelect_BackfillIgnoresBounds(t *testing.T) {
	tr := types.Transcript{Segments: []types.Segment{
		{Start: 0, End: 5, Text: "Isso é incrível!"},
		{Start: 5, End: 9, Text: "Você sabia disso?"},
		{Start: 9, End: 40, Text: "um texto longo sem nada de especial aqui"},
	}}
	got, err := Select(tr, SelectOptions{Count: 3, MinDuration: 3, MaxDuration: 30, Jitter: FixedJitter(10)})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(got))
	}
	last := got[2]
	if !last.Backfill || last.FirstIdx != 2 {
		t.Fatalf("expected backfilled long segment, got %+v", last)
	}
	if last.Duration != 31 {
		t.Fatalf("backfill duration = %d, want 31", last.Duration)
	}
	// score 0 + 10 is raised to the backfill floor.
	if last.Score != 20 {
		t.Fatalf("backfill score = %d, want 20", last.Score)
	}
}

func TestSelect_ExtendsForwardThenBackward(t *testing.T) {
	tr := types.Transcript{Segments: []types.Segment{
		{Start: 0, End: 2, Text: "a"},
		{Start: 2, End: 4, Text: "b"},
		{Start: 4, End: 6, Text: "c"},
		{Start: 6, End: 8, Text: "nossa!"},
		{Start: 8, End: 10, Text: "e"},
	}}
	got, err := Select(tr, SelectOptions{Count: 1, MinDuration: 5, MaxDuration: 8, Jitter: FixedJitter(10)})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(got))
	}
	s := got[0]
	if s.FirstIdx != 2 || s.LastIdx != 4 {
		t.Fatalf("expected range [2,4], got [%d,%d]", s.FirstIdx, s.LastIdx)
	}
	if s.Text != "c nossa! e" || s.Duration != 6 {
		t.Fatalf("unexpected combined segment: %+v", s)
	}
	// (0 + 3 + 0) / 3 = 1, + 10 jitter, raised to the floor of 30.
	if s.Score != 30 {
		t.Fatalf("score = %d, want 30", s.Score)
	}
}

func TestSelect_DisjointCoverage(t *testing.T) {
	tr := types.Transcript{Segments: []types.Segment{
		{Start: 0, End: 2, Text: "a"},
		{Start: 2, End: 4, Text: "b"},
		{Start: 4, End: 6, Text: "c"},
		{Start: 6, End: 8, Text: "nossa!"},
		{Start: 8, End: 10, Text: "e"},
	}}
	got, err := Select(tr, SelectOptions{Count: 2, MinDuration: 5, MaxDuration: 8, Jitter: FixedJitter(10)})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(got))
	}
	seen := map[int]bool{}
	for _, s := range got {
		for i := s.FirstIdx; i <= s.LastIdx; i++ {
			if seen[i] {
				t.Fatalf("index %d used twice", i)
			}
			seen[i] = true
		}
	}
	if got[0].Backfill {
		t.Fatalf("first segment should come from the main pass")
	}
	if !got[1].Backfill || got[1].FirstIdx != 0 || got[1].LastIdx != 0 {
		t.Fatalf("expected single-segment backfill at index 0, got %+v", got[1])
	}
}

func TestSelect_TrimsFromEnd(t *testing.T) {
	tr := types.Transcript{Segments: []types.Segment{
		{Start: 0, End: 3, Text: "a"},
		{Start: 3, End: 4, Text: "Uau!"},
		{Start: 4, End: 4.5, Text: "c"},
	}}
	got, err := Select(tr, SelectOptions{Count: 1, MinDuration: 4, MaxDuration: 4.2, Jitter: FixedJitter(10)})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Backfill {
		t.Fatalf("expected one main-pass segment, got %+v", got)
	}
	if got[0].FirstIdx != 0 || got[0].LastIdx != 1 {
		t.Fatalf("expected range [0,1], got [%d,%d]", got[0].FirstIdx, got[0].LastIdx)
	}
}

func TestSelect_FewerThanRequested(t *testing.T) {
	tr := types.Transcript{Segments: []types.Segment{
		{Start: 0, End: 4, Text: "a"},
		{Start: 4, End: 8, Text: "b"},
	}}
	got, err := Select(tr, SelectOptions{Count: 5, MinDuration: 1, MaxDuration: 10})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(got))
	}
}

func TestSelect_Errors(t *testing.T) {
	if _, err := Select(types.Transcript{}, SelectOptions{Count: 1, MaxDuration: 1}); !errors.Is(err, ErrNoSegments) {
		t.Fatalf("expected ErrNoSegments, got %v", err)
	}
	tr := types.Transcript{Segments: []types.Segment{{Start: 0, End: 1, Text: "x"}}}
	bad := []SelectOptions{
		{Count: 0, MinDuration: 1, MaxDuration: 2},
		{Count: 1, MinDuration: -1, MaxDuration: 2},
		{Count: 1, MinDuration: 3, MaxDuration: 2},
	}
	for _, o := range bad {
		if _, err := Select(tr, o); !errors.Is(err, ErrInvalidOptions) {
			t.Fatalf("options %+v: expected ErrInvalidOptions, got %v", o, err)
		}
	}
}

func TestSelect_Properties(t *testing.T) {
	texts := []string{"cara!", "nada", "você sabia?", "nunca", "mano mano", "ok", "bitcoin!", "será?"}
	var segs []types.Segment
	at := 0.0
	for i := 0; i < 40; i++ {
		d := float64(1 + (i*7)%13)
		segs = append(segs, types.Segment{Start: at, End: at + d, Text: texts[i%len(texts)]})
		at += d
	}
	tr := types.Transcript{Segments: segs}

	for _, n := range []int{1, 3, 8, 50} {
		got, err := Select(tr, SelectOptions{Count: n, MinDuration: 10, MaxDuration: 25, Jitter: NewRandomJitter(42)})
		if err != nil {
			t.Fatal(err)
		}
		if len(got) > n {
			t.Fatalf("n=%d: got %d segments", n, len(got))
		}
		seen := map[int]bool{}
		backfilled := false
		for _, s := range got {
			for i := s.FirstIdx; i <= s.LastIdx; i++ {
				if seen[i] {
					t.Fatalf("n=%d: index %d reused", n, i)
				}
				seen[i] = true
			}
			if s.Backfill {
				backfilled = true
				if s.Score < 20 || s.Score > 100 {
					t.Fatalf("backfill score out of range: %d", s.Score)
				}
				continue
			}
			if backfilled {
				t.Fatalf("n=%d: main-pass segment after backfill", n)
			}
			if s.EndSec-s.StartSec < 10 || s.EndSec-s.StartSec > 25 {
				t.Fatalf("n=%d: duration out of bounds: %v", n, s.EndSec-s.StartSec)
			}
			if s.Score < 30 || s.Score > 100 {
				t.Fatalf("score out of range: %d", s.Score)
			}
			if utf8.RuneCountInString(s.Title) > 50 || utf8.RuneCountInString(s.Description) > 103 {
				t.Fatalf("title/description too long: %+v", s)
			}
		}
		if len(got) < n && len(seen) != len(segs) {
			t.Fatalf("n=%d: output is short but only %d of %d segments used", n, len(seen), len(segs))
		}
	}
}

func TestNewRandomJitter_Seeded(t *testing.T) {
	a, b := NewRandomJitter(7), NewRandomJitter(7)
	for i := 0; i < 20; i++ {
		x, y := a.Between(10, 30), b.Between(10, 30)
		if x != y {
			t.Fatalf("seeded jitter diverged: %d vs %d", x, y)
		}
		if x < 10 || x > 30 {
			t.Fatalf("jitter out of range: %d", x)
		}
	}
	if got := FixedJitter(99).Between(5, 25); got != 25 {
		t.Fatalf("FixedJitter clamp = %d", got)
	}
}
