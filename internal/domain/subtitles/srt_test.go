package subtitles

import (
	"testing"
	"time"

	"github.com/forPelevin/viralcut/internal/types"
)

func TestRenderSRT(t *testing.T) {
	tr := types.Transcript{Segments: []types.Segment{
		{Start: 0, End: 1.5, Text: " primeira "},
		{Start: 3661.25, End: 3662, Text: "segunda"},
		{Start: 4000, End: 4001, Text: "   "},
	}}
	got := RenderSRT(tr, 0, Full)
	want := "1\n00:00:00,000 --> 00:00:01,500\nprimeira\n\n" +
		"2\n01:01:01,250 --> 01:01:02,000\nsegunda\n\n"
	if got != want {
		t.Fatalf("RenderSRT mismatch:\n%q\nwant\n%q", got, want)
	}
}

func TestRenderSRT_Window(t *testing.T) {
	tr := types.Transcript{Segments: []types.Segment{
		{Start: 0, End: 5, Text: "fora"},
		{Start: 5, End: 8, Text: "dentro"},
	}}
	got := RenderSRT(tr, 5*time.Second, 10*time.Second)
	want := "1\n00:00:00,000 --> 00:00:03,000\ndentro\n\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
