package subtitles

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/forPelevin/viralcut/internal/types"
)

// Full is an end bound that covers any transcript.
const Full = time.Duration(math.MaxInt64)

// RenderSRT renders the segments of tr overlapping [start, end) as SRT cues
// relative to start.
func RenderSRT(tr types.Transcript, start, end time.Duration) string {
	var b strings.Builder
	for i, c := range collectCues(tr, start, end) {
		fmt.Fprintf(&b, "%d\n%s --> %s\n%s\n\n", i+1, srtTime(c.Start), srtTime(c.End), c.Text)
	}
	return b.String()
}

func srtTime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second
	d -= s * time.Second
	ms := d / time.Millisecond
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}
