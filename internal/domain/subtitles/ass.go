package subtitles

import (
	"fmt"
	"strings"
	"time"

	"github.com/forPelevin/viralcut/internal/types"
)

const styleName = "Viral"

// RenderASS renders the part of tr between start and end as a clip-local ASS
// script. Word timestamps produce karaoke lines; otherwise each overlapping
// segment becomes one plain event.
func RenderASS(tr types.Transcript, start, end time.Duration) string {
	words := collectWords(tr, start, end)
	if len(words) == 0 {
		return renderASSPlain(collectCues(tr, start, end))
	}
	return renderASSKaraoke(packWords(words))
}

type wword struct {
	Start time.Duration
	End   time.Duration
	Text  string
}

type line struct {
	Start time.Duration
	End   time.Duration
	Words []wword
}

// cue is a clip-local span of text shared by the ASS and SRT renderers.
type cue struct {
	Start time.Duration
	End   time.Duration
	Text  string
}

func collectWords(tr types.Transcript, start, end time.Duration) []wword {
	var out []wword
	for _, s := range tr.Segments {
		for _, w := range s.Words {
			ws, we, ok := clip(dur(w.Start), dur(w.End), start, end)
			if !ok {
				continue
			}
			text := strings.TrimSpace(w.Word)
			if text == "" {
				continue
			}
			out = append(out, wword{Start: ws, End: we, Text: sanitizeASS(text)})
		}
	}
	return out
}

func collectCues(tr types.Transcript, start, end time.Duration) []cue {
	var out []cue
	for _, s := range tr.Segments {
		ss, se, ok := clip(dur(s.Start), dur(s.End), start, end)
		if !ok {
			continue
		}
		text := strings.TrimSpace(s.Text)
		if text == "" {
			continue
		}
		out = append(out, cue{Start: ss, End: se, Text: text})
	}
	return out
}

// clip intersects [s,e) with [start,end) and shifts the result to clip-local
// time. ok is false when they do not overlap.
func clip(s, e, start, end time.Duration) (time.Duration, time.Duration, bool) {
	if e <= start || s >= end || e <= s {
		return 0, 0, false
	}
	if s < start {
		s = start
	}
	if e > end {
		e = end
	}
	return s - start, e - start, true
}

func packWords(words []wword) []line {
	var out []line
	cur := line{Start: words[0].Start}
	// Hard budgets keep lines readable on vertical layouts.
	charBudget := 42
	wordBudget := 9
	curLen := 0
	for i, w := range words {
		wl := len([]rune(w.Text))
		nextLen := curLen
		if curLen > 0 {
			nextLen++
		}
		nextLen += wl
		if len(cur.Words) >= wordBudget || (len(cur.Words) > 0 && nextLen > charBudget) {
			cur.End = cur.Words[len(cur.Words)-1].End
			out = append(out, cur)
			cur = line{Start: w.Start}
			curLen = 0
		}
		cur.Words = append(cur.Words, w)
		if curLen > 0 {
			curLen++
		}
		curLen += wl
		if i == len(words)-1 {
			cur.End = w.End
			out = append(out, cur)
		}
	}
	return out
}

func renderASSKaraoke(lines []line) string {
	var b strings.Builder
	writeASSPreamble(&b)
	for _, ln := range lines {
		writeDialogue(&b, ln.Start, ln.End)
		for j, w := range ln.Words {
			durCS := int((w.End - w.Start) / (10 * time.Millisecond))
			if durCS < 1 {
				durCS = 1
			}
			if j > 0 {
				b.WriteString(" ")
			}
			fmt.Fprintf(&b, "{\\k%d}%s", durCS, w.Text)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func renderASSPlain(cues []cue) string {
	var b strings.Builder
	writeASSPreamble(&b)
	for _, c := range cues {
		writeDialogue(&b, c.Start, c.End)
		b.WriteString(sanitizeASS(c.Text))
		b.WriteString("\n")
	}
	return b.String()
}

func writeASSPreamble(b *strings.Builder) {
	b.WriteString(assHeader())
	b.WriteString("\n\n[Events]\n")
	b.WriteString("Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text\n")
}

func writeDialogue(b *strings.Builder, start, end time.Duration) {
	b.WriteString("Dialogue: 0,")
	b.WriteString(assTime(start))
	b.WriteString(",")
	b.WriteString(assTime(end))
	b.WriteString("," + styleName + ",,0,0,0,,")
}

func assHeader() string {
	return strings.TrimSpace(`
[Script Info]
ScriptType: v4.00+
PlayResX: 1920
PlayResY: 1080
ScaledBorderAndShadow: yes

[V4+ Styles]
Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding
Style: ` + styleName + `, Inter, 78, &H00FFFFFF, &H00FFD200, &H00000000, &H64000000, 1,0,0,0,100,100,0,0,1,6,2,2, 80,80,85,1
`)
}

func assTime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	hs := int(d / time.Hour)
	d -= time.Duration(hs) * time.Hour
	ms := int(d / time.Minute)
	d -= time.Duration(ms) * time.Minute
	s := int(d / time.Second)
	d -= time.Duration(s) * time.Second
	cs := int(d / (10 * time.Millisecond))
	return fmt.Sprintf("%d:%02d:%02d.%02d", hs, ms, s, cs)
}

func sanitizeASS(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "{", "(")
	s = strings.ReplaceAll(s, "}", ")")
	s = strings.ReplaceAll(s, "\n", "\\N")
	return strings.TrimSpace(s)
}

func dur(sec float64) time.Duration { return time.Duration(sec * float64(time.Second)) }
