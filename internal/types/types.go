package types

import "time"

type Transcript struct {
	Segments []Segment `json:"segments"`
}

type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
	Words []Word  `json:"words,omitempty"`
}

// Duration is the span of the segment in seconds.
func (s Segment) Duration() float64 { return s.End - s.Start }

type Word struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Word  string  `json:"word"`
}

// ScoredSegment is a transcript segment annotated with its index in the
// transcript and its virality score.
type ScoredSegment struct {
	Index int
	Segment
	Score int
}

// ViralSegment is one selected clip. Only the tagged fields are part of the
// segments file consumed by the cutter; the rest is kept for subtitling.
type ViralSegment struct {
	Title       string `json:"title"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Description string `json:"description"`
	Duration    int    `json:"duration"`
	Score       int    `json:"score"`

	StartSec float64 `json:"-"`
	EndSec   float64 `json:"-"`
	FirstIdx int     `json:"-"`
	LastIdx  int     `json:"-"`
	Text     string  `json:"-"`
	Backfill bool    `json:"-"`
}

// Span returns the clip bounds as durations from the start of the source.
func (v ViralSegment) Span() (time.Duration, time.Duration) {
	return dur(v.StartSec), dur(v.EndSec)
}

type SegmentsFile struct {
	Segments []ViralSegment `json:"segments"`
}

type Manifest struct {
	RunID   string         `json:"run_id"`
	Input   string         `json:"input"`
	Created time.Time      `json:"created"`
	Clips   []ManifestClip `json:"clips"`
}

type ManifestClip struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	StartSec    float64 `json:"start_sec"`
	EndSec      float64 `json:"end_sec"`
	Duration    int     `json:"duration"`
	Score       int     `json:"score"`
	Backfill    bool    `json:"backfill,omitempty"`
	Text        string  `json:"text"`
	File        string  `json:"file,omitempty"`
	Subtitles   string  `json:"subtitles,omitempty"`
	Burned      string  `json:"burned,omitempty"`
	Error       string  `json:"error,omitempty"`
}

func dur(sec float64) time.Duration { return time.Duration(sec * float64(time.Second)) }
