package highlights

import (
	"cmp"
	"slices"
	"strings"

	"github.com/forPelevin/viralcut/internal/types"
)

// Score returns the virality score of a single segment. It is a ranking signal
// only: scores are not normalized across segments and never go below zero.
func (r Rules) Score(seg types.Segment) int {
	text := seg.Text
	lower := strings.ToLower(text)

	score := 0
	for _, c := range r.Categories {
		for _, kw := range c.Words {
			kw = strings.ToLower(kw)
			if kw != "" && strings.Contains(lower, kw) {
				score += c.Weight
			}
		}
	}

	if strings.Contains(text, "?") {
		score += r.QuestionBonus
	}
	score += strings.Count(text, "!") * r.ExclamationBonus

	for _, w := range r.Emphasis.Words {
		w = strings.ToLower(w)
		if w == "" {
			continue
		}
		score += strings.Count(lower, w) * r.Emphasis.Weight
	}

	d := seg.Duration()
	if d < r.ShortBelow {
		score -= r.ShortPenalty
	}
	if d >= r.SweetSpotMin && d <= r.SweetSpotMax {
		score += r.SweetSpotBonus
	}

	return max(score, 0)
}

// ScoreAll scores every segment, keeping transcript order.
func (r Rules) ScoreAll(segs []types.Segment) []types.ScoredSegment {
	out := make([]types.ScoredSegment, len(segs))
	for i, s := range segs {
		out[i] = types.ScoredSegment{Index: i, Segment: s, Score: r.Score(s)}
	}
	return out
}

// Rank returns a copy of scored ordered by score, highest first. Equal scores
// keep transcript order.
func Rank(scored []types.ScoredSegment) []types.ScoredSegment {
	out := slices.Clone(scored)
	slices.SortStableFunc(out, func(a, b types.ScoredSegment) int {
		return cmp.Compare(b.Score, a.Score)
	})
	return out
}
