package highlights

import "math/rand/v2"

// Jitter returns an integer in [lo, hi]. Selection adds it to candidate scores.
type Jitter interface {
	Between(lo, hi int) int
}

type randomJitter struct {
	r *rand.Rand
}

// NewRandomJitter returns a jitter backed by the global generator, or by a
// deterministic PCG stream when seed is non-zero.
func NewRandomJitter(seed uint64) Jitter {
	if seed == 0 {
		return randomJitter{}
	}
	return randomJitter{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (j randomJitter) Between(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	if j.r == nil {
		return lo + rand.IntN(hi-lo+1)
	}
	return lo + j.r.IntN(hi-lo+1)
}

// FixedJitter always returns its value clamped to the requested range.
type FixedJitter int

func (f FixedJitter) Between(lo, hi int) int {
	return min(max(int(f), lo), hi)
}
