// Package rng provides the seedable random source shared by every
// generation step. The same seed and call sequence always yield the same
// values.
package rng

import "math/rand"

// Source wraps a math/rand generator with the helpers generation needs.
// It counts the raw values drawn so a saved position can be resumed.
type Source struct {
	r    *rand.Rand
	src  *counter
	seed int64
}

// counter counts every step of the underlying generator. Int63 and
// Uint64 each advance it by exactly one.
type counter struct {
	src   rand.Source64
	draws uint64
}

func (c *counter) Int63() int64 {
	c.draws++
	return c.src.Int63()
}

func (c *counter) Uint64() uint64 {
	c.draws++
	return c.src.Uint64()
}

func (c *counter) Seed(seed int64) {
	c.src.Seed(seed)
	c.draws = 0
}

// New creates a Source seeded with seed.
func New(seed int64) *Source {
	s := &Source{}
	s.Seed(seed)
	return s
}

// Seed resets the source to the start of the sequence for seed.
func (s *Source) Seed(seed int64) {
	s.seed = seed
	s.src = &counter{src: rand.NewSource(seed).(rand.Source64)}
	s.r = rand.New(s.src)
}

// Current returns the seed the source was last reset with.
func (s *Source) Current() int64 { return s.seed }

// Draws returns how many raw values have been drawn since the last Seed.
func (s *Source) Draws() uint64 { return s.src.draws }

// Resume reseeds with seed and skips ahead draws values, putting the
// source where another one was after the same number of draws.
func (s *Source) Resume(seed int64, draws uint64) {
	s.Seed(seed)
	for range draws {
		s.src.Int63()
	}
}

// Range returns a uniform integer in [lo, hi]. Reversed bounds are swapped.
func (s *Source) Range(lo, hi int) int {
	if hi < lo {
		lo, hi = hi, lo
	}
	return lo + s.r.Intn(hi-lo+1)
}

// Intn returns a uniform integer in [0, n). n <= 0 yields 0.
func (s *Source) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return s.r.Intn(n)
}

// Float returns a uniform float in [lo, hi).
func (s *Source) Float(lo, hi float64) float64 {
	return lo + s.r.Float64()*(hi-lo)
}

// CoinFlip returns true half of the time.
func (s *Source) CoinFlip() bool {
	return s.r.Intn(2) == 0
}

// Chance returns true with probability p.
func (s *Source) Chance(p float64) bool {
	return s.r.Float64() < p
}

// Weighted returns an index into weights chosen proportionally to its
// weight, or -1 when every weight is zero.
func (s *Source) Weighted(weights []int) int {
	total := 0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total == 0 {
		return -1
	}

	roll := s.r.Intn(total)
	cumulative := 0
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		cumulative += w
		if roll < cumulative {
			return i
		}
	}
	return len(weights) - 1
}

// Shuffle randomizes the order of n elements through swap.
func (s *Source) Shuffle(n int, swap func(i, j int)) {
	s.r.Shuffle(n, swap)
}

// Pick returns a uniformly chosen element of items. It panics on an empty
// slice.
func Pick[T any](s *Source, items []T) T {
	return items[s.r.Intn(len(items))]
}

// Shuffled returns a copy of items in random order.
func Shuffled[T any](s *Source, items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	s.r.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}
