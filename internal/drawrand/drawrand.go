// Package drawrand provides the seedable random source used by the group
// draw and cup draw engines. Spec requires random draws to be reproducible
// in tests, which rules out crypto/rand (the teacher's utils.RandomInt is
// built on it and cannot be seeded).
package drawrand

import "math/rand"

// Source wraps a *rand.Rand so callers can shuffle slices and pick
// permutations deterministically when given a fixed seed, or
// non-reproducibly when the caller passes a fresh time-derived seed to New.
type Source struct {
	r *rand.Rand
}

// New returns a Source seeded with the given value. Tests should pass a
// fixed seed; production callers derive one from config or current time.
func New(seed int64) *Source {
	return &Source{r: rand.New(rand.NewSource(seed))}
}

// Shuffle permutes n elements in place using swap(i, j).
func (s *Source) Shuffle(n int, swap func(i, j int)) {
	s.r.Shuffle(n, swap)
}

// Perm returns a random permutation of [0, n).
func (s *Source) Perm(n int) []int {
	return s.r.Perm(n)
}

// Intn returns a random int in [0, n).
func (s *Source) Intn(n int) int {
	return s.r.Intn(n)
}
