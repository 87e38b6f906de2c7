package rng

// Source is a seeded xorshift64* generator with a draw counter.
//
// Every random value a round consumes must come from the one Source bound to
// that round, and every draw advances the counter by exactly one. The counter
// is part of the round's audit record: NewSourceAt(seed, draws) reproduces a
// generator in the exact state a round was in after its recorded draws.
type Source struct {
	state uint64
	draws uint64
}

// NewSource returns a fresh Source for the given seed
func NewSource(seed int64) *Source {
	if seed == 0 {
		panic("seed cannot be zero")
	}

	return &Source{state: uint64(seed)}
}

// NewSourceAt returns a Source fast-forwarded by the given number of draws
func NewSourceAt(seed int64, draws uint64) *Source {
	s := NewSource(seed)
	for i := uint64(0); i < draws; i++ {
		s.next()
	}

	s.draws = draws
	return s
}

// Draws returns how many values have been drawn from this Source
func (s *Source) Draws() uint64 {
	return s.draws
}

func (s *Source) next() uint64 {
	s.state ^= s.state >> 12
	s.state ^= s.state << 25
	s.state ^= s.state >> 27
	return s.state * 2685821657736338717
}

// Float64 draws the next value in [0, 1). Consumes exactly one draw.
func (s *Source) Float64() float64 {
	s.draws++
	return float64(s.next()>>11) / (1 << 53)
}

// Intn returns a value in [0, n). Consumes exactly one draw.
// Satisfies the Generator interface so a Source can shuffle a deck.
func (s *Source) Intn(n int) int {
	if n <= 0 {
		panic("n must be greater than zero")
	}

	return int(s.Float64() * float64(n))
}

// Bool draws a Bernoulli trial with probability p. Consumes exactly one draw.
func (s *Source) Bool(p float64) bool {
	return s.Float64() < p
}

// IntRange returns a value in [min, max]. Consumes exactly one draw.
func (s *Source) IntRange(min, max int) int {
	if max < min {
		panic("max cannot be less than min")
	}

	return min + int(s.Float64()*float64(max-min+1))
}

// FloatRange returns a value in [min, max). Consumes exactly one draw.
func (s *Source) FloatRange(min, max float64) float64 {
	return min + s.Float64()*(max-min)
}
