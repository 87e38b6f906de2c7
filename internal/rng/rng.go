// Package rng provides the randomness used by the games.
//
// Two kinds of generators live here. Crypto draws from the operating system
// and is suitable for anything that does not need to be replayed (guest names,
// casual deck cuts). Source is a seeded, counted generator: a round stores its
// seed and the number of draws it has made, and an auditor can reproduce every
// value the round ever saw by replaying the same seed the same number of times.
package rng

import (
	"crypto/rand"
	"math/big"
)

// Generator provides a simple random number
type Generator interface {
	// Intn will return a random number up to but not including n
	Intn(n int) int
}

// Crypto wraps the crypto/rand library
type Crypto struct{}

// Intn returns a random number in [0, n)
func (c Crypto) Intn(n int) int {
	b, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic(err)
	}

	return int(b.Int64())
}
