package rng

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestSeed(t *testing.T) {
	a := assert.New(t)

	s1 := Seed("secret", "round-1", 1700000000, 1)
	s2 := Seed("secret", "round-1", 1700000000, 1)
	a.Equal(s1, s2)
	a.NotZero(s1)

	a.NotEqual(s1, Seed("secret", "round-2", 1700000000, 1))
	a.NotEqual(s1, Seed("secret", "round-1", 1700000001, 1))
	a.NotEqual(s1, Seed("secret", "round-1", 1700000000, 2))
	a.NotEqual(s1, Seed("other-secret", "round-1", 1700000000, 1))
}

func TestCrypto_Intn(t *testing.T) {
	a := assert.New(t)

	c := Crypto{}
	found := make(map[int]bool)
	// it's possible this could fail, but not likely
	for i := 0; i < 1000; i++ {
		found[c.Intn(5)] = true
	}

	for i := 0; i < 5; i++ {
		a.True(found[i])
	}
	a.False(found[5])
}
