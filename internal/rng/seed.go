package rng

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
)

// Seed derives a deterministic seed from the server secret and the identity of
// a round. The same four inputs always produce the same seed, so a finished
// round can be re-derived for audit without storing anything beyond its
// identity.
func Seed(secret, contextID string, timestamp int64, nonce uint64) int64 {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%s:%d:%d", contextID, timestamp, nonce)
	sum := mac.Sum(nil)

	seed := int64(binary.BigEndian.Uint64(sum[:8]))
	if seed == 0 {
		// zero is not a valid xorshift state
		seed = int64(binary.BigEndian.Uint64(sum[8:16]))
	}

	return seed
}
