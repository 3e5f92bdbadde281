// Package sha256 is a thin wrapper over the standard library sha256 so the
// rest of the codebase imports one name for the digest primitives it uses for
// event ids and coordinates.
package sha256

import (
	"crypto/sha256"
)

// Size is the length of a sha256 digest, and thus of an event id and a
// pubkey.
const Size = sha256.Size

// Sum256 returns the sha256 digest of the input.
func Sum256(b []byte) [Size]byte { return sha256.Sum256(b) }

// Hash returns the sha256 digest of the input as a byte slice.
func Hash(b []byte) (h []byte) {
	hh := sha256.Sum256(b)
	return hh[:]
}
