package crypto

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

const (
	HashSize          = 32
	Ed25519PublicSize = 32
)

type Hash [HashSize]byte

// HashData hashes the input data using Blake2b-256.
func HashData(data []byte) Hash {
	return blake2b.Sum256(data)
}

// Hex returns the lowercase hex encoding of the hash.
func (h Hash) Hex() string {
	return hex.EncodeToString(h[:])
}
