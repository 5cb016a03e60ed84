package testutils

import (
	"crypto/ed25519"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/eigerco/bilberry/internal/crypto"
)

func RandomHash(t *testing.T) crypto.Hash {
	hash := make([]byte, crypto.HashSize)
	_, err := rand.Read(hash)
	require.NoError(t, err)
	return crypto.Hash(hash)
}

func RandomPublicKey(t *testing.T) ed25519.PublicKey {
	key := make([]byte, ed25519.PublicKeySize)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return key
}

func RandomKeyPair(t *testing.T) (ed25519.PublicKey, ed25519.PrivateKey) {
	pub, prv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	return pub, prv
}

// RandomLeaders returns n distinct random slot-leader identities.
func RandomLeaders(t *testing.T, n int) []ed25519.PublicKey {
	leaders := make([]ed25519.PublicKey, n)
	for i := range leaders {
		leaders[i] = RandomPublicKey(t)
	}
	return leaders
}
