package block

import (
	"crypto/ed25519"
	"encoding/binary"

	"github.com/eigerco/bilberry/internal/crypto"
)

// Transaction is a locally known, not yet confirmed transaction. Only its
// existence matters to the gateway (pending counts); validation and
// execution belong to the consensus engine.
type Transaction struct {
	Sender  ed25519.PublicKey
	Nonce   uint64
	Payload []byte
}

// Encode serializes the transaction: sender key, nonce, payload.
func (tx Transaction) Encode() []byte {
	out := make([]byte, crypto.Ed25519PublicSize+8+len(tx.Payload))
	copy(out[:crypto.Ed25519PublicSize], tx.Sender)
	binary.LittleEndian.PutUint64(out[crypto.Ed25519PublicSize:], tx.Nonce)
	copy(out[crypto.Ed25519PublicSize+8:], tx.Payload)
	return out
}

// Hash returns the Blake2b hash of the encoded transaction.
func (tx Transaction) Hash() crypto.Hash {
	return crypto.HashData(tx.Encode())
}
