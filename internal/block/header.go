package block

import (
	"crypto/ed25519"
	"encoding/binary"
	"fmt"

	"github.com/eigerco/bilberry/internal/chaintime"
	"github.com/eigerco/bilberry/internal/crypto"
)

// HeaderSize is the size of an encoded header:
// parent hash, epoch, slot index, author key, state root.
const HeaderSize = crypto.HashSize + 4 + 4 + crypto.Ed25519PublicSize + crypto.HashSize

// Header is a block header. The gateway only ever needs the head header's
// hash; the full structure exists so the node state has something real to
// hash and replace as blocks are imported.
type Header struct {
	Parent    crypto.Hash
	Slot      chaintime.Slot
	Author    ed25519.PublicKey
	StateRoot crypto.Hash
}

// Encode serializes the header into its fixed-size binary form,
// little-endian for the slot fields.
func (h Header) Encode() []byte {
	out := make([]byte, HeaderSize)
	offset := 0
	offset += copy(out[offset:], h.Parent[:])
	binary.LittleEndian.PutUint32(out[offset:], uint32(h.Slot.Epoch))
	offset += 4
	binary.LittleEndian.PutUint32(out[offset:], uint32(h.Slot.Index))
	offset += 4
	offset += copy(out[offset:offset+crypto.Ed25519PublicSize], h.Author)
	copy(out[HeaderSize-crypto.HashSize:], h.StateRoot[:])
	return out
}

// DecodeHeader parses a header from its fixed-size binary form.
func DecodeHeader(data []byte) (Header, error) {
	if len(data) != HeaderSize {
		return Header{}, fmt.Errorf("invalid header length: %d", len(data))
	}
	var h Header
	offset := 0
	copy(h.Parent[:], data[offset:offset+crypto.HashSize])
	offset += crypto.HashSize
	h.Slot.Epoch = chaintime.Epoch(binary.LittleEndian.Uint32(data[offset:]))
	offset += 4
	h.Slot.Index = chaintime.SlotIndex(binary.LittleEndian.Uint32(data[offset:]))
	offset += 4
	h.Author = ed25519.PublicKey(append([]byte(nil), data[offset:offset+crypto.Ed25519PublicSize]...))
	copy(h.StateRoot[:], data[HeaderSize-crypto.HashSize:])
	return h, nil
}

// Hash returns the Blake2b hash of the encoded header.
func (h Header) Hash() crypto.Hash {
	return crypto.HashData(h.Encode())
}
