package store

import "encoding/binary"

// Prefix constants for all store types
const (
	prefixSlotLeaders byte = iota + 1
)

// makeEpochKey creates a key from a prefix and an epoch number.
// The key format is: [prefix(1 byte)][epoch(4 bytes, little-endian)]
func makeEpochKey(prefix byte, epoch uint32) []byte {
	key := make([]byte, 5)
	key[0] = prefix
	binary.LittleEndian.PutUint32(key[1:], epoch)
	return key
}
