package schedule

import (
	"crypto/ed25519"
	"encoding/binary"
	"errors"

	"golang.org/x/crypto/blake2b"

	"github.com/eigerco/bilberry/internal/chaintime"
	"github.com/eigerco/bilberry/internal/crypto"
)

var ErrNoKeys = errors.New("no node keys to schedule")

// EpochSeed derives the shuffle seed for an epoch from the chain hash and
// the epoch number. Every node with the same roster computes the same seed.
func EpochSeed(chainHash string, epoch chaintime.Epoch) crypto.Hash {
	input := make([]byte, 0, len(chainHash)+4)
	input = append(input, chainHash...)
	input = binary.LittleEndian.AppendUint32(input, uint32(epoch))
	return crypto.HashData(input)
}

// Leaders derives the ordered slot-leader sequence for one epoch. The node
// keys are shuffled deterministically by the seed and assigned to slots
// round-robin, so every slot of the epoch has exactly one leader.
func Leaders(seed crypto.Hash, keys []ed25519.PublicKey, slots uint32) ([]ed25519.PublicKey, error) {
	if len(keys) == 0 {
		return nil, ErrNoKeys
	}

	order := DeterministicShuffle(uint32(len(keys)), seed)
	leaders := make([]ed25519.PublicKey, slots)
	for i := uint32(0); i < slots; i++ {
		leaders[i] = keys[order[i%uint32(len(order))]]
	}
	return leaders, nil
}

// DeterministicShuffle produces a permutation of [0, length) driven entirely
// by the hash h. Equal inputs always produce equal permutations.
func DeterministicShuffle(length uint32, h crypto.Hash) []uint32 {
	s := make([]uint32, length)
	for i := uint32(0); i < length; i++ {
		s[i] = i
	}

	r := generateRandomNumbers(h, length)
	out := make([]uint32, 0, length)
	for len(s) > 0 {
		index := r[len(out)] % uint32(len(s))
		out = append(out, s[index])
		s[index] = s[len(s)-1]
		s = s[:len(s)-1]
	}
	return out
}

// generateRandomNumbers expands the hash h into a sequence of l uint32
// values, rehashing with a counter every eight values.
func generateRandomNumbers(h crypto.Hash, l uint32) []uint32 {
	r := make([]uint32, l)
	for i := uint32(0); i < l; i++ {
		k := i / 8
		input := make([]byte, 0, len(h)+4)
		input = append(input, h[:]...)
		input = binary.LittleEndian.AppendUint32(input, k)
		hash := blake2b.Sum256(input)

		p := (4 * i) % 32
		var b [4]byte
		for j := uint32(0); j < 4; j++ {
			b[j] = hash[(p+j)%32]
		}
		r[i] = binary.LittleEndian.Uint32(b[:])
	}
	return r
}
