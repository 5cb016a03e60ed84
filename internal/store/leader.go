package store

import (
	"crypto/ed25519"
	"errors"
	"fmt"

	"github.com/eigerco/bilberry/internal/chaintime"
	"github.com/eigerco/bilberry/internal/crypto"
	"github.com/eigerco/bilberry/pkg/db"
)

// ErrNotFound is returned when no slot leaders have been recorded for an
// epoch, either because the election has not run yet or because the epoch
// is out of range.
var ErrNotFound = errors.New("slot leaders not found for epoch")

// Leaders persists the ordered slot-leader sequence per epoch. The
// consensus engine writes each epoch's sequence after leader election; the
// gateway only reads it.
type Leaders struct {
	db.KVStore
}

// NewLeaders creates a new slot-leader store using KVStore
func NewLeaders(kv db.KVStore) *Leaders {
	return &Leaders{KVStore: kv}
}

// PutLeaders stores the ordered slot-leader sequence for an epoch,
// replacing any previous sequence. Leaders are stored as concatenated
// Ed25519 public keys, one per slot index.
func (l *Leaders) PutLeaders(epoch chaintime.Epoch, leaders []ed25519.PublicKey) error {
	value := make([]byte, 0, len(leaders)*crypto.Ed25519PublicSize)
	for i, leader := range leaders {
		if len(leader) != crypto.Ed25519PublicSize {
			return fmt.Errorf("invalid leader key length at index %d: %d", i, len(leader))
		}
		value = append(value, leader...)
	}
	if err := l.Put(makeEpochKey(prefixSlotLeaders, uint32(epoch)), value); err != nil {
		return fmt.Errorf("put slot leaders: %w", err)
	}
	return nil
}

// GetLeaders retrieves the ordered slot-leader sequence for an epoch.
// Returns ErrNotFound when the epoch has no recorded leaders.
func (l *Leaders) GetLeaders(epoch chaintime.Epoch) ([]ed25519.PublicKey, error) {
	value, err := l.Get(makeEpochKey(prefixSlotLeaders, uint32(epoch)))
	if errors.Is(err, db.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get slot leaders: %w", err)
	}
	if len(value)%crypto.Ed25519PublicSize != 0 {
		return nil, fmt.Errorf("corrupt slot-leader record for epoch %d: %d bytes", epoch, len(value))
	}

	leaders := make([]ed25519.PublicKey, 0, len(value)/crypto.Ed25519PublicSize)
	for offset := 0; offset < len(value); offset += crypto.Ed25519PublicSize {
		leaders = append(leaders, ed25519.PublicKey(value[offset:offset+crypto.Ed25519PublicSize]))
	}
	return leaders, nil
}

// DeleteLeaders removes the slot-leader sequence for an epoch.
func (l *Leaders) DeleteLeaders(epoch chaintime.Epoch) error {
	if err := l.Delete(makeEpochKey(prefixSlotLeaders, uint32(epoch))); err != nil {
		return fmt.Errorf("delete slot leaders: %w", err)
	}
	return nil
}
