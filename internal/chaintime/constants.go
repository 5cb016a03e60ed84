package chaintime

import "time"

const (
	// MinEpoch is the first epoch of the chain, the one containing the
	// chain era start (12:00pm on January 1, 2025 UTC).
	MinEpoch Epoch = 0

	// MaxEpoch is the last epoch that can be addressed without the
	// absolute slot number overflowing uint32.
	MaxEpoch Epoch = ^Epoch(0) / SlotsPerEpoch

	// SlotsPerEpoch is the number of slots in each epoch. (E)
	SlotsPerEpoch = 600

	// SlotDuration is the length of a single slot.
	SlotDuration = 6 * time.Second

	// EpochDuration is the length of a full epoch, one hour.
	EpochDuration = SlotsPerEpoch * SlotDuration
)
