package chaintime

// SlotIndex is a slot's position within its epoch, in [0, SlotsPerEpoch).
type SlotIndex uint32

// Slot identifies a single slot as an (epoch, index-within-epoch) pair.
// It represents the current point in consensus time; the gateway and its
// collaborators obtain slots from a clock, never construct them from scratch.
type Slot struct {
	Epoch Epoch
	Index SlotIndex
}

// FromSlot creates a ChainTime at the start of the slot.
func FromSlot(s Slot) ChainTime {
	start := FromEpoch(s.Epoch)
	return ChainTime{Seconds: start.Seconds + uint64(s.Index)*uint64(SlotDuration.Seconds())}
}

// CurrentSlot returns the slot containing the current wall-clock time.
func CurrentSlot() Slot {
	return Now().ToSlot()
}

// Validate checks that the slot index fits within an epoch.
func (s Slot) Validate() error {
	if s.Index >= SlotsPerEpoch {
		return ErrSlotIndexTooLarge
	}
	return nil
}

// IsFirstInEpoch reports whether this is the first slot of its epoch.
func (s Slot) IsFirstInEpoch() bool {
	return s.Index == 0
}

// IsLastInEpoch reports whether this is the last slot of its epoch.
func (s Slot) IsLastInEpoch() bool {
	return s.Index == SlotsPerEpoch-1
}
