package chaintime

import (
	"time"
)

var now = time.Now

// ChainEra is the start of the chain's common era, 2025-01-01 12:00:00 UTC.
// All slots and epochs are counted from this instant.
var ChainEra = time.Date(2025, time.January, 1, 12, 0, 0, 0, time.UTC)

// ChainTime is a point in chain time, expressed as whole seconds since the
// chain era start.
type ChainTime struct {
	Seconds uint64
}

// Now returns the current wall-clock time as a ChainTime.
func Now() ChainTime {
	t := now()
	seconds := t.Unix() - ChainEra.Unix()
	if seconds < 0 {
		seconds = 0
	}
	return ChainTime{Seconds: uint64(seconds)}
}

// FromTime converts a standard time.Time to a ChainTime.
func FromTime(t time.Time) (ChainTime, error) {
	if t.Before(ChainEra) {
		return ChainTime{}, ErrBeforeChainEra
	}
	return ChainTime{Seconds: uint64(t.Unix() - ChainEra.Unix())}, nil
}

// ToTime converts a ChainTime back to a standard time.Time.
func (ct ChainTime) ToTime() time.Time {
	return time.Unix(ChainEra.Unix()+int64(ct.Seconds), 0).UTC()
}

// ToSlot returns the slot that contains this ChainTime.
func (ct ChainTime) ToSlot() Slot {
	absolute := ct.Seconds / uint64(SlotDuration.Seconds())
	return Slot{
		Epoch: Epoch(absolute / SlotsPerEpoch),
		Index: SlotIndex(absolute % SlotsPerEpoch),
	}
}

// Before reports whether ct is before u.
func (ct ChainTime) Before(u ChainTime) bool {
	return ct.Seconds < u.Seconds
}

// After reports whether ct is after u.
func (ct ChainTime) After(u ChainTime) bool {
	return ct.Seconds > u.Seconds
}
