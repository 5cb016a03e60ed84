package ssc

import (
	"errors"

	"github.com/eigerco/bilberry/internal/chaintime"
)

var (
	ErrWindowInverted = errors.New("window end precedes its start")
	ErrWindowTooLong  = errors.New("window extends beyond the epoch length")
	ErrWindowsOverlap = errors.New("sub-protocol windows overlap")
)

// Window is a half-open range [Start, End) of slot indexes within an epoch.
type Window struct {
	Start chaintime.SlotIndex
	End   chaintime.SlotIndex
}

// Contains reports whether the slot index falls inside the window.
func (w Window) Contains(index chaintime.SlotIndex) bool {
	return index >= w.Start && index < w.End
}

func (w Window) overlaps(other Window) bool {
	return w.Start < other.End && other.Start < w.End
}

// Windows holds the three special slot-index ranges of an epoch. The ranges
// are protocol parameters; they must be pairwise disjoint, which Validate
// enforces so that classification never depends on check order.
type Windows struct {
	Commitment Window
	Opening    Window
	Shares     Window
}

// NewWindows derives the standard window layout from the security
// parameter k: commitments in [0, 2k), openings in [4k, 6k), shares in
// [8k, 10k). The gaps leave time for submissions to propagate before the
// next phase begins.
func NewWindows(k chaintime.SlotIndex) Windows {
	return Windows{
		Commitment: Window{Start: 0, End: 2 * k},
		Opening:    Window{Start: 4 * k, End: 6 * k},
		Shares:     Window{Start: 8 * k, End: 10 * k},
	}
}

// Validate checks that every window is well formed, fits in an epoch and
// does not overlap any other window.
func (ws Windows) Validate() error {
	all := []Window{ws.Commitment, ws.Opening, ws.Shares}
	for _, w := range all {
		if w.End < w.Start {
			return ErrWindowInverted
		}
		if w.End > chaintime.SlotsPerEpoch {
			return ErrWindowTooLong
		}
	}
	for i, w := range all {
		for _, other := range all[i+1:] {
			if w.overlaps(other) {
				return ErrWindowsOverlap
			}
		}
	}
	return nil
}

// Classify maps a slot index to its sub-protocol phase. It is pure and
// total: commitment, opening and shares windows are checked in that order
// and anything unmatched is ordinary.
func (ws Windows) Classify(index chaintime.SlotIndex) Phase {
	switch {
	case ws.Commitment.Contains(index):
		return PhaseCommitment
	case ws.Opening.Contains(index):
		return PhaseOpening
	case ws.Shares.Contains(index):
		return PhaseShares
	default:
		return PhaseOrdinary
	}
}
