package chaintime

import "errors"

var (
	// ErrBeforeChainEra is returned when converting a wall-clock time that
	// predates the chain era start.
	ErrBeforeChainEra = errors.New("time is before the chain era start")

	// ErrMinEpochReached is returned when attempting to get the previous
	// epoch from the minimum possible epoch value.
	ErrMinEpochReached = errors.New("minimum epoch reached")

	// ErrMaxEpochReached is returned when attempting to get the next epoch
	// from the maximum possible epoch value.
	ErrMaxEpochReached = errors.New("maximum epoch reached")

	// ErrSlotIndexTooLarge is returned when a slot index is greater than or
	// equal to the number of slots in an epoch.
	ErrSlotIndexTooLarge = errors.New("slot index exceeds epoch length")
)
