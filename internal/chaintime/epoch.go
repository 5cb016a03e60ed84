package chaintime

// Epoch identifies a consensus epoch. Epochs are numbered consecutively
// from the chain era start.
type Epoch uint32

// FromEpoch creates a ChainTime at the start of the epoch.
func FromEpoch(e Epoch) ChainTime {
	return ChainTime{Seconds: uint64(e) * uint64(EpochDuration.Seconds())}
}

// CurrentEpoch returns the epoch containing the current wall-clock time.
func CurrentEpoch() Epoch {
	return Now().ToSlot().Epoch
}

// EpochStart returns the ChainTime at the start of the epoch.
func (e Epoch) EpochStart() ChainTime {
	return FromEpoch(e)
}

// NextEpoch returns the following epoch.
func (e Epoch) NextEpoch() (Epoch, error) {
	if e == MaxEpoch {
		return e, ErrMaxEpochReached
	}
	return e + 1, nil
}

// PreviousEpoch returns the preceding epoch.
func (e Epoch) PreviousEpoch() (Epoch, error) {
	if e == MinEpoch {
		return e, ErrMinEpochReached
	}
	return e - 1, nil
}
