package chaintime

// SystemClock resolves the current slot from the system wall clock. It is
// the production implementation of the gateway's slot oracle; callers that
// need a fixed slot in tests substitute their own oracle.
type SystemClock struct{}

func (SystemClock) CurrentSlot() Slot {
	return CurrentSlot()
}
