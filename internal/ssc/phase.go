// Package ssc holds the node-facing surface of the secret-sharing
// sub-protocol: the classification of slots into protocol phases. The
// commitment/opening/shares machinery itself runs in the consensus engine
// and is not part of this package.
package ssc

// Phase is the secret-sharing sub-protocol phase of a single slot.
// Exactly one phase applies to any slot index.
type Phase uint8

const (
	// PhaseOrdinary is the catch-all for slots outside every special window.
	PhaseOrdinary Phase = iota
	// PhaseCommitment covers the slots in which commitments are submitted.
	PhaseCommitment
	// PhaseOpening covers the slots in which commitments are opened.
	PhaseOpening
	// PhaseShares covers the slots in which shares are revealed.
	PhaseShares
)

func (p Phase) String() string {
	switch p {
	case PhaseCommitment:
		return "commitment"
	case PhaseOpening:
		return "opening"
	case PhaseShares:
		return "shares"
	default:
		return "ordinary"
	}
}
