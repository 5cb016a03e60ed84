package ssc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/eigerco/bilberry/internal/chaintime"
)

func TestClassifyStandardLayout(t *testing.T) {
	ws := NewWindows(10)
	require.NoError(t, ws.Validate())

	cases := []struct {
		name  string
		index chaintime.SlotIndex
		want  Phase
	}{
		{"first commitment slot", 0, PhaseCommitment},
		{"last commitment slot", 19, PhaseCommitment},
		{"gap after commitments", 20, PhaseOrdinary},
		{"first opening slot", 40, PhaseOpening},
		{"last opening slot", 59, PhaseOpening},
		{"gap after openings", 60, PhaseOrdinary},
		{"first shares slot", 80, PhaseShares},
		{"last shares slot", 99, PhaseShares},
		{"tail of the epoch", 100, PhaseOrdinary},
		{"last slot of the epoch", chaintime.SlotsPerEpoch - 1, PhaseOrdinary},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, ws.Classify(tc.index))
		})
	}
}

// Every slot index gets exactly one phase and no index matches two special
// windows.
func TestClassifyIsTotalAndDisjoint(t *testing.T) {
	ws := NewWindows(10)
	require.NoError(t, ws.Validate())

	for index := chaintime.SlotIndex(0); index < chaintime.SlotsPerEpoch; index++ {
		matches := 0
		if ws.Commitment.Contains(index) {
			matches++
		}
		if ws.Opening.Contains(index) {
			matches++
		}
		if ws.Shares.Contains(index) {
			matches++
		}
		require.LessOrEqual(t, matches, 1, "index %d matched %d special windows", index, matches)

		phase := ws.Classify(index)
		if matches == 0 {
			require.Equal(t, PhaseOrdinary, phase)
		} else {
			require.NotEqual(t, PhaseOrdinary, phase)
		}
	}
}

func TestValidateRejectsBadWindows(t *testing.T) {
	t.Run("inverted", func(t *testing.T) {
		ws := NewWindows(10)
		ws.Opening = Window{Start: 60, End: 40}
		require.ErrorIs(t, ws.Validate(), ErrWindowInverted)
	})

	t.Run("too long", func(t *testing.T) {
		ws := NewWindows(10)
		ws.Shares = Window{Start: 0, End: chaintime.SlotsPerEpoch + 1}
		require.ErrorIs(t, ws.Validate(), ErrWindowTooLong)
	})

	t.Run("overlapping", func(t *testing.T) {
		ws := Windows{
			Commitment: Window{Start: 0, End: 20},
			Opening:    Window{Start: 10, End: 30},
			Shares:     Window{Start: 40, End: 50},
		}
		require.ErrorIs(t, ws.Validate(), ErrWindowsOverlap)
	})
}

func TestPhaseString(t *testing.T) {
	require.Equal(t, "commitment", PhaseCommitment.String())
	require.Equal(t, "opening", PhaseOpening.String())
	require.Equal(t, "shares", PhaseShares.String())
	require.Equal(t, "ordinary", PhaseOrdinary.String())
}
