package chaintime

import (
	"errors"
	"testing"
)

func TestEpoch_FromEpoch(t *testing.T) {
	t.Run("first epoch", func(t *testing.T) {
		ct := FromEpoch(0)
		if ct.Seconds != 0 {
			t.Errorf("FromEpoch(0): got %d, want 0", ct.Seconds)
		}
	})

	t.Run("arbitrary epoch", func(t *testing.T) {
		ct := FromEpoch(100)
		expected := uint64(360000) // 100 * 3600
		if ct.Seconds != expected {
			t.Errorf("FromEpoch(100): got %d, want %d", ct.Seconds, expected)
		}
	})
}

func TestEpoch_NextEpoch(t *testing.T) {
	t.Run("regular epoch", func(t *testing.T) {
		next, err := Epoch(41).NextEpoch()
		if err != nil {
			t.Fatalf("NextEpoch(41): unexpected error %v", err)
		}
		if next != 42 {
			t.Errorf("NextEpoch(41): got %d, want 42", next)
		}
	})

	t.Run("max epoch", func(t *testing.T) {
		_, err := MaxEpoch.NextEpoch()
		if !errors.Is(err, ErrMaxEpochReached) {
			t.Errorf("NextEpoch(MaxEpoch): got %v, want ErrMaxEpochReached", err)
		}
	})
}

func TestEpoch_PreviousEpoch(t *testing.T) {
	t.Run("regular epoch", func(t *testing.T) {
		prev, err := Epoch(42).PreviousEpoch()
		if err != nil {
			t.Fatalf("PreviousEpoch(42): unexpected error %v", err)
		}
		if prev != 41 {
			t.Errorf("PreviousEpoch(42): got %d, want 41", prev)
		}
	})

	t.Run("min epoch", func(t *testing.T) {
		_, err := MinEpoch.PreviousEpoch()
		if !errors.Is(err, ErrMinEpochReached) {
			t.Errorf("PreviousEpoch(MinEpoch): got %v, want ErrMinEpochReached", err)
		}
	})
}
