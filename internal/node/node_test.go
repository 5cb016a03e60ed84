package node

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/eigerco/bilberry/internal/block"
	"github.com/eigerco/bilberry/internal/chaintime"
	"github.com/eigerco/bilberry/internal/testutils"
)

func TestContextIdentity(t *testing.T) {
	pub, prv := testutils.RandomKeyPair(t)
	ctx := NewContext(Keys{EdPrv: prv, EdPub: pub}, 3, false)

	require.Equal(t, pub, ctx.Identity())
	require.Equal(t, uint16(3), ctx.Index())
	require.False(t, ctx.Participating())
}

func TestParticipationToggleIsImmediatelyVisible(t *testing.T) {
	pub, prv := testutils.RandomKeyPair(t)
	ctx := NewContext(Keys{EdPrv: prv, EdPub: pub}, 0, false)

	ctx.SetParticipation(true)
	require.True(t, ctx.Participating())
	ctx.SetParticipation(false)
	require.False(t, ctx.Participating())
}

// Concurrent toggles land in some order; the flag must always end up as a
// plain boolean equal to one of the written values.
func TestParticipationConcurrentToggles(t *testing.T) {
	pub, prv := testutils.RandomKeyPair(t)
	ctx := NewContext(Keys{EdPrv: prv, EdPub: pub}, 0, false)

	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(enable bool) {
			defer wg.Done()
			ctx.SetParticipation(enable)
		}(i%2 == 0)
	}
	wg.Wait()

	// Whatever won, the value is readable and a subsequent write wins.
	_ = ctx.Participating()
	ctx.SetParticipation(true)
	require.True(t, ctx.Participating())
}

func TestStateHeadReplacement(t *testing.T) {
	genesis := block.Header{Slot: chaintime.Slot{Epoch: 0, Index: 0}, Author: testutils.RandomPublicKey(t)}
	state := NewState(genesis)
	require.Equal(t, genesis.Hash(), state.HeadBlockHash())

	next := block.Header{
		Parent: genesis.Hash(),
		Slot:   chaintime.Slot{Epoch: 0, Index: 1},
		Author: testutils.RandomPublicKey(t),
	}
	state.SetHead(next)
	require.Equal(t, next.Hash(), state.HeadBlockHash())
	require.Equal(t, next, state.Head())
}

func TestStatePendingPool(t *testing.T) {
	state := NewState(block.Header{Author: testutils.RandomPublicKey(t)})
	require.Empty(t, state.PendingTransactions())

	for i := 0; i < 3; i++ {
		state.AddPendingTransaction(block.Transaction{
			Sender: testutils.RandomPublicKey(t),
			Nonce:  uint64(i),
		})
	}
	require.Len(t, state.PendingTransactions(), 3)

	// The returned slice is a snapshot, mutating it must not affect state.
	snapshot := state.PendingTransactions()
	snapshot[0].Nonce = 99
	require.Equal(t, uint64(0), state.PendingTransactions()[0].Nonce)

	state.ClearPending()
	require.Empty(t, state.PendingTransactions())
}
