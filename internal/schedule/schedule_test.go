package schedule_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/eigerco/bilberry/internal/chaintime"
	"github.com/eigerco/bilberry/internal/schedule"
	"github.com/eigerco/bilberry/internal/testutils"
)

func TestDeterministicShuffle_IsPermutation(t *testing.T) {
	seed := testutils.RandomHash(t)

	order := schedule.DeterministicShuffle(100, seed)
	require.Len(t, order, 100)

	seen := make(map[uint32]bool)
	for _, v := range order {
		require.Less(t, v, uint32(100))
		require.False(t, seen[v], "duplicate index %d", v)
		seen[v] = true
	}
}

func TestDeterministicShuffle_Deterministic(t *testing.T) {
	seed := testutils.RandomHash(t)

	first := schedule.DeterministicShuffle(64, seed)
	second := schedule.DeterministicShuffle(64, seed)
	require.Equal(t, first, second)
}

func TestDeterministicShuffle_SeedChangesOrder(t *testing.T) {
	a := schedule.DeterministicShuffle(64, testutils.RandomHash(t))
	b := schedule.DeterministicShuffle(64, testutils.RandomHash(t))
	require.NotEqual(t, a, b)
}

func TestDeterministicShuffle_Empty(t *testing.T) {
	require.Empty(t, schedule.DeterministicShuffle(0, testutils.RandomHash(t)))
}

func TestLeaders_CoversEverySlot(t *testing.T) {
	keys := testutils.RandomLeaders(t, 7)
	seed := testutils.RandomHash(t)

	leaders, err := schedule.Leaders(seed, keys, chaintime.SlotsPerEpoch)
	require.NoError(t, err)
	require.Len(t, leaders, int(chaintime.SlotsPerEpoch))

	known := make(map[string]bool, len(keys))
	for _, key := range keys {
		known[string(key)] = true
	}
	for _, leader := range leaders {
		require.True(t, known[string(leader)])
	}
}

func TestLeaders_Deterministic(t *testing.T) {
	keys := testutils.RandomLeaders(t, 5)
	seed := testutils.RandomHash(t)

	first, err := schedule.Leaders(seed, keys, 60)
	require.NoError(t, err)
	second, err := schedule.Leaders(seed, keys, 60)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestLeaders_NoKeys(t *testing.T) {
	_, err := schedule.Leaders(testutils.RandomHash(t), nil, 60)
	require.ErrorIs(t, err, schedule.ErrNoKeys)
}

func TestEpochSeed_DistinctPerEpoch(t *testing.T) {
	a := schedule.EpochSeed("beefdead", chaintime.Epoch(1))
	b := schedule.EpochSeed("beefdead", chaintime.Epoch(2))
	c := schedule.EpochSeed("deadbeef", chaintime.Epoch(1))

	require.NotEqual(t, a, b)
	require.NotEqual(t, a, c)
}
