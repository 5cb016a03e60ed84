package store

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/eigerco/bilberry/internal/testutils"
	"github.com/eigerco/bilberry/pkg/db/pebble"
)

func TestPutGetLeaders(t *testing.T) {
	kv, err := pebble.NewKVStore()
	require.NoError(t, err)
	defer func() {
		err := kv.Close()
		require.NoError(t, err, "failed to close db")
	}()

	leaderStore := NewLeaders(kv)
	expected := testutils.RandomLeaders(t, 10)

	err = leaderStore.PutLeaders(7, expected)
	require.NoError(t, err, "failed to put leaders")

	got, err := leaderStore.GetLeaders(7)
	require.NoError(t, err, "failed to get leaders")
	require.Equal(t, expected, got, "leader sequence mismatch")
}

func TestGetLeadersMissingEpoch(t *testing.T) {
	kv, err := pebble.NewKVStore()
	require.NoError(t, err)
	defer kv.Close()

	leaderStore := NewLeaders(kv)
	_, err = leaderStore.GetLeaders(8)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestLeadersAreIsolatedPerEpoch(t *testing.T) {
	kv, err := pebble.NewKVStore()
	require.NoError(t, err)
	defer kv.Close()

	leaderStore := NewLeaders(kv)
	epoch7 := testutils.RandomLeaders(t, 5)
	epoch9 := testutils.RandomLeaders(t, 5)

	require.NoError(t, leaderStore.PutLeaders(7, epoch7))
	require.NoError(t, leaderStore.PutLeaders(9, epoch9))

	got, err := leaderStore.GetLeaders(7)
	require.NoError(t, err)
	require.Equal(t, epoch7, got)

	_, err = leaderStore.GetLeaders(8)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteLeaders(t *testing.T) {
	kv, err := pebble.NewKVStore()
	require.NoError(t, err)
	defer kv.Close()

	leaderStore := NewLeaders(kv)
	require.NoError(t, leaderStore.PutLeaders(3, testutils.RandomLeaders(t, 4)))
	require.NoError(t, leaderStore.DeleteLeaders(3))

	_, err = leaderStore.GetLeaders(3)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestPutLeadersRejectsBadKeyLength(t *testing.T) {
	kv, err := pebble.NewKVStore()
	require.NoError(t, err)
	defer kv.Close()

	leaderStore := NewLeaders(kv)
	leaders := testutils.RandomLeaders(t, 2)
	leaders[1] = leaders[1][:16]

	require.Error(t, leaderStore.PutLeaders(1, leaders))
}
