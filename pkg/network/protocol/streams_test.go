package protocol

import (
	"context"
	"crypto/ed25519"
	"testing"

	"github.com/quic-go/quic-go"
	"github.com/stretchr/testify/require"
)

type nopHandler struct{}

func (nopHandler) HandleStream(ctx context.Context, stream quic.Stream, peerKey ed25519.PublicKey) error {
	return nil
}

func TestRegistryRegisterAndGet(t *testing.T) {
	registry := NewRegistry()

	_, err := registry.GetHandler(StreamKindNodeQuery)
	require.Error(t, err, "unregistered kind must fail")

	registry.RegisterHandler(StreamKindNodeQuery, nopHandler{})
	handler, err := registry.GetHandler(StreamKindNodeQuery)
	require.NoError(t, err)
	require.NotNil(t, handler)
}

func TestRegistryValidateKind(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.ValidateKind(byte(StreamKindNodeQuery)))
	require.Error(t, registry.ValidateKind(0))
	require.Error(t, registry.ValidateKind(200))
}

func TestManagerValidatesChainHash(t *testing.T) {
	_, err := NewManager(Config{})
	require.Error(t, err)

	_, err = NewManager(Config{ChainHash: "nothex!!"})
	require.Error(t, err)

	m, err := NewManager(Config{ChainHash: "deadbeef"})
	require.NoError(t, err)
	require.Equal(t, []string{"bnqp/0/deadbeef"}, m.GetProtocols())
}
