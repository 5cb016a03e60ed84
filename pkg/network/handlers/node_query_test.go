package handlers_test

import (
	"context"
	"crypto/ed25519"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/eigerco/bilberry/internal/chaintime"
	"github.com/eigerco/bilberry/internal/crypto"
	"github.com/eigerco/bilberry/internal/gateway"
	"github.com/eigerco/bilberry/internal/ssc"
	"github.com/eigerco/bilberry/internal/testutils"
	"github.com/eigerco/bilberry/pkg/network/handlers"
	handlerutils "github.com/eigerco/bilberry/pkg/network/handlers/testutils"
)

func writeRequest(t *testing.T, stream *handlerutils.MockStream, content []byte) {
	t.Helper()
	err := handlers.WriteMessageWithContext(context.Background(), stream, content)
	require.NoError(t, err)
}

func readFramed(t *testing.T, stream *handlerutils.MockStream) []byte {
	t.Helper()
	msg, err := handlers.ReadMessageWithContext(context.Background(), stream)
	require.NoError(t, err)
	return msg.Content
}

func TestNodeQueryHandler_CurrentSlot(t *testing.T) {
	ctx := context.Background()
	stream := handlerutils.NewMockStream()

	service := gateway.NewQueryServiceMock()
	service.On("CurrentSlot", mock.Anything).
		Return(chaintime.Slot{Epoch: 10, Index: 3}, nil).Once()

	handler := handlers.NewNodeQueryHandler(service)
	writeRequest(t, stream, []byte{byte(handlers.OpCurrentSlot)})

	require.NoError(t, handler.HandleStream(ctx, stream, nil))
	require.True(t, stream.CloseCalled)

	resp := readFramed(t, stream)
	require.Equal(t, []byte{0, 10, 0, 0, 0, 3, 0, 0, 0}, resp)

	service.AssertExpectations(t)
}

func TestNodeQueryHandler_SlotLeaders_NotFound(t *testing.T) {
	ctx := context.Background()
	stream := handlerutils.NewMockStream()

	service := gateway.NewQueryServiceMock()
	service.On("SlotLeaders", mock.Anything, mock.Anything).
		Return(nil, &gateway.NotFoundError{Descriptor: "for the 8th epoch"}).Once()

	handler := handlers.NewNodeQueryHandler(service)
	writeRequest(t, stream, []byte{byte(handlers.OpSlotLeaders), 1, 8, 0, 0, 0})

	require.NoError(t, handler.HandleStream(ctx, stream, nil))

	resp := readFramed(t, stream)
	require.Equal(t, byte(1), resp[0])
	require.Equal(t, "for the 8th epoch", string(resp[1:]))

	service.AssertExpectations(t)
}

func TestNodeQueryHandler_SecretShare_NotImplemented(t *testing.T) {
	ctx := context.Background()
	stream := handlerutils.NewMockStream()

	service := gateway.NewQueryServiceMock()
	service.On("SecretShare", mock.Anything).
		Return(nil, gateway.ErrNotImplemented).Once()

	handler := handlers.NewNodeQueryHandler(service)
	writeRequest(t, stream, []byte{byte(handlers.OpSecretShare)})

	require.NoError(t, handler.HandleStream(ctx, stream, nil))

	resp := readFramed(t, stream)
	require.Equal(t, []byte{2}, resp)

	service.AssertExpectations(t)
}

func TestNodeQueryHandler_InternalError(t *testing.T) {
	ctx := context.Background()
	stream := handlerutils.NewMockStream()

	service := gateway.NewQueryServiceMock()
	service.On("HeadBlockHash", mock.Anything).
		Return(crypto.Hash{}, errors.New("store corrupted")).Once()

	handler := handlers.NewNodeQueryHandler(service)
	writeRequest(t, stream, []byte{byte(handlers.OpHeadBlockHash)})

	require.NoError(t, handler.HandleStream(ctx, stream, nil))

	resp := readFramed(t, stream)
	require.Equal(t, byte(3), resp[0])
	require.Equal(t, "store corrupted", string(resp[1:]))

	service.AssertExpectations(t)
}

func TestNodeQueryHandler_UnknownOp(t *testing.T) {
	ctx := context.Background()
	stream := handlerutils.NewMockStream()

	handler := handlers.NewNodeQueryHandler(gateway.NewQueryServiceMock())
	writeRequest(t, stream, []byte{255})

	require.NoError(t, handler.HandleStream(ctx, stream, nil))

	resp := readFramed(t, stream)
	require.Equal(t, byte(3), resp[0])
}

func TestNodeQueryHandler_EmptyRequest(t *testing.T) {
	ctx := context.Background()
	stream := handlerutils.NewMockStream()

	handler := handlers.NewNodeQueryHandler(gateway.NewQueryServiceMock())
	writeRequest(t, stream, []byte{})

	require.Error(t, handler.HandleStream(ctx, stream, nil))
}

func TestNodeQueryRequester_SlotLeaders_RoundTrip(t *testing.T) {
	ctx := context.Background()
	stream := handlerutils.NewMockStream()

	leaders := testutils.RandomLeaders(t, 3)
	respBody := []byte{0}
	for _, leader := range leaders {
		respBody = append(respBody, leader...)
	}
	writeRequest(t, stream, respBody)

	requester := handlers.NewNodeQueryRequester()
	epoch := chaintime.Epoch(7)
	got, err := requester.SlotLeaders(ctx, stream, &epoch)
	require.NoError(t, err)
	require.Equal(t, leaders, got)
	require.True(t, stream.CloseCalled)

	// The request written after the primed response carries the op byte
	// and the explicit epoch.
	req := readFramed(t, stream)
	require.Equal(t, []byte{byte(handlers.OpSlotLeaders), 1, 7, 0, 0, 0}, req)
}

func TestNodeQueryRequester_SlotLeaders_DefaultEpoch(t *testing.T) {
	ctx := context.Background()
	stream := handlerutils.NewMockStream()

	writeRequest(t, stream, []byte{0})

	requester := handlers.NewNodeQueryRequester()
	got, err := requester.SlotLeaders(ctx, stream, nil)
	require.NoError(t, err)
	require.Empty(t, got)

	req := readFramed(t, stream)
	require.Equal(t, []byte{byte(handlers.OpSlotLeaders), 0}, req)
}

func TestNodeQueryRequester_NotFoundError(t *testing.T) {
	ctx := context.Background()
	stream := handlerutils.NewMockStream()

	writeRequest(t, stream, append([]byte{1}, []byte("current")...))

	requester := handlers.NewNodeQueryRequester()
	_, err := requester.SlotLeaders(ctx, stream, nil)

	var notFound *gateway.NotFoundError
	require.ErrorAs(t, err, &notFound)
	require.Equal(t, "current", notFound.Descriptor)
}

func TestNodeQueryRequester_NotImplemented(t *testing.T) {
	ctx := context.Background()
	stream := handlerutils.NewMockStream()

	writeRequest(t, stream, []byte{2})

	requester := handlers.NewNodeQueryRequester()
	_, err := requester.SecretShare(ctx, stream)
	require.ErrorIs(t, err, gateway.ErrNotImplemented)
}

func TestNodeQueryRequester_Identity(t *testing.T) {
	ctx := context.Background()
	stream := handlerutils.NewMockStream()

	pub := testutils.RandomPublicKey(t)
	writeRequest(t, stream, append([]byte{0}, pub...))

	requester := handlers.NewNodeQueryRequester()
	got, err := requester.Identity(ctx, stream)
	require.NoError(t, err)
	require.Equal(t, ed25519.PublicKey(pub), got)
}

func TestNodeQueryRequester_SubProtocolStage(t *testing.T) {
	ctx := context.Background()
	stream := handlerutils.NewMockStream()

	writeRequest(t, stream, []byte{0, byte(ssc.PhaseShares)})

	requester := handlers.NewNodeQueryRequester()
	got, err := requester.SubProtocolStage(ctx, stream)
	require.NoError(t, err)
	require.Equal(t, ssc.PhaseShares, got)
}

func TestNodeQueryRequester_SetParticipation(t *testing.T) {
	ctx := context.Background()
	stream := handlerutils.NewMockStream()

	writeRequest(t, stream, []byte{0})

	requester := handlers.NewNodeQueryRequester()
	require.NoError(t, requester.SetParticipation(ctx, stream, true))

	req := readFramed(t, stream)
	require.Equal(t, []byte{byte(handlers.OpSetParticipation), 1}, req)
}
