package handlers

import (
	"context"
	"crypto/ed25519"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/quic-go/quic-go"

	"github.com/eigerco/bilberry/internal/chaintime"
	"github.com/eigerco/bilberry/internal/crypto"
	"github.com/eigerco/bilberry/internal/gateway"
	"github.com/eigerco/bilberry/internal/ssc"
)

// QueryOp identifies a gateway operation on the node query stream. It is
// the first byte of the request message.
type QueryOp byte

const (
	OpCurrentSlot QueryOp = iota + 1
	OpSlotLeaders
	OpIdentity
	OpHeadBlockHash
	OpPendingCount
	OpSetParticipation
	OpSecretShare
	OpSubProtocolStage
)

// Response status codes, the first byte of every response message. The
// transport keeps the gateway's failure taxonomy distinguishable on the
// wire: absent data, a deliberate stub and a collaborator failure each get
// their own status.
const (
	statusOK             byte = 0
	statusNotFound       byte = 1
	statusNotImplemented byte = 2
	statusError          byte = 3
)

// NodeQueryHandler processes incoming node query streams. Each stream
// carries a single request message and receives a single response message.
//
// Node -> Node
// --> Op ++ [Op-specific payload]
// --> FIN
// <-- Status ++ [result | descriptor | error text]
// <-- FIN
type NodeQueryHandler struct {
	service gateway.QueryService
}

// NewNodeQueryHandler creates a new handler dispatching into the given
// query service.
func NewNodeQueryHandler(service gateway.QueryService) *NodeQueryHandler {
	return &NodeQueryHandler{service: service}
}

// HandleStream reads one request from the stream, dispatches it and writes
// the response. Gateway failures become response statuses, not handler
// errors; only transport-level problems propagate to the caller.
func (h *NodeQueryHandler) HandleStream(ctx context.Context, stream quic.Stream, peerKey ed25519.PublicKey) error {
	msg, err := ReadMessageWithContext(ctx, stream)
	if err != nil {
		return fmt.Errorf("read request message: %w", err)
	}
	if len(msg.Content) < 1 {
		return fmt.Errorf("empty request message")
	}

	payload, err := h.dispatch(ctx, QueryOp(msg.Content[0]), msg.Content[1:])
	response := encodeResponse(payload, err)

	if err := WriteMessageWithContext(ctx, stream, response); err != nil {
		return fmt.Errorf("write response message: %w", err)
	}
	if err := stream.Close(); err != nil {
		return fmt.Errorf("close stream: %w", err)
	}
	return nil
}

// dispatch runs a single gateway operation and encodes its success payload.
func (h *NodeQueryHandler) dispatch(ctx context.Context, op QueryOp, payload []byte) ([]byte, error) {
	switch op {
	case OpCurrentSlot:
		slot, err := h.service.CurrentSlot(ctx)
		if err != nil {
			return nil, err
		}
		return encodeSlot(slot), nil

	case OpSlotLeaders:
		epoch, err := decodeOptionalEpoch(payload)
		if err != nil {
			return nil, err
		}
		leaders, err := h.service.SlotLeaders(ctx, epoch)
		if err != nil {
			return nil, err
		}
		return encodeLeaders(leaders), nil

	case OpIdentity:
		identity, err := h.service.Identity(ctx)
		if err != nil {
			return nil, err
		}
		return identity, nil

	case OpHeadBlockHash:
		hash, err := h.service.HeadBlockHash(ctx)
		if err != nil {
			return nil, err
		}
		return hash[:], nil

	case OpPendingCount:
		count, err := h.service.PendingTransactionCount(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]byte, 4)
		binary.LittleEndian.PutUint32(out, count)
		return out, nil

	case OpSetParticipation:
		if len(payload) != 1 {
			return nil, fmt.Errorf("invalid participation payload length: %d", len(payload))
		}
		if err := h.service.SetParticipation(ctx, payload[0] == 1); err != nil {
			return nil, err
		}
		return nil, nil

	case OpSecretShare:
		return h.service.SecretShare(ctx)

	case OpSubProtocolStage:
		phase, err := h.service.SubProtocolStage(ctx)
		if err != nil {
			return nil, err
		}
		return []byte{byte(phase)}, nil

	default:
		return nil, fmt.Errorf("unknown query op: %d", op)
	}
}

// encodeResponse maps a dispatch outcome onto the wire envelope.
func encodeResponse(payload []byte, err error) []byte {
	if err == nil {
		return append([]byte{statusOK}, payload...)
	}

	var notFound *gateway.NotFoundError
	if errors.As(err, &notFound) {
		return append([]byte{statusNotFound}, []byte(notFound.Descriptor)...)
	}
	if errors.Is(err, gateway.ErrNotImplemented) {
		return []byte{statusNotImplemented}
	}
	return append([]byte{statusError}, []byte(err.Error())...)
}

// NodeQueryRequester implements the client side of the node query protocol.
type NodeQueryRequester struct{}

// NewNodeQueryRequester creates a requester for node query streams.
func NewNodeQueryRequester() *NodeQueryRequester {
	return &NodeQueryRequester{}
}

// CurrentSlot asks the remote node for its current slot.
func (r *NodeQueryRequester) CurrentSlot(ctx context.Context, stream quic.Stream) (chaintime.Slot, error) {
	payload, err := r.roundTrip(ctx, stream, OpCurrentSlot, nil)
	if err != nil {
		return chaintime.Slot{}, err
	}
	return decodeSlot(payload)
}

// SlotLeaders asks for the slot leaders of the named epoch, or of the
// remote node's current epoch when epoch is nil.
func (r *NodeQueryRequester) SlotLeaders(ctx context.Context, stream quic.Stream, epoch *chaintime.Epoch) ([]ed25519.PublicKey, error) {
	payload, err := r.roundTrip(ctx, stream, OpSlotLeaders, encodeOptionalEpoch(epoch))
	if err != nil {
		return nil, err
	}
	return decodeLeaders(payload)
}

// Identity asks for the remote node's public identity key.
func (r *NodeQueryRequester) Identity(ctx context.Context, stream quic.Stream) (ed25519.PublicKey, error) {
	payload, err := r.roundTrip(ctx, stream, OpIdentity, nil)
	if err != nil {
		return nil, err
	}
	if len(payload) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("invalid identity length: %d", len(payload))
	}
	return ed25519.PublicKey(payload), nil
}

// HeadBlockHash asks for the hash of the remote node's head block.
func (r *NodeQueryRequester) HeadBlockHash(ctx context.Context, stream quic.Stream) (crypto.Hash, error) {
	payload, err := r.roundTrip(ctx, stream, OpHeadBlockHash, nil)
	if err != nil {
		return crypto.Hash{}, err
	}
	if len(payload) != crypto.HashSize {
		return crypto.Hash{}, fmt.Errorf("invalid hash length: %d", len(payload))
	}
	return crypto.Hash(payload), nil
}

// PendingTransactionCount asks for the remote node's local pending count.
func (r *NodeQueryRequester) PendingTransactionCount(ctx context.Context, stream quic.Stream) (uint32, error) {
	payload, err := r.roundTrip(ctx, stream, OpPendingCount, nil)
	if err != nil {
		return 0, err
	}
	if len(payload) != 4 {
		return 0, fmt.Errorf("invalid count length: %d", len(payload))
	}
	return binary.LittleEndian.Uint32(payload), nil
}

// SetParticipation toggles the remote node's secret-sharing participation.
func (r *NodeQueryRequester) SetParticipation(ctx context.Context, stream quic.Stream, enable bool) error {
	participation := byte(0)
	if enable {
		participation = 1
	}
	_, err := r.roundTrip(ctx, stream, OpSetParticipation, []byte{participation})
	return err
}

// SecretShare asks for the remote node's secret-sharing material.
func (r *NodeQueryRequester) SecretShare(ctx context.Context, stream quic.Stream) ([]byte, error) {
	return r.roundTrip(ctx, stream, OpSecretShare, nil)
}

// SubProtocolStage asks for the remote node's current sub-protocol phase.
func (r *NodeQueryRequester) SubProtocolStage(ctx context.Context, stream quic.Stream) (ssc.Phase, error) {
	payload, err := r.roundTrip(ctx, stream, OpSubProtocolStage, nil)
	if err != nil {
		return ssc.PhaseOrdinary, err
	}
	if len(payload) != 1 {
		return ssc.PhaseOrdinary, fmt.Errorf("invalid phase length: %d", len(payload))
	}
	return ssc.Phase(payload[0]), nil
}

// roundTrip sends one request and decodes the response envelope back into
// the gateway's failure taxonomy.
func (r *NodeQueryRequester) roundTrip(ctx context.Context, stream quic.Stream, op QueryOp, payload []byte) ([]byte, error) {
	content := append([]byte{byte(op)}, payload...)
	if err := WriteMessageWithContext(ctx, stream, content); err != nil {
		return nil, fmt.Errorf("write request message: %w", err)
	}
	if err := stream.Close(); err != nil {
		return nil, fmt.Errorf("close write: %w", err)
	}

	msg, err := ReadMessageWithContext(ctx, stream)
	if err != nil {
		return nil, fmt.Errorf("read response message: %w", err)
	}
	if len(msg.Content) < 1 {
		return nil, fmt.Errorf("empty response")
	}

	status, body := msg.Content[0], msg.Content[1:]
	switch status {
	case statusOK:
		return body, nil
	case statusNotFound:
		return nil, &gateway.NotFoundError{Descriptor: string(body)}
	case statusNotImplemented:
		return nil, gateway.ErrNotImplemented
	case statusError:
		return nil, fmt.Errorf("remote error: %s", body)
	default:
		return nil, fmt.Errorf("unknown response status: %d", status)
	}
}

func encodeSlot(slot chaintime.Slot) []byte {
	out := make([]byte, 8)
	binary.LittleEndian.PutUint32(out, uint32(slot.Epoch))
	binary.LittleEndian.PutUint32(out[4:], uint32(slot.Index))
	return out
}

func decodeSlot(data []byte) (chaintime.Slot, error) {
	if len(data) != 8 {
		return chaintime.Slot{}, fmt.Errorf("invalid slot length: %d", len(data))
	}
	return chaintime.Slot{
		Epoch: chaintime.Epoch(binary.LittleEndian.Uint32(data)),
		Index: chaintime.SlotIndex(binary.LittleEndian.Uint32(data[4:])),
	}, nil
}

func encodeOptionalEpoch(epoch *chaintime.Epoch) []byte {
	if epoch == nil {
		return []byte{0}
	}
	out := make([]byte, 5)
	out[0] = 1
	binary.LittleEndian.PutUint32(out[1:], uint32(*epoch))
	return out
}

func decodeOptionalEpoch(data []byte) (*chaintime.Epoch, error) {
	if len(data) < 1 {
		return nil, fmt.Errorf("missing epoch flag")
	}
	if data[0] == 0 {
		return nil, nil
	}
	if len(data) != 5 {
		return nil, fmt.Errorf("invalid epoch payload length: %d", len(data))
	}
	epoch := chaintime.Epoch(binary.LittleEndian.Uint32(data[1:]))
	return &epoch, nil
}

func encodeLeaders(leaders []ed25519.PublicKey) []byte {
	out := make([]byte, 0, len(leaders)*ed25519.PublicKeySize)
	for _, leader := range leaders {
		out = append(out, leader...)
	}
	return out
}

func decodeLeaders(data []byte) ([]ed25519.PublicKey, error) {
	if len(data)%ed25519.PublicKeySize != 0 {
		return nil, fmt.Errorf("invalid leaders payload length: %d", len(data))
	}
	leaders := make([]ed25519.PublicKey, 0, len(data)/ed25519.PublicKeySize)
	for offset := 0; offset < len(data); offset += ed25519.PublicKeySize {
		leaders = append(leaders, ed25519.PublicKey(data[offset:offset+ed25519.PublicKeySize]))
	}
	return leaders, nil
}
