package protocol

import (
	"context"
	"fmt"

	"github.com/quic-go/quic-go"

	"github.com/eigerco/bilberry/pkg/log"
	"github.com/eigerco/bilberry/pkg/network/transport"
)

// ProtocolConn wraps a transport connection with protocol-specific
// functionality: opening streams tagged with their kind and dispatching
// accepted streams to registered handlers.
type ProtocolConn struct {
	TConn    *transport.Conn
	registry *Registry
}

// NewProtocolConn creates a new protocol-level connection bound to a
// handler registry.
func NewProtocolConn(tConn *transport.Conn, registry *Registry) *ProtocolConn {
	return &ProtocolConn{
		TConn:    tConn,
		registry: registry,
	}
}

// OpenStream opens a new stream of the given kind using the provided context.
// It writes the stream kind as the first byte and returns the established stream.
func (pc *ProtocolConn) OpenStream(ctx context.Context, kind StreamKind) (quic.Stream, error) {
	stream, err := pc.TConn.OpenStream(ctx)
	if err != nil {
		return nil, err
	}

	if err := writeWithContext(ctx, stream, []byte{byte(kind)}); err != nil {
		stream.Close()
		return nil, fmt.Errorf("failed to write stream kind: %w", err)
	}

	return stream, nil
}

// AcceptStream accepts and handles an incoming stream.
// It reads the stream kind byte, looks up the appropriate handler,
// and starts a goroutine to handle the stream.
func (pc *ProtocolConn) AcceptStream() error {
	stream, err := pc.TConn.AcceptStream()
	if err != nil {
		return err
	}

	kind := make([]byte, 1)
	if _, err := stream.Read(kind); err != nil {
		stream.Close()
		return fmt.Errorf("failed to read stream kind: %w", err)
	}

	handler, err := pc.registry.GetHandler(StreamKind(kind[0]))
	if err != nil {
		stream.Close()
		return err
	}

	go func() {
		if err := handler.HandleStream(pc.TConn.Context(), stream, pc.TConn.PeerKey()); err != nil {
			log.Network.Warn().Err(err).Uint8("kind", kind[0]).Msg("stream handler error")
		}
	}()

	return nil
}

// writeWithContext writes bytes to a stream with context cancellation support.
func writeWithContext(ctx context.Context, stream quic.Stream, p []byte) error {
	done := make(chan error, 1)

	go func() {
		_, err := stream.Write(p)
		done <- err
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close closes the underlying transport connection.
func (pc *ProtocolConn) Close() error {
	return pc.TConn.Close()
}
