package protocol

import (
	"context"
	"crypto/ed25519"
	"fmt"
	"sync"

	"github.com/quic-go/quic-go"
)

const (
	// CE (Common Ephemeral) streams start from 128
	StreamKindNodeQuery StreamKind = 128
)

// StreamHandler processes individual QUIC streams within a connection
type StreamHandler interface {
	HandleStream(ctx context.Context, stream quic.Stream, peerKey ed25519.PublicKey) error
}

// StreamKind identifies the protocol spoken on a stream; it is sent as the
// first byte after the stream opens.
type StreamKind byte

// Registry manages stream handlers for different protocol stream kinds
type Registry struct {
	mu       sync.RWMutex
	handlers map[StreamKind]StreamHandler
}

// NewRegistry creates a new registry for stream handlers
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[StreamKind]StreamHandler),
	}
}

// ValidateKind checks if a given byte represents a valid stream kind
// Returns an error if the kind is outside the valid range
func (r *Registry) ValidateKind(kindByte byte) error {
	if StreamKind(kindByte) != StreamKindNodeQuery {
		return fmt.Errorf("invalid stream kind: %d", kindByte)
	}
	return nil
}

// RegisterHandler associates a stream handler with a specific stream kind.
// When a stream of the registered kind is opened, the corresponding handler
// will be invoked to process it.
func (r *Registry) RegisterHandler(kind StreamKind, handler StreamHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[kind] = handler
}

// GetHandler retrieves the handler associated with a given stream kind
// Returns an error if no handler is registered for the kind
func (r *Registry) GetHandler(kind StreamKind) (StreamHandler, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	handler, ok := r.handlers[kind]
	if !ok {
		return nil, fmt.Errorf("no handler for kind %d", kind)
	}
	return handler, nil
}
