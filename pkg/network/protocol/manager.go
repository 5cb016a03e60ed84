package protocol

import (
	"crypto/tls"
	"fmt"
	"strings"

	"github.com/eigerco/bilberry/pkg/log"
	"github.com/eigerco/bilberry/pkg/network/transport"
)

// Config represents the configuration for a protocol Manager
type Config struct {
	// ChainHash is the identifier of the blockchain network
	ChainHash string
}

// Manager handles protocol-level connection management. It owns the
// stream-handler registry and validates negotiated protocols on behalf of
// the node's transport.ConnectionHandler.
type Manager struct {
	Registry *Registry
	config   Config
}

// NewManager creates a new protocol Manager with the given configuration.
// Returns an error if the chain hash is empty or invalid.
func NewManager(config Config) (*Manager, error) {
	if config.ChainHash == "" {
		return nil, fmt.Errorf("chain hash required")
	}

	if err := ValidateALPNProtocol(NewProtocolID(config.ChainHash).String()); err != nil {
		return nil, fmt.Errorf("invalid chain hash format: %w", err)
	}

	return &Manager{
		Registry: NewRegistry(),
		config:   config,
	}, nil
}

// OnConnection is called when a new transport connection is established.
// It sets up a protocol connection and starts a stream handling goroutine.
func (m *Manager) OnConnection(conn *transport.Conn) *ProtocolConn {
	protoConn := NewProtocolConn(conn, m.Registry)
	go m.handleStreams(protoConn)
	return protoConn
}

// handleStreams manages the lifecycle of streams for a protocol connection.
// It continuously accepts new streams and handles connection closure and timeouts.
func (m *Manager) handleStreams(protoConn *ProtocolConn) {
	defer protoConn.Close() //nolint:errcheck

	for {
		streamErr := protoConn.AcceptStream()
		if streamErr != nil {
			if protoConn.TConn.Context().Err() != nil {
				return
			}

			if isTimeoutError(streamErr) {
				log.Network.Debug().Msg("connection timed out due to inactivity")
				return
			}

			continue
		}
	}
}

// isTimeoutError determines if an error represents a connection timeout.
func isTimeoutError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "timeout: no recent network activity")
}

// GetProtocols returns the list of supported ALPN protocol strings.
// Implements the transport.ConnectionHandler interface.
func (m *Manager) GetProtocols() []string {
	return AcceptableProtocols(m.config.ChainHash)
}

// ValidateConnection validates a new TLS connection's protocol negotiation.
// Implements the transport.ConnectionHandler interface.
func (m *Manager) ValidateConnection(tlsState tls.ConnectionState) error {
	if tlsState.NegotiatedProtocol == "" {
		return fmt.Errorf("no protocol negotiated")
	}

	protocolID, err := ParseProtocolID(tlsState.NegotiatedProtocol)
	if err != nil {
		return fmt.Errorf("invalid protocol: %w", err)
	}

	if protocolID.ChainHash != m.config.ChainHash {
		return fmt.Errorf("chain hash mismatch: got %s, want %s",
			protocolID.ChainHash, m.config.ChainHash)
	}

	return nil
}
