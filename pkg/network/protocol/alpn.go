package protocol

import (
	"fmt"
	"strings"
)

const (
	// Protocol prefix for the bilberry node query protocol
	protocolPrefix = "bnqp"

	// Current protocol version
	currentVersion = "0"

	// Chain hash length in nibbles
	chainHashLength = 8
)

// ProtocolID represents a complete ALPN protocol identifier.
// Format: bnqp/<version>/<chain-hash>
type ProtocolID struct {
	// Version is the protocol version (currently only "0")
	Version string
	// ChainHash is the 8-nibble chain identifier
	ChainHash string
}

// NewProtocolID creates a new ProtocolID with the specified chain hash.
// The version is automatically set to the current supported version.
func NewProtocolID(chainHash string) *ProtocolID {
	return &ProtocolID{
		Version:   currentVersion,
		ChainHash: chainHash,
	}
}

// String converts the ProtocolID to its string representation,
// e.g. "bnqp/0/deadbeef".
func (p *ProtocolID) String() string {
	return strings.Join([]string{protocolPrefix, p.Version, p.ChainHash}, "/")
}

// ParseProtocolID parses an ALPN protocol string into a ProtocolID.
// Validates the prefix, the version and the chain hash format
// (8 hex nibbles). Returns an error if any validation fails.
func ParseProtocolID(protocol string) (*ProtocolID, error) {
	parts := strings.Split(protocol, "/")

	if len(parts) != 3 {
		return nil, fmt.Errorf("invalid protocol format: %s", protocol)
	}

	if parts[0] != protocolPrefix {
		return nil, fmt.Errorf("invalid protocol prefix: %s", parts[0])
	}

	if parts[1] != currentVersion {
		return nil, fmt.Errorf("unsupported protocol version: %s", parts[1])
	}

	chainHash := parts[2]
	if len(chainHash) != chainHashLength {
		return nil, fmt.Errorf("invalid chain hash length: %s", chainHash)
	}
	for _, c := range chainHash {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return nil, fmt.Errorf("invalid chain hash character: %c", c)
		}
	}

	return &ProtocolID{
		Version:   parts[1],
		ChainHash: chainHash,
	}, nil
}

// ValidateALPNProtocol validates an ALPN protocol string.
// This is a convenience wrapper around ParseProtocolID that only returns the error status.
func ValidateALPNProtocol(protocol string) error {
	_, err := ParseProtocolID(protocol)
	return err
}

// AcceptableProtocols returns all acceptable protocol strings for a given chain hash.
func AcceptableProtocols(chainHash string) []string {
	return []string{NewProtocolID(chainHash).String()}
}
