package peer

import (
	"context"
	"crypto/ed25519"
	"net"

	"github.com/eigerco/bilberry/pkg/network/protocol"
)

// PeerSet maintains mappings between peer identifiers
// (Ed25519 keys, network addresses) and Peer objects.
type PeerSet struct {
	// Map from Ed25519 public key to peer
	byEd25519Key map[string]*Peer
	// Map from string representation of address to peer
	byAddress map[string]*Peer
}

// NewPeerSet creates a new PeerSet instance with initialized internal maps.
func NewPeerSet() *PeerSet {
	return &PeerSet{
		byEd25519Key: make(map[string]*Peer),
		byAddress:    make(map[string]*Peer),
	}
}

// AddPeer adds a peer to all relevant lookup maps in the PeerSet.
func (ps *PeerSet) AddPeer(peer *Peer) {
	ps.byEd25519Key[string(peer.Ed25519Key)] = peer
	ps.byAddress[peer.Address.String()] = peer
}

// RemovePeer removes a peer from all lookup maps in the PeerSet.
func (ps *PeerSet) RemovePeer(peer *Peer) {
	delete(ps.byEd25519Key, string(peer.Ed25519Key))
	delete(ps.byAddress, peer.Address.String())
}

// GetByEd25519Key looks up a peer by their Ed25519 public key.
// Returns nil if no peer is found with the given key.
func (ps *PeerSet) GetByEd25519Key(key ed25519.PublicKey) *Peer {
	return ps.byEd25519Key[string(key)]
}

// GetByAddress looks up a peer by their network address.
// Returns nil if no peer is found with the given address.
func (ps *PeerSet) GetByAddress(addr string) *Peer {
	return ps.byAddress[addr]
}

// GetAllPeers returns all peers currently in the peer set
func (ps *PeerSet) GetAllPeers() []*Peer {
	peers := make([]*Peer, 0, len(ps.byEd25519Key))
	for _, peer := range ps.byEd25519Key {
		peers = append(peers, peer)
	}
	return peers
}

// Peer represents a remote peer and provides high-level protocol operations.
// It wraps the underlying transport and protocol connections with a simpler interface.
type Peer struct {
	// ProtoConn handles protocol-specific operations
	ProtoConn  *protocol.ProtocolConn
	Address    *net.UDPAddr
	ctx        context.Context
	cancel     context.CancelFunc
	Ed25519Key ed25519.PublicKey
}

// NewPeer creates a new peer instance from an established transport connection.
func NewPeer(pConn *protocol.ProtocolConn) *Peer {
	ctx, cancel := context.WithCancel(pConn.TConn.Context())
	remoteAddr, ok := pConn.TConn.QConn.RemoteAddr().(*net.UDPAddr)
	if !ok {
		cancel()
		return nil
	}
	return &Peer{
		ProtoConn:  pConn,
		ctx:        ctx,
		cancel:     cancel,
		Ed25519Key: pConn.TConn.PeerKey(),
		Address:    remoteAddr,
	}
}
