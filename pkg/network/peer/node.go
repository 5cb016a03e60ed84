package peer

import (
	"context"
	"crypto/ed25519"
	"crypto/tls"
	"fmt"
	"sync"
	"time"

	"github.com/quic-go/quic-go"

	"github.com/eigerco/bilberry/internal/chaintime"
	"github.com/eigerco/bilberry/internal/crypto"
	"github.com/eigerco/bilberry/internal/gateway"
	"github.com/eigerco/bilberry/internal/node"
	"github.com/eigerco/bilberry/internal/ssc"
	"github.com/eigerco/bilberry/pkg/log"
	"github.com/eigerco/bilberry/pkg/network/cert"
	"github.com/eigerco/bilberry/pkg/network/handlers"
	"github.com/eigerco/bilberry/pkg/network/protocol"
	"github.com/eigerco/bilberry/pkg/network/transport"
)

// Config carries everything a Node needs to join the network:
// its keys, where to listen, which chain it belongs to and the query
// service answering inbound requests.
type Config struct {
	Keys       node.Keys
	ListenAddr string
	ChainHash  string
	Service    gateway.QueryService
}

// Node manages peer connections, handles protocol messages, and coordinates
// network operations. Each Node can act as both a client and server,
// maintaining connections with multiple peers simultaneously. Inbound node
// query streams are answered from the configured query service; the same
// node can issue queries against its peers.
type Node struct {
	Context         context.Context
	Cancel          context.CancelFunc
	transport       *transport.Transport
	protocolManager *protocol.Manager
	peersLock       sync.RWMutex
	peersSet        *PeerSet
	queryRequester  *handlers.NodeQueryRequester
}

// NewNode creates a new Node instance with the specified configuration.
// It initializes the TLS certificate, protocol manager, and network transport.
func NewNode(nodeCtx context.Context, config Config) (*Node, error) {
	nodeCtx, cancel := context.WithCancel(nodeCtx)
	n := &Node{
		peersSet:       NewPeerSet(),
		Context:        nodeCtx,
		Cancel:         cancel,
		queryRequester: handlers.NewNodeQueryRequester(),
	}

	// Create TLS certificate using the node's Ed25519 key pair
	certGen := cert.NewGenerator(cert.Config{
		PublicKey:          config.Keys.EdPub,
		PrivateKey:         config.Keys.EdPrv,
		CertValidityPeriod: 24 * time.Hour,
	})
	tlsCert, err := certGen.GenerateCertificate()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to generate certificate: %w", err)
	}

	protoManager, err := protocol.NewManager(protocol.Config{
		ChainHash: config.ChainHash,
	})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create protocol manager: %w", err)
	}

	// Register what type of streams the Node will support.
	protoManager.Registry.RegisterHandler(protocol.StreamKindNodeQuery, handlers.NewNodeQueryHandler(config.Service))

	tr, err := transport.NewTransport(transport.Config{
		PublicKey:     config.Keys.EdPub,
		PrivateKey:    config.Keys.EdPrv,
		TLSCert:       tlsCert,
		ListenAddr:    config.ListenAddr,
		CertValidator: cert.NewValidator(),
		Handler:       n,
	})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create transport: %w", err)
	}

	n.transport = tr
	n.protocolManager = protoManager
	return n, nil
}

// OnConnection is called by the transport layer whenever a new QUIC
// connection is established with a verified peer certificate. An existing
// connection from the same peer is closed and replaced.
func (n *Node) OnConnection(conn *transport.Conn) error {
	n.peersLock.Lock()
	defer n.peersLock.Unlock()

	if existingPeer := n.peersSet.GetByEd25519Key(conn.PeerKey()); existingPeer != nil {
		if err := existingPeer.ProtoConn.Close(); err != nil {
			log.Network.Warn().Err(err).Msg("failed to close existing peer connection")
		}
		n.peersSet.RemovePeer(existingPeer)
	}

	pConn := n.protocolManager.OnConnection(conn)
	peer := NewPeer(pConn)
	if peer == nil {
		if err := pConn.Close(); err != nil {
			log.Network.Warn().Err(err).Msg("failed to close protocol connection")
		}
		return fmt.Errorf("invalid remote address type")
	}

	n.peersSet.AddPeer(peer)
	return nil
}

// ConnectToPeer initiates a connection to a peer at the specified address.
// It prevents duplicate connections to the same peer.
func (n *Node) ConnectToPeer(addr string) error {
	n.peersLock.RLock()
	existingPeer := n.peersSet.GetByAddress(addr)
	n.peersLock.RUnlock()

	if existingPeer != nil {
		return fmt.Errorf("peer already exists")
	}

	if _, err := n.transport.Connect(addr); err != nil {
		return fmt.Errorf("failed to connect to peer: %w", err)
	}
	return nil
}

// openQueryStream opens a node query stream to the peer with the given key.
func (n *Node) openQueryStream(ctx context.Context, peerKey ed25519.PublicKey) (quic.Stream, error) {
	n.peersLock.RLock()
	peer := n.peersSet.GetByEd25519Key(peerKey)
	n.peersLock.RUnlock()

	if peer == nil {
		return nil, fmt.Errorf("no connection to peer")
	}

	stream, err := peer.ProtoConn.OpenStream(ctx, protocol.StreamKindNodeQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to open stream: %w", err)
	}
	return stream, nil
}

// RequestCurrentSlot asks the given peer for its current slot.
func (n *Node) RequestCurrentSlot(ctx context.Context, peerKey ed25519.PublicKey) (chaintime.Slot, error) {
	stream, err := n.openQueryStream(ctx, peerKey)
	if err != nil {
		return chaintime.Slot{}, err
	}
	return n.queryRequester.CurrentSlot(ctx, stream)
}

// RequestSlotLeaders asks the given peer for the slot leaders of the named
// epoch, or of the peer's current epoch when epoch is nil.
func (n *Node) RequestSlotLeaders(ctx context.Context, peerKey ed25519.PublicKey, epoch *chaintime.Epoch) ([]ed25519.PublicKey, error) {
	stream, err := n.openQueryStream(ctx, peerKey)
	if err != nil {
		return nil, err
	}
	return n.queryRequester.SlotLeaders(ctx, stream, epoch)
}

// RequestIdentity asks the given peer for its public identity key.
func (n *Node) RequestIdentity(ctx context.Context, peerKey ed25519.PublicKey) (ed25519.PublicKey, error) {
	stream, err := n.openQueryStream(ctx, peerKey)
	if err != nil {
		return nil, err
	}
	return n.queryRequester.Identity(ctx, stream)
}

// RequestHeadBlockHash asks the given peer for the hash of its head block.
func (n *Node) RequestHeadBlockHash(ctx context.Context, peerKey ed25519.PublicKey) (crypto.Hash, error) {
	stream, err := n.openQueryStream(ctx, peerKey)
	if err != nil {
		return crypto.Hash{}, err
	}
	return n.queryRequester.HeadBlockHash(ctx, stream)
}

// RequestPendingTransactionCount asks the given peer for its local pending
// transaction count.
func (n *Node) RequestPendingTransactionCount(ctx context.Context, peerKey ed25519.PublicKey) (uint32, error) {
	stream, err := n.openQueryStream(ctx, peerKey)
	if err != nil {
		return 0, err
	}
	return n.queryRequester.PendingTransactionCount(ctx, stream)
}

// RequestSetParticipation toggles the given peer's secret-sharing
// participation flag.
func (n *Node) RequestSetParticipation(ctx context.Context, peerKey ed25519.PublicKey, enable bool) error {
	stream, err := n.openQueryStream(ctx, peerKey)
	if err != nil {
		return err
	}
	return n.queryRequester.SetParticipation(ctx, stream, enable)
}

// RequestSecretShare asks the given peer for its secret-sharing material.
func (n *Node) RequestSecretShare(ctx context.Context, peerKey ed25519.PublicKey) ([]byte, error) {
	stream, err := n.openQueryStream(ctx, peerKey)
	if err != nil {
		return nil, err
	}
	return n.queryRequester.SecretShare(ctx, stream)
}

// RequestSubProtocolStage asks the given peer for its current sub-protocol
// phase.
func (n *Node) RequestSubProtocolStage(ctx context.Context, peerKey ed25519.PublicKey) (ssc.Phase, error) {
	stream, err := n.openQueryStream(ctx, peerKey)
	if err != nil {
		return ssc.PhaseOrdinary, err
	}
	return n.queryRequester.SubProtocolStage(ctx, stream)
}

// Start begins the node's network operations, including listening for
// incoming connections.
func (n *Node) Start() error {
	if err := n.transport.Start(); err != nil {
		return fmt.Errorf("failed to start transport: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the node's network operations and closes all
// peer connections.
func (n *Node) Stop() error {
	n.Cancel()
	return n.transport.Stop()
}

// ValidateConnection verifies that an incoming TLS connection meets the
// protocol requirements, including certificate validation and protocol
// version checking.
func (n *Node) ValidateConnection(tlsState tls.ConnectionState) error {
	return n.protocolManager.ValidateConnection(tlsState)
}

// GetProtocols returns the list of supported protocol
// versions and variants for this node.
func (n *Node) GetProtocols() []string {
	return n.protocolManager.GetProtocols()
}
