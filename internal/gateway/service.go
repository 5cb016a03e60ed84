// Package gateway is the node's query/control surface: it maps external,
// stateless calls onto reads and a single atomic write of shared node
// state. Consensus, cryptography and replication are collaborators behind
// narrow interfaces; the gateway only validates parameters, disambiguates
// current-vs-named epochs and translates internal outcomes into typed
// failures.
package gateway

import (
	"context"
	"crypto/ed25519"
	"errors"
	"fmt"

	"github.com/eigerco/bilberry/internal/block"
	"github.com/eigerco/bilberry/internal/chaintime"
	"github.com/eigerco/bilberry/internal/crypto"
	"github.com/eigerco/bilberry/internal/ssc"
	"github.com/eigerco/bilberry/internal/store"
)

// SlotOracle reports the current point in consensus time. "Current" is
// re-resolved on every call, never cached by the gateway.
type SlotOracle interface {
	CurrentSlot() chaintime.Slot
}

// LeaderStore is the read side of the consensus engine's leader election:
// the ordered slot-leader sequence per epoch. Absence is signalled with
// store.ErrNotFound.
type LeaderStore interface {
	GetLeaders(epoch chaintime.Epoch) ([]ed25519.PublicKey, error)
}

// NodeContext exposes the node's identity and its secret-sharing
// participation flag.
type NodeContext interface {
	Identity() ed25519.PublicKey
	SetParticipation(enable bool)
	Participating() bool
}

// NodeState exposes the chain-facing state the gateway projects.
type NodeState interface {
	HeadBlockHash() crypto.Hash
	PendingTransactions() []block.Transaction
}

// QueryService is the set of operations the gateway offers to the
// transport layer. Every operation is a single synchronous step; failures
// are either a *NotFoundError, ErrNotImplemented, or a collaborator error
// passed through unchanged.
type QueryService interface {
	CurrentSlot(ctx context.Context) (chaintime.Slot, error)
	SlotLeaders(ctx context.Context, epoch *chaintime.Epoch) ([]ed25519.PublicKey, error)
	Identity(ctx context.Context) (ed25519.PublicKey, error)
	HeadBlockHash(ctx context.Context) (crypto.Hash, error)
	PendingTransactionCount(ctx context.Context) (uint32, error)
	SetParticipation(ctx context.Context, enable bool) error
	SecretShare(ctx context.Context) ([]byte, error)
	SubProtocolStage(ctx context.Context) (ssc.Phase, error)
}

// NewService creates the query gateway. All collaborators are injected so
// every operation's dependencies stay visible and mockable; the windows
// value is this node's protocol parameters, validated once here.
func NewService(oracle SlotOracle, leaders LeaderStore, nodeCtx NodeContext, state NodeState, windows ssc.Windows) (QueryService, error) {
	if err := windows.Validate(); err != nil {
		return nil, fmt.Errorf("invalid sub-protocol windows: %w", err)
	}
	return &queryService{
		oracle:  oracle,
		leaders: leaders,
		nodeCtx: nodeCtx,
		state:   state,
		windows: windows,
	}, nil
}

type queryService struct {
	oracle  SlotOracle
	leaders LeaderStore
	nodeCtx NodeContext
	state   NodeState
	windows ssc.Windows
}

// CurrentSlot returns the slot reported by the oracle at call time.
func (s *queryService) CurrentSlot(ctx context.Context) (chaintime.Slot, error) {
	return s.oracle.CurrentSlot(), nil
}

// SlotLeaders resolves the slot-leader sequence for the named epoch, or
// for the current epoch when epoch is nil. A store miss becomes a
// *NotFoundError carrying the epoch descriptor; any other store failure
// propagates unchanged.
func (s *queryService) SlotLeaders(ctx context.Context, epoch *chaintime.Epoch) ([]ed25519.PublicKey, error) {
	resolved := chaintime.Epoch(0)
	if epoch != nil {
		resolved = *epoch
	} else {
		resolved = s.oracle.CurrentSlot().Epoch
	}

	leaders, err := s.leaders.GetLeaders(resolved)
	if errors.Is(err, store.ErrNotFound) {
		return nil, newLeadersNotFound(epoch)
	}
	if err != nil {
		return nil, err
	}
	return leaders, nil
}

// Identity returns the node's public identity key.
func (s *queryService) Identity(ctx context.Context) (ed25519.PublicKey, error) {
	return s.nodeCtx.Identity(), nil
}

// HeadBlockHash returns the hash of the node's current head block.
func (s *queryService) HeadBlockHash(ctx context.Context) (crypto.Hash, error) {
	return s.state.HeadBlockHash(), nil
}

// PendingTransactionCount returns the number of pending, unconfirmed
// transactions known locally.
func (s *queryService) PendingTransactionCount(ctx context.Context) (uint32, error) {
	return uint32(len(s.state.PendingTransactions())), nil
}

// SetParticipation atomically overwrites the secret-sharing participation
// flag. It never fails; the write is visible to all readers when the call
// returns.
func (s *queryService) SetParticipation(ctx context.Context, enable bool) error {
	s.nodeCtx.SetParticipation(enable)
	return nil
}

// SecretShare would return the node's secret-sharing material. It is a
// deliberate stub and always fails with ErrNotImplemented rather than
// returning a default value.
func (s *queryService) SecretShare(ctx context.Context) ([]byte, error) {
	return nil, fmt.Errorf("secret share retrieval: %w", ErrNotImplemented)
}

// SubProtocolStage classifies the current slot's index into its
// secret-sharing phase.
func (s *queryService) SubProtocolStage(ctx context.Context) (ssc.Phase, error) {
	return s.windows.Classify(s.oracle.CurrentSlot().Index), nil
}
