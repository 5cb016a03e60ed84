package node

import (
	"sync"

	"github.com/eigerco/bilberry/internal/block"
	"github.com/eigerco/bilberry/internal/crypto"
)

// State is the node's chain-facing state as seen by the gateway: the head
// block header and the pool of locally known pending transactions. Both
// are written by the (external) block import and transaction admission
// paths and read concurrently by request handlers, so every access goes
// through the mutex.
type State struct {
	mu      sync.RWMutex
	head    block.Header
	pending []block.Transaction
}

// NewState creates node state anchored at the given head header,
// typically the genesis header at startup.
func NewState(head block.Header) *State {
	return &State{head: head}
}

// Head returns the current head block header.
func (s *State) Head() block.Header {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.head
}

// HeadBlockHash returns the hash of the current head block header.
func (s *State) HeadBlockHash() crypto.Hash {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.head.Hash()
}

// SetHead replaces the head block header after a block import.
func (s *State) SetHead(head block.Header) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.head = head
}

// AddPendingTransaction admits a transaction into the local pending pool.
func (s *State) AddPendingTransaction(tx block.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append(s.pending, tx)
}

// PendingTransactions returns a snapshot of the pending pool.
func (s *State) PendingTransactions() []block.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]block.Transaction, len(s.pending))
	copy(out, s.pending)
	return out
}

// ClearPending drops all pending transactions, used when a new block
// confirms them.
func (s *State) ClearPending() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = nil
}
