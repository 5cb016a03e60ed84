// Package node holds the process-local context and state that the query
// gateway projects to external callers: the node's identity, its
// participation in the secret-sharing sub-protocol, the head block and the
// local pending-transaction pool.
package node

import (
	"crypto/ed25519"
	"sync/atomic"
)

// Keys holds the node's long-lived identity key pair, set once at startup.
type Keys struct {
	EdPrv ed25519.PrivateKey
	EdPub ed25519.PublicKey
}

// Context is the immutable identity of this node plus its one piece of
// mutable gateway-owned state: the secret-sharing participation flag.
// The flag is a plain atomic boolean; every toggle is a blind overwrite,
// so concurrent writers need no lock and readers never observe a torn
// value.
type Context struct {
	keys          Keys
	index         uint16
	participation atomic.Bool
}

// NewContext creates a node context with the given identity keys,
// validator index and initial participation setting.
func NewContext(keys Keys, index uint16, participate bool) *Context {
	c := &Context{keys: keys, index: index}
	c.participation.Store(participate)
	return c
}

// Identity returns the node's public identity key.
func (c *Context) Identity() ed25519.PublicKey {
	return c.keys.EdPub
}

// Index returns the node's validator index.
func (c *Context) Index() uint16 {
	return c.index
}

// SetParticipation overwrites the secret-sharing participation flag. The
// new value is visible to all readers as soon as the call returns.
func (c *Context) SetParticipation(enable bool) {
	c.participation.Store(enable)
}

// Participating reports whether the node currently takes part in the
// secret-sharing sub-protocol. The consensus engine polls this each epoch.
func (c *Context) Participating() bool {
	return c.participation.Load()
}
