package db

import "errors"

// ErrNotFound is returned by Get when the key has no value. Implementations
// map their own not-found conditions to this sentinel so callers never
// depend on a concrete backend.
var ErrNotFound = errors.New("key not found")

// KVStore is the key-value storage interface used by the node's stores.
type KVStore interface {
	Writer
	Get(key []byte) ([]byte, error)
	Delete(key []byte) error
	NewBatch() Batch
	NewIterator(start, end []byte) (Iterator, error)
	Close() error
}

type Writer interface {
	Put(key []byte, value []byte) error
}

// Batch is an atomic batch of write operations. Nothing is visible until
// Commit succeeds.
type Batch interface {
	Writer
	Delete(key []byte) error
	Commit() error
	Close() error
}

// Iterator provides sequential access over a range of key-value pairs.
// Iterators must be closed after use.
type Iterator interface {
	Next() bool
	Key() []byte
	Value() ([]byte, error)
	Valid() bool
	Close() error
}
