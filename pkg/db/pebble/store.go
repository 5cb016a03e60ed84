package pebble

import (
	"errors"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"

	"github.com/eigerco/bilberry/pkg/db"
)

// KVStore implements db.KVStore on top of a pebble database.
type KVStore struct {
	db *pebble.DB
}

// NewKVStore opens an in-memory store, used by tests and throwaway nodes.
func NewKVStore() (*KVStore, error) {
	return open("", &pebble.Options{FS: vfs.NewMem()})
}

// NewPersistentKVStore opens an on-disk store at the given path.
func NewPersistentKVStore(path string) (*KVStore, error) {
	return open(path, &pebble.Options{})
}

func open(path string, opts *pebble.Options) (*KVStore, error) {
	pdb, err := pebble.Open(path, opts)
	if err != nil {
		return nil, err
	}
	return &KVStore{db: pdb}, nil
}

// Get returns the value for the key, or db.ErrNotFound if no value exists.
// The returned slice is a copy and safe to retain.
func (p *KVStore) Get(key []byte) ([]byte, error) {
	value, closer, err := p.db.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, db.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	defer closer.Close() //nolint:errcheck

	result := make([]byte, len(value))
	copy(result, value)
	return result, nil
}

func (p *KVStore) Put(key, value []byte) error {
	return p.db.Set(key, value, pebble.Sync)
}

func (p *KVStore) Delete(key []byte) error {
	return p.db.Delete(key, pebble.Sync)
}

func (p *KVStore) Close() error {
	return p.db.Close()
}
