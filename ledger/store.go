// Package ledger defines the transactional byte-keyed store the
// contract state machines run against. Every top-level invocation is
// admitted through a Database transaction and either applies all of
// its writes or none of them.
package ledger

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
)

// ErrNotFound is returned when a key has no value in the store.
var ErrNotFound = errors.New("ledger: key not found")

// Store is a key/value view scoped to one contract instance. Writes
// made through a Store obtained from a transaction become visible to
// later reads in the same transaction and are applied atomically on
// commit.
type Store interface {
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)
	Put(key, value []byte) error
	Delete(key []byte) error
}

// Tx hands out per-instance stores inside one transaction.
type Tx interface {
	Store(instance string) Store
}

// Database admits transactions against the underlying storage.
type Database interface {
	// Transact runs fn with read/write access. If fn returns an
	// error, every write it performed is discarded.
	Transact(ctx context.Context, fn func(Tx) error) error

	// View runs fn for reads only.
	View(ctx context.Context, fn func(Tx) error) error
}

// GetJSON reads key and unmarshals its value into v.
func GetJSON(s Store, key []byte, v interface{}) error {
	bz, err := s.Get(key)
	if err != nil {
		return err
	}

	return errors.Wrap(json.Unmarshal(bz, v), "ledger: decode value")
}

// PutJSON marshals v and writes it under key.
func PutJSON(s Store, key []byte, v interface{}) error {
	bz, err := json.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "ledger: encode value")
	}

	return s.Put(key, bz)
}
