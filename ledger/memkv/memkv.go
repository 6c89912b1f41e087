// Package memkv is an in-memory ledger.Database used by tests. Writes
// are staged per transaction and merged into the base state only when
// the transaction function returns without error.
package memkv

import (
	"context"
	"sync"

	"github.com/riskless-finance/riskless/ledger"
)

// DB is an in-memory transactional key/value database.
type DB struct {
	mu   sync.Mutex
	data map[string]map[string][]byte
}

// New returns an empty in-memory database.
func New() *DB {
	return &DB{data: make(map[string]map[string][]byte)}
}

// Transact runs fn with exclusive access and commits its staged
// writes if fn succeeds.
func (d *DB) Transact(_ context.Context, fn func(ledger.Tx) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	tx := newTx(d.data)
	if err := fn(tx); err != nil {
		return err
	}

	tx.commit(d.data)
	return nil
}

// View runs fn read-only; staged writes are discarded.
func (d *DB) View(_ context.Context, fn func(ledger.Tx) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	return fn(newTx(d.data))
}

type tx struct {
	base   map[string]map[string][]byte
	stores map[string]*store
}

func newTx(base map[string]map[string][]byte) *tx {
	return &tx{
		base:   base,
		stores: make(map[string]*store),
	}
}

func (t *tx) Store(instance string) ledger.Store {
	if s, ok := t.stores[instance]; ok {
		return s
	}

	s := &store{
		base:    t.base[instance],
		writes:  make(map[string][]byte),
		deletes: make(map[string]bool),
	}
	t.stores[instance] = s
	return s
}

func (t *tx) commit(base map[string]map[string][]byte) {
	for instance, s := range t.stores {
		if len(s.writes) == 0 && len(s.deletes) == 0 {
			continue
		}

		m := base[instance]
		if m == nil {
			m = make(map[string][]byte)
			base[instance] = m
		}

		for k, v := range s.writes {
			m[k] = v
		}
		for k := range s.deletes {
			delete(m, k)
		}
	}
}

type store struct {
	base    map[string][]byte
	writes  map[string][]byte
	deletes map[string]bool
}

func (s *store) Get(key []byte) ([]byte, error) {
	k := string(key)
	if s.deletes[k] {
		return nil, ledger.ErrNotFound
	}

	if v, ok := s.writes[k]; ok {
		return append([]byte(nil), v...), nil
	}

	v, ok := s.base[k]
	if !ok {
		return nil, ledger.ErrNotFound
	}

	return append([]byte(nil), v...), nil
}

func (s *store) Has(key []byte) (bool, error) {
	if _, err := s.Get(key); err != nil {
		if err == ledger.ErrNotFound {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

func (s *store) Put(key, value []byte) error {
	k := string(key)
	delete(s.deletes, k)
	s.writes[k] = append([]byte(nil), value...)
	return nil
}

func (s *store) Delete(key []byte) error {
	k := string(key)
	delete(s.writes, k)
	s.deletes[k] = true
	return nil
}
