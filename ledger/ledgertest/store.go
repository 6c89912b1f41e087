// Package ledgertest provides a plain map-backed store for unit tests
// that exercise a single contract entry point without a database.
package ledgertest

import "github.com/riskless-finance/riskless/ledger"

// Store is a non-transactional ledger.Store.
type Store struct {
	m map[string][]byte
}

// New returns an empty test store.
func New() *Store {
	return &Store{m: make(map[string][]byte)}
}

// Get implements ledger.Store.
func (s *Store) Get(key []byte) ([]byte, error) {
	v, ok := s.m[string(key)]
	if !ok {
		return nil, ledger.ErrNotFound
	}

	return append([]byte(nil), v...), nil
}

// Has implements ledger.Store.
func (s *Store) Has(key []byte) (bool, error) {
	_, ok := s.m[string(key)]
	return ok, nil
}

// Put implements ledger.Store.
func (s *Store) Put(key, value []byte) error {
	s.m[string(key)] = append([]byte(nil), value...)
	return nil
}

// Delete implements ledger.Store.
func (s *Store) Delete(key []byte) error {
	delete(s.m, string(key))
	return nil
}
