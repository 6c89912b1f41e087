package memkv

import (
	"context"
	"testing"

	"github.com/pkg/errors"

	"github.com/riskless-finance/riskless/ledger"
)

func TestCommitAndRollback(t *testing.T) {
	ctx := context.Background()
	db := New()

	if err := db.Transact(ctx, func(tx ledger.Tx) error {
		return tx.Store("a").Put([]byte("k"), []byte("v1"))
	}); err != nil {
		t.Fatalf("commit transaction failed: %v", err)
	}

	errBoom := errors.New("boom")
	err := db.Transact(ctx, func(tx ledger.Tx) error {
		if err := tx.Store("a").Put([]byte("k"), []byte("v2")); err != nil {
			return err
		}
		return errBoom
	})
	if err != errBoom {
		t.Fatalf("transact error = %v, want %v", err, errBoom)
	}

	if err := db.View(ctx, func(tx ledger.Tx) error {
		v, err := tx.Store("a").Get([]byte("k"))
		if err != nil {
			return err
		}
		if string(v) != "v1" {
			t.Errorf("value after rollback = %q, want v1", v)
		}
		return nil
	}); err != nil {
		t.Fatalf("view failed: %v", err)
	}
}

func TestInstanceIsolation(t *testing.T) {
	ctx := context.Background()
	db := New()

	if err := db.Transact(ctx, func(tx ledger.Tx) error {
		return tx.Store("a").Put([]byte("k"), []byte("v"))
	}); err != nil {
		t.Fatalf("transact failed: %v", err)
	}

	if err := db.View(ctx, func(tx ledger.Tx) error {
		if _, err := tx.Store("b").Get([]byte("k")); err != ledger.ErrNotFound {
			t.Errorf("cross-instance get error = %v, want ErrNotFound", err)
		}
		return nil
	}); err != nil {
		t.Fatalf("view failed: %v", err)
	}
}

func TestDeleteVisibleInTransaction(t *testing.T) {
	ctx := context.Background()
	db := New()

	if err := db.Transact(ctx, func(tx ledger.Tx) error {
		s := tx.Store("a")
		if err := s.Put([]byte("k"), []byte("v")); err != nil {
			return err
		}
		if err := s.Delete([]byte("k")); err != nil {
			return err
		}
		ok, err := s.Has([]byte("k"))
		if err != nil {
			return err
		}
		if ok {
			t.Error("key still present after delete in same transaction")
		}
		return nil
	}); err != nil {
		t.Fatalf("transact failed: %v", err)
	}
}
