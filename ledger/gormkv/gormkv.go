// Package gormkv backs the ledger with a gorm database, one row per
// key in the kv_entries table.
package gormkv

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/riskless-finance/riskless/database/orm"
	"github.com/riskless-finance/riskless/ledger"
)

// DB is a gorm-backed ledger.Database.
type DB struct {
	db *gorm.DB
}

// New wraps db as a ledger database and ensures its schema.
func New(db *gorm.DB) (*DB, error) {
	if err := db.AutoMigrate(&orm.KVEntry{}); err != nil {
		return nil, err
	}

	return &DB{db: db}, nil
}

// Transact implements ledger.Database.
func (d *DB) Transact(ctx context.Context, fn func(ledger.Tx) error) error {
	return d.db.WithContext(ctx).Transaction(func(dbTx *gorm.DB) error {
		return fn(&tx{db: dbTx})
	})
}

// View implements ledger.Database.
func (d *DB) View(ctx context.Context, fn func(ledger.Tx) error) error {
	return d.Transact(ctx, fn)
}

type tx struct {
	db *gorm.DB
}

func (t *tx) Store(instance string) ledger.Store {
	return &store{db: t.db, instance: instance}
}

type store struct {
	db       *gorm.DB
	instance string
}

// Reads lock the row for the enclosing transaction. Daemons sharing
// the database serialize on the keys they touch, so a read-then-write
// in one transaction cannot be overwritten by a concurrent one.
func (s *store) Get(key []byte) ([]byte, error) {
	e := &orm.KVEntry{}
	err := s.db.Model(&orm.KVEntry{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("instance = ? AND `key` = ?", s.instance, key).
		First(e).
		Error
	switch err {
	case gorm.ErrRecordNotFound:
		return nil, ledger.ErrNotFound

	case nil:
		return e.Value, nil

	default:
		return nil, err
	}
}

func (s *store) Has(key []byte) (bool, error) {
	count := int64(0)
	if err := s.db.Model(&orm.KVEntry{}).
		Where("instance = ? AND `key` = ?", s.instance, key).
		Count(&count).
		Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

func (s *store) Put(key, value []byte) error {
	err := s.db.Model(&orm.KVEntry{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("instance = ? AND `key` = ?", s.instance, key).
		First(&orm.KVEntry{}).
		Error
	switch err {
	case gorm.ErrRecordNotFound:
		return s.db.Model(&orm.KVEntry{}).Create(&orm.KVEntry{
			Instance: s.instance,
			Key:      key,
			Value:    value,
		}).Error

	case nil:
		return s.db.Model(&orm.KVEntry{}).
			Where("instance = ? AND `key` = ?", s.instance, key).
			Update("value", value).
			Error

	default:
		return err
	}
}

func (s *store) Delete(key []byte) error {
	return s.db.
		Where("instance = ? AND `key` = ?", s.instance, key).
		Delete(&orm.KVEntry{}).
		Error
}
