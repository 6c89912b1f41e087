package orm

import "time"

// KVEntry is a gorm table definition represents one ledger key/value
// pair scoped to a contract instance.
type KVEntry struct {
	ID        uint64 `gorm:"primary_key"`
	Instance  string `gorm:"size:80;uniqueIndex:idx_instance_key"`
	Key       []byte `gorm:"size:160;uniqueIndex:idx_instance_key"`
	Value     []byte
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName change default table name
func (KVEntry) TableName() string {
	return "kv_entries"
}
