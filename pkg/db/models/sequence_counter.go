package models

// SequenceCounter backs the store-side atomic counters used for ledger
// sequence numbers and request numbering. Rows are only touched through the
// upsert in pkg/sequence, never read-max-then-insert.
type SequenceCounter struct {
	Name  string `gorm:"column:name;primaryKey"`
	Value int64  `gorm:"column:value;not null;default:0"`
}
