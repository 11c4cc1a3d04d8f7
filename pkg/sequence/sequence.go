package sequence

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// Scope names for the counters the core allocates from.
const (
	ScopeReceipt         = "receipt"
	ScopeConsumption     = "consumption"
	ScopeAdjustment      = "adjustment"
	ScopePurchaseRequest = "purchase_request"
)

// Next atomically increments the counter for the given scope and returns the
// new value. The upsert is resolved by the store, so concurrent allocators in
// the same scope can never observe the same value. Must run inside the
// caller's transaction so a rolled-back operation burns at most a gap, never
// a duplicate.
func Next(ctx context.Context, tx *gorm.DB, scope string) (int64, error) {
	if tx == nil {
		return 0, fmt.Errorf("transaction required for sequence allocation")
	}
	if scope == "" {
		return 0, fmt.Errorf("sequence scope required")
	}

	var value int64
	err := tx.WithContext(ctx).Raw(`
		INSERT INTO sequence_counters (name, value)
		VALUES (?, 1)
		ON CONFLICT (name) DO UPDATE SET value = sequence_counters.value + 1
		RETURNING value
	`, scope).Scan(&value).Error
	if err != nil {
		return 0, fmt.Errorf("allocating sequence %q: %w", scope, err)
	}
	return value, nil
}
