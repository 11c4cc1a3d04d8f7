package enums

import "fmt"

// LedgerKind distinguishes the three kinds of stock ledger entries. Each kind
// carries its own monotonically increasing sequence scope.
type LedgerKind string

const (
	LedgerKindReceipt     LedgerKind = "receipt"
	LedgerKindConsumption LedgerKind = "consumption"
	LedgerKindAdjustment  LedgerKind = "adjustment"
)

var validLedgerKinds = []LedgerKind{
	LedgerKindReceipt,
	LedgerKindConsumption,
	LedgerKindAdjustment,
}

// String implements fmt.Stringer.
func (k LedgerKind) String() string {
	return string(k)
}

// IsValid reports whether the value is a known LedgerKind.
func (k LedgerKind) IsValid() bool {
	for _, candidate := range validLedgerKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseLedgerKind converts raw input into a LedgerKind.
func ParseLedgerKind(value string) (LedgerKind, error) {
	for _, candidate := range validLedgerKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid ledger kind %q", value)
}
