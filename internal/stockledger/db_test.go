package stockledger

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/paintdepot/inkstock-backend/pkg/db/models"
)

func setupLedgerTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:stockledger_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	products := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  code TEXT NOT NULL UNIQUE,
  supplier_code TEXT,
  name TEXT NOT NULL,
  color TEXT,
  unit_weight_kg NUMERIC,
  quantity_on_hand INTEGER NOT NULL DEFAULT 0,
  minimum_quantity INTEGER NOT NULL DEFAULT 0,
  unit_cost NUMERIC NOT NULL DEFAULT 0,
  discount1 NUMERIC NOT NULL DEFAULT 0,
  discount2 NUMERIC NOT NULL DEFAULT 0,
  supplier_id TEXT,
  active INTEGER NOT NULL DEFAULT 1,
  discontinued INTEGER NOT NULL DEFAULT 0,
  last_received_at DATETIME,
  last_consumed_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	entries := `
CREATE TABLE IF NOT EXISTS stock_ledger_entries (
  id TEXT PRIMARY KEY,
  kind TEXT NOT NULL,
  sequence INTEGER NOT NULL,
  product_id TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  previous_quantity INTEGER,
  unit_price NUMERIC,
  discount1 NUMERIC NOT NULL DEFAULT 0,
  discount2 NUMERIC NOT NULL DEFAULT 0,
  request_id TEXT,
  destination TEXT,
  delivery_note TEXT,
  invoice_ref TEXT,
  actor_id TEXT NOT NULL,
  actor_name TEXT NOT NULL,
  notes TEXT,
  occurred_at DATETIME NOT NULL,
  created_at DATETIME,
  UNIQUE (kind, sequence)
);`
	counters := `
CREATE TABLE IF NOT EXISTS sequence_counters (
  name TEXT PRIMARY KEY,
  value INTEGER NOT NULL DEFAULT 0
);`

	for _, ddl := range []string{products, entries, counters} {
		require.NoError(t, db.Exec(ddl).Error)
	}
	return db
}

func createTestProduct(t *testing.T, db *gorm.DB, quantity int) *models.Product {
	t.Helper()

	product := &models.Product{
		ID:              uuid.New(),
		Code:            "INK-" + uuid.NewString()[:8],
		Name:            "Process Cyan 5kg",
		QuantityOnHand:  quantity,
		MinimumQuantity: 4,
		UnitCost:        decimal.NewFromFloat(12.50),
		Active:          true,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}
