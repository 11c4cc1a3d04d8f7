package purchasing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/paintdepot/inkstock-backend/pkg/db/models"
)

func setupPurchasingTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:purchasing_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	ddl := []string{`
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
);`, `
CREATE TABLE IF NOT EXISTS suppliers (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  tax_id TEXT UNIQUE,
  email TEXT,
  phone TEXT,
  contact_name TEXT,
  notes TEXT,
  active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS purchase_requests (
  id TEXT PRIMARY KEY,
  number TEXT NOT NULL UNIQUE,
  state TEXT NOT NULL DEFAULT 'pending',
  priority TEXT NOT NULL DEFAULT 'normal',
  supplier_id TEXT,
  created_by_id TEXT NOT NULL,
  created_by_name TEXT NOT NULL,
  rationale TEXT,
  approved_by_id TEXT,
  approved_at DATETIME,
  approval_notes TEXT,
  ordered_at DATETIME,
  supplier_order_ref TEXT,
  estimated_delivery_at DATETIME,
  shipped_at DATETIME,
  tracking_ref TEXT,
  received_at DATETIME,
  received_by_id TEXT,
  receipt_notes TEXT,
  cancelled_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS request_lines (
  id TEXT PRIMARY KEY,
  request_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  quantity_requested INTEGER NOT NULL,
  quantity_approved INTEGER,
  quantity_received INTEGER,
  estimated_price NUMERIC,
  actual_price NUMERIC,
  notes TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS audit_entries (
  id TEXT PRIMARY KEY,
  request_id TEXT NOT NULL,
  state_before TEXT NOT NULL DEFAULT '',
  state_after TEXT NOT NULL,
  actor_id TEXT NOT NULL,
  actor_name TEXT NOT NULL,
  action TEXT NOT NULL,
  notes TEXT,
  occurred_at DATETIME
);`, `
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
);`, `
CREATE TABLE IF NOT EXISTS sequence_counters (
  name TEXT PRIMARY KEY,
  value INTEGER NOT NULL DEFAULT 0
);`}

	for _, stmt := range ddl {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, onHand int, supplierID *uuid.UUID) *models.Product {
	t.Helper()

	product := &models.Product{
		ID:              uuid.New(),
		Code:            "INK-" + uuid.NewString()[:8],
		Name:            "Process Black 5kg",
		QuantityOnHand:  onHand,
		MinimumQuantity: 4,
		UnitCost:        decimal.NewFromFloat(12.50),
		SupplierID:      supplierID,
		Active:          true,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}
