package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/paintdepot/inkstock-backend/pkg/db/models"
	pkgerrors "github.com/paintdepot/inkstock-backend/pkg/errors"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:catalog_" + uuid.NewString() + "?mode=memory&cache=shared"
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
	suppliers := `
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
);`
	for _, ddl := range []string{products, suppliers} {
		require.NoError(t, db.Exec(ddl).Error)
	}
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, code string, onHand, minimum int, active bool) *models.Product {
	t.Helper()

	product := &models.Product{
		ID:              uuid.New(),
		Code:            code,
		Name:            "Ink " + code,
		QuantityOnHand:  onHand,
		MinimumQuantity: minimum,
		Active:          active,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func TestSuggestedOrderQuantity(t *testing.T) {
	cases := []struct {
		name    string
		onHand  int
		minimum int
		want    int
	}{
		{"well below minimum", 1, 5, 9},
		{"exactly at minimum", 5, 5, 5},
		{"zero stock", 0, 4, 8},
		{"minimum zero", 0, 0, 1},
		{"stock above target", 20, 5, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := SuggestedOrderQuantity(models.Product{QuantityOnHand: tc.onHand, MinimumQuantity: tc.minimum})
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestReplenishmentCandidates(t *testing.T) {
	db := setupCatalogTestDB(t)
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)

	low := seedProduct(t, db, "CY-05", 2, 5, true)
	seedProduct(t, db, "MG-05", 9, 5, true)
	seedProduct(t, db, "YL-05", 1, 5, false)

	candidates, err := svc.ReplenishmentCandidates(context.Background())
	require.NoError(t, err)
	require.Len(t, candidates, 1, "inactive and healthy products must be excluded")
	assert.Equal(t, low.ID, candidates[0].Product.ID)
	assert.Equal(t, 8, candidates[0].SuggestedQuantity)
}

func TestProductLookups(t *testing.T) {
	db := setupCatalogTestDB(t)
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)
	ctx := context.Background()

	product := seedProduct(t, db, "CY-05", 10, 5, true)

	byID, err := svc.Product(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, product.Code, byID.Code)

	byCode, err := svc.ProductByCode(ctx, "CY-05")
	require.NoError(t, err)
	assert.Equal(t, product.ID, byCode.ID)

	_, err = svc.Product(ctx, uuid.New())
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound), "unexpected error: %v", err)
}

func TestInactiveProductPersistsAsInactive(t *testing.T) {
	db := setupCatalogTestDB(t)

	seeded := seedProduct(t, db, "OLD-02", 3, 5, false)

	var stored models.Product
	require.NoError(t, db.First(&stored, "id = ?", seeded.ID).Error)
	assert.False(t, stored.Active, "Active:false must survive the insert")
}

func TestListProductsFilters(t *testing.T) {
	db := setupCatalogTestDB(t)
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)
	ctx := context.Background()

	supplierID := uuid.New()
	cyan := seedProduct(t, db, "CY-05", 10, 5, true)
	require.NoError(t, db.Model(cyan).Update("supplier_id", supplierID).Error)
	seedProduct(t, db, "MG-05", 10, 5, true)
	seedProduct(t, db, "OLD-01", 10, 5, false)

	active, err := svc.Products(ctx, ProductFilter{ActiveOnly: true})
	require.NoError(t, err)
	assert.Len(t, active, 2)

	bySupplier, err := svc.Products(ctx, ProductFilter{SupplierID: &supplierID})
	require.NoError(t, err)
	require.Len(t, bySupplier, 1)
	assert.Equal(t, cyan.ID, bySupplier[0].ID)

	search, err := svc.Products(ctx, ProductFilter{Search: "MG"})
	require.NoError(t, err)
	require.Len(t, search, 1)
	assert.Equal(t, "MG-05", search[0].Code)
}
