package stockledger

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/paintdepot/inkstock-backend/pkg/db"
	"github.com/paintdepot/inkstock-backend/pkg/db/models"
	"github.com/paintdepot/inkstock-backend/pkg/enums"
	pkgerrors "github.com/paintdepot/inkstock-backend/pkg/errors"
	"github.com/paintdepot/inkstock-backend/pkg/pagination"
)

// EntryFilter narrows ledger listings.
type EntryFilter struct {
	ProductID *uuid.UUID
	Kind      *enums.LedgerKind
	RequestID *uuid.UUID
	Params    pagination.Params
}

// Repository manages ledger entries and the quantity they mutate. Quantity
// updates are guarded raw statements so concurrent writers can never drive
// stock negative or clobber each other.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateEntry(ctx context.Context, entry *models.StockLedgerEntry) error
	FindProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error)
	AddQuantity(ctx context.Context, productID uuid.UUID, qty int) error
	DeductQuantity(ctx context.Context, productID uuid.UUID, qty int) (bool, error)
	SetQuantity(ctx context.Context, productID uuid.UUID, qty int) error
	UpdateCost(ctx context.Context, productID uuid.UUID, unitCost, discount1, discount2 decimal.Decimal) error
	ListEntries(ctx context.Context, filter EntryFilter) ([]models.StockLedgerEntry, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a ledger repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateEntry(ctx context.Context, entry *models.StockLedgerEntry) error {
	err := r.db.WithContext(ctx).Create(entry).Error
	if db.IsUniqueViolation(err, "idx_ledger_kind_sequence") {
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "ledger sequence already used")
	}
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create ledger entry")
	}
	return nil
}

func (r *repository) FindProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).First(&product, "id = ?", productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: find product")
	}
	return &product, nil
}

func (r *repository) AddQuantity(ctx context.Context, productID uuid.UUID, qty int) error {
	res := r.db.WithContext(ctx).Exec(`
		UPDATE products
		SET quantity_on_hand = quantity_on_hand + ?,
			last_received_at = CURRENT_TIMESTAMP,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, qty, productID)
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "db: add quantity")
	}
	if res.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return nil
}

// DeductQuantity returns false without mutating anything when on-hand stock is
// smaller than qty.
func (r *repository) DeductQuantity(ctx context.Context, productID uuid.UUID, qty int) (bool, error) {
	res := r.db.WithContext(ctx).Exec(`
		UPDATE products
		SET quantity_on_hand = quantity_on_hand - ?,
			last_consumed_at = CURRENT_TIMESTAMP,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND quantity_on_hand >= ?
	`, qty, productID, qty)
	if res.Error != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "db: deduct quantity")
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) SetQuantity(ctx context.Context, productID uuid.UUID, qty int) error {
	res := r.db.WithContext(ctx).Exec(`
		UPDATE products
		SET quantity_on_hand = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, qty, productID)
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "db: set quantity")
	}
	if res.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return nil
}

// UpdateCost records the latest purchase terms on the product so inventory
// valuation tracks the most recent price paid.
func (r *repository) UpdateCost(ctx context.Context, productID uuid.UUID, unitCost, discount1, discount2 decimal.Decimal) error {
	res := r.db.WithContext(ctx).Exec(`
		UPDATE products
		SET unit_cost = ?,
			discount1 = ?,
			discount2 = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, unitCost, discount1, discount2, productID)
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "db: update product cost")
	}
	if res.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return nil
}

func (r *repository) ListEntries(ctx context.Context, filter EntryFilter) ([]models.StockLedgerEntry, error) {
	query := r.db.WithContext(ctx).Model(&models.StockLedgerEntry{})
	if filter.ProductID != nil {
		query = query.Where("product_id = ?", *filter.ProductID)
	}
	if filter.Kind != nil {
		query = query.Where("kind = ?", *filter.Kind)
	}
	if filter.RequestID != nil {
		query = query.Where("request_id = ?", *filter.RequestID)
	}

	cursor, err := pagination.ParseCursor(filter.Params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var entries []models.StockLedgerEntry
	err = query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(pagination.LimitWithBuffer(filter.Params.Limit)).
		Find(&entries).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list ledger entries")
	}
	return entries, nil
}
