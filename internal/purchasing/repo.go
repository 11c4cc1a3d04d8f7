package purchasing

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/paintdepot/inkstock-backend/pkg/db/models"
	"github.com/paintdepot/inkstock-backend/pkg/enums"
	pkgerrors "github.com/paintdepot/inkstock-backend/pkg/errors"
	"github.com/paintdepot/inkstock-backend/pkg/pagination"
)

// RequestFilter narrows purchase request listings.
type RequestFilter struct {
	State       *enums.RequestState
	SupplierID  *uuid.UUID
	CreatedByID *uuid.UUID
	Params      pagination.Params
}

// Repository manages purchase request persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, request *models.PurchaseRequest) error
	FindByID(ctx context.Context, requestID uuid.UUID) (*models.PurchaseRequest, error)
	List(ctx context.Context, filter RequestFilter) ([]models.PurchaseRequest, error)
	// UpdateStateGuarded applies updates only while the request is still in
	// fromState, reporting whether the row was won. Losing the race means a
	// concurrent transition got there first.
	UpdateStateGuarded(ctx context.Context, requestID uuid.UUID, fromState enums.RequestState, updates map[string]any) (bool, error)
	UpdateLine(ctx context.Context, line *models.RequestLine) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a purchasing repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, request *models.PurchaseRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *repository) FindByID(ctx context.Context, requestID uuid.UUID) (*models.PurchaseRequest, error) {
	var request models.PurchaseRequest
	err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&request, "id = ?", requestID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "purchase request not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: find purchase request")
	}
	return &request, nil
}

func (r *repository) List(ctx context.Context, filter RequestFilter) ([]models.PurchaseRequest, error) {
	query := r.db.WithContext(ctx).Model(&models.PurchaseRequest{}).Preload("Lines")
	if filter.State != nil {
		query = query.Where("state = ?", *filter.State)
	}
	if filter.SupplierID != nil {
		query = query.Where("supplier_id = ?", *filter.SupplierID)
	}
	if filter.CreatedByID != nil {
		query = query.Where("created_by_id = ?", *filter.CreatedByID)
	}

	cursor, err := pagination.ParseCursor(filter.Params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var requests []models.PurchaseRequest
	err = query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(pagination.LimitWithBuffer(filter.Params.Limit)).
		Find(&requests).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list purchase requests")
	}
	return requests, nil
}

func (r *repository) UpdateStateGuarded(ctx context.Context, requestID uuid.UUID, fromState enums.RequestState, updates map[string]any) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.PurchaseRequest{}).
		Where("id = ? AND state = ?", requestID, fromState).
		Updates(updates)
	if res.Error != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "db: update purchase request state")
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) UpdateLine(ctx context.Context, line *models.RequestLine) error {
	if err := r.db.WithContext(ctx).Save(line).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update request line")
	}
	return nil
}
