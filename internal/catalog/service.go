package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/paintdepot/inkstock-backend/pkg/db/models"
)

// Service wraps catalog reads and the replenishment suggestions built on them.
type Service interface {
	Product(ctx context.Context, productID uuid.UUID) (*models.Product, error)
	ProductByCode(ctx context.Context, code string) (*models.Product, error)
	Supplier(ctx context.Context, supplierID uuid.UUID) (*models.Supplier, error)
	Products(ctx context.Context, filter ProductFilter) ([]models.Product, error)
	// ReplenishmentCandidates lists active products at or below their minimum,
	// each with a suggested order quantity.
	ReplenishmentCandidates(ctx context.Context) ([]ReplenishmentCandidate, error)
}

// ReplenishmentCandidate pairs a low-stock product with the quantity a quick
// request would order for it.
type ReplenishmentCandidate struct {
	Product           models.Product
	SuggestedQuantity int
}

type service struct {
	repo Repository
}

// NewService wires a catalog service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Product(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	return s.repo.FindProduct(ctx, productID)
}

func (s *service) ProductByCode(ctx context.Context, code string) (*models.Product, error) {
	return s.repo.FindProductByCode(ctx, code)
}

func (s *service) Supplier(ctx context.Context, supplierID uuid.UUID) (*models.Supplier, error) {
	return s.repo.FindSupplier(ctx, supplierID)
}

func (s *service) Products(ctx context.Context, filter ProductFilter) ([]models.Product, error) {
	return s.repo.ListProducts(ctx, filter)
}

func (s *service) ReplenishmentCandidates(ctx context.Context) ([]ReplenishmentCandidate, error) {
	products, err := s.repo.ListBelowMinimum(ctx)
	if err != nil {
		return nil, err
	}

	candidates := make([]ReplenishmentCandidate, 0, len(products))
	for _, product := range products {
		candidates = append(candidates, ReplenishmentCandidate{
			Product:           product,
			SuggestedQuantity: SuggestedOrderQuantity(product),
		})
	}
	return candidates, nil
}

// SuggestedOrderQuantity targets twice the minimum so one order covers a full
// replenishment cycle. Always at least one unit.
func SuggestedOrderQuantity(product models.Product) int {
	suggested := 2*product.MinimumQuantity - product.QuantityOnHand
	if suggested < 1 {
		return 1
	}
	return suggested
}
